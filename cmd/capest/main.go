/*
Copyright 2025 The capest Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/config"
	"github.com/capest-planner/capest/internal/logging"
	"github.com/capest-planner/capest/internal/report"
	"github.com/capest-planner/capest/internal/store"
)

// app carries what every subcommand needs once PersistentPreRunE has run.
type app struct {
	v       *viper.Viper
	now     func() time.Time
	out     io.Writer
	noColor bool

	cfg     *config.Config
	logger  logr.Logger
	repo    *store.Repository
	printer *report.Printer
}

// flag name -> configuration key
var boundFlags = map[string]string{
	"config":            config.KeyConfigFile,
	"data-dir":          config.KeyDataDir,
	"quarter":           config.KeyQuarter,
	"log-level":         config.KeyLogLevel,
	"development":       config.KeyDevelopment,
	"output":            config.KeyOutput,
	"metrics-namespace": config.KeyMetricsNamespace,
	"storage":           config.KeyStorage,
}

func newRootCmd(out io.Writer, now func() time.Time) *cobra.Command {
	a := &app{v: viper.New(), now: now, out: out, logger: logr.Discard()}
	config.SetDefaults(a.v, now())

	root := &cobra.Command{
		Use:   "capest",
		Short: "Plan team capacity across quarters",
		Long: `capest tracks team members, initiatives and week-level assignments per
quarter, and reports over-allocation, week conflicts, carry-over past the
quarter end and role fulfillment.

Data lives in one JSON file per collection under --data-dir.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logging.Sync(a.logger)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (default $HOME/.capest/config.yaml)")
	flags.String("data-dir", "", "Directory holding the planner data (default $HOME/.capest)")
	flags.StringP("quarter", "q", "", "Quarter to act on, e.g. Q3-2025 (default: current quarter)")
	flags.String("log-level", "", "Log verbosity: info, debug or trace")
	flags.Bool("development", false, "Human-readable console logs")
	flags.StringP("output", "o", "", "Output format: table or json")
	flags.String("metrics-namespace", "", "Prefix for exported metric names (default capest)")
	flags.String("storage", "", "Storage backend: file or memory")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	bindFlags(a.v, flags)

	root.AddCommand(
		a.summaryCmd(),
		a.overAllocatedCmd(),
		a.conflictsCmd(),
		a.carryOverCmd(),
		a.fulfillmentCmd(),
		a.warningsCmd(),
		a.availableCmd(),
		a.weekCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.seedCmd(),
		a.clearCmd(),
		a.memberCmd(),
		a.initiativeCmd(),
		a.assignCmd(),
		a.quarterCmd(),
		a.roleCmd(),
	)
	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for name, key := range boundFlags {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

// setup resolves configuration, builds the logger and opens the repository.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.ReadConfigFile(a.v); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.NewLogger(cfg.Verbosity(), cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	ctx := logging.IntoContext(cmd.Context(), logger)
	cmd.SetContext(ctx)

	var backend store.Backend
	switch cfg.Storage {
	case config.StorageMemory:
		backend = store.NewMemoryBackend()
	default:
		fb, err := store.NewFileBackend(cfg.DataDir)
		if err != nil {
			return err
		}
		backend = fb
	}
	repo, err := store.Open(ctx, backend, store.WithClock(a.now))
	if err != nil {
		return err
	}
	a.repo = repo
	a.printer = report.New(a.out, !a.noColor && report.DetectColor(a.out))

	logger.V(logging.DEBUG).Info("Configuration resolved",
		"dataDir", cfg.DataDir, "quarter", cfg.Quarter, "storage", cfg.Storage, "output", cfg.Output)
	return nil
}

// quarter returns the configured quarter. It must already exist.
func (a *app) quarter() (v1.Quarter, error) {
	q, ok := a.repo.Quarter(a.cfg.Quarter)
	if !ok {
		return v1.Quarter{}, fmt.Errorf("quarter %s is not configured (add it with \"capest quarter add %s\"): %w",
			a.cfg.Quarter, a.cfg.Quarter, store.ErrNotFound)
	}
	return q, nil
}

// emit prints v as JSON when --output=json, otherwise runs table.
func (a *app) emit(v any, table func() error) error {
	if a.cfg.Output == config.OutputJSON {
		return report.JSON(a.out, v)
	}
	return table()
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd(os.Stdout, time.Now).ExecuteContext(ctx)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
