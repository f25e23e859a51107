package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/capest-planner/capest/internal/seed"
	"github.com/capest-planner/capest/internal/transfer"
)

func (a *app) exportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection to a JSON export document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc := transfer.Export(a.repo.Snapshot(), a.now())
			if file == "-" {
				return transfer.Write(a.out, doc)
			}
			if file == "" {
				file = transfer.Filename(a.now())
			}

			var buf bytes.Buffer
			if err := transfer.Write(&buf, doc); err != nil {
				return err
			}
			if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", file, err)
			}
			p := transfer.Preview(doc.State())
			return a.printer.Message("Exported %d members, %d initiatives, %d quarters, %d roles to %s",
				p.Members, p.Initiatives, p.Quarters, p.Roles, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Destination file, - for stdout (default capest-planner-export-<date>.json)")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all planning data with an export document",
		Long: `Replace all planning data with an export document. The document is
validated in full first; nothing changes if it is malformed. Use - to read
from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading import: %w", err)
			}

			if dryRun {
				doc, err := transfer.Parse(data)
				if err != nil {
					return err
				}
				p := transfer.Preview(doc.State())
				return a.emit(p, func() error {
					return a.printer.Message("Would import %d members, %d initiatives, %d quarters, %d roles",
						p.Members, p.Initiatives, p.Quarters, p.Roles)
				})
			}

			res, err := transfer.Import(cmd.Context(), a.repo, data)
			if err != nil {
				var verr *transfer.ValidationError
				if errors.As(err, &verr) {
					return errors.New(verr.Message)
				}
				return err
			}
			return a.emit(res, func() error { return a.printer.Message("%s", res.Message()) })
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and count without changing anything")
	return cmd
}

func (a *app) seedCmd() *cobra.Command {
	var fixture string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo members and initiatives into an empty planner",
		Long: `Load demo members and initiatives into the configured quarter. Seeding
happens once: it is skipped when it already ran or the roster is not empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := seed.New(a.repo)
			if fixture != "" {
				data, err := os.ReadFile(fixture)
				if err != nil {
					return fmt.Errorf("reading fixture: %w", err)
				}
				f, err := seed.ParseFixture(data)
				if err != nil {
					return err
				}
				s = s.WithFixture(f)
			}

			res, err := s.Run(cmd.Context(), a.cfg.Quarter)
			if err != nil {
				return err
			}
			return a.emit(res, func() error {
				if !res.Seeded {
					return a.printer.Message("Seed skipped: %s", res.Skipped)
				}
				return a.printer.Message("Seeded %s with %d members, %d initiatives, %d assignments",
					res.Quarter, res.Members, res.Initiatives, res.Assignments)
			})
		},
	}
	cmd.Flags().StringVar(&fixture, "fixture", "", "YAML fixture to load instead of the built-in demo data")
	return cmd
}

func (a *app) clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all members and initiatives and reset quarters and roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to clear all planning data without --yes")
			}
			if err := a.repo.ClearAll(cmd.Context()); err != nil {
				return err
			}
			return a.printer.Message("Cleared all planning data")
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm clearing all data")
	return cmd
}
