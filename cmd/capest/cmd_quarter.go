package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/capest-planner/capest/pkg/calendar"
)

func (a *app) quarterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quarter",
		Short: "Manage planning quarters",
	}
	cmd.AddCommand(a.quarterAddCmd(), a.quarterListCmd(), a.quarterRemoveCmd())
	return cmd
}

func (a *app) quarterAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add QUARTER_ID",
		Short: "Add a quarter, e.g. Q1-2026",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, n, err := calendar.ParseQuarterID(strings.ToUpper(args[0]))
			if err != nil {
				return err
			}
			q, err := a.repo.AddQuarter(cmd.Context(), year, n)
			if err != nil {
				return err
			}
			return a.emit(q, func() error {
				return a.printer.Message("Added %s (%d weeks, %s to %s)", q.Label, q.TotalWeeks,
					q.StartDate.Format("2006-01-02"), q.EndDate.Format("2006-01-02"))
			})
		},
	}
}

func (a *app) quarterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List quarters in calendar order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			qs := a.repo.SortedQuarters()
			return a.emit(qs, func() error { return a.printer.Quarters(qs, a.cfg.Quarter) })
		},
	}
}

func (a *app) quarterRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove QUARTER_ID",
		Short: "Remove a quarter; its initiatives are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.ToUpper(args[0])
			if err := a.repo.RemoveQuarter(cmd.Context(), id); err != nil {
				return err
			}
			return a.printer.Message("Removed %s", id)
		},
	}
}
