package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/store"
	"github.com/capest-planner/capest/internal/utils/rolematch"
	"github.com/capest-planner/capest/pkg/calendar"
)

// parseRequirement parses "ROLE=EFFORT".
func parseRequirement(s string) (v1.RoleRequirement, error) {
	role, effort, ok := strings.Cut(s, "=")
	if !ok {
		return v1.RoleRequirement{}, fmt.Errorf("invalid requirement %q (want ROLE=WEEKS)", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(effort))
	if err != nil {
		return v1.RoleRequirement{}, fmt.Errorf("invalid effort in requirement %q: %w", s, err)
	}
	req := v1.RoleRequirement{Role: rolematch.Normalize(role), Effort: n}
	return req, req.Validate()
}

func (a *app) initiativeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "initiative",
		Aliases: []string{"ini"},
		Short:   "Manage initiatives and their role requirements",
	}
	cmd.AddCommand(
		a.initiativeAddCmd(),
		a.initiativeListCmd(),
		a.initiativeRemoveCmd(),
		a.initiativeCarryCmd(),
		a.initiativeRequireCmd(),
		a.initiativeUnrequireCmd(),
	)
	return cmd
}

func (a *app) initiativeAddCmd() *cobra.Command {
	var (
		description  string
		requirements []string
	)
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an initiative to the configured quarter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.quarter()
			if err != nil {
				return err
			}
			reqs := make([]v1.RoleRequirement, 0, len(requirements))
			for _, s := range requirements {
				req, err := parseRequirement(s)
				if err != nil {
					return err
				}
				reqs = append(reqs, req)
			}
			ini, err := a.repo.AddInitiative(cmd.Context(), store.InitiativeInput{
				Name:             strings.Join(args, " "),
				Description:      description,
				Quarter:          q.ID,
				RoleRequirements: reqs,
			})
			if err != nil {
				return err
			}
			return a.emit(ini, func() error { return a.printer.Message("Added %s (%s) to %s", ini.Name, ini.ID, q.ID) })
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	cmd.Flags().StringArrayVar(&requirements, "require", nil, "Role requirement ROLE=WEEKS, repeatable")
	return cmd
}

func (a *app) initiativeListCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the configured quarter's initiatives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inis := a.repo.Initiatives()
			if !all {
				inis = a.repo.InitiativesByQuarter(a.cfg.Quarter)
			}
			return a.emit(inis, func() error { return a.printer.Initiatives(inis) })
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include every quarter")
	return cmd
}

func (a *app) initiativeRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an initiative",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.repo.RemoveInitiative(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.printer.Message("Removed %s", args[0])
		},
	}
}

func (a *app) initiativeCarryCmd() *cobra.Command {
	var unlink bool
	cmd := &cobra.Command{
		Use:   "carry ID [QUARTER]",
		Short: "Mark an initiative as continuing into QUARTER (default: the next quarter)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ini, ok := a.repo.Initiative(args[0])
			if !ok {
				return fmt.Errorf("initiative %q: %w", args[0], store.ErrNotFound)
			}
			next := ""
			if !unlink {
				next = calendar.NextQuarterID(ini.Quarter)
				if len(args) == 2 {
					next = strings.ToUpper(args[1])
				}
			}
			if err := a.repo.SetCarryOver(cmd.Context(), ini.ID, next); err != nil {
				return err
			}
			if next == "" {
				return a.printer.Message("%s no longer carries over", ini.Name)
			}
			return a.printer.Message("%s carries over to %s", ini.Name, next)
		},
	}
	cmd.Flags().BoolVar(&unlink, "clear", false, "Remove the carry-over link")
	return cmd
}

func (a *app) initiativeRequireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "require ID ROLE=WEEKS",
		Short: "Add a role requirement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseRequirement(args[1])
			if err != nil {
				return err
			}
			if err := a.repo.AddRoleRequirement(cmd.Context(), args[0], req); err != nil {
				return err
			}
			return a.printer.Message("Added %s %d to %s", req.Role, req.Effort, args[0])
		},
	}
}

func (a *app) initiativeUnrequireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unrequire ID INDEX",
		Short: "Remove the role requirement at INDEX",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}
			if err := a.repo.RemoveRoleRequirement(cmd.Context(), args[0], idx); err != nil {
				return err
			}
			return a.printer.Message("Removed requirement %d from %s", idx, args[0])
		},
	}
}
