package main

import (
	"github.com/spf13/cobra"

	"github.com/capest-planner/capest/internal/utils/rolematch"
)

func (a *app) roleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage the roles registry",
	}
	cmd.AddCommand(a.roleAddCmd(), a.roleListCmd(), a.roleRemoveCmd(), a.roleResetCmd())
	return cmd
}

func (a *app) roleAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add ROLE",
		Short: "Register a role tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := a.repo.AddRole(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printer.Message("Registered %s", role)
		},
	}
}

func (a *app) roleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roles := a.repo.Roles()
			return a.emit(roles, func() error { return a.printer.Roles(roles) })
		},
	}
}

func (a *app) roleRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ROLE",
		Short: "Unregister a custom role; members keep it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := rolematch.Normalize(args[0])
			if err := a.repo.RemoveRole(cmd.Context(), role); err != nil {
				return err
			}
			return a.printer.Message("Removed %s", role)
		},
	}
}

func (a *app) roleResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.repo.ResetRoles(cmd.Context()); err != nil {
				return err
			}
			return a.printer.Message("Roles reset to defaults")
		},
	}
}
