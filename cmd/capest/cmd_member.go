package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/store"
	"github.com/capest-planner/capest/internal/utils/rolematch"
)

func parseRoles(in []string) []v1.Role {
	out := make([]v1.Role, 0, len(in))
	for _, r := range in {
		if role := rolematch.Normalize(r); role != "" {
			out = append(out, role)
		}
	}
	return out
}

func (a *app) memberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage the roster",
	}
	cmd.AddCommand(a.memberAddCmd(), a.memberListCmd(), a.memberUpdateCmd(), a.memberRemoveCmd())
	return cmd
}

func (a *app) memberAddCmd() *cobra.Command {
	var (
		roles        []string
		availability int
	)
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a member",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.repo.AddMember(cmd.Context(), store.MemberInput{
				Name:         strings.Join(args, " "),
				Roles:        parseRoles(roles),
				Availability: availability,
			})
			if err != nil {
				return err
			}
			return a.emit(m, func() error { return a.printer.Message("Added %s (%s)", m.Name, m.ID) })
		},
	}
	cmd.Flags().StringSliceVar(&roles, "roles", nil, "Roles the member can perform, e.g. BE,FE")
	cmd.Flags().IntVar(&availability, "availability", v1.MinQuarterWeeks, "Weeks available per quarter")
	_ = cmd.MarkFlagRequired("roles")
	return cmd
}

func (a *app) memberListCmd() *cobra.Command {
	var (
		role       string
		initiative string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ms []v1.Member
			switch {
			case role != "":
				ms = a.repo.MembersByRole(rolematch.Normalize(role))
			case initiative != "":
				ms = a.repo.MembersForInitiative(initiative)
			default:
				ms = a.repo.Members()
			}
			return a.emit(ms, func() error { return a.printer.Members(ms) })
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "Only members who can perform this role")
	cmd.Flags().StringVar(&initiative, "initiative", "", "Only members referencing this initiative")
	cmd.MarkFlagsMutuallyExclusive("role", "initiative")
	return cmd
}

func (a *app) memberUpdateCmd() *cobra.Command {
	var (
		name         string
		roles        []string
		availability int
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a member's name, roles or availability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			err := a.repo.UpdateMember(cmd.Context(), args[0], func(m *v1.Member) {
				if flags.Changed("name") {
					m.Name = name
				}
				if flags.Changed("roles") {
					m.Roles = parseRoles(roles)
				}
				if flags.Changed("availability") {
					m.Availability = availability
				}
			})
			if err != nil {
				return err
			}
			return a.printer.Message("Updated %s", args[0])
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringSliceVar(&roles, "roles", nil, "Replacement role list")
	cmd.Flags().IntVar(&availability, "availability", 0, "Weeks available per quarter")
	return cmd
}

func (a *app) memberRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a member and all of their assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := a.repo.Member(args[0])
			if !ok {
				return fmt.Errorf("member %q: %w", args[0], store.ErrNotFound)
			}
			if err := a.repo.RemoveMember(cmd.Context(), m.ID); err != nil {
				return err
			}
			return a.printer.Message("Removed %s", m.Name)
		},
	}
}
