package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/board"
	"github.com/capest-planner/capest/internal/config"
	"github.com/capest-planner/capest/internal/logging"
	"github.com/capest-planner/capest/internal/store"
	"github.com/capest-planner/capest/internal/utils/rolematch"
	"github.com/capest-planner/capest/pkg/core"
)

// placement is the JSON result of commands that create or move an assignment.
type placement struct {
	Ref       core.AssignmentRef  `json:"ref"`
	Conflicts core.ConflictResult `json:"conflicts"`
	Applied   bool                `json:"applied"`
}

func (a *app) assignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Place members on initiatives week by week",
	}
	cmd.AddCommand(a.assignAddCmd(), a.assignDropCmd(), a.assignMoveCmd(), a.assignRemoveCmd())
	return cmd
}

// warnConflicts prints conflicts in table mode. Conflicts never block a
// placement; they are reported so the operator can fix them.
func (a *app) warnConflicts(memberName string, r core.ConflictResult) error {
	if !r.HasConflict || a.cfg.Output == config.OutputJSON {
		return nil
	}
	return a.printer.Conflicts(memberName, r)
}

func (a *app) lookup(initiativeID, memberID string) (v1.Initiative, v1.Member, error) {
	ini, ok := a.repo.Initiative(initiativeID)
	if !ok {
		return v1.Initiative{}, v1.Member{}, fmt.Errorf("initiative %q: %w", initiativeID, store.ErrNotFound)
	}
	m, ok := a.repo.Member(memberID)
	if !ok {
		return v1.Initiative{}, v1.Member{}, fmt.Errorf("member %q: %w", memberID, store.ErrNotFound)
	}
	return ini, m, nil
}

func (a *app) assignAddCmd() *cobra.Command {
	var (
		start, weeks int
		role         string
		parallel     bool
	)
	cmd := &cobra.Command{
		Use:   "add INITIATIVE_ID MEMBER_ID",
		Short: "Assign a member to an initiative for a range of weeks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ini, m, err := a.lookup(args[0], args[1])
			if err != nil {
				return err
			}

			r := rolematch.Normalize(role)
			if r == "" {
				match := rolematch.DropRole(&m, ini.RoleRequirements)
				if match.Match == rolematch.MatchNone {
					return fmt.Errorf("no role for %s on %s, pass --role: %w", m.Name, ini.Name, rolematch.ErrNoRole)
				}
				r = match.Role
				logging.FromContext(ctx).V(logging.DEBUG).Info("Resolved assignment role", "role", r, "match", match.Match)
			}

			conflicts := core.WeekConflicts(m.ID, start, weeks, a.repo.Initiatives(), ini.Quarter, nil)
			idx, err := a.repo.AddAssignment(ctx, ini.ID, v1.Assignment{
				MemberID:       m.ID,
				Role:           r,
				WeeksAllocated: weeks,
				StartWeek:      start,
				IsParallel:     parallel,
			})
			if err != nil {
				return err
			}
			ref := core.AssignmentRef{InitiativeID: ini.ID, Index: idx}
			return a.emit(placement{Ref: ref, Conflicts: conflicts, Applied: true}, func() error {
				if err := a.warnConflicts(m.Name, conflicts); err != nil {
					return err
				}
				return a.printer.Message("Assigned %s to %s as %s, weeks %d-%d (#%d)",
					m.Name, ini.Name, r, start, start+weeks-1, idx)
			})
		},
	}
	cmd.Flags().IntVar(&start, "start", 1, "First week (1-indexed)")
	cmd.Flags().IntVar(&weeks, "weeks", 1, "Number of weeks")
	cmd.Flags().StringVar(&role, "role", "", "Role to perform (default: first requirement the member can fill)")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Mark the assignment as running in parallel with other work")
	return cmd
}

func (a *app) assignDropCmd() *cobra.Command {
	var (
		week int
		role string
	)
	cmd := &cobra.Command{
		Use:   "drop INITIATIVE_ID MEMBER_ID",
		Short: "Drop a member on one week of an initiative, as the board does",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ini, m, err := a.lookup(args[0], args[1])
			if err != nil {
				return err
			}
			b := board.New(a.repo)
			var s board.Session
			s.StartMemberDrag(m)
			s.SetDropTarget(ini.ID, week)

			conflicts, err := b.PreviewDrop(&s, ini.ID, week)
			if err != nil {
				return err
			}
			var ref core.AssignmentRef
			if role != "" {
				s.EndDrag()
				ref, err = b.DropMember(cmd.Context(), ini.ID, m.ID, week, rolematch.Normalize(role))
			} else {
				ref, err = b.DropOnWeek(cmd.Context(), &s, ini.ID, week)
			}
			if err != nil {
				return err
			}
			return a.emit(placement{Ref: ref, Conflicts: conflicts, Applied: true}, func() error {
				if err := a.warnConflicts(m.Name, conflicts); err != nil {
					return err
				}
				return a.printer.Message("Dropped %s on %s week %d (#%d)", m.Name, ini.Name, week, ref.Index)
			})
		},
	}
	cmd.Flags().IntVar(&week, "week", 1, "Week to drop on")
	cmd.Flags().StringVar(&role, "role", "", "Role to perform (default: first requirement the member can fill)")
	return cmd
}

func (a *app) assignMoveCmd() *cobra.Command {
	var (
		to     string
		week   int
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "move INITIATIVE_ID:INDEX",
		Short: "Move an assignment to another week or initiative",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseRef(args[0])
			if err != nil {
				return err
			}
			if from.Index == core.WholeInitiative {
				return fmt.Errorf("move needs INITIATIVE_ID:INDEX, got %q", args[0])
			}
			ini, ok := a.repo.Initiative(from.InitiativeID)
			if !ok {
				return fmt.Errorf("initiative %q: %w", from.InitiativeID, store.ErrNotFound)
			}
			if from.Index >= len(ini.Assignments) {
				return fmt.Errorf("assignment %d of %q: %w", from.Index, ini.ID, store.ErrInvalidIndex)
			}
			asg := ini.Assignments[from.Index]
			if to == "" {
				to = ini.ID
			}

			b := board.New(a.repo)
			var s board.Session
			s.StartAssignmentDrag(from, asg, asg.StartWeek)
			s.SetDropTarget(to, week)
			conflicts, err := b.PreviewDrop(&s, to, week)
			if err != nil {
				return err
			}

			name := nameOf(memberNames(a.repo.Members()), asg.MemberID)
			if dryRun {
				s.EndDrag()
				return a.emit(placement{Ref: from, Conflicts: conflicts}, func() error {
					if !conflicts.HasConflict {
						return a.printer.Message("Moving %s to week %d is conflict-free", name, week)
					}
					return a.printer.Conflicts(name, conflicts)
				})
			}

			ref, err := b.DropOnWeek(cmd.Context(), &s, to, week)
			if err != nil {
				return err
			}
			return a.emit(placement{Ref: ref, Conflicts: conflicts, Applied: true}, func() error {
				if err := a.warnConflicts(name, conflicts); err != nil {
					return err
				}
				return a.printer.Message("Moved %s to %s week %d (#%d)", name, ref.InitiativeID, week, ref.Index)
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target initiative (default: the same initiative)")
	cmd.Flags().IntVar(&week, "week", 1, "New start week")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only report the conflicts the move would create")
	_ = cmd.MarkFlagRequired("week")
	return cmd
}

func (a *app) assignRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove INITIATIVE_ID INDEX",
		Short: "Remove the assignment at INDEX",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}
			if err := a.repo.RemoveAssignment(cmd.Context(), args[0], idx); err != nil {
				return err
			}
			return a.printer.Message("Removed assignment %d from %s", idx, args[0])
		},
	}
}
