package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/metrics"
	"github.com/capest-planner/capest/internal/report"
	"github.com/capest-planner/capest/internal/store"
	"github.com/capest-planner/capest/internal/utils/rolematch"
	"github.com/capest-planner/capest/pkg/core"
)

func (a *app) summaryCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Quarter-wide capacity report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := a.quarter()
			if err != nil {
				return err
			}
			switch format {
			case "":
			case "prom":
				families, err := metrics.Gather(metrics.NewCapacityCollector(a.repo, q.ID, a.cfg.MetricsNamespace))
				if err != nil {
					return err
				}
				return metrics.WriteText(a.out, families)
			default:
				return fmt.Errorf("unknown format %q (want prom)", format)
			}

			s := core.QuarterCapacitySummary(a.repo.Members(), a.repo.Initiatives(), q)
			return a.emit(s, func() error { return a.printer.Summary(q, s) })
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Alternative format: prom (Prometheus text exposition)")
	return cmd
}

func (a *app) overAllocatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overallocated",
		Short: "List members allocated beyond their availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := a.quarter()
			if err != nil {
				return err
			}
			over := core.DetectOverAllocation(a.repo.Members(), a.repo.Initiatives(), q.ID)
			return a.emit(over, func() error { return a.printer.OverAllocations(q.ID, over) })
		},
	}
}

// parseRef parses "INITIATIVE" or "INITIATIVE:INDEX".
func parseRef(s string) (core.AssignmentRef, error) {
	id, idx, found := strings.Cut(s, ":")
	if id == "" {
		return core.AssignmentRef{}, fmt.Errorf("invalid assignment reference %q", s)
	}
	if !found {
		return core.AssignmentRef{InitiativeID: id, Index: core.WholeInitiative}, nil
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return core.AssignmentRef{}, fmt.Errorf("invalid assignment index in %q", s)
	}
	return core.AssignmentRef{InitiativeID: id, Index: n}, nil
}

func (a *app) conflictsCmd() *cobra.Command {
	var (
		start, weeks int
		exclude      string
	)
	cmd := &cobra.Command{
		Use:   "conflicts MEMBER_ID",
		Short: "Check a week range against a member's other assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.quarter()
			if err != nil {
				return err
			}
			m, ok := a.repo.Member(args[0])
			if !ok {
				return fmt.Errorf("member %q: %w", args[0], store.ErrNotFound)
			}
			var ex *core.AssignmentRef
			if exclude != "" {
				ref, err := parseRef(exclude)
				if err != nil {
					return err
				}
				ex = &ref
			}
			r := core.WeekConflicts(m.ID, start, weeks, a.repo.Initiatives(), q.ID, ex)
			return a.emit(r, func() error { return a.printer.Conflicts(m.Name, r) })
		},
	}
	cmd.Flags().IntVar(&start, "start", 1, "First week of the range (1-indexed)")
	cmd.Flags().IntVar(&weeks, "weeks", 1, "Length of the range in weeks")
	cmd.Flags().StringVar(&exclude, "exclude", "", "Skip INITIATIVE or INITIATIVE:INDEX")
	return cmd
}

func (a *app) carryOverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "carryover",
		Short: "List assignments that run past the end of the quarter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := a.quarter()
			if err != nil {
				return err
			}
			names := memberNames(a.repo.Members())
			rows := []report.CarryOverRow{}
			for _, ini := range a.repo.InitiativesByQuarter(q.ID) {
				for _, asg := range ini.Assignments {
					split := core.SplitCarryOver(asg, q)
					if !split.CarriesOver {
						continue
					}
					rows = append(rows, report.CarryOverRow{
						Initiative: ini.Name,
						Member:     nameOf(names, asg.MemberID),
						Role:       asg.Role,
						StartWeek:  asg.StartWeek,
						Weeks:      asg.WeeksAllocated,
						Split:      split,
					})
				}
			}
			return a.emit(rows, func() error { return a.printer.CarryOver(q, rows) })
		},
	}
}

// initiativesFor returns the initiatives named in args, or every initiative
// of the configured quarter when args is empty.
func (a *app) initiativesFor(args []string) ([]v1.Initiative, error) {
	if len(args) == 0 {
		q, err := a.quarter()
		if err != nil {
			return nil, err
		}
		return a.repo.InitiativesByQuarter(q.ID), nil
	}
	out := make([]v1.Initiative, 0, len(args))
	for _, id := range args {
		ini, ok := a.repo.Initiative(id)
		if !ok {
			return nil, fmt.Errorf("initiative %q: %w", id, store.ErrNotFound)
		}
		out = append(out, ini)
	}
	return out, nil
}

type initiativeFulfillment struct {
	InitiativeID string                 `json:"initiativeId"`
	Name         string                 `json:"name"`
	Fulfillment  []core.RoleFulfillment `json:"fulfillment"`
}

func (a *app) fulfillmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fulfillment [INITIATIVE_ID...]",
		Short: "Show staffing progress per role requirement",
		RunE: func(cmd *cobra.Command, args []string) error {
			inis, err := a.initiativesFor(args)
			if err != nil {
				return err
			}
			members := a.repo.Members()
			out := make([]initiativeFulfillment, 0, len(inis))
			for _, ini := range inis {
				out = append(out, initiativeFulfillment{ini.ID, ini.Name, core.Fulfillment(ini, members)})
			}
			return a.emit(out, func() error {
				if len(out) == 0 {
					return a.printer.Message("No initiatives.")
				}
				for i, f := range out {
					if err := a.printer.Fulfillment(inis[i], f.Fulfillment); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

type initiativeWarnings struct {
	InitiativeID string                  `json:"initiativeId"`
	Name         string                  `json:"name"`
	Warnings     core.InitiativeWarnings `json:"warnings"`
}

func (a *app) warningsCmd() *cobra.Command {
	var onlyProblems bool
	cmd := &cobra.Command{
		Use:   "warnings [INITIATIVE_ID...]",
		Short: "Show over-capacity members, unfilled roles and week conflicts per initiative",
		RunE: func(cmd *cobra.Command, args []string) error {
			inis, err := a.initiativesFor(args)
			if err != nil {
				return err
			}
			members := a.repo.Members()
			all := a.repo.Initiatives()
			out := []initiativeWarnings{}
			shown := []v1.Initiative{}
			for _, ini := range inis {
				w := core.Warnings(ini, members, all, ini.Quarter)
				if onlyProblems && !w.HasWarnings {
					continue
				}
				out = append(out, initiativeWarnings{ini.ID, ini.Name, w})
				shown = append(shown, ini)
			}
			return a.emit(out, func() error {
				if len(out) == 0 {
					return a.printer.Message("No warnings.")
				}
				for i, w := range out {
					if err := a.printer.Warnings(shown[i], w.Warnings); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&onlyProblems, "only-problems", false, "Hide initiatives without warnings")
	return cmd
}

func (a *app) availableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "available ROLE",
		Short: "Rank members who can perform ROLE by remaining capacity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.quarter()
			if err != nil {
				return err
			}
			role := rolematch.Normalize(args[0])
			cs := core.AvailableMembersForRole(a.repo.Members(), role, a.repo.Initiatives(), q.ID)
			return a.emit(cs, func() error { return a.printer.Candidates(role, cs) })
		},
	}
}

func (a *app) weekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week N",
		Short: "Show every assignment covering week N",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.quarter()
			if err != nil {
				return err
			}
			week, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid week %q: %w", args[0], err)
			}
			was := core.AssignmentsForWeek(a.repo.Initiatives(), q.ID, week)
			return a.emit(was, func() error {
				return a.printer.Week(q.ID, week, was, memberNames(a.repo.Members()))
			})
		},
	}
}

func memberNames(members []v1.Member) map[string]string {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	return names
}

func nameOf(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id
}
