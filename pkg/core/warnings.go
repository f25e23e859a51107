package core

import (
	v1 "github.com/capest-planner/capest/api/v1"
)

// UnfilledRole is a requirement whose assigned effort is below the required effort.
type UnfilledRole struct {
	Role     v1.Role `json:"role"`
	Required int     `json:"required"`
	Assigned int     `json:"assigned"`
}

// MemberConflicts groups the clashes of one member's assignments on an
// initiative with the member's other initiatives.
type MemberConflicts struct {
	MemberID   string               `json:"memberId"`
	MemberName string               `json:"memberName"`
	Conflicts  []InitiativeConflict `json:"conflicts"`
}

// InitiativeWarnings collects everything that needs attention on one initiative.
type InitiativeWarnings struct {
	HasWarnings bool `json:"hasWarnings"`
	// OverCapacityMembers holds the names of over-allocated assignees, once each.
	OverCapacityMembers []string          `json:"overCapacityMembers"`
	UnfilledRoles       []UnfilledRole    `json:"unfilledRoles"`
	WeekConflicts       []MemberConflicts `json:"weekConflicts"`
}

// unfilledRoles applies the same shortfall rule as the quarter summary.
func unfilledRoles(initiative v1.Initiative) []UnfilledRole {
	out := []UnfilledRole{}
	for _, req := range initiative.RoleRequirements {
		assigned := assignedEffort(initiative, req.Role)
		if assigned < req.Effort {
			out = append(out, UnfilledRole{
				Role:     req.Role,
				Required: req.Effort,
				Assigned: assigned,
			})
		}
	}
	return out
}

// Warnings evaluates initiative against the rest of the quarter:
// over-allocated assignees, clashes with each assignee's other initiatives,
// and role requirements that are not fully staffed. Assignments referencing
// a member missing from members are skipped for the member-based checks.
func Warnings(initiative v1.Initiative, members []v1.Member, allInitiatives []v1.Initiative, quarterID string) InitiativeWarnings {
	byID := make(map[string]v1.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	w := InitiativeWarnings{
		OverCapacityMembers: []string{},
		UnfilledRoles:       unfilledRoles(initiative),
		WeekConflicts:       []MemberConflicts{},
	}

	overChecked := map[string]bool{}
	conflictIdx := map[string]int{}
	exclude := &AssignmentRef{InitiativeID: initiative.ID, Index: WholeInitiative}

	for _, a := range initiative.Assignments {
		member, ok := byID[a.MemberID]
		if !ok {
			continue
		}

		if !overChecked[member.ID] {
			overChecked[member.ID] = true
			if MemberQuarterCapacity(member, allInitiatives, quarterID).IsOverAllocated {
				w.OverCapacityMembers = append(w.OverCapacityMembers, member.Name)
			}
		}

		res := WeekConflicts(member.ID, a.StartWeek, a.WeeksAllocated, allInitiatives, quarterID, exclude)
		if !res.HasConflict {
			continue
		}
		i, seen := conflictIdx[member.ID]
		if !seen {
			conflictIdx[member.ID] = len(w.WeekConflicts)
			w.WeekConflicts = append(w.WeekConflicts, MemberConflicts{
				MemberID:   member.ID,
				MemberName: member.Name,
				Conflicts:  res.Conflicts,
			})
			continue
		}
		w.WeekConflicts[i].Conflicts = mergeConflicts(w.WeekConflicts[i].Conflicts, res.Conflicts)
	}

	w.HasWarnings = len(w.OverCapacityMembers) > 0 || len(w.UnfilledRoles) > 0 || len(w.WeekConflicts) > 0
	return w
}

// mergeConflicts folds extra into base, uniting weeks per initiative and
// appending initiatives not yet present.
func mergeConflicts(base, extra []InitiativeConflict) []InitiativeConflict {
	for _, e := range extra {
		merged := false
		for i := range base {
			if base[i].InitiativeID == e.InitiativeID {
				base[i].Weeks = mergeWeeks(base[i].Weeks, e.Weeks)
				merged = true
				break
			}
		}
		if !merged {
			base = append(base, e)
		}
	}
	return base
}
