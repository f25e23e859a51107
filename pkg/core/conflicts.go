package core

import (
	v1 "github.com/capest-planner/capest/api/v1"
)

// WholeInitiative is the AssignmentRef.Index value matching every assignment
// of the referenced initiative.
const WholeInitiative = -1

// AssignmentRef identifies an assignment by its initiative and position.
// Assignments are copied across store and UI boundaries, so identity is
// positional rather than by reference.
type AssignmentRef struct {
	InitiativeID string `json:"initiativeId"`
	Index        int    `json:"index"`
}

func (r *AssignmentRef) matches(initiativeID string, index int) bool {
	if r == nil || r.InitiativeID != initiativeID {
		return false
	}
	return r.Index == WholeInitiative || r.Index == index
}

// InitiativeConflict lists the weeks a candidate range shares with one initiative.
type InitiativeConflict struct {
	InitiativeID   string `json:"initiativeId"`
	InitiativeName string `json:"initiativeName"`
	Weeks          []int  `json:"weeks"`
}

// ConflictResult is the outcome of WeekConflicts.
type ConflictResult struct {
	HasConflict bool `json:"hasConflict"`
	// ConflictingWeeks is the ascending union of every overlapping week.
	ConflictingWeeks []int `json:"conflictingWeeks"`
	// Conflicts breaks the overlap down per initiative, in initiative order.
	Conflicts []InitiativeConflict `json:"conflicts"`
}

// WeekConflicts checks the candidate range [startWeek, startWeek+weeksAllocated-1]
// for memberID against the member's other assignments in quarterID.
//
// exclude, when non-nil, skips one assignment (or a whole initiative when its
// Index is WholeInitiative) so that an assignment being edited is not reported
// as conflicting with itself.
func WeekConflicts(
	memberID string,
	startWeek, weeksAllocated int,
	initiatives []v1.Initiative,
	quarterID string,
	exclude *AssignmentRef,
) ConflictResult {
	candidate := NewWeekRange(startWeek, weeksAllocated)
	result := ConflictResult{
		ConflictingWeeks: []int{},
		Conflicts:        []InitiativeConflict{},
	}
	if candidate.Empty() {
		return result
	}

	for _, ini := range initiatives {
		if ini.Quarter != quarterID {
			continue
		}
		var weeks []int
		for idx, a := range ini.Assignments {
			if a.MemberID != memberID || exclude.matches(ini.ID, idx) {
				continue
			}
			overlap, ok := candidate.Intersect(RangeOf(a))
			if !ok {
				continue
			}
			weeks = mergeWeeks(weeks, overlap.Weeks())
		}
		if len(weeks) == 0 {
			continue
		}
		result.Conflicts = append(result.Conflicts, InitiativeConflict{
			InitiativeID:   ini.ID,
			InitiativeName: ini.Name,
			Weeks:          weeks,
		})
		result.ConflictingWeeks = mergeWeeks(result.ConflictingWeeks, weeks)
	}

	result.HasConflict = len(result.Conflicts) > 0
	return result
}
