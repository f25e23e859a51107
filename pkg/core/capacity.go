package core

import (
	v1 "github.com/capest-planner/capest/api/v1"
)

// MemberCapacity is a member's load in one quarter.
type MemberCapacity struct {
	MemberID        string `json:"memberId"`
	MemberName      string `json:"memberName"`
	Available       int    `json:"available"`
	Allocated       int    `json:"allocated"`
	Remaining       int    `json:"remaining"`
	IsOverAllocated bool   `json:"isOverAllocated"`
}

// OverAllocation reports how far a member is beyond availability.
type OverAllocation struct {
	MemberID    string `json:"memberId"`
	MemberName  string `json:"memberName"`
	ExcessWeeks int    `json:"excessWeeks"`
}

// WeekAssignment locates an assignment covering a given week.
type WeekAssignment struct {
	InitiativeID   string        `json:"initiativeId"`
	InitiativeName string        `json:"initiativeName"`
	Index          int           `json:"index"`
	Assignment     v1.Assignment `json:"assignment"`
}

// MemberQuarterCapacity sums the weeks allocated to member across every
// initiative in quarterID. Initiatives from other quarters are ignored.
func MemberQuarterCapacity(member v1.Member, initiatives []v1.Initiative, quarterID string) MemberCapacity {
	allocated := 0
	for _, ini := range initiatives {
		if ini.Quarter != quarterID {
			continue
		}
		for _, a := range ini.Assignments {
			if a.MemberID == member.ID {
				allocated += a.WeeksAllocated
			}
		}
	}

	remaining := member.Availability - allocated
	return MemberCapacity{
		MemberID:        member.ID,
		MemberName:      member.Name,
		Available:       member.Availability,
		Allocated:       allocated,
		Remaining:       remaining,
		IsOverAllocated: remaining < 0,
	}
}

// DetectOverAllocation lists members whose allocation exceeds availability,
// in input order.
func DetectOverAllocation(members []v1.Member, initiatives []v1.Initiative, quarterID string) []OverAllocation {
	out := []OverAllocation{}
	for _, m := range members {
		c := MemberQuarterCapacity(m, initiatives, quarterID)
		if c.Remaining < 0 {
			out = append(out, OverAllocation{
				MemberID:    m.ID,
				MemberName:  m.Name,
				ExcessWeeks: -c.Remaining,
			})
		}
	}
	return out
}

// AssignmentsForWeek returns every assignment in quarterID whose week range
// covers week, in initiative then assignment order.
func AssignmentsForWeek(initiatives []v1.Initiative, quarterID string, week int) []WeekAssignment {
	out := []WeekAssignment{}
	for _, ini := range initiatives {
		if ini.Quarter != quarterID {
			continue
		}
		for idx, a := range ini.Assignments {
			if RangeOf(a).Contains(week) {
				out = append(out, WeekAssignment{
					InitiativeID:   ini.ID,
					InitiativeName: ini.Name,
					Index:          idx,
					Assignment:     a.DeepCopy(),
				})
			}
		}
	}
	return out
}
