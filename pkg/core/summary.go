package core

import (
	"cmp"
	"slices"

	v1 "github.com/capest-planner/capest/api/v1"
)

// UnassignedRequirement is the unstaffed remainder of one role requirement.
type UnassignedRequirement struct {
	InitiativeID   string  `json:"initiativeId"`
	InitiativeName string  `json:"initiativeName"`
	Role           v1.Role `json:"role"`
	// Effort is the shortfall, not the original requirement.
	Effort int `json:"effort"`
}

// QuarterSummary is the quarter-wide capacity report.
type QuarterSummary struct {
	QuarterID              string                  `json:"quarterId"`
	TotalAvailable         int                     `json:"totalAvailable"`
	TotalAllocated         int                     `json:"totalAllocated"`
	MemberCapacities       []MemberCapacity        `json:"memberCapacities"`
	OverAllocatedMembers   []string                `json:"overAllocatedMembers"`
	UnassignedRequirements []UnassignedRequirement `json:"unassignedRequirements"`
}

// Candidate is a member who can perform a role, with their current load.
type Candidate struct {
	Member            v1.Member `json:"member"`
	CurrentAllocation int       `json:"currentAllocation"`
	RemainingCapacity int       `json:"remainingCapacity"`
}

// QuarterCapacitySummary evaluates every member and every initiative of
// quarter. TotalAllocated is summed from the per-member results.
func QuarterCapacitySummary(members []v1.Member, initiatives []v1.Initiative, quarter v1.Quarter) QuarterSummary {
	s := QuarterSummary{
		QuarterID:              quarter.ID,
		MemberCapacities:       make([]MemberCapacity, 0, len(members)),
		OverAllocatedMembers:   []string{},
		UnassignedRequirements: []UnassignedRequirement{},
	}

	for _, m := range members {
		c := MemberQuarterCapacity(m, initiatives, quarter.ID)
		s.MemberCapacities = append(s.MemberCapacities, c)
		s.TotalAvailable += m.Availability
		s.TotalAllocated += c.Allocated
		if c.IsOverAllocated {
			s.OverAllocatedMembers = append(s.OverAllocatedMembers, c.MemberID)
		}
	}

	for _, ini := range initiatives {
		if ini.Quarter != quarter.ID {
			continue
		}
		for _, u := range unfilledRoles(ini) {
			s.UnassignedRequirements = append(s.UnassignedRequirements, UnassignedRequirement{
				InitiativeID:   ini.ID,
				InitiativeName: ini.Name,
				Role:           u.Role,
				Effort:         u.Required - u.Assigned,
			})
		}
	}
	return s
}

// AvailableMembersForRole ranks the members able to perform role by remaining
// capacity, most room first. Ties keep roster order.
func AvailableMembersForRole(members []v1.Member, role v1.Role, initiatives []v1.Initiative, quarterID string) []Candidate {
	out := []Candidate{}
	for _, m := range members {
		if !m.HasRole(role) {
			continue
		}
		c := MemberQuarterCapacity(m, initiatives, quarterID)
		out = append(out, Candidate{
			Member:            m.DeepCopy(),
			CurrentAllocation: c.Allocated,
			RemainingCapacity: c.Remaining,
		})
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		return cmp.Compare(b.RemainingCapacity, a.RemainingCapacity)
	})
	return out
}
