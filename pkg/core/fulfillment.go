package core

import (
	v1 "github.com/capest-planner/capest/api/v1"
)

// Assignee is one assignment contributing to a role requirement.
type Assignee struct {
	MemberID       string `json:"memberId"`
	MemberName     string `json:"memberName,omitempty"`
	WeeksAllocated int    `json:"weeksAllocated"`
}

// RoleFulfillment is the progress of one role requirement.
type RoleFulfillment struct {
	Role     v1.Role `json:"role"`
	Required int     `json:"required"`
	Assigned int     `json:"assigned"`
	// Percentage is 100*Assigned/Required rounded half-up and capped at 100.
	// It is 0 for a zero-effort requirement.
	Percentage int        `json:"percentage"`
	Assignees  []Assignee `json:"assignees"`
}

// Shortfall returns the weeks still missing, or 0 when the role is covered.
func (f RoleFulfillment) Shortfall() int {
	return max(0, f.Required-f.Assigned)
}

// Fulfillment reports one entry per role requirement of initiative, in
// declaration order. Duplicate requirements for the same role each see every
// assignment of that role. members is optional and only used to fill in
// assignee names.
func Fulfillment(initiative v1.Initiative, members []v1.Member) []RoleFulfillment {
	names := memberNames(members)
	out := make([]RoleFulfillment, 0, len(initiative.RoleRequirements))
	for _, req := range initiative.RoleRequirements {
		f := RoleFulfillment{
			Role:      req.Role,
			Required:  req.Effort,
			Assignees: []Assignee{},
		}
		for _, a := range initiative.Assignments {
			if a.Role != req.Role {
				continue
			}
			f.Assigned += a.WeeksAllocated
			f.Assignees = append(f.Assignees, Assignee{
				MemberID:       a.MemberID,
				MemberName:     names[a.MemberID],
				WeeksAllocated: a.WeeksAllocated,
			})
		}
		f.Percentage = fulfillmentPercentage(f.Assigned, f.Required)
		out = append(out, f)
	}
	return out
}

func fulfillmentPercentage(assigned, required int) int {
	if required <= 0 {
		return 0
	}
	pct := (200*assigned + required) / (2 * required)
	return min(100, max(0, pct))
}

// assignedEffort sums the weeks of every assignment performing role.
func assignedEffort(initiative v1.Initiative, role v1.Role) int {
	total := 0
	for _, a := range initiative.Assignments {
		if a.Role == role {
			total += a.WeeksAllocated
		}
	}
	return total
}

func memberNames(members []v1.Member) map[string]string {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	return names
}
