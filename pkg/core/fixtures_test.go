package core

import (
	"time"

	v1 "github.com/capest-planner/capest/api/v1"
)

const testQuarterID = "Q1-2025"

func testQuarter() v1.Quarter {
	return v1.Quarter{
		ID:         testQuarterID,
		Label:      "2025 Q1",
		TotalWeeks: 13,
		StartDate:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
}

func testMembers() []v1.Member {
	return []v1.Member{
		{ID: "member-1", Name: "John Doe", Roles: []v1.Role{"BE", "FE"}, Availability: 13, AssignedInitiatives: []string{"initiative-1"}},
		{ID: "member-2", Name: "Jane Smith", Roles: []v1.Role{"QA"}, Availability: 10},
	}
}

func testInitiatives() []v1.Initiative {
	return []v1.Initiative{
		{
			ID:      "initiative-1",
			Name:    "Project Alpha",
			Quarter: testQuarterID,
			RoleRequirements: []v1.RoleRequirement{
				{Role: "BE", Effort: 8},
				{Role: "QA", Effort: 4},
			},
			Assignments: []v1.Assignment{
				{MemberID: "member-1", Role: "BE", WeeksAllocated: 8, StartWeek: 1},
			},
		},
	}
}

func assign(member string, role v1.Role, start, weeks int) v1.Assignment {
	return v1.Assignment{MemberID: member, Role: role, StartWeek: start, WeeksAllocated: weeks}
}

func initiative(id, quarter string, reqs []v1.RoleRequirement, assignments ...v1.Assignment) v1.Initiative {
	return v1.Initiative{
		ID:               id,
		Name:             "Initiative " + id,
		Quarter:          quarter,
		RoleRequirements: reqs,
		Assignments:      assignments,
	}
}
