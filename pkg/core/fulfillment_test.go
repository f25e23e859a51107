package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	v1 "github.com/capest-planner/capest/api/v1"
)

func TestFulfillment(t *testing.T) {
	tests := []struct {
		name       string
		initiative v1.Initiative
		want       []RoleFulfillment
	}{
		{
			name: "Test case 1: partially staffed",
			initiative: initiative("i", testQuarterID,
				[]v1.RoleRequirement{{Role: "BE", Effort: 10}},
				assign("member-1", "BE", 1, 4),
				assign("member-2", "BE", 5, 2),
			),
			want: []RoleFulfillment{{
				Role: "BE", Required: 10, Assigned: 6, Percentage: 60,
				Assignees: []Assignee{
					{MemberID: "member-1", MemberName: "John Doe", WeeksAllocated: 4},
					{MemberID: "member-2", MemberName: "Jane Smith", WeeksAllocated: 2},
				},
			}},
		},
		{
			name: "Test case 2: over-staffed is capped at 100",
			initiative: initiative("i", testQuarterID,
				[]v1.RoleRequirement{{Role: "BE", Effort: 10}},
				assign("member-1", "BE", 1, 12),
			),
			want: []RoleFulfillment{{
				Role: "BE", Required: 10, Assigned: 12, Percentage: 100,
				Assignees: []Assignee{{MemberID: "member-1", MemberName: "John Doe", WeeksAllocated: 12}},
			}},
		},
		{
			name: "Test case 3: zero effort reports 0 percent",
			initiative: initiative("i", testQuarterID,
				[]v1.RoleRequirement{{Role: "QA", Effort: 0}},
				assign("member-2", "QA", 1, 3),
			),
			want: []RoleFulfillment{{
				Role: "QA", Required: 0, Assigned: 3, Percentage: 0,
				Assignees: []Assignee{{MemberID: "member-2", MemberName: "Jane Smith", WeeksAllocated: 3}},
			}},
		},
		{
			name: "Test case 4: unknown assignee and unrelated roles",
			initiative: initiative("i", testQuarterID,
				[]v1.RoleRequirement{{Role: "FE", Effort: 3}, {Role: "QA", Effort: 2}},
				assign("ghost", "FE", 1, 1),
				assign("member-1", "BE", 1, 5),
			),
			want: []RoleFulfillment{
				{
					Role: "FE", Required: 3, Assigned: 1, Percentage: 33,
					Assignees: []Assignee{{MemberID: "ghost", WeeksAllocated: 1}},
				},
				{Role: "QA", Required: 2, Assigned: 0, Percentage: 0, Assignees: []Assignee{}},
			},
		},
		{
			name: "Test case 5: rounds half up",
			initiative: initiative("i", testQuarterID,
				[]v1.RoleRequirement{{Role: "BE", Effort: 8}},
				assign("member-1", "BE", 1, 1),
			),
			want: []RoleFulfillment{{
				Role: "BE", Required: 8, Assigned: 1, Percentage: 13,
				Assignees: []Assignee{{MemberID: "member-1", MemberName: "John Doe", WeeksAllocated: 1}},
			}},
		},
		{
			name:       "Test case 6: no requirements",
			initiative: initiative("i", testQuarterID, nil, assign("member-1", "BE", 1, 1)),
			want:       []RoleFulfillment{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fulfillment(tt.initiative, testMembers())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Fulfillment() mismatch (-want +got):\n%s", diff)
			}
			for _, f := range got {
				if f.Percentage < 0 || f.Percentage > 100 {
					t.Errorf("percentage %d out of range", f.Percentage)
				}
			}
		})
	}
}

func TestRoleFulfillmentShortfall(t *testing.T) {
	if got := (RoleFulfillment{Required: 10, Assigned: 6}).Shortfall(); got != 4 {
		t.Errorf("Shortfall() = %d, want 4", got)
	}
	if got := (RoleFulfillment{Required: 10, Assigned: 12}).Shortfall(); got != 0 {
		t.Errorf("Shortfall() = %d, want 0", got)
	}
}
