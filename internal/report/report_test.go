package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/pkg/core"
)

var testQuarter = v1.Quarter{ID: "Q1-2025", Label: "2025 Q1", TotalWeeks: 13}

func testSummary() core.QuarterSummary {
	return core.QuarterSummary{
		QuarterID:      "Q1-2025",
		TotalAvailable: 23,
		TotalAllocated: 15,
		MemberCapacities: []core.MemberCapacity{
			{MemberID: "m1", MemberName: "John Doe", Available: 13, Allocated: 4, Remaining: 9},
			{MemberID: "m2", MemberName: "Jane Smith", Available: 10, Allocated: 11, Remaining: -1, IsOverAllocated: true},
		},
		OverAllocatedMembers: []string{"m2"},
		UnassignedRequirements: []core.UnassignedRequirement{
			{InitiativeID: "i1", InitiativeName: "Project Alpha", Role: "QA", Effort: 4},
		},
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).Summary(testQuarter, testSummary()))

	out := buf.String()
	assert.Contains(t, out, "2025 Q1 (Q1-2025, 13 weeks)")
	assert.Contains(t, out, "Available 23  Allocated 15  Utilization 65%")
	assert.Contains(t, out, "Jane Smith")
	assert.Contains(t, out, "Over-allocated: Jane Smith")
	assert.Contains(t, out, "Project Alpha")
	assert.NotContains(t, out, "\x1b[", "no escape sequences without color")
}

func TestSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	s := core.QuarterSummary{QuarterID: "Q1-2025"}
	require.NoError(t, New(&buf, false).Summary(testQuarter, s))

	out := buf.String()
	assert.Contains(t, out, "Utilization 0%")
	assert.Contains(t, out, "No members.")
	assert.Contains(t, out, "All role requirements are staffed.")
}

func TestColorKeepsVisibleText(t *testing.T) {
	var plain, colored bytes.Buffer
	require.NoError(t, New(&plain, false).Summary(testQuarter, testSummary()))
	require.NoError(t, New(&colored, true).Summary(testQuarter, testSummary()))

	assert.Contains(t, colored.String(), "\x1b[")
	assert.Equal(t, plain.String(), ansi.Strip(colored.String()))
}

func TestFulfillment(t *testing.T) {
	ini := v1.Initiative{ID: "i1", Name: "Project Alpha"}
	fs := []core.RoleFulfillment{
		{Role: "BE", Required: 8, Assigned: 8, Percentage: 100,
			Assignees: []core.Assignee{{MemberID: "m1", MemberName: "John Doe", WeeksAllocated: 8}}},
		{Role: "QA", Required: 4, Assigned: 0, Percentage: 0, Assignees: []core.Assignee{}},
	}
	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).Fulfillment(ini, fs))

	out := buf.String()
	assert.Contains(t, out, "8/8")
	assert.Contains(t, out, "██████████ 100%")
	assert.Contains(t, out, "░░░░░░░░░░   0%")
	assert.Contains(t, out, "John Doe (8)")
}

func TestWarnings(t *testing.T) {
	ini := v1.Initiative{ID: "i1", Name: "Project Alpha"}

	tests := []struct {
		name     string
		warnings core.InitiativeWarnings
		want     []string
	}{
		{
			name:     "Test case 1: Clean initiative",
			warnings: core.InitiativeWarnings{},
			want:     []string{"No warnings."},
		},
		{
			name: "Test case 2: Every kind of warning",
			warnings: core.InitiativeWarnings{
				HasWarnings:         true,
				OverCapacityMembers: []string{"Jane Smith"},
				UnfilledRoles:       []core.UnfilledRole{{Role: "QA", Required: 4, Assigned: 1}},
				WeekConflicts: []core.MemberConflicts{{
					MemberID: "m1", MemberName: "John Doe",
					Conflicts: []core.InitiativeConflict{{InitiativeID: "i2", InitiativeName: "Beta", Weeks: []int{2, 3}}},
				}},
			},
			want: []string{"Over capacity: Jane Smith", "Unfilled roles", "Week conflicts", "Beta", "2, 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, New(&buf, false).Warnings(ini, tt.warnings))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestConflicts(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	require.NoError(t, p.Conflicts("John Doe", core.ConflictResult{}))
	assert.Contains(t, buf.String(), "No conflicts for John Doe.")

	buf.Reset()
	require.NoError(t, p.Conflicts("John Doe", core.ConflictResult{
		HasConflict:      true,
		ConflictingWeeks: []int{4, 5},
		Conflicts:        []core.InitiativeConflict{{InitiativeID: "i1", InitiativeName: "Alpha", Weeks: []int{4, 5}}},
	}))
	assert.Contains(t, buf.String(), "John Doe is already booked in weeks 4, 5")
}

func TestCarryOver(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	require.NoError(t, p.CarryOver(testQuarter, nil))
	assert.Contains(t, buf.String(), "Nothing carries over past week 13 of Q1-2025.")

	buf.Reset()
	require.NoError(t, p.CarryOver(testQuarter, []CarryOverRow{{
		Initiative: "Alpha", Member: "John Doe", Role: "BE", StartWeek: 10, Weeks: 8,
		Split: core.CarryOver{CarriesOver: true, InQuarterWeeks: 4, CarriedWeeks: 4},
	}}))
	assert.Contains(t, buf.String(), "10-17")
}

func TestWeek(t *testing.T) {
	var buf bytes.Buffer
	was := []core.WeekAssignment{{
		InitiativeID: "i1", InitiativeName: "Alpha", Index: 0,
		Assignment: v1.Assignment{MemberID: "m1", Role: "BE", StartWeek: 1, WeeksAllocated: 8},
	}, {
		InitiativeID: "i1", InitiativeName: "Alpha", Index: 1,
		Assignment: v1.Assignment{MemberID: "ghost", Role: "QA", StartWeek: 2, WeeksAllocated: 2},
	}}
	require.NoError(t, New(&buf, false).Week("Q1-2025", 2, was, map[string]string{"m1": "John Doe"}))

	out := buf.String()
	assert.Contains(t, out, "Week 2 of Q1-2025")
	assert.Contains(t, out, "John Doe")
	assert.Contains(t, out, "ghost")
	assert.Contains(t, out, "1-8")
}

func TestRoles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).Roles([]v1.Role{"BE", "DEVOPS"}))

	lines := strings.Split(buf.String(), "\n")
	var found bool
	for _, l := range lines {
		if strings.Contains(l, "DEVOPS") {
			found = true
			assert.Contains(t, l, "custom")
		}
	}
	assert.True(t, found)
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, testSummary()))

	var got core.QuarterSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 23, got.TotalAvailable)
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \""))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(5, 0))
	assert.Equal(t, 65, percent(15, 23))
	assert.Equal(t, 50, percent(1, 2))
	assert.Equal(t, 33, percent(1, 3))
	assert.Equal(t, 67, percent(2, 3))
}
