package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	v1 "github.com/capest-planner/capest/api/v1"
)

func TestWeekConflicts(t *testing.T) {
	initiatives := []v1.Initiative{
		initiative("initiative-1", testQuarterID, nil, assign("member-1", "BE", 1, 4)),
		initiative("initiative-2", testQuarterID, nil,
			assign("member-2", "QA", 1, 13),
			assign("member-1", "FE", 9, 2),
		),
		initiative("initiative-3", "Q2-2025", nil, assign("member-1", "BE", 1, 13)),
	}

	tests := []struct {
		name     string
		memberID string
		start    int
		weeks    int
		exclude  *AssignmentRef
		want     ConflictResult
	}{
		{
			name:     "Test case 1: overlapping ranges [1,4] and [3,6]",
			memberID: "member-1",
			start:    3,
			weeks:    4,
			want: ConflictResult{
				HasConflict:      true,
				ConflictingWeeks: []int{3, 4},
				Conflicts: []InitiativeConflict{
					{InitiativeID: "initiative-1", InitiativeName: "Initiative initiative-1", Weeks: []int{3, 4}},
				},
			},
		},
		{
			name:     "Test case 2: adjacent ranges [1,4] and [5,8] do not conflict",
			memberID: "member-1",
			start:    5,
			weeks:    4,
			want:     ConflictResult{ConflictingWeeks: []int{}, Conflicts: []InitiativeConflict{}},
		},
		{
			name:     "Test case 3: conflicts across two initiatives are united",
			memberID: "member-1",
			start:    2,
			weeks:    9,
			want: ConflictResult{
				HasConflict:      true,
				ConflictingWeeks: []int{2, 3, 4, 9, 10},
				Conflicts: []InitiativeConflict{
					{InitiativeID: "initiative-1", InitiativeName: "Initiative initiative-1", Weeks: []int{2, 3, 4}},
					{InitiativeID: "initiative-2", InitiativeName: "Initiative initiative-2", Weeks: []int{9, 10}},
				},
			},
		},
		{
			name:     "Test case 4: excluding the assignment itself",
			memberID: "member-1",
			start:    1,
			weeks:    4,
			exclude:  &AssignmentRef{InitiativeID: "initiative-1", Index: 0},
			want:     ConflictResult{ConflictingWeeks: []int{}, Conflicts: []InitiativeConflict{}},
		},
		{
			name:     "Test case 5: excluding a whole initiative",
			memberID: "member-1",
			start:    1,
			weeks:    13,
			exclude:  &AssignmentRef{InitiativeID: "initiative-2", Index: WholeInitiative},
			want: ConflictResult{
				HasConflict:      true,
				ConflictingWeeks: []int{1, 2, 3, 4},
				Conflicts: []InitiativeConflict{
					{InitiativeID: "initiative-1", InitiativeName: "Initiative initiative-1", Weeks: []int{1, 2, 3, 4}},
				},
			},
		},
		{
			name:     "Test case 6: excluding a different index keeps the conflict",
			memberID: "member-1",
			start:    4,
			weeks:    1,
			exclude:  &AssignmentRef{InitiativeID: "initiative-1", Index: 1},
			want: ConflictResult{
				HasConflict:      true,
				ConflictingWeeks: []int{4},
				Conflicts: []InitiativeConflict{
					{InitiativeID: "initiative-1", InitiativeName: "Initiative initiative-1", Weeks: []int{4}},
				},
			},
		},
		{
			name:     "Test case 7: other members never conflict",
			memberID: "member-3",
			start:    1,
			weeks:    13,
			want:     ConflictResult{ConflictingWeeks: []int{}, Conflicts: []InitiativeConflict{}},
		},
		{
			name:     "Test case 8: empty candidate range",
			memberID: "member-1",
			start:    1,
			weeks:    0,
			want:     ConflictResult{ConflictingWeeks: []int{}, Conflicts: []InitiativeConflict{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekConflicts(tt.memberID, tt.start, tt.weeks, initiatives, testQuarterID, tt.exclude)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("WeekConflicts() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWeekConflictsIsSymmetric(t *testing.T) {
	ranges := [][2]int{{1, 4}, {3, 4}, {5, 4}, {4, 1}, {10, 8}, {13, 1}}
	for _, a := range ranges {
		for _, b := range ranges {
			ia := []v1.Initiative{initiative("a", testQuarterID, nil, assign("m", "BE", a[0], a[1]))}
			ib := []v1.Initiative{initiative("b", testQuarterID, nil, assign("m", "BE", b[0], b[1]))}
			ab := WeekConflicts("m", b[0], b[1], ia, testQuarterID, nil)
			ba := WeekConflicts("m", a[0], a[1], ib, testQuarterID, nil)
			if ab.HasConflict != ba.HasConflict {
				t.Errorf("asymmetric conflict for %v vs %v", a, b)
			}
			if diff := cmp.Diff(ab.ConflictingWeeks, ba.ConflictingWeeks); diff != "" {
				t.Errorf("asymmetric weeks for %v vs %v (-ab +ba):\n%s", a, b, diff)
			}
		}
	}
}

func TestWeekRange(t *testing.T) {
	r := NewWeekRange(3, 4)
	if r.Start != 3 || r.End != 6 || r.Len() != 4 {
		t.Errorf("NewWeekRange(3, 4) = %+v", r)
	}
	if !r.Contains(6) || r.Contains(7) {
		t.Errorf("Contains mismatch for %+v", r)
	}
	if _, ok := r.Intersect(NewWeekRange(7, 2)); ok {
		t.Errorf("disjoint ranges intersected")
	}
	if got, ok := r.Intersect(NewWeekRange(1, 4)); !ok || got != (WeekRange{Start: 3, End: 4}) {
		t.Errorf("Intersect = %+v, %v", got, ok)
	}
	if NewWeekRange(3, 0).Len() != 0 || !NewWeekRange(3, 0).Empty() {
		t.Errorf("zero-length range should be empty")
	}
}
