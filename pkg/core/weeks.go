package core

import (
	"slices"

	v1 "github.com/capest-planner/capest/api/v1"
)

// WeekRange is a closed interval of 1-indexed weeks.
type WeekRange struct {
	Start int
	End   int
}

// NewWeekRange returns the range starting at start and spanning weeks weeks.
func NewWeekRange(start, weeks int) WeekRange {
	return WeekRange{Start: start, End: start + weeks - 1}
}

// RangeOf returns the weeks occupied by an assignment.
func RangeOf(a v1.Assignment) WeekRange {
	return NewWeekRange(a.StartWeek, a.WeeksAllocated)
}

// Len returns the number of weeks in r, or 0 for an empty range.
func (r WeekRange) Len() int {
	return max(0, r.End-r.Start+1)
}

// Empty reports whether r contains no week.
func (r WeekRange) Empty() bool {
	return r.End < r.Start
}

// Contains reports whether week lies inside r.
func (r WeekRange) Contains(week int) bool {
	return week >= r.Start && week <= r.End
}

// Intersect returns the overlap of r and o; ok is false when they are disjoint.
func (r WeekRange) Intersect(o WeekRange) (WeekRange, bool) {
	out := WeekRange{Start: max(r.Start, o.Start), End: min(r.End, o.End)}
	if out.Empty() {
		return WeekRange{}, false
	}
	return out, true
}

// Weeks lists every week of r in ascending order.
func (r WeekRange) Weeks() []int {
	out := make([]int, 0, r.Len())
	for w := r.Start; w <= r.End; w++ {
		out = append(out, w)
	}
	return out
}

// mergeWeeks returns the sorted, de-duplicated union of a and b.
func mergeWeeks(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.Sort(out)
	return slices.Compact(out)
}
