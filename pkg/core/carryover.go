package core

import (
	v1 "github.com/capest-planner/capest/api/v1"
)

// CarryOver splits an assignment at the quarter boundary.
type CarryOver struct {
	CarriesOver    bool `json:"carriesOver"`
	InQuarterWeeks int  `json:"inQuarterWeeks"`
	CarriedWeeks   int  `json:"carriedWeeks"`
}

// SplitCarryOver reports how much of a falls inside quarter and how much runs
// past quarter.TotalWeeks. An assignment starting after the quarter ends has
// zero in-quarter weeks and carries all of its weeks.
// CarriedWeeks is WeeksAllocated minus the in-quarter weeks, so such an
// assignment carries exactly WeeksAllocated rather than EndWeek-TotalWeeks.
//
// Nothing is created in the successor quarter; linking initiatives across
// quarters is an operator action (Initiative.CarriesOverTo).
func SplitCarryOver(a v1.Assignment, quarter v1.Quarter) CarryOver {
	if a.EndWeek() <= quarter.TotalWeeks {
		return CarryOver{
			CarriesOver:    false,
			InQuarterWeeks: a.WeeksAllocated,
			CarriedWeeks:   0,
		}
	}

	inQuarter := max(0, quarter.TotalWeeks-a.StartWeek+1)
	return CarryOver{
		CarriesOver:    true,
		InQuarterWeeks: inQuarter,
		CarriedWeeks:   a.WeeksAllocated - inQuarter,
	}
}

// ApplyCarryOver returns a copy of a with its cached carry-over fields
// refreshed from SplitCarryOver.
func ApplyCarryOver(a v1.Assignment, quarter v1.Quarter) v1.Assignment {
	split := SplitCarryOver(a, quarter)
	out := a.DeepCopy()
	carries := split.CarriesOver
	carried := split.CarriedWeeks
	out.CarriesOver = &carries
	out.CarriedWeeks = &carried
	return out
}
