package v1

import (
	"time"

	"github.com/capest-planner/capest/pkg/calendar"
)

// NewQuarter builds the Quarter for quarter n of year.
// It returns calendar.ErrInvalidQuarter when n is outside 1..4.
func NewQuarter(year, n int) (Quarter, error) {
	if err := calendar.CheckQuarter(n); err != nil {
		return Quarter{}, err
	}
	id := calendar.QuarterID(year, n)
	start, end := calendar.DateRange(year, n)
	return Quarter{
		ID:         id,
		Label:      calendar.FormatLabel(id),
		TotalWeeks: calendar.WeeksInQuarter(year, n),
		StartDate:  start,
		EndDate:    end,
	}, nil
}

// CurrentQuarter returns the Quarter containing now.
func CurrentQuarter(now time.Time) Quarter {
	year, n := calendar.QuarterOf(now)
	q, _ := NewQuarter(year, n)
	return q
}
