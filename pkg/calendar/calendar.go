// Package calendar converts between quarter identifiers of the form
// Q<1-4>-<year> and calendar dates.
package calendar

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// MinWeeks is the smallest week count a quarter is ever given.
const MinWeeks = 13

var (
	// ErrInvalidQuarterID is returned for ids that do not match Q<1-4>-<yyyy>.
	ErrInvalidQuarterID = errors.New("invalid quarter id")
	// ErrInvalidQuarter is returned for quarter numbers outside 1..4.
	ErrInvalidQuarter = errors.New("quarter number must be between 1 and 4")

	quarterIDPattern = regexp.MustCompile(`^Q([1-4])-(\d{4})$`)
)

// CheckQuarter returns ErrInvalidQuarter unless 1 <= n <= 4.
func CheckQuarter(n int) error {
	if n < 1 || n > 4 {
		return fmt.Errorf("%w: %d", ErrInvalidQuarter, n)
	}
	return nil
}

// QuarterID formats the id for quarter n of year.
func QuarterID(year, n int) string {
	return fmt.Sprintf("Q%d-%d", n, year)
}

// ParseQuarterID splits an id into its year and quarter number.
func ParseQuarterID(id string) (year, n int, err error) {
	m := quarterIDPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidQuarterID, id)
	}
	n, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	return year, n, nil
}

// NextQuarterID returns the id of the quarter after id.
// An unparsable id is returned unchanged.
func NextQuarterID(id string) string {
	year, n, err := ParseQuarterID(id)
	if err != nil {
		return id
	}
	if n == 4 {
		return QuarterID(year+1, 1)
	}
	return QuarterID(year, n+1)
}

// FormatLabel renders an id for display, e.g. "Q1-2025" -> "2025 Q1".
// An unparsable id is returned unchanged.
func FormatLabel(id string) string {
	year, n, err := ParseQuarterID(id)
	if err != nil {
		return id
	}
	return fmt.Sprintf("%d Q%d", year, n)
}

// CompareIDs orders ids chronologically. Unparsable ids compare equal to
// everything so that a stable sort leaves them in place.
func CompareIDs(a, b string) int {
	ay, an, aerr := ParseQuarterID(a)
	by, bn, berr := ParseQuarterID(b)
	if aerr != nil || berr != nil {
		return 0
	}
	if c := cmp.Compare(ay, by); c != 0 {
		return c
	}
	return cmp.Compare(an, bn)
}

// QuarterOf returns the year and quarter number containing t.
func QuarterOf(t time.Time) (year, n int) {
	return t.Year(), (int(t.Month())-1)/3 + 1
}

// CurrentQuarterID returns the id of the quarter containing now.
func CurrentQuarterID(now time.Time) string {
	return QuarterID(QuarterOf(now))
}

// DateRange returns the first and last calendar day of quarter n of year, in UTC.
func DateRange(year, n int) (start, end time.Time) {
	startMonth := time.Month((n-1)*3 + 1)
	start = time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	// day 0 of the following month is the last day of this quarter
	end = time.Date(year, startMonth+3, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}

// WeeksInQuarter returns the number of planning weeks in quarter n of year,
// never fewer than MinWeeks.
func WeeksInQuarter(year, n int) int {
	start, end := DateRange(year, n)
	days := int(end.Sub(start).Hours() / 24)
	weeks := (days + 6) / 7
	return max(MinWeeks, weeks)
}
