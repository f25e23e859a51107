package v1

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/capest-planner/capest/pkg/calendar"
)

var (
	errEmptyName     = errors.New("name must not be empty")
	errEmptyMemberID = errors.New("memberId must not be empty")
	errEmptyRole     = errors.New("role must not be empty")
)

// Validate checks the member fields an operator can edit.
func (m Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errEmptyName
	}
	if m.Availability < 0 {
		return fmt.Errorf("availability must be >= 0, got %d", m.Availability)
	}
	for _, r := range m.Roles {
		if r == "" {
			return errEmptyRole
		}
	}
	return nil
}

// Validate checks that the requirement names a role and a non-negative effort.
func (r RoleRequirement) Validate() error {
	if r.Role == "" {
		return errEmptyRole
	}
	if r.Effort < 0 {
		return fmt.Errorf("effort must be >= 0, got %d", r.Effort)
	}
	return nil
}

// Validate rejects degenerate week ranges. A start beyond the quarter end is
// accepted; it is reported as carry-over.
func (a Assignment) Validate() error {
	if a.MemberID == "" {
		return errEmptyMemberID
	}
	if a.Role == "" {
		return errEmptyRole
	}
	if a.WeeksAllocated < 1 {
		return fmt.Errorf("weeksAllocated must be >= 1, got %d", a.WeeksAllocated)
	}
	if a.StartWeek < 1 {
		return fmt.Errorf("startWeek must be >= 1, got %d", a.StartWeek)
	}
	return nil
}

// Validate checks the initiative header and every requirement and assignment.
func (i Initiative) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errEmptyName
	}
	if _, _, err := calendar.ParseQuarterID(i.Quarter); err != nil {
		return err
	}
	for idx, r := range i.RoleRequirements {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("roleRequirements[%d]: %w", idx, err)
		}
	}
	for idx, a := range i.Assignments {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("assignments[%d]: %w", idx, err)
		}
	}
	return nil
}

// Validate checks the quarter id format and the minimum week count.
func (q Quarter) Validate() error {
	if _, _, err := calendar.ParseQuarterID(q.ID); err != nil {
		return err
	}
	if q.TotalWeeks < MinQuarterWeeks {
		return fmt.Errorf("totalWeeks must be >= %d, got %d", MinQuarterWeeks, q.TotalWeeks)
	}
	if !q.StartDate.IsZero() && !q.EndDate.IsZero() && q.EndDate.Before(q.StartDate) {
		return fmt.Errorf("endDate %s is before startDate %s",
			q.EndDate.Format(time.DateOnly), q.StartDate.Format(time.DateOnly))
	}
	return nil
}
