package store

import (
	"context"
	"fmt"
	"slices"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/logging"
	"github.com/capest-planner/capest/pkg/calendar"
)

// Quarters returns every configured quarter in insertion order.
func (r *Repository) Quarters() []v1.Quarter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.state.Quarters)
}

// Quarter returns the quarter with the given id.
func (r *Repository) Quarter(id string) (v1.Quarter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := quarterIndex(r.state.Quarters, id); i >= 0 {
		return r.state.Quarters[i], true
	}
	return v1.Quarter{}, false
}

// SortedQuarters returns the quarters in chronological order.
func (r *Repository) SortedQuarters() []v1.Quarter {
	out := r.Quarters()
	slices.SortStableFunc(out, func(a, b v1.Quarter) int {
		return calendar.CompareIDs(a.ID, b.ID)
	})
	return out
}

// CurrentQuarter returns the configured quarter containing today, or the
// first configured quarter when today's quarter is not configured.
func (r *Repository) CurrentQuarter() v1.Quarter {
	id := calendar.CurrentQuarterID(r.now())
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := quarterIndex(r.state.Quarters, id); i >= 0 {
		return r.state.Quarters[i]
	}
	if len(r.state.Quarters) > 0 {
		return r.state.Quarters[0]
	}
	return v1.CurrentQuarter(r.now())
}

// AddQuarter configures quarter n of year.
func (r *Repository) AddQuarter(ctx context.Context, year, n int) (v1.Quarter, error) {
	q, err := v1.NewQuarter(year, n)
	if err != nil {
		return v1.Quarter{}, err
	}
	err = r.mutate(ctx, func(next *State) error {
		if quarterIndex(next.Quarters, q.ID) >= 0 {
			return fmt.Errorf("quarter %s: %w", q.ID, ErrQuarterExists)
		}
		next.Quarters = append(next.Quarters, q)
		return nil
	}, KeyQuarters)
	if err != nil {
		return v1.Quarter{}, err
	}
	logging.FromContext(ctx).Info("Added quarter", "id", q.ID, "weeks", q.TotalWeeks)
	return q, nil
}

// RemoveQuarter removes a quarter. The last remaining quarter cannot be removed.
// Initiatives scoped to the quarter are kept.
func (r *Repository) RemoveQuarter(ctx context.Context, id string) error {
	err := r.mutate(ctx, func(next *State) error {
		if len(next.Quarters) <= 1 {
			return ErrLastQuarter
		}
		i := quarterIndex(next.Quarters, id)
		if i < 0 {
			return fmt.Errorf("quarter %q: %w", id, ErrNotFound)
		}
		next.Quarters = slices.Delete(next.Quarters, i, i+1)
		return nil
	}, KeyQuarters)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("Removed quarter", "id", id)
	return nil
}

// UpdateQuarter applies update to the quarter with the given id. The id
// cannot be changed. Carry-over caches of the quarter's initiatives are
// refreshed when the week count changes.
func (r *Repository) UpdateQuarter(ctx context.Context, id string, update func(*v1.Quarter)) error {
	return r.mutate(ctx, func(next *State) error {
		i := quarterIndex(next.Quarters, id)
		if i < 0 {
			return fmt.Errorf("quarter %q: %w", id, ErrNotFound)
		}
		q := &next.Quarters[i]
		update(q)
		q.ID = id
		if err := q.Validate(); err != nil {
			return err
		}
		for j := range next.Initiatives {
			if next.Initiatives[j].Quarter == id {
				refreshCarryOver(next, &next.Initiatives[j])
			}
		}
		return nil
	}, KeyQuarters, KeyInitiatives)
}

// GetOrCreateQuarter returns the quarter with the given id, configuring it
// first when it does not exist yet.
func (r *Repository) GetOrCreateQuarter(ctx context.Context, id string) (v1.Quarter, error) {
	if q, ok := r.Quarter(id); ok {
		return q, nil
	}
	year, n, err := calendar.ParseQuarterID(id)
	if err != nil {
		return v1.Quarter{}, err
	}
	q, err := r.AddQuarter(ctx, year, n)
	if err != nil {
		// lost a race with another writer
		if existing, ok := r.Quarter(id); ok {
			return existing, nil
		}
		return v1.Quarter{}, fmt.Errorf("creating quarter %s: %w", id, err)
	}
	return q, nil
}
