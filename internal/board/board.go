// Package board turns drag-and-drop gestures on the capacity board into
// repository mutations. Assignments are addressed by initiative id and
// index, never by value.
package board

import (
	"context"
	"errors"
	"fmt"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/logging"
	"github.com/capest-planner/capest/internal/store"
	"github.com/capest-planner/capest/internal/utils/rolematch"
	"github.com/capest-planner/capest/pkg/core"
)

var (
	// ErrNoDrag is returned when a drop arrives without a drag in progress.
	ErrNoDrag = errors.New("no drag in progress")
	// ErrStaleDrag is returned when the dragged assignment changed since the
	// drag started.
	ErrStaleDrag = errors.New("dragged assignment changed since the drag started")
)

// Repository is the subset of *store.Repository the board mutates.
type Repository interface {
	Member(id string) (v1.Member, bool)
	Initiative(id string) (v1.Initiative, bool)
	Initiatives() []v1.Initiative
	AddAssignment(ctx context.Context, initiativeID string, a v1.Assignment) (int, error)
	UpdateAssignment(ctx context.Context, initiativeID string, index int, update func(*v1.Assignment)) error
	RemoveAssignment(ctx context.Context, initiativeID string, index int) error
}

var _ Repository = (*store.Repository)(nil)

// Board applies drops to a repository.
type Board struct {
	repo Repository
}

// New returns a Board over repo.
func New(repo Repository) *Board {
	return &Board{repo: repo}
}

// DropOnWeek completes the session's drag onto week of initiativeID and ends
// the drag, whether or not the drop succeeds.
func (b *Board) DropOnWeek(ctx context.Context, s *Session, initiativeID string, week int) (core.AssignmentRef, error) {
	drag, ok := s.Current()
	if !ok {
		return core.AssignmentRef{}, ErrNoDrag
	}
	defer s.EndDrag()

	switch drag.Kind {
	case DragMember:
		return b.DropMember(ctx, initiativeID, drag.Member.ID, week, "")
	case DragAssignment:
		current, ok := b.assignmentAt(drag.Source)
		if !ok || !sameAssignment(current, drag.Assignment) {
			return core.AssignmentRef{}, fmt.Errorf("%s[%d]: %w", drag.Source.InitiativeID, drag.Source.Index, ErrStaleDrag)
		}
		return b.MoveAssignment(ctx, drag.Source, initiativeID, week)
	default:
		return core.AssignmentRef{}, fmt.Errorf("unknown drag kind %q", drag.Kind)
	}
}

// DropMember assigns memberID to initiativeID for one week starting at week.
// An empty role is resolved with the default drop role rule.
func (b *Board) DropMember(ctx context.Context, initiativeID, memberID string, week int, role v1.Role) (core.AssignmentRef, error) {
	ini, ok := b.repo.Initiative(initiativeID)
	if !ok {
		return core.AssignmentRef{}, fmt.Errorf("initiative %q: %w", initiativeID, store.ErrNotFound)
	}
	member, ok := b.repo.Member(memberID)
	if !ok {
		return core.AssignmentRef{}, fmt.Errorf("member %q: %w", memberID, store.ErrNotFound)
	}

	if role == "" {
		match := rolematch.DropRole(&member, ini.RoleRequirements)
		if match.Match == rolematch.MatchNone {
			return core.AssignmentRef{}, fmt.Errorf("dropping %s on %s: %w", member.Name, ini.Name, rolematch.ErrNoRole)
		}
		role = match.Role
		logging.FromContext(ctx).V(logging.DEBUG).Info("Resolved drop role",
			"member", member.ID, "role", role, "match", match.Match)
	}

	idx, err := b.repo.AddAssignment(ctx, ini.ID, v1.Assignment{
		MemberID:       member.ID,
		Role:           role,
		WeeksAllocated: 1,
		StartWeek:      week,
		IsParallel:     false,
	})
	if err != nil {
		return core.AssignmentRef{}, err
	}
	return core.AssignmentRef{InitiativeID: ini.ID, Index: idx}, nil
}

// MoveAssignment moves the assignment at from so it starts at week on
// toInitiativeID. Within one initiative the assignment is updated in place;
// across initiatives it is added to the target and then removed from the
// source.
func (b *Board) MoveAssignment(ctx context.Context, from core.AssignmentRef, toInitiativeID string, week int) (core.AssignmentRef, error) {
	a, ok := b.assignmentAt(from)
	if !ok {
		return core.AssignmentRef{}, fmt.Errorf("assignment %d of %q: %w", from.Index, from.InitiativeID, store.ErrInvalidIndex)
	}
	logger := logging.FromContext(ctx)

	if from.InitiativeID == toInitiativeID {
		if err := b.repo.UpdateAssignment(ctx, from.InitiativeID, from.Index, func(a *v1.Assignment) {
			a.StartWeek = week
		}); err != nil {
			return core.AssignmentRef{}, err
		}
		logger.V(logging.DEBUG).Info("Moved assignment within initiative",
			"initiative", from.InitiativeID, "index", from.Index, "week", week)
		return from, nil
	}

	moved := a.DeepCopy()
	moved.StartWeek = week
	idx, err := b.repo.AddAssignment(ctx, toInitiativeID, moved)
	if err != nil {
		return core.AssignmentRef{}, err
	}
	if err := b.repo.RemoveAssignment(ctx, from.InitiativeID, from.Index); err != nil {
		if rbErr := b.repo.RemoveAssignment(ctx, toInitiativeID, idx); rbErr != nil {
			logger.Error(rbErr, "Failed to roll back moved assignment", "initiative", toInitiativeID, "index", idx)
		}
		return core.AssignmentRef{}, err
	}

	logger.V(logging.DEBUG).Info("Moved assignment across initiatives",
		"from", from.InitiativeID, "to", toInitiativeID, "week", week)
	return core.AssignmentRef{InitiativeID: toInitiativeID, Index: idx}, nil
}

// PreviewDrop reports the conflicts the session's drag would create if
// dropped on week of initiativeID. The dragged assignment is excluded so it
// never conflicts with itself.
func (b *Board) PreviewDrop(s *Session, initiativeID string, week int) (core.ConflictResult, error) {
	drag, ok := s.Current()
	if !ok {
		return core.ConflictResult{}, ErrNoDrag
	}
	ini, ok := b.repo.Initiative(initiativeID)
	if !ok {
		return core.ConflictResult{}, fmt.Errorf("initiative %q: %w", initiativeID, store.ErrNotFound)
	}
	all := b.repo.Initiatives()

	switch drag.Kind {
	case DragMember:
		return core.WeekConflicts(drag.Member.ID, week, 1, all, ini.Quarter, nil), nil
	case DragAssignment:
		exclude := drag.Source
		return core.WeekConflicts(drag.Assignment.MemberID, week, drag.Assignment.WeeksAllocated, all, ini.Quarter, &exclude), nil
	default:
		return core.ConflictResult{}, fmt.Errorf("unknown drag kind %q", drag.Kind)
	}
}

func (b *Board) assignmentAt(ref core.AssignmentRef) (v1.Assignment, bool) {
	ini, ok := b.repo.Initiative(ref.InitiativeID)
	if !ok || ref.Index < 0 || ref.Index >= len(ini.Assignments) {
		return v1.Assignment{}, false
	}
	return ini.Assignments[ref.Index], true
}

// sameAssignment compares the fields a user can change; cached carry-over
// values are ignored.
func sameAssignment(a, b v1.Assignment) bool {
	return a.MemberID == b.MemberID &&
		a.Role == b.Role &&
		a.StartWeek == b.StartWeek &&
		a.WeeksAllocated == b.WeeksAllocated &&
		a.IsParallel == b.IsParallel
}
