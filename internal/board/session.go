package board

import (
	"sync"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/pkg/core"
)

// DragKind tells what is being dragged.
type DragKind string

const (
	DragMember     DragKind = "member"
	DragAssignment DragKind = "assignment"
)

// Drag is the payload of an in-progress drag.
type Drag struct {
	Kind DragKind

	// Member is set for member drags.
	Member v1.Member

	// Source locates the dragged assignment; Assignment is its value when the
	// drag started and SourceWeek the week cell it was picked up from.
	Source     core.AssignmentRef
	Assignment v1.Assignment
	SourceWeek int
}

// DropTarget is the week cell currently under the pointer.
type DropTarget struct {
	InitiativeID string
	Week         int
}

// Session holds the drag state of one board view. The zero value is an idle
// session. It is safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	drag   *Drag
	target *DropTarget
}

// StartMemberDrag begins dragging a roster member.
func (s *Session) StartMemberDrag(m v1.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = &Drag{Kind: DragMember, Member: m.DeepCopy()}
}

// StartAssignmentDrag begins dragging the assignment at source, picked up
// from sourceWeek.
func (s *Session) StartAssignmentDrag(source core.AssignmentRef, a v1.Assignment, sourceWeek int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = &Drag{
		Kind:       DragAssignment,
		Source:     source,
		Assignment: a.DeepCopy(),
		SourceWeek: sourceWeek,
	}
}

// EndDrag clears the drag and the drop target.
func (s *Session) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = nil
	s.target = nil
}

// Current returns the drag in progress.
func (s *Session) Current() (Drag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return Drag{}, false
	}
	return *s.drag, true
}

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag != nil
}

// SetDropTarget records the hovered cell.
func (s *Session) SetDropTarget(initiativeID string, week int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = &DropTarget{InitiativeID: initiativeID, Week: week}
}

// ClearDropTarget forgets the hovered cell.
func (s *Session) ClearDropTarget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = nil
}

// Target returns the hovered cell.
func (s *Session) Target() (DropTarget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target == nil {
		return DropTarget{}, false
	}
	return *s.target, true
}

// IsDropTarget reports whether the given cell is hovered.
func (s *Session) IsDropTarget(initiativeID string, week int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target != nil && s.target.InitiativeID == initiativeID && s.target.Week == week
}
