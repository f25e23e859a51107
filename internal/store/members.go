package store

import (
	"context"
	"fmt"
	"slices"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/logging"
)

// MemberInput holds the caller-supplied fields of a new member.
type MemberInput struct {
	Name         string
	Roles        []v1.Role
	Availability int
}

// Members returns the roster in insertion order.
func (r *Repository) Members() []v1.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return v1.DeepCopyMembers(r.state.Members)
}

// Member returns the member with the given id.
func (r *Repository) Member(id string) (v1.Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := memberIndex(r.state.Members, id); i >= 0 {
		return r.state.Members[i].DeepCopy(), true
	}
	return v1.Member{}, false
}

// MembersByRole returns the members declaring role.
func (r *Repository) MembersByRole(role v1.Role) []v1.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []v1.Member{}
	for _, m := range r.state.Members {
		if m.HasRole(role) {
			out = append(out, m.DeepCopy())
		}
	}
	return out
}

// MembersForInitiative returns the members whose back-references include
// initiativeID.
func (r *Repository) MembersForInitiative(initiativeID string) []v1.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []v1.Member{}
	for _, m := range r.state.Members {
		if slices.Contains(m.AssignedInitiatives, initiativeID) {
			out = append(out, m.DeepCopy())
		}
	}
	return out
}

// AddMember appends a member with a fresh id and no initiative references.
func (r *Repository) AddMember(ctx context.Context, in MemberInput) (v1.Member, error) {
	m := v1.Member{
		ID:                  r.newID("member"),
		Name:                in.Name,
		Roles:               slices.Clone(in.Roles),
		Availability:        in.Availability,
		AssignedInitiatives: []string{},
	}
	if m.Roles == nil {
		m.Roles = []v1.Role{}
	}
	if err := m.Validate(); err != nil {
		return v1.Member{}, err
	}

	err := r.mutate(ctx, func(next *State) error {
		if err := validateRoles(next.Roles, m.Roles...); err != nil {
			return err
		}
		next.Members = append(next.Members, m)
		return nil
	}, KeyMembers)
	if err != nil {
		return v1.Member{}, err
	}

	logging.FromContext(ctx).Info("Added member", "id", m.ID, "name", m.Name)
	return m.DeepCopy(), nil
}

// UpdateMember applies update to the member with the given id. The id cannot
// be changed.
func (r *Repository) UpdateMember(ctx context.Context, id string, update func(*v1.Member)) error {
	err := r.mutate(ctx, func(next *State) error {
		i := memberIndex(next.Members, id)
		if i < 0 {
			return fmt.Errorf("member %q: %w", id, ErrNotFound)
		}
		m := &next.Members[i]
		update(m)
		m.ID = id
		if err := m.Validate(); err != nil {
			return err
		}
		return validateRoles(next.Roles, m.Roles...)
	}, KeyMembers)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).V(logging.DEBUG).Info("Updated member", "id", id)
	return nil
}

// RemoveMember removes every assignment of the member from every initiative,
// then removes the member.
func (r *Repository) RemoveMember(ctx context.Context, id string) error {
	removed := 0
	err := r.mutate(ctx, func(next *State) error {
		i := memberIndex(next.Members, id)
		if i < 0 {
			return fmt.Errorf("member %q: %w", id, ErrNotFound)
		}
		for j := range next.Initiatives {
			ini := &next.Initiatives[j]
			before := len(ini.Assignments)
			ini.Assignments = slices.DeleteFunc(ini.Assignments, func(a v1.Assignment) bool {
				return a.MemberID == id
			})
			removed += before - len(ini.Assignments)
		}
		next.Members = slices.Delete(next.Members, i, i+1)
		return nil
	}, KeyInitiatives, KeyMembers)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("Removed member", "id", id, "assignmentsRemoved", removed)
	return nil
}

// AssignToInitiative records initiativeID on the member's back-references.
// Recording an existing reference is a no-op.
func (r *Repository) AssignToInitiative(ctx context.Context, memberID, initiativeID string) error {
	return r.mutate(ctx, func(next *State) error {
		i := memberIndex(next.Members, memberID)
		if i < 0 {
			return fmt.Errorf("member %q: %w", memberID, ErrNotFound)
		}
		addBackRef(&next.Members[i], initiativeID)
		return nil
	}, KeyMembers)
}

// UnassignFromInitiative drops initiativeID from the member's back-references.
func (r *Repository) UnassignFromInitiative(ctx context.Context, memberID, initiativeID string) error {
	return r.mutate(ctx, func(next *State) error {
		i := memberIndex(next.Members, memberID)
		if i < 0 {
			return fmt.Errorf("member %q: %w", memberID, ErrNotFound)
		}
		dropBackRef(&next.Members[i], initiativeID)
		return nil
	}, KeyMembers)
}

func addBackRef(m *v1.Member, initiativeID string) {
	if !slices.Contains(m.AssignedInitiatives, initiativeID) {
		m.AssignedInitiatives = append(m.AssignedInitiatives, initiativeID)
	}
}

func dropBackRef(m *v1.Member, initiativeID string) {
	m.AssignedInitiatives = slices.DeleteFunc(m.AssignedInitiatives, func(id string) bool {
		return id == initiativeID
	})
}
