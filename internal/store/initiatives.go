package store

import (
	"context"
	"fmt"
	"slices"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/logging"
	"github.com/capest-planner/capest/pkg/calendar"
	"github.com/capest-planner/capest/pkg/core"
)

// InitiativeInput holds the caller-supplied fields of a new initiative.
type InitiativeInput struct {
	Name             string
	Description      string
	Quarter          string
	RoleRequirements []v1.RoleRequirement
}

// Initiatives returns every initiative in insertion order.
func (r *Repository) Initiatives() []v1.Initiative {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return v1.DeepCopyInitiatives(r.state.Initiatives)
}

// Initiative returns the initiative with the given id.
func (r *Repository) Initiative(id string) (v1.Initiative, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := initiativeIndex(r.state.Initiatives, id); i >= 0 {
		return r.state.Initiatives[i].DeepCopy(), true
	}
	return v1.Initiative{}, false
}

// InitiativesByQuarter returns the initiatives scoped to quarterID.
func (r *Repository) InitiativesByQuarter(quarterID string) []v1.Initiative {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []v1.Initiative{}
	for _, ini := range r.state.Initiatives {
		if ini.Quarter == quarterID {
			out = append(out, ini.DeepCopy())
		}
	}
	return out
}

// InitiativesForMember returns the initiatives holding at least one
// assignment for memberID.
func (r *Repository) InitiativesForMember(memberID string) []v1.Initiative {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []v1.Initiative{}
	for _, ini := range r.state.Initiatives {
		if slices.ContainsFunc(ini.Assignments, func(a v1.Assignment) bool { return a.MemberID == memberID }) {
			out = append(out, ini.DeepCopy())
		}
	}
	return out
}

// AddInitiative appends an initiative with a fresh id, no assignments and no
// carry-over link.
func (r *Repository) AddInitiative(ctx context.Context, in InitiativeInput) (v1.Initiative, error) {
	ini := v1.Initiative{
		ID:               r.newID("initiative"),
		Name:             in.Name,
		Description:      in.Description,
		Quarter:          in.Quarter,
		RoleRequirements: slices.Clone(in.RoleRequirements),
		Assignments:      []v1.Assignment{},
	}
	if ini.RoleRequirements == nil {
		ini.RoleRequirements = []v1.RoleRequirement{}
	}
	if err := ini.Validate(); err != nil {
		return v1.Initiative{}, err
	}

	err := r.mutate(ctx, func(next *State) error {
		for _, req := range ini.RoleRequirements {
			if err := validateRoles(next.Roles, req.Role); err != nil {
				return err
			}
		}
		next.Initiatives = append(next.Initiatives, ini)
		return nil
	}, KeyInitiatives)
	if err != nil {
		return v1.Initiative{}, err
	}

	logging.FromContext(ctx).Info("Added initiative", "id", ini.ID, "name", ini.Name, "quarter", ini.Quarter)
	return ini.DeepCopy(), nil
}

// UpdateInitiative applies update to the initiative with the given id. The id
// cannot be changed. Carry-over caches are refreshed afterwards.
func (r *Repository) UpdateInitiative(ctx context.Context, id string, update func(*v1.Initiative)) error {
	err := r.mutate(ctx, func(next *State) error {
		i := initiativeIndex(next.Initiatives, id)
		if i < 0 {
			return fmt.Errorf("initiative %q: %w", id, ErrNotFound)
		}
		ini := &next.Initiatives[i]
		update(ini)
		ini.ID = id
		if err := ini.Validate(); err != nil {
			return err
		}
		refreshCarryOver(next, ini)
		return nil
	}, KeyInitiatives)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).V(logging.DEBUG).Info("Updated initiative", "id", id)
	return nil
}

// RemoveInitiative strips the initiative from every member's back-references,
// then removes it.
func (r *Repository) RemoveInitiative(ctx context.Context, id string) error {
	err := r.mutate(ctx, func(next *State) error {
		i := initiativeIndex(next.Initiatives, id)
		if i < 0 {
			return fmt.Errorf("initiative %q: %w", id, ErrNotFound)
		}
		for j := range next.Members {
			dropBackRef(&next.Members[j], id)
		}
		next.Initiatives = slices.Delete(next.Initiatives, i, i+1)
		return nil
	}, KeyMembers, KeyInitiatives)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("Removed initiative", "id", id)
	return nil
}

// AddRoleRequirement appends req to the initiative.
func (r *Repository) AddRoleRequirement(ctx context.Context, initiativeID string, req v1.RoleRequirement) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return r.mutate(ctx, func(next *State) error {
		ini, err := findInitiative(next, initiativeID)
		if err != nil {
			return err
		}
		if err := validateRoles(next.Roles, req.Role); err != nil {
			return err
		}
		ini.RoleRequirements = append(ini.RoleRequirements, req)
		return nil
	}, KeyInitiatives)
}

// RemoveRoleRequirement removes the requirement at index.
func (r *Repository) RemoveRoleRequirement(ctx context.Context, initiativeID string, index int) error {
	return r.mutate(ctx, func(next *State) error {
		ini, err := findInitiative(next, initiativeID)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(ini.RoleRequirements) {
			return fmt.Errorf("role requirement %d of %q: %w", index, initiativeID, ErrInvalidIndex)
		}
		ini.RoleRequirements = slices.Delete(ini.RoleRequirements, index, index+1)
		return nil
	}, KeyInitiatives)
}

// AddAssignment appends a to the initiative and records the initiative on
// the member's back-references. It returns the index of the new assignment.
func (r *Repository) AddAssignment(ctx context.Context, initiativeID string, a v1.Assignment) (int, error) {
	if err := a.Validate(); err != nil {
		return -1, err
	}
	index := -1
	err := r.mutate(ctx, func(next *State) error {
		ini, err := findInitiative(next, initiativeID)
		if err != nil {
			return err
		}
		mi := memberIndex(next.Members, a.MemberID)
		if mi < 0 {
			return fmt.Errorf("member %q: %w", a.MemberID, ErrNotFound)
		}
		if err := validateRoles(next.Roles, a.Role); err != nil {
			return err
		}
		ini.Assignments = append(ini.Assignments, a.DeepCopy())
		index = len(ini.Assignments) - 1
		refreshCarryOver(next, ini)
		addBackRef(&next.Members[mi], initiativeID)
		return nil
	}, KeyInitiatives, KeyMembers)
	if err != nil {
		return -1, err
	}

	logging.FromContext(ctx).Info("Added assignment",
		"initiative", initiativeID,
		"member", a.MemberID,
		"role", a.Role,
		"startWeek", a.StartWeek,
		"weeks", a.WeeksAllocated)
	return index, nil
}

// UpdateAssignment applies update to the assignment at index. Changing the
// assignee moves the back-reference accordingly.
func (r *Repository) UpdateAssignment(ctx context.Context, initiativeID string, index int, update func(*v1.Assignment)) error {
	err := r.mutate(ctx, func(next *State) error {
		ini, err := findInitiative(next, initiativeID)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(ini.Assignments) {
			return fmt.Errorf("assignment %d of %q: %w", index, initiativeID, ErrInvalidIndex)
		}
		a := &ini.Assignments[index]
		previous := a.MemberID
		update(a)
		if err := a.Validate(); err != nil {
			return err
		}
		if err := validateRoles(next.Roles, a.Role); err != nil {
			return err
		}
		if a.MemberID != previous {
			mi := memberIndex(next.Members, a.MemberID)
			if mi < 0 {
				return fmt.Errorf("member %q: %w", a.MemberID, ErrNotFound)
			}
			addBackRef(&next.Members[mi], initiativeID)
			releaseBackRef(next, ini, previous)
		}
		refreshCarryOver(next, ini)
		return nil
	}, KeyInitiatives, KeyMembers)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).V(logging.DEBUG).Info("Updated assignment", "initiative", initiativeID, "index", index)
	return nil
}

// RemoveAssignment removes the assignment at index. The member keeps the
// back-reference while they hold another assignment on the initiative.
func (r *Repository) RemoveAssignment(ctx context.Context, initiativeID string, index int) error {
	var memberID string
	err := r.mutate(ctx, func(next *State) error {
		ini, err := findInitiative(next, initiativeID)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(ini.Assignments) {
			return fmt.Errorf("assignment %d of %q: %w", index, initiativeID, ErrInvalidIndex)
		}
		memberID = ini.Assignments[index].MemberID
		ini.Assignments = slices.Delete(ini.Assignments, index, index+1)
		releaseBackRef(next, ini, memberID)
		return nil
	}, KeyInitiatives, KeyMembers)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("Removed assignment", "initiative", initiativeID, "index", index, "member", memberID)
	return nil
}

// SetCarryOver links the initiative to nextQuarterID. An empty id clears the link.
func (r *Repository) SetCarryOver(ctx context.Context, initiativeID, nextQuarterID string) error {
	if nextQuarterID != "" {
		if _, _, err := calendar.ParseQuarterID(nextQuarterID); err != nil {
			return err
		}
	}
	err := r.mutate(ctx, func(next *State) error {
		ini, err := findInitiative(next, initiativeID)
		if err != nil {
			return err
		}
		ini.CarriesOverTo = nextQuarterID
		return nil
	}, KeyInitiatives)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("Set carry-over", "initiative", initiativeID, "to", nextQuarterID)
	return nil
}

func findInitiative(st *State, id string) (*v1.Initiative, error) {
	i := initiativeIndex(st.Initiatives, id)
	if i < 0 {
		return nil, fmt.Errorf("initiative %q: %w", id, ErrNotFound)
	}
	return &st.Initiatives[i], nil
}

// releaseBackRef drops ini from memberID's back-references unless the member
// still holds an assignment on it.
func releaseBackRef(st *State, ini *v1.Initiative, memberID string) {
	if slices.ContainsFunc(ini.Assignments, func(a v1.Assignment) bool { return a.MemberID == memberID }) {
		return
	}
	if mi := memberIndex(st.Members, memberID); mi >= 0 {
		dropBackRef(&st.Members[mi], ini.ID)
	}
}

// refreshCarryOver recomputes the cached carry-over fields of every
// assignment on ini. Initiatives in an unknown quarter are left untouched.
func refreshCarryOver(st *State, ini *v1.Initiative) {
	qi := quarterIndex(st.Quarters, ini.Quarter)
	if qi < 0 {
		return
	}
	for i, a := range ini.Assignments {
		ini.Assignments[i] = core.ApplyCarryOver(a, st.Quarters[qi])
	}
}
