// Package store owns the planning data: members, initiatives, quarters and
// the roles registry. A Repository applies every mutation to a copy of its
// state, persists the affected collections through a Backend, and only then
// makes the copy visible. Cross-collection cascades (removing a member or an
// initiative) are performed here and nowhere else.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	v1 "github.com/capest-planner/capest/api/v1"
)

// Collection keys.
const (
	KeyMembers     = "capest-members"
	KeyInitiatives = "capest-initiatives"
	KeyQuarters    = "capest-quarters"
	KeyRoles       = "capest-roles"
	KeySeeded      = "capest-seeded"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidIndex  = errors.New("index out of range")
	ErrQuarterExists = errors.New("quarter already exists")
	ErrLastQuarter   = errors.New("cannot remove the last quarter")
	ErrUnknownRole   = errors.New("role is not registered")
	ErrDefaultRole   = errors.New("default roles cannot be removed")
	ErrEmptyRole     = errors.New("role must not be empty")
)

// State is the full set of planning data.
type State struct {
	Members     []v1.Member     `json:"members"`
	Initiatives []v1.Initiative `json:"initiatives"`
	Quarters    []v1.Quarter    `json:"quarters"`
	Roles       []v1.Role       `json:"roles"`
}

// DeepCopy returns a copy of s that shares no memory with s.
func (s State) DeepCopy() State {
	return State{
		Members:     v1.DeepCopyMembers(s.Members),
		Initiatives: v1.DeepCopyInitiatives(s.Initiatives),
		Quarters:    slices.Clone(s.Quarters),
		Roles:       slices.Clone(s.Roles),
	}
}

// normalize replaces nil collections with empty ones so that persisted
// documents always hold JSON arrays.
func (s *State) normalize() {
	if s.Members == nil {
		s.Members = []v1.Member{}
	}
	for i := range s.Members {
		if s.Members[i].Roles == nil {
			s.Members[i].Roles = []v1.Role{}
		}
		if s.Members[i].AssignedInitiatives == nil {
			s.Members[i].AssignedInitiatives = []string{}
		}
	}
	if s.Initiatives == nil {
		s.Initiatives = []v1.Initiative{}
	}
	for i := range s.Initiatives {
		if s.Initiatives[i].RoleRequirements == nil {
			s.Initiatives[i].RoleRequirements = []v1.RoleRequirement{}
		}
		if s.Initiatives[i].Assignments == nil {
			s.Initiatives[i].Assignments = []v1.Assignment{}
		}
	}
	if s.Quarters == nil {
		s.Quarters = []v1.Quarter{}
	}
	if s.Roles == nil {
		s.Roles = []v1.Role{}
	}
}

// encode marshals the collection stored under key.
func (s *State) encode(key string) ([]byte, error) {
	switch key {
	case KeyMembers:
		return json.Marshal(s.Members)
	case KeyInitiatives:
		return json.Marshal(s.Initiatives)
	case KeyQuarters:
		return json.Marshal(s.Quarters)
	case KeyRoles:
		return json.Marshal(s.Roles)
	default:
		return nil, fmt.Errorf("unknown collection %q", key)
	}
}

// decode unmarshals data into the collection stored under key.
func (s *State) decode(key string, data []byte) error {
	var err error
	switch key {
	case KeyMembers:
		err = json.Unmarshal(data, &s.Members)
	case KeyInitiatives:
		err = json.Unmarshal(data, &s.Initiatives)
	case KeyQuarters:
		err = json.Unmarshal(data, &s.Quarters)
	case KeyRoles:
		err = json.Unmarshal(data, &s.Roles)
	default:
		return fmt.Errorf("unknown collection %q", key)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", key, err)
	}
	return nil
}

var collectionKeys = []string{KeyMembers, KeyInitiatives, KeyQuarters, KeyRoles}
