/*
Copyright 2025 The capest Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package v1 defines the persisted shapes of the planner collections.
// Field names match the JSON documents written by the store and the
// import/export layer.
package v1

import (
	"slices"
	"time"
)

// Role is an opaque staffing tag such as "BE" or "QA".
// The engine compares roles for equality only; membership in the allowed
// set is checked by the roles registry.
type Role string

// DefaultRoles are the roles every registry starts with and cannot lose.
var DefaultRoles = []Role{"BE", "FE", "MOBILE", "QA"}

// IsDefaultRole reports whether role is one of DefaultRoles.
func IsDefaultRole(role Role) bool {
	return slices.Contains(DefaultRoles, role)
}

// Member is a person on the roster.
type Member struct {
	// ID is an opaque stable identifier (e.g. "member-<uuid>").
	ID string `json:"id"`

	// Name is the member's display name.
	Name string `json:"name"`

	// Roles the member can perform. Treated as a set for matching;
	// duplicates are tolerated.
	Roles []Role `json:"roles"`

	// Availability is the number of weeks the member can work in a quarter.
	Availability int `json:"availability"`

	// AssignedInitiatives is an informational back-reference maintained by the
	// store. The initiative's assignment list is authoritative.
	AssignedInitiatives []string `json:"assignedInitiatives"`
}

// HasRole reports whether role is among the member's declared roles.
func (m Member) HasRole(role Role) bool {
	return slices.Contains(m.Roles, role)
}

// RoleRequirement is a staffing need on an initiative.
type RoleRequirement struct {
	// Role is the tag being requested.
	Role Role `json:"role"`

	// Effort is the required person-weeks for the role.
	Effort int `json:"effort"`
}

// Assignment binds a member to one role on an initiative for a contiguous
// range of weeks. It occupies [StartWeek, StartWeek+WeeksAllocated-1].
type Assignment struct {
	// MemberID references Member.ID.
	MemberID string `json:"memberId"`

	// Role performed for this assignment. Not required to match the
	// member's declared roles.
	Role Role `json:"role"`

	// WeeksAllocated is the length of the assignment in weeks.
	WeeksAllocated int `json:"weeksAllocated"`

	// StartWeek is the 1-indexed week within the quarter.
	StartWeek int `json:"startWeek"`

	// IsParallel is advisory and has no effect on capacity math.
	IsParallel bool `json:"isParallel"`

	// CarriesOver and CarriedWeeks cache the last carry-over split.
	// They may be stale; engine functions always recompute.
	CarriesOver  *bool `json:"carriesOver,omitempty"`
	CarriedWeeks *int  `json:"carriedWeeks,omitempty"`
}

// EndWeek returns the last week the assignment occupies.
func (a Assignment) EndWeek() int {
	return a.StartWeek + a.WeeksAllocated - 1
}

// Initiative is a project or workstream scoped to exactly one quarter.
type Initiative struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Quarter is the quarter id (e.g. "Q1-2025") this initiative belongs to.
	Quarter string `json:"quarter"`

	// RoleRequirements in declaration order. Duplicate roles are legal.
	RoleRequirements []RoleRequirement `json:"roleRequirements"`

	Assignments []Assignment `json:"assignments"`

	// CarriesOverTo is the quarter id the initiative continues into, set by the operator.
	CarriesOverTo string `json:"carriesOverTo,omitempty"`
}

// Quarter is a planning horizon of TotalWeeks weeks.
// StartDate and EndDate are informational; capacity math uses TotalWeeks only.
type Quarter struct {
	// ID has the form Q<1-4>-<year>.
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	TotalWeeks int       `json:"totalWeeks"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
}

// MinQuarterWeeks is the smallest legal Quarter.TotalWeeks.
const MinQuarterWeeks = 13
