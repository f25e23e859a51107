// Package rolematch matches the roles a member declares against the role
// requirements of an initiative. It decides which role a dropped member
// takes on when the drop does not name one.
package rolematch

import (
	"errors"
	"strings"

	v1 "github.com/capest-planner/capest/api/v1"
)

// ErrNoRole is returned when an initiative has no role requirements, so no
// role can be picked for a drop.
var ErrNoRole = errors.New("initiative has no role requirements to pick a role from")

// Match describes how a role was chosen for a member.
type Match string

const (
	// MatchDeclared means the member declares the chosen role.
	MatchDeclared Match = "declared"
	// MatchFallback means no requirement matched the member's roles and the
	// initiative's first requirement was taken.
	MatchFallback Match = "fallback"
	// MatchNone means no role could be chosen.
	MatchNone Match = "none"
)

// Result is the outcome of DropRole.
type Result struct {
	// Role is the chosen role; empty when Match is MatchNone.
	Role v1.Role
	// RequirementIndex is the position of the requirement the role was taken
	// from, or -1.
	RequirementIndex int
	Match            Match
}

// Normalize returns the canonical spelling of a role tag: trimmed and upper-cased.
func Normalize(role string) v1.Role {
	return v1.Role(strings.ToUpper(strings.TrimSpace(role)))
}
