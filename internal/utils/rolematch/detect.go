package rolematch

import (
	v1 "github.com/capest-planner/capest/api/v1"
)

// DropRole picks the role a member takes on when dropped on an initiative
// without an explicit role: the first requirement whose role the member
// declares, else the initiative's first requirement.
//
// A nil member skips the declared-role search and falls back directly.
// Returns MatchNone if the initiative has no requirements.
func DropRole(member *v1.Member, requirements []v1.RoleRequirement) Result {
	if len(requirements) == 0 {
		return Result{RequirementIndex: -1, Match: MatchNone}
	}

	if member != nil {
		if idx := firstDeclared(member, requirements); idx >= 0 {
			return Result{Role: requirements[idx].Role, RequirementIndex: idx, Match: MatchDeclared}
		}
	}

	return Result{Role: requirements[0].Role, RequirementIndex: 0, Match: MatchFallback}
}

// MatchingRequirements returns the indexes of the requirements whose role the
// member declares, in requirement order.
func MatchingRequirements(member v1.Member, requirements []v1.RoleRequirement) []int {
	out := []int{}
	for i, req := range requirements {
		if member.HasRole(req.Role) {
			out = append(out, i)
		}
	}
	return out
}

// firstDeclared returns the index of the first requirement the member can
// fill, or -1.
func firstDeclared(member *v1.Member, requirements []v1.RoleRequirement) int {
	for i, req := range requirements {
		if member.HasRole(req.Role) {
			return i
		}
	}
	return -1
}
