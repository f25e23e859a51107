// Package core implements the capacity allocation engine.
//
// The engine evaluates assignments that a human operator has chosen; it never
// proposes assignments itself. Every function is a pure computation over its
// arguments: nothing is cached between calls, no argument is mutated, and the
// same inputs always produce structurally equal outputs.
//
// The engine is composed of:
//
//   - Capacity evaluator: per-member allocated/remaining weeks in a quarter
//   - Conflict detector: week-range overlap across a member's assignments
//   - Carry-over splitter: the part of an assignment past the quarter's last week
//   - Requirement fulfillment: assigned vs required effort per role requirement
//   - Summary builder: one quarter-wide report composed from the above
//
// Example usage:
//
//	// How loaded is a member this quarter?
//	capacity := core.MemberQuarterCapacity(member, initiatives, "Q1-2025")
//
//	// Would moving assignment #2 of "initiative-a" to weeks 5-8 clash?
//	result := core.WeekConflicts(member.ID, 5, 4, initiatives, "Q1-2025",
//	    &core.AssignmentRef{InitiativeID: "initiative-a", Index: 2})
//
//	// Quarter-wide report
//	summary := core.QuarterCapacitySummary(members, initiatives, quarter)
//
// Callers own all state. The engine filters initiatives by quarter itself,
// so the full collection may be passed on every call. Role tags are compared
// for equality only; validating them is the roles registry's job.
package core
