package v1

import "slices"

// DeepCopy returns a copy of m that shares no slices with m.
func (m Member) DeepCopy() Member {
	out := m
	out.Roles = slices.Clone(m.Roles)
	out.AssignedInitiatives = slices.Clone(m.AssignedInitiatives)
	return out
}

// DeepCopy returns a copy of a that shares no pointers with a.
func (a Assignment) DeepCopy() Assignment {
	out := a
	if a.CarriesOver != nil {
		v := *a.CarriesOver
		out.CarriesOver = &v
	}
	if a.CarriedWeeks != nil {
		v := *a.CarriedWeeks
		out.CarriedWeeks = &v
	}
	return out
}

// DeepCopy returns a copy of i that shares no slices with i.
func (i Initiative) DeepCopy() Initiative {
	out := i
	out.RoleRequirements = slices.Clone(i.RoleRequirements)
	if i.Assignments != nil {
		out.Assignments = make([]Assignment, len(i.Assignments))
		for idx, a := range i.Assignments {
			out.Assignments[idx] = a.DeepCopy()
		}
	}
	return out
}

// DeepCopyMembers copies every member in the list.
func DeepCopyMembers(in []Member) []Member {
	if in == nil {
		return nil
	}
	out := make([]Member, len(in))
	for i, m := range in {
		out[i] = m.DeepCopy()
	}
	return out
}

// DeepCopyInitiatives copies every initiative in the list.
func DeepCopyInitiatives(in []Initiative) []Initiative {
	if in == nil {
		return nil
	}
	out := make([]Initiative, len(in))
	for i, ini := range in {
		out[i] = ini.DeepCopy()
	}
	return out
}
