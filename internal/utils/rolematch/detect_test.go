package rolematch

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/capest-planner/capest/api/v1"
)

func makeMember(roles ...v1.Role) *v1.Member {
	return &v1.Member{ID: "member-1", Name: "Sam Lee", Roles: roles, Availability: 13}
}

func makeRequirements(roles ...v1.Role) []v1.RoleRequirement {
	out := make([]v1.RoleRequirement, 0, len(roles))
	for _, r := range roles {
		out = append(out, v1.RoleRequirement{Role: r, Effort: 4})
	}
	return out
}

var _ = Describe("DropRole", func() {
	Context("with no requirements", func() {
		It("should return MatchNone", func() {
			res := DropRole(makeMember("BE"), nil)
			Expect(res.Match).To(Equal(MatchNone))
			Expect(res.Role).To(BeEmpty())
			Expect(res.RequirementIndex).To(Equal(-1))
		})
	})

	Context("when the member declares a required role", func() {
		It("should pick the first matching requirement", func() {
			res := DropRole(makeMember("QA", "FE"), makeRequirements("BE", "FE", "QA"))
			Expect(res).To(Equal(Result{Role: "FE", RequirementIndex: 1, Match: MatchDeclared}))
		})

		It("should follow requirement order, not member role order", func() {
			res := DropRole(makeMember("QA", "BE"), makeRequirements("BE", "QA"))
			Expect(res.Role).To(Equal(v1.Role("BE")))
		})
	})

	Context("when the member declares none of the required roles", func() {
		It("should fall back to the first requirement", func() {
			res := DropRole(makeMember("MOBILE"), makeRequirements("BE", "FE"))
			Expect(res).To(Equal(Result{Role: "BE", RequirementIndex: 0, Match: MatchFallback}))
		})

		It("should fall back for a member with no roles", func() {
			res := DropRole(makeMember(), makeRequirements("QA"))
			Expect(res.Match).To(Equal(MatchFallback))
			Expect(res.Role).To(Equal(v1.Role("QA")))
		})
	})

	Context("with nil member", func() {
		It("should fall back to the first requirement", func() {
			res := DropRole(nil, makeRequirements("FE", "BE"))
			Expect(res.Match).To(Equal(MatchFallback))
			Expect(res.Role).To(Equal(v1.Role("FE")))
		})
	})
})

var _ = Describe("MatchingRequirements", func() {
	It("should list every requirement the member can fill", func() {
		m := makeMember("BE", "QA")
		Expect(MatchingRequirements(*m, makeRequirements("BE", "FE", "QA", "BE"))).To(Equal([]int{0, 2, 3}))
	})

	It("should return an empty list when nothing matches", func() {
		m := makeMember("MOBILE")
		Expect(MatchingRequirements(*m, makeRequirements("BE"))).To(BeEmpty())
	})
})

var _ = Describe("Normalize", func() {
	It("should trim and upper-case role tags", func() {
		Expect(Normalize("  devops ")).To(Equal(v1.Role("DEVOPS")))
		Expect(Normalize("QA")).To(Equal(v1.Role("QA")))
		Expect(Normalize("   ")).To(Equal(v1.Role("")))
	})
})
