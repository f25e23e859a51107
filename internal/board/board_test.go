package board

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/store"
	"github.com/capest-planner/capest/internal/utils/rolematch"
	"github.com/capest-planner/capest/pkg/core"
)

const quarterID = "Q3-2025"

var _ = Describe("Board", func() {
	var (
		ctx      context.Context
		repo     *store.Repository
		board    *Board
		session  *Session
		ana, ben v1.Member
		search   v1.Initiative
		billing  v1.Initiative
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		repo, err = store.Open(ctx, store.NewMemoryBackend(),
			store.WithClock(func() time.Time { return time.Date(2025, time.August, 14, 0, 0, 0, 0, time.UTC) }))
		Expect(err).NotTo(HaveOccurred())

		ana, err = repo.AddMember(ctx, store.MemberInput{Name: "Ana", Roles: []v1.Role{"QA", "FE"}, Availability: 13})
		Expect(err).NotTo(HaveOccurred())
		ben, err = repo.AddMember(ctx, store.MemberInput{Name: "Ben", Roles: []v1.Role{"MOBILE"}, Availability: 13})
		Expect(err).NotTo(HaveOccurred())

		search, err = repo.AddInitiative(ctx, store.InitiativeInput{
			Name:    "Search",
			Quarter: quarterID,
			RoleRequirements: []v1.RoleRequirement{
				{Role: "BE", Effort: 6},
				{Role: "FE", Effort: 4},
			},
		})
		Expect(err).NotTo(HaveOccurred())
		billing, err = repo.AddInitiative(ctx, store.InitiativeInput{
			Name:             "Billing",
			Quarter:          quarterID,
			RoleRequirements: []v1.RoleRequirement{{Role: "BE", Effort: 5}},
		})
		Expect(err).NotTo(HaveOccurred())

		board = New(repo)
		session = &Session{}
	})

	Context("dropping a member", func() {
		It("should create a one-week assignment with the first matching role", func() {
			session.StartMemberDrag(ana)
			ref, err := board.DropOnWeek(ctx, session, search.ID, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(ref).To(Equal(core.AssignmentRef{InitiativeID: search.ID, Index: 0}))

			got, _ := repo.Initiative(search.ID)
			Expect(got.Assignments).To(HaveLen(1))
			a := got.Assignments[0]
			Expect(a.MemberID).To(Equal(ana.ID))
			Expect(a.Role).To(Equal(v1.Role("FE")))
			Expect(a.StartWeek).To(Equal(3))
			Expect(a.WeeksAllocated).To(Equal(1))
			Expect(a.IsParallel).To(BeFalse())
			Expect(session.Dragging()).To(BeFalse())
		})

		It("should fall back to the first requirement when no role matches", func() {
			ref, err := board.DropMember(ctx, search.ID, ben.ID, 1, "")
			Expect(err).NotTo(HaveOccurred())
			got, _ := repo.Initiative(ref.InitiativeID)
			Expect(got.Assignments[ref.Index].Role).To(Equal(v1.Role("BE")))
		})

		It("should honor an explicit role", func() {
			ref, err := board.DropMember(ctx, search.ID, ana.ID, 2, "QA")
			Expect(err).NotTo(HaveOccurred())
			got, _ := repo.Initiative(search.ID)
			Expect(got.Assignments[ref.Index].Role).To(Equal(v1.Role("QA")))
		})

		It("should fail when the initiative has no requirements", func() {
			empty, err := repo.AddInitiative(ctx, store.InitiativeInput{Name: "Empty", Quarter: quarterID})
			Expect(err).NotTo(HaveOccurred())
			_, err = board.DropMember(ctx, empty.ID, ana.ID, 1, "")
			Expect(err).To(MatchError(rolematch.ErrNoRole))
		})

		It("should fail for unknown ids", func() {
			_, err := board.DropMember(ctx, "initiative-x", ana.ID, 1, "")
			Expect(err).To(MatchError(store.ErrNotFound))
			_, err = board.DropMember(ctx, search.ID, "member-x", 1, "")
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})

	Context("moving an assignment", func() {
		BeforeEach(func() {
			_, err := repo.AddAssignment(ctx, search.ID, v1.Assignment{MemberID: ben.ID, Role: "BE", StartWeek: 1, WeeksAllocated: 2})
			Expect(err).NotTo(HaveOccurred())
			_, err = repo.AddAssignment(ctx, search.ID, v1.Assignment{MemberID: ana.ID, Role: "FE", StartWeek: 2, WeeksAllocated: 3})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should update in place within the same initiative", func() {
			from := core.AssignmentRef{InitiativeID: search.ID, Index: 1}
			ref, err := board.MoveAssignment(ctx, from, search.ID, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(ref).To(Equal(from))

			got, _ := repo.Initiative(search.ID)
			Expect(got.Assignments).To(HaveLen(2))
			Expect(got.Assignments[1].StartWeek).To(Equal(7))
			Expect(got.Assignments[1].WeeksAllocated).To(Equal(3))
		})

		It("should remove then add across initiatives", func() {
			ref, err := board.MoveAssignment(ctx, core.AssignmentRef{InitiativeID: search.ID, Index: 0}, billing.ID, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(ref).To(Equal(core.AssignmentRef{InitiativeID: billing.ID, Index: 0}))

			src, _ := repo.Initiative(search.ID)
			Expect(src.Assignments).To(HaveLen(1))
			Expect(src.Assignments[0].MemberID).To(Equal(ana.ID))

			dst, _ := repo.Initiative(billing.ID)
			Expect(dst.Assignments).To(HaveLen(1))
			Expect(dst.Assignments[0].MemberID).To(Equal(ben.ID))
			Expect(dst.Assignments[0].StartWeek).To(Equal(4))

			m, _ := repo.Member(ben.ID)
			Expect(m.AssignedInitiatives).To(ConsistOf(billing.ID))
		})

		It("should address identical assignments by index", func() {
			_, err := repo.AddAssignment(ctx, search.ID, v1.Assignment{MemberID: ben.ID, Role: "BE", StartWeek: 1, WeeksAllocated: 2})
			Expect(err).NotTo(HaveOccurred())

			_, err = board.MoveAssignment(ctx, core.AssignmentRef{InitiativeID: search.ID, Index: 2}, search.ID, 9)
			Expect(err).NotTo(HaveOccurred())
			got, _ := repo.Initiative(search.ID)
			Expect(got.Assignments[0].StartWeek).To(Equal(1))
			Expect(got.Assignments[2].StartWeek).To(Equal(9))
		})

		It("should reject an out-of-range index", func() {
			_, err := board.MoveAssignment(ctx, core.AssignmentRef{InitiativeID: search.ID, Index: 5}, search.ID, 1)
			Expect(err).To(MatchError(store.ErrInvalidIndex))
		})

		It("should move via a session drag", func() {
			got, _ := repo.Initiative(search.ID)
			session.StartAssignmentDrag(core.AssignmentRef{InitiativeID: search.ID, Index: 1}, got.Assignments[1], 2)
			_, err := board.DropOnWeek(ctx, session, search.ID, 5)
			Expect(err).NotTo(HaveOccurred())

			got, _ = repo.Initiative(search.ID)
			Expect(got.Assignments[1].StartWeek).To(Equal(5))
		})

		It("should reject a stale drag", func() {
			got, _ := repo.Initiative(search.ID)
			session.StartAssignmentDrag(core.AssignmentRef{InitiativeID: search.ID, Index: 0}, got.Assignments[0], 1)
			Expect(repo.RemoveAssignment(ctx, search.ID, 0)).To(Succeed())

			_, err := board.DropOnWeek(ctx, session, search.ID, 6)
			Expect(err).To(MatchError(ErrStaleDrag))
			Expect(session.Dragging()).To(BeFalse())
		})
	})

	Context("previewing a drop", func() {
		BeforeEach(func() {
			_, err := repo.AddAssignment(ctx, search.ID, v1.Assignment{MemberID: ana.ID, Role: "FE", StartWeek: 1, WeeksAllocated: 4})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should report no drag", func() {
			_, err := board.PreviewDrop(session, search.ID, 1)
			Expect(err).To(MatchError(ErrNoDrag))
		})

		It("should report a member drop onto a busy week", func() {
			session.StartMemberDrag(ana)
			res, err := board.PreviewDrop(session, billing.ID, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.HasConflict).To(BeTrue())
			Expect(res.ConflictingWeeks).To(Equal([]int{3}))
		})

		It("should not report the dragged assignment against itself", func() {
			got, _ := repo.Initiative(search.ID)
			session.StartAssignmentDrag(core.AssignmentRef{InitiativeID: search.ID, Index: 0}, got.Assignments[0], 1)
			res, err := board.PreviewDrop(session, search.ID, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.HasConflict).To(BeFalse())
		})
	})

	It("should fail a drop without a drag", func() {
		_, err := board.DropOnWeek(ctx, session, search.ID, 1)
		Expect(err).To(MatchError(ErrNoDrag))
	})
})

var _ = Describe("Session", func() {
	It("should track the drop target", func() {
		s := &Session{}
		Expect(s.IsDropTarget("x", 1)).To(BeFalse())
		s.SetDropTarget("x", 1)
		Expect(s.IsDropTarget("x", 1)).To(BeTrue())
		Expect(s.IsDropTarget("x", 2)).To(BeFalse())
		t, ok := s.Target()
		Expect(ok).To(BeTrue())
		Expect(t).To(Equal(DropTarget{InitiativeID: "x", Week: 1}))

		s.ClearDropTarget()
		_, ok = s.Target()
		Expect(ok).To(BeFalse())
	})

	It("should clear everything on EndDrag", func() {
		s := &Session{}
		s.StartMemberDrag(v1.Member{ID: "m"})
		s.SetDropTarget("x", 2)
		Expect(s.Dragging()).To(BeTrue())

		s.EndDrag()
		Expect(s.Dragging()).To(BeFalse())
		_, ok := s.Target()
		Expect(ok).To(BeFalse())
	})
})
