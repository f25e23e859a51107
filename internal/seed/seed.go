// Package seed bootstraps an empty planner with a demo roster and sample
// initiatives. Seeding happens at most once per data directory: a persisted
// flag, independent of the data itself, records that it ran.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/logging"
	"github.com/capest-planner/capest/internal/store"
	"github.com/capest-planner/capest/pkg/calendar"
)

//go:embed fixture.yaml
var defaultFixture []byte

// Repository is the subset of *store.Repository used for seeding.
type Repository interface {
	Seeded(ctx context.Context) (bool, error)
	MarkSeeded(ctx context.Context) error
	Members() []v1.Member
	GetOrCreateQuarter(ctx context.Context, id string) (v1.Quarter, error)
	AddMember(ctx context.Context, in store.MemberInput) (v1.Member, error)
	AddInitiative(ctx context.Context, in store.InitiativeInput) (v1.Initiative, error)
	AddAssignment(ctx context.Context, initiativeID string, a v1.Assignment) (int, error)
}

var _ Repository = (*store.Repository)(nil)

// Fixture is the decoded seed document.
type Fixture struct {
	Members     []FixtureMember     `yaml:"members"`
	Initiatives []FixtureInitiative `yaml:"initiatives"`
}

type FixtureMember struct {
	Key          string    `yaml:"key"`
	Name         string    `yaml:"name"`
	Roles        []v1.Role `yaml:"roles"`
	Availability int       `yaml:"availability"`
}

type FixtureInitiative struct {
	Name         string               `yaml:"name"`
	Description  string               `yaml:"description"`
	Requirements []v1.RoleRequirement `yaml:"requirements"`
	Assignments  []FixtureAssignment  `yaml:"assignments"`
}

type FixtureAssignment struct {
	Member   string  `yaml:"member"`
	Role     v1.Role `yaml:"role"`
	Weeks    int     `yaml:"weeks"`
	Start    int     `yaml:"start"`
	Parallel bool    `yaml:"parallel"`
}

// Result describes what Run did.
type Result struct {
	Seeded      bool   `json:"seeded"`
	Quarter     string `json:"quarter,omitempty"`
	Members     int    `json:"members"`
	Initiatives int    `json:"initiatives"`
	Assignments int    `json:"assignments"`
	// Skipped explains why nothing was seeded.
	Skipped string `json:"skipped,omitempty"`
}

// ParseFixture decodes a YAML seed document and checks that every
// assignment references a declared member.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed fixture: %w", err)
	}
	keys := make(map[string]bool, len(f.Members))
	for _, m := range f.Members {
		if m.Key == "" {
			return nil, fmt.Errorf("seed member %q has no key", m.Name)
		}
		if keys[m.Key] {
			return nil, fmt.Errorf("duplicate seed member key %q", m.Key)
		}
		keys[m.Key] = true
	}
	for _, ini := range f.Initiatives {
		for _, a := range ini.Assignments {
			if !keys[a.Member] {
				return nil, fmt.Errorf("seed initiative %q references unknown member %q", ini.Name, a.Member)
			}
		}
	}
	return &f, nil
}

// DefaultFixture returns the embedded demo data.
func DefaultFixture() *Fixture {
	f, err := ParseFixture(defaultFixture)
	if err != nil {
		panic(err)
	}
	return f
}

// Seeder loads a fixture into a repository.
type Seeder struct {
	repo    Repository
	fixture *Fixture
}

// New returns a Seeder for the embedded demo data.
func New(repo Repository) *Seeder {
	return &Seeder{repo: repo, fixture: DefaultFixture()}
}

// WithFixture returns a copy of s that loads f instead.
func (s *Seeder) WithFixture(f *Fixture) *Seeder {
	return &Seeder{repo: s.repo, fixture: f}
}

// Run seeds the fixture into quarterID when the seed flag is unset and the
// roster is empty, then sets the flag.
func (s *Seeder) Run(ctx context.Context, quarterID string) (Result, error) {
	logger := logging.FromContext(ctx)

	seeded, err := s.repo.Seeded(ctx)
	if err != nil {
		return Result{}, err
	}
	if seeded {
		logger.V(logging.DEBUG).Info("Seed flag set, skipping seed")
		return Result{Skipped: "already seeded"}, nil
	}
	if n := len(s.repo.Members()); n > 0 {
		logger.V(logging.DEBUG).Info("Roster not empty, skipping seed", "members", n)
		return Result{Skipped: "roster not empty"}, nil
	}
	if _, _, err := calendar.ParseQuarterID(quarterID); err != nil {
		return Result{}, err
	}

	q, err := s.repo.GetOrCreateQuarter(ctx, quarterID)
	if err != nil {
		return Result{}, err
	}
	res := Result{Seeded: true, Quarter: q.ID}

	ids := make(map[string]string, len(s.fixture.Members))
	for _, fm := range s.fixture.Members {
		m, err := s.repo.AddMember(ctx, store.MemberInput{
			Name:         fm.Name,
			Roles:        fm.Roles,
			Availability: fm.Availability,
		})
		if err != nil {
			return res, fmt.Errorf("seeding member %q: %w", fm.Name, err)
		}
		ids[fm.Key] = m.ID
		res.Members++
	}

	for _, fi := range s.fixture.Initiatives {
		ini, err := s.repo.AddInitiative(ctx, store.InitiativeInput{
			Name:             fi.Name,
			Description:      fi.Description,
			Quarter:          q.ID,
			RoleRequirements: fi.Requirements,
		})
		if err != nil {
			return res, fmt.Errorf("seeding initiative %q: %w", fi.Name, err)
		}
		res.Initiatives++
		for _, fa := range fi.Assignments {
			_, err := s.repo.AddAssignment(ctx, ini.ID, v1.Assignment{
				MemberID:       ids[fa.Member],
				Role:           fa.Role,
				WeeksAllocated: fa.Weeks,
				StartWeek:      fa.Start,
				IsParallel:     fa.Parallel,
			})
			if err != nil {
				return res, fmt.Errorf("seeding assignment of %q on %q: %w", fa.Member, fi.Name, err)
			}
			res.Assignments++
		}
	}

	if err := s.repo.MarkSeeded(ctx); err != nil {
		return res, err
	}
	logger.Info("Seeded demo data",
		"quarter", res.Quarter,
		"members", res.Members,
		"initiatives", res.Initiatives,
		"assignments", res.Assignments)
	return res, nil
}
