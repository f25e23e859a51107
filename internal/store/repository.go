package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/logging"
)

// Repository is the single owner of the planning data. It is safe for
// concurrent use.
type Repository struct {
	backend Backend
	now     func() time.Time
	newID   func(prefix string) string

	mu    sync.RWMutex
	state State
}

var _ ReadWriter = (*Repository)(nil)

// Option configures a Repository.
type Option func(*Repository)

// WithClock sets the clock used to determine the current quarter.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithIDGenerator replaces the generator of member and initiative ids.
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(r *Repository) {
		r.newID = gen
	}
}

// NewID returns prefix-<uuid>.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Open loads every collection from backend. Missing collections start
// empty, except quarters which start with the current quarter and roles
// which start with the default roles.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Repository, error) {
	r := &Repository{
		backend: backend,
		now:     time.Now,
		newID:   NewID,
	}
	for _, opt := range opts {
		opt(r)
	}

	logger := logging.FromContext(ctx)
	var st State
	for _, key := range collectionKeys {
		data, ok, err := backend.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", key, err)
		}
		if !ok {
			logger.V(logging.DEBUG).Info("Collection not found, using defaults", "key", key)
			continue
		}
		if err := st.decode(key, data); err != nil {
			return nil, err
		}
	}
	if len(st.Quarters) == 0 {
		st.Quarters = []v1.Quarter{v1.CurrentQuarter(r.now())}
	}
	if st.Roles == nil {
		st.Roles = slices.Clone(v1.DefaultRoles)
	}
	st.normalize()
	r.state = st

	logger.V(logging.DEBUG).Info("Loaded planning data",
		"members", len(st.Members),
		"initiatives", len(st.Initiatives),
		"quarters", len(st.Quarters),
		"roles", len(st.Roles))
	return r, nil
}

// savedKey is the content a key held before mutate overwrote it.
type savedKey struct {
	key     string
	data    []byte
	existed bool
}

// mutate runs fn on a copy of the state, persists the collections named by
// keys and swaps the copy in. When fn or persistence fails the visible state
// is unchanged, and keys already written are put back to their previous
// content.
func (r *Repository) mutate(ctx context.Context, fn func(next *State) error, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.state.DeepCopy()
	if err := fn(&next); err != nil {
		return err
	}
	next.normalize()

	encoded := make([][]byte, len(keys))
	for i, key := range keys {
		data, err := next.encode(key)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		encoded[i] = data
	}

	written := make([]savedKey, 0, len(keys))
	for i, key := range keys {
		prev, existed, err := r.backend.Get(ctx, key)
		if err != nil {
			r.restore(ctx, written)
			return fmt.Errorf("reading %s: %w", key, err)
		}
		if err := r.backend.Put(ctx, key, encoded[i]); err != nil {
			r.restore(ctx, written)
			return fmt.Errorf("saving %s: %w", key, err)
		}
		written = append(written, savedKey{key: key, data: prev, existed: existed})
	}
	r.state = next
	return nil
}

// restore undoes the writes of a failed mutate, newest first. Keys that did
// not exist before are deleted.
func (r *Repository) restore(ctx context.Context, written []savedKey) {
	logger := logging.FromContext(ctx)
	for i := len(written) - 1; i >= 0; i-- {
		s := written[i]
		var err error
		if s.existed {
			err = r.backend.Put(ctx, s.key, s.data)
		} else {
			err = r.backend.Delete(ctx, s.key)
		}
		if err != nil {
			logger.Error(err, "Failed to restore collection after a failed write", "key", s.key)
		}
	}
}

// Snapshot returns a deep copy of all four collections.
func (r *Repository) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.DeepCopy()
}

// Replace swaps every collection for the ones in state and persists them.
// An empty quarter list is replaced by the current quarter and an empty
// roles list by the default roles, so the repository always has a quarter
// to plan in and a usable registry.
func (r *Repository) Replace(ctx context.Context, state State) error {
	err := r.mutate(ctx, func(next *State) error {
		*next = state.DeepCopy()
		if len(next.Quarters) == 0 {
			next.Quarters = []v1.Quarter{v1.CurrentQuarter(r.now())}
		}
		if len(next.Roles) == 0 {
			next.Roles = slices.Clone(v1.DefaultRoles)
		}
		return nil
	}, collectionKeys...)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("Replaced planning data",
		"members", len(state.Members),
		"initiatives", len(state.Initiatives),
		"quarters", len(state.Quarters),
		"roles", len(state.Roles))
	return nil
}

// ClearAll removes every member and initiative, resets quarters to the
// current quarter and roles to the defaults. The seed flag is left alone so
// clearing never re-triggers seeding.
func (r *Repository) ClearAll(ctx context.Context) error {
	err := r.mutate(ctx, func(next *State) error {
		*next = State{
			Quarters: []v1.Quarter{v1.CurrentQuarter(r.now())},
			Roles:    slices.Clone(v1.DefaultRoles),
		}
		return nil
	}, collectionKeys...)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("Cleared all planning data")
	return nil
}

// Seeded reports whether the seed flag has been set.
func (r *Repository) Seeded(ctx context.Context) (bool, error) {
	data, ok, err := r.backend.Get(ctx, KeySeeded)
	if err != nil {
		return false, fmt.Errorf("reading seed flag: %w", err)
	}
	return ok && string(data) == "true", nil
}

// MarkSeeded persists the seed flag.
func (r *Repository) MarkSeeded(ctx context.Context) error {
	if err := r.backend.Put(ctx, KeySeeded, []byte("true")); err != nil {
		return fmt.Errorf("writing seed flag: %w", err)
	}
	return nil
}

// Now returns the repository clock's current time.
func (r *Repository) Now() time.Time {
	return r.now()
}

func memberIndex(members []v1.Member, id string) int {
	return slices.IndexFunc(members, func(m v1.Member) bool { return m.ID == id })
}

func initiativeIndex(initiatives []v1.Initiative, id string) int {
	return slices.IndexFunc(initiatives, func(i v1.Initiative) bool { return i.ID == id })
}

func quarterIndex(quarters []v1.Quarter, id string) int {
	return slices.IndexFunc(quarters, func(q v1.Quarter) bool { return q.ID == id })
}
