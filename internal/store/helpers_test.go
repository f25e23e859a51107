package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.August, 14, 9, 0, 0, 0, time.UTC)

const testQuarterID = "Q3-2025"

func sequentialIDs() func(string) string {
	var mu sync.Mutex
	n := 0
	return func(prefix string) string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func openTestRepo(t *testing.T, backend Backend) *Repository {
	t.Helper()
	repo, err := Open(context.Background(), backend,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)
	return repo
}

// failingBackend rejects Puts once failAfter have succeeded. A non-zero
// failures limits how many are rejected before writes succeed again.
type failingBackend struct {
	*MemoryBackend
	puts      int
	failAfter int
	failures  int
	failed    int
}

var errDiskFull = errors.New("disk full")

func (b *failingBackend) Put(ctx context.Context, key string, data []byte) error {
	if b.puts >= b.failAfter && (b.failures == 0 || b.failed < b.failures) {
		b.failed++
		return errDiskFull
	}
	b.puts++
	return b.MemoryBackend.Put(ctx, key, data)
}
