package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseBackend(t *testing.T, b Backend) {
	ctx := context.Background()

	_, ok, err := b.Get(ctx, KeyMembers)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Put(ctx, KeyMembers, []byte(`[]`)))
	data, ok, err := b.Get(ctx, KeyMembers)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(data))

	require.NoError(t, b.Put(ctx, KeyMembers, []byte(`[{"id":"m"}]`)))
	data, _, err = b.Get(ctx, KeyMembers)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"m"}]`, string(data))

	require.NoError(t, b.Delete(ctx, KeyMembers))
	_, ok, err = b.Get(ctx, KeyMembers)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, b.Delete(ctx, KeyMembers), "deleting a missing key")
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestMemoryBackendCopiesData(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	in := []byte(`["BE"]`)
	require.NoError(t, b.Put(ctx, KeyRoles, in))
	in[2] = 'X'

	out, _, err := b.Get(ctx, KeyRoles)
	require.NoError(t, err)
	assert.Equal(t, `["BE"]`, string(out))
}

func TestFileBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, b.Dir())
	exerciseBackend(t, b)
}

func TestFileBackendLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	require.NoError(t, b.Put(context.Background(), KeyQuarters, []byte(`[]`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KeyQuarters+".json", entries[0].Name())
}
