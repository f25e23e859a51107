package transfer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/store"
)

var testNow = time.Date(2025, time.August, 14, 9, 30, 15, 123456789, time.UTC)

func openRepo(t *testing.T) *store.Repository {
	t.Helper()
	repo, err := store.Open(context.Background(), store.NewMemoryBackend(),
		store.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return repo
}

func populate(t *testing.T, repo *store.Repository) {
	t.Helper()
	ctx := context.Background()
	m, err := repo.AddMember(ctx, store.MemberInput{Name: "Ana", Roles: []v1.Role{"BE"}, Availability: 13})
	require.NoError(t, err)
	ini, err := repo.AddInitiative(ctx, store.InitiativeInput{
		Name:             "Checkout",
		Quarter:          "Q3-2025",
		RoleRequirements: []v1.RoleRequirement{{Role: "BE", Effort: 6}},
	})
	require.NoError(t, err)
	_, err = repo.AddAssignment(ctx, ini.ID, v1.Assignment{MemberID: m.ID, Role: "BE", StartWeek: 2, WeeksAllocated: 5})
	require.NoError(t, err)
	_, err = repo.AddRole(ctx, "data")
	require.NoError(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openRepo(t)
	populate(t, src)

	doc := Export(src.Snapshot(), testNow)
	assert.Equal(t, Version, doc.Version)
	assert.Equal(t, testNow.Truncate(time.Millisecond), doc.ExportedAt)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, doc))
	assert.Contains(t, buf.String(), "\n  \"members\": [")

	dst := openRepo(t)
	res, err := Import(ctx, dst, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, Result{Members: 1, Initiatives: 1, Quarters: 1, Roles: 5}, res)
	assert.Equal(t, "Imported 1 members, 1 initiatives, 1 quarters, 5 roles", res.Message())
	assert.Equal(t, src.Snapshot(), dst.Snapshot())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "capest-planner-export-2025-08-14.json", Filename(testNow))
}

func TestPreview(t *testing.T) {
	repo := openRepo(t)
	populate(t, repo)
	assert.Equal(t, Result{Members: 1, Initiatives: 1, Quarters: 1, Roles: 5}, Preview(repo.Snapshot()))
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{
			name:    "missing members",
			input:   `{"version":1,"initiatives":[],"quarters":[],"roles":[]}`,
			message: `Invalid file: missing required key "members"`,
		},
		{
			name:    "missing roles",
			input:   `{"members":[],"initiatives":[],"quarters":[]}`,
			message: `Invalid file: missing required key "roles"`,
		},
		{
			name:    "non-array field",
			input:   `{"members":{},"initiatives":[],"quarters":[],"roles":[]}`,
			message: "Invalid file: expected arrays for members, initiatives, quarters, and roles",
		},
		{
			name:    "null field",
			input:   `{"members":[],"initiatives":[],"quarters":null,"roles":[]}`,
			message: "Invalid file: expected arrays for members, initiatives, quarters, and roles",
		},
		{
			name:    "duplicate member id",
			input:   `{"members":[{"id":"m1","name":"Ana"},{"id":"m1","name":"Ben"}],"initiatives":[],"quarters":[],"roles":[]}`,
			message: `Invalid file: duplicate member id "m1"`,
		},
		{
			name:    "duplicate initiative id",
			input:   `{"members":[],"initiatives":[{"id":"i1","name":"A"},{"id":"i1","name":"B"}],"quarters":[],"roles":[]}`,
			message: `Invalid file: duplicate initiative id "i1"`,
		},
		{
			name:    "duplicate quarter id",
			input:   `{"members":[],"initiatives":[],"quarters":[{"id":"Q1-2025"},{"id":"Q1-2025"}],"roles":[]}`,
			message: `Invalid file: duplicate quarter id "Q1-2025"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestParseEncodingErrors(t *testing.T) {
	for _, input := range []string{
		`not json at all`,
		`[1, 2, 3]`,
		`{"members":[{"availability":"lots"}],"initiatives":[],"quarters":[],"roles":[]}`,
	} {
		_, err := Parse([]byte(input))
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "input %q: got %v", input, err)
		assert.Contains(t, verr.Message, "Failed to parse file: ")
		assert.NotNil(t, errors.Unwrap(verr))
	}
}

func TestParseToleratesComments(t *testing.T) {
	input := `{
		// hand edited
		"version": 1,
		"members": [
			{"id": "m1", "name": "Ana", "roles": ["BE"], "availability": 13, "assignedInitiatives": []},
		],
		"initiatives": [],
		"quarters": [],
		/* keep the defaults */
		"roles": ["BE", "FE", "MOBILE", "QA",],
	}`
	doc, err := Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, doc.Members, 1)
	assert.Equal(t, "Ana", doc.Members[0].Name)
	assert.Len(t, doc.Roles, 4)
}

func TestImportFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)
	populate(t, repo)
	before := repo.Snapshot()

	_, err := Import(ctx, repo, []byte(`{"members":[],"initiatives":[],"quarters":[]}`))
	require.Error(t, err)
	assert.Equal(t, before, repo.Snapshot())
}
