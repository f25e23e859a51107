// Package transfer moves the whole planning data set in and out of a single
// JSON document. Imports are all-or-nothing: a document that fails any check
// leaves the repository untouched.
package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/tidwall/jsonc"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/logging"
	"github.com/capest-planner/capest/internal/store"
)

// Version is the document format written by Export.
const Version = 1

// requiredKeys are checked in this order so the first missing one is reported.
var requiredKeys = []string{"members", "initiatives", "quarters", "roles"}

// Document is the exported form of the planning data.
type Document struct {
	Version     int             `json:"version"`
	ExportedAt  time.Time       `json:"exportedAt"`
	Members     []v1.Member     `json:"members"`
	Initiatives []v1.Initiative `json:"initiatives"`
	Quarters    []v1.Quarter    `json:"quarters"`
	Roles       []v1.Role       `json:"roles"`
}

// State returns the repository state held by the document.
func (d Document) State() store.State {
	return store.State{
		Members:     d.Members,
		Initiatives: d.Initiatives,
		Quarters:    d.Quarters,
		Roles:       d.Roles,
	}.DeepCopy()
}

// ValidationError reports why a document was rejected.
type ValidationError struct {
	// Message is shown to the user as is.
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Result counts the records of an imported or exportable data set.
type Result struct {
	Members     int `json:"members"`
	Initiatives int `json:"initiatives"`
	Quarters    int `json:"quarters"`
	Roles       int `json:"roles"`
}

// Message summarizes an import.
func (r Result) Message() string {
	return fmt.Sprintf("Imported %d members, %d initiatives, %d quarters, %d roles",
		r.Members, r.Initiatives, r.Quarters, r.Roles)
}

// Export builds a document from state, stamped with now.
func Export(state store.State, now time.Time) Document {
	st := state.DeepCopy()
	doc := Document{
		Version:     Version,
		ExportedAt:  now.UTC().Truncate(time.Millisecond),
		Members:     st.Members,
		Initiatives: st.Initiatives,
		Quarters:    st.Quarters,
		Roles:       st.Roles,
	}
	if doc.Members == nil {
		doc.Members = []v1.Member{}
	}
	if doc.Initiatives == nil {
		doc.Initiatives = []v1.Initiative{}
	}
	if doc.Quarters == nil {
		doc.Quarters = []v1.Quarter{}
	}
	if doc.Roles == nil {
		doc.Roles = []v1.Role{}
	}
	return doc
}

// Write encodes doc as indented JSON.
func Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// Filename returns the default export file name for now.
func Filename(now time.Time) string {
	return "capest-planner-export-" + now.UTC().Format(time.DateOnly) + ".json"
}

// Preview counts what an export of state would contain.
func Preview(state store.State) Result {
	return Result{
		Members:     len(state.Members),
		Initiatives: len(state.Initiatives),
		Quarters:    len(state.Quarters),
		Roles:       len(state.Roles),
	}
}

// Parse decodes and validates an export document. Comments and trailing
// commas are tolerated so hand-edited files import cleanly.
// Every failure is a *ValidationError.
func Parse(data []byte) (Document, error) {
	stripped := jsonc.ToJSON(data)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(stripped, &raw); err != nil {
		return Document{}, &ValidationError{Message: "Failed to parse file: " + err.Error(), Err: err}
	}

	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return Document{}, &ValidationError{Message: fmt.Sprintf("Invalid file: missing required key %q", key)}
		}
	}
	for _, key := range requiredKeys {
		if !isArray(raw[key]) {
			return Document{}, &ValidationError{
				Message: "Invalid file: expected arrays for members, initiatives, quarters, and roles",
			}
		}
	}

	var doc Document
	if err := json.Unmarshal(stripped, &doc); err != nil {
		return Document{}, &ValidationError{Message: "Failed to parse file: " + err.Error(), Err: err}
	}
	if err := checkUniqueIDs(doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// checkUniqueIDs rejects documents that reuse a member, initiative or
// quarter id.
func checkUniqueIDs(doc Document) error {
	kinds := []struct {
		kind string
		ids  []string
	}{
		{kind: "member"},
		{kind: "initiative"},
		{kind: "quarter"},
	}
	for _, m := range doc.Members {
		kinds[0].ids = append(kinds[0].ids, m.ID)
	}
	for _, i := range doc.Initiatives {
		kinds[1].ids = append(kinds[1].ids, i.ID)
	}
	for _, q := range doc.Quarters {
		kinds[2].ids = append(kinds[2].ids, q.ID)
	}
	for _, k := range kinds {
		seen := make(map[string]struct{}, len(k.ids))
		for _, id := range k.ids {
			if _, dup := seen[id]; dup {
				return &ValidationError{Message: fmt.Sprintf("Invalid file: duplicate %s id %q", k.kind, id)}
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

func isArray(msg json.RawMessage) bool {
	trimmed := bytes.TrimSpace(msg)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Import parses data and, only if it is valid, replaces every collection in w.
func Import(ctx context.Context, w store.Writer, data []byte) (Result, error) {
	logger := logging.FromContext(ctx)

	doc, err := Parse(data)
	if err != nil {
		logger.Info("Rejected import", "reason", err.Error())
		return Result{}, err
	}
	if err := w.Replace(ctx, doc.State()); err != nil {
		return Result{}, fmt.Errorf("replacing planning data: %w", err)
	}

	res := Result{
		Members:     len(doc.Members),
		Initiatives: len(doc.Initiatives),
		Quarters:    len(doc.Quarters),
		Roles:       len(doc.Roles),
	}
	logger.Info(res.Message(), "version", doc.Version, "exportedAt", doc.ExportedAt)
	return res, nil
}
