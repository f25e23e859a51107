/*
Copyright 2025 The capest Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package store

import (
	"context"

	v1 "github.com/capest-planner/capest/api/v1"
)

// Backend persists one opaque document per collection key.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the document stored under key.
	// The bool is false if nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put replaces the document stored under key.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Reader provides read-only access to the planning data.
// This interface is used by the metrics collector.
// Every returned slice is a copy owned by the caller.
type Reader interface {
	// Members returns the roster in insertion order.
	Members() []v1.Member

	// Initiatives returns every initiative in insertion order.
	Initiatives() []v1.Initiative

	// Quarter returns the quarter with the given id.
	Quarter(id string) (v1.Quarter, bool)

	// Snapshot returns a consistent copy of all four collections.
	Snapshot() State
}

// Writer provides write access used by the import path.
type Writer interface {
	// Replace swaps every collection for the ones in state.
	Replace(ctx context.Context, state State) error
}

// ReadWriter combines both read and write access to the planning data.
type ReadWriter interface {
	Reader
	Writer
}
