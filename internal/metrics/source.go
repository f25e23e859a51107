package metrics

import (
	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/store"
)

// Source provides the planning data a scrape evaluates.
type Source interface {
	// Members returns the roster.
	Members() []v1.Member

	// Initiatives returns every initiative; the collector filters by quarter.
	Initiatives() []v1.Initiative

	// Quarter returns the quarter with the given id.
	Quarter(id string) (v1.Quarter, bool)
}

var _ Source = store.Reader(nil)
