// Package source fetches unit records for the chart.
//
// A [Source] returns the full record set in one call, ordered by id. [SQL]
// reads a table over database/sql (pgx, lib/pq, or SQLite), [File] reads a
// JSON export, and [Cached] keeps the result of another source in a
// [cache.Cache]. Failures are reported as FETCH_FAILURE; an empty result is
// not an error here and is rejected when the hierarchy is built.
package source

import (
	"context"

	"github.com/matzehuels/orgchart/pkg/org"
)

// Source supplies unit records.
type Source interface {
	Fetch(ctx context.Context) ([]org.UnitRecord, error)
}

// Func adapts a function to [Source].
type Func func(ctx context.Context) ([]org.UnitRecord, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context) ([]org.UnitRecord, error) { return f(ctx) }

// Describer is implemented by sources that can name what they read, for
// logging and cache keys. Descriptions never contain credentials.
type Describer interface {
	Describe() string
}

// Describe returns a description of s, or "source" when s does not
// implement [Describer].
func Describe(s Source) string {
	if d, ok := s.(Describer); ok {
		return d.Describe()
	}
	return "source"
}
