// Package source loads question statistics from where they are stored.
//
// Two sources are provided:
//
//   - [File]: a JSON file in the format read by [io.ReadJSON]
//   - [Mongo]: a MongoDB collection with one document per question
//
// [Cached] wraps any source and keeps single-question lookups in a
// [cache.Cache] for a short time, which the HTTP service uses to avoid a
// database round trip per artifact request.
//
// [io.ReadJSON]: github.com/matzehuels/peerplot/pkg/io.ReadJSON
package source

import (
	"context"

	"github.com/matzehuels/peerplot/pkg/stats"
)

// Source provides questions.
type Source interface {
	// Name identifies the source in logs and cache keys.
	Name() string
	// List returns every question, sorted by id.
	List(ctx context.Context) ([]stats.Question, error)
	// Get returns one question. Unknown ids fail with code NOT_FOUND.
	Get(ctx context.Context, id string) (stats.Question, error)
	// Close releases connections.
	Close(ctx context.Context) error
}
