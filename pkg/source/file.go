package source

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/peerplot/pkg/errors"
	pio "github.com/matzehuels/peerplot/pkg/io"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// File reads questions from a JSON file. The file is re-read on every call,
// so edits are picked up without a restart.
type File struct {
	path string
}

// NewFile returns a source backed by the JSON file at path.
func NewFile(path string) *File { return &File{path: path} }

// Name returns "file".
func (f *File) Name() string { return "file" }

// Path returns the file the source reads.
func (f *File) Path() string { return f.path }

// List returns every question in the file, sorted by id.
func (f *File) List(ctx context.Context) ([]stats.Question, error) {
	qs, err := pio.ImportJSON(f.path)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(qs, func(a, b stats.Question) int { return cmp.Compare(a.ID, b.ID) })
	return qs, nil
}

// Get returns the question with the given id.
func (f *File) Get(ctx context.Context, id string) (stats.Question, error) {
	qs, err := pio.ImportJSON(f.path)
	if err != nil {
		return stats.Question{}, err
	}
	for _, q := range qs {
		if q.ID == id {
			return q, nil
		}
	}
	return stats.Question{}, errors.New(errors.ErrCodeNotFound, "question %q not found in %s", id, f.path)
}

// Close does nothing.
func (f *File) Close(context.Context) error { return nil }

var _ Source = (*File)(nil)
