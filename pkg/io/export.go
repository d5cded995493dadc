package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/peerplot/pkg/stats"
)

// WriteJSON encodes questions as a {"questions": [...]} batch and writes it
// to w. The output can be re-imported with [ReadJSON].
func WriteJSON(questions []stats.Question, w io.Writer) error {
	out := batch{Questions: questions}
	if out.Questions == nil {
		out.Questions = []stats.Question{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes questions to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(questions []stats.Question, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(questions, f)
}
