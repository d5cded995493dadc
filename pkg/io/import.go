package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/peerplot/pkg/errors"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// ReadJSON decodes one question or a batch of questions from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed, or a matrix is missing a category key
//   - A question has an invalid id
//   - Two questions share an id
//
// Questions are returned in input order. ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]stats.Question, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty input")
	}

	var questions []stats.Question
	switch {
	case data[0] == '[':
		if err := json.Unmarshal(data, &questions); err != nil {
			return nil, decodeError(err)
		}
	case isBatch(data):
		var b batch
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, decodeError(err)
		}
		questions = b.Questions
	default:
		var q stats.Question
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, decodeError(err)
		}
		questions = []stats.Question{q}
	}

	seen := make(map[string]bool, len(questions))
	for i, q := range questions {
		if err := errors.ValidateQuestionID(q.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "question #%d", i+1)
		}
		if seen[q.ID] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
	}
	return questions, nil
}

// ImportJSON reads a JSON file at path and returns its questions.
// A missing file is reported with code FILE_NOT_FOUND.
func ImportJSON(path string) ([]stats.Question, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	qs, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return qs, nil
}

type batch struct {
	Questions []stats.Question `json:"questions"`
}

// isBatch reports whether the object has a top-level "questions" key.
func isBatch(data []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	_, ok := probe["questions"]
	return ok
}

func decodeError(err error) error {
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode")
}
