package stats

import (
	"strings"

	"github.com/matzehuels/peerplot/pkg/errors"
)

// Category is one of the four confidence classes of a question.
type Category string

const (
	Easy   Category = "easy"
	Hard   Category = "hard"
	Tricky Category = "tricky"
	Peer   Category = "peer"
)

// Categories lists every category in canonical order. The order is the
// classification tie-break and the key order of serialized matrices.
var Categories = [...]Category{Easy, Hard, Tricky, Peer}

// ParseCategory converts a matrix key into a Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidMatrix, "unknown category %q", s)
}

// Label returns the capitalized display form ("Easy", "Tricky", ...).
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}
