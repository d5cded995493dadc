package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/matzehuels/peerplot/pkg/errors"
)

// ConfidenceMatrix weights a question's difficulty and collaboration profile.
// Each value lies in [0,1]. The zero value is a valid matrix with no signal.
type ConfidenceMatrix struct {
	Easy   float64
	Hard   float64
	Tricky float64
	Peer   float64
}

// Value returns the weight for c. Unknown categories return 0.
func (m ConfidenceMatrix) Value(c Category) float64 {
	switch c {
	case Easy:
		return m.Easy
	case Hard:
		return m.Hard
	case Tricky:
		return m.Tricky
	case Peer:
		return m.Peer
	}
	return 0
}

// With returns a copy of m with the weight for c replaced.
func (m ConfidenceMatrix) With(c Category, v float64) ConfidenceMatrix {
	switch c {
	case Easy:
		m.Easy = v
	case Hard:
		m.Hard = v
	case Tricky:
		m.Tricky = v
	case Peer:
		m.Peer = v
	}
	return m
}

// Validate checks that every weight is finite and within [0,1].
func (m ConfidenceMatrix) Validate() error {
	for _, c := range Categories {
		v := m.Value(c)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidMatrix, "%s: value is not a finite number", c)
		}
		if v < 0 || v > 1 {
			return errors.New(errors.ErrCodeInvalidMatrix, "%s: value %v outside [0,1]", c, v)
		}
	}
	return nil
}

// MarshalJSON writes the matrix as an object keyed in canonical order.
func (m ConfidenceMatrix) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		v, err := json.Marshal(m.Value(c))
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:%s", c, v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON requires exactly the four category keys, each a number.
func (m *ConfidenceMatrix) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMatrix, err, "decode matrix")
	}
	return m.fromKeys(raw)
}

// UnmarshalBSONValue applies the same rules as UnmarshalJSON to an embedded
// document. Integer values are accepted as weights.
func (m *ConfidenceMatrix) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t != bsontype.EmbeddedDocument {
		return errors.New(errors.ErrCodeInvalidMatrix, "decode matrix: expected a document, got %s", t)
	}
	var raw map[string]*float64
	if err := bson.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMatrix, err, "decode matrix")
	}
	return m.fromKeys(raw)
}

// fromKeys fills m from a decoded object. Every category must be present
// and non-null; unknown keys are rejected.
func (m *ConfidenceMatrix) fromKeys(raw map[string]*float64) error {
	if raw == nil {
		return errors.New(errors.ErrCodeInvalidMatrix, "matrix is null")
	}
	var out ConfidenceMatrix
	for key, v := range raw {
		c, err := ParseCategory(key)
		if err != nil {
			return err
		}
		if v == nil {
			return errors.New(errors.ErrCodeInvalidMatrix, "%s: value is null", c)
		}
		out = out.With(c, *v)
	}
	for _, c := range Categories {
		if _, ok := raw[string(c)]; !ok {
			return errors.New(errors.ErrCodeInvalidMatrix, "missing category %q", c)
		}
	}

	*m = out
	return nil
}
