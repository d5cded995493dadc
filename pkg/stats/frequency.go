package stats

import (
	"math"
	"slices"

	"github.com/matzehuels/peerplot/pkg/errors"
)

// FrequencyTable maps an answer-choice key to how often it was selected.
// After [Normalize] the values are proportions of the first-choice total.
type FrequencyTable map[string]float64

// Keys returns the table keys in ascending lexicographic order.
func (t FrequencyTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Total returns the sum of all values.
func (t FrequencyTable) Total() float64 {
	var sum float64
	for _, v := range t {
		sum += v
	}
	return sum
}

// Clone returns an independent copy of t.
func (t FrequencyTable) Clone() FrequencyTable {
	if t == nil {
		return nil
	}
	out := make(FrequencyTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

func (t FrequencyTable) validate(name string) error {
	for _, k := range t.Keys() {
		if err := errors.ValidateChoiceKey(k); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFrequency, err, "%s", name)
		}
		v := t[k]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidFrequency, "%s[%s]: value is not a finite number", name, k)
		}
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidFrequency, "%s[%s]: negative count %v", name, k, v)
		}
	}
	return nil
}

// Frequencies pairs the first- and second-choice tables of one question.
type Frequencies struct {
	FirstChoice  FrequencyTable `json:"first_choice" bson:"first_choice"`
	SecondChoice FrequencyTable `json:"second_choice" bson:"second_choice"`
}

// Validate checks counts are finite and non-negative and that every
// second-choice key also appears in the first-choice table.
func (f Frequencies) Validate() error {
	if err := f.FirstChoice.validate("first_choice"); err != nil {
		return err
	}
	if err := f.SecondChoice.validate("second_choice"); err != nil {
		return err
	}
	for _, k := range f.SecondChoice.Keys() {
		if _, ok := f.FirstChoice[k]; !ok {
			return errors.New(errors.ErrCodeInvalidFrequency, "second_choice key %q missing from first_choice", k)
		}
	}
	return nil
}
