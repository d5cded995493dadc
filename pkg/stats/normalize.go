package stats

import (
	"github.com/matzehuels/peerplot/pkg/errors"
)

// ErrNoData is returned by [Normalize] when the first-choice table sums to
// zero. Callers treat it as "nothing to draw" rather than a failure.
var ErrNoData = errors.New(errors.ErrCodeNoData, "first_choice total is zero")

// Normalize rescales both tables by the first-choice total so the
// first-choice values sum to 1.
//
// Keys of first_choice missing from second_choice are filled with 0, so both
// normalized tables share the same key set. The input is not modified.
func Normalize(f Frequencies) (Frequencies, error) {
	if err := f.Validate(); err != nil {
		return Frequencies{}, err
	}

	total := f.FirstChoice.Total()
	if total == 0 {
		return Frequencies{}, ErrNoData
	}

	out := Frequencies{
		FirstChoice:  make(FrequencyTable, len(f.FirstChoice)),
		SecondChoice: make(FrequencyTable, len(f.FirstChoice)),
	}
	for k, v := range f.FirstChoice {
		out.FirstChoice[k] = v / total
		out.SecondChoice[k] = f.SecondChoice[k] / total
	}
	return out, nil
}
