package stats

import (
	"github.com/matzehuels/peerplot/pkg/errors"
)

// Question is one question's statistics, the unit peerplot renders.
type Question struct {
	ID     string           `json:"id" bson:"question_id"`
	Title  string           `json:"title,omitempty" bson:"title,omitempty"`
	Matrix ConfidenceMatrix `json:"matrix" bson:"matrix"`
	Freq   Frequencies      `json:"freq" bson:"freq"`
}

// Validate checks the id, the matrix and the frequency tables.
func (q Question) Validate() error {
	if err := errors.ValidateQuestionID(q.ID); err != nil {
		return err
	}
	if err := q.Matrix.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMatrix, err, "question %s", q.ID)
	}
	if err := q.Freq.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFrequency, err, "question %s", q.ID)
	}
	return nil
}

// Element ids of the nodes a question is drawn into.
func MatrixTargetID(id string) string         { return "matrix-" + id }
func FirstFrequencyTargetID(id string) string  { return "first-frequency-" + id }
func SecondFrequencyTargetID(id string) string { return "second-frequency-" + id }
func RatingNodeID(id string) string            { return "rating-" + id }
func StatsNodeID(id string) string             { return "stats-" + id }
