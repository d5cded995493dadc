package plot

import (
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/peerplot/pkg/canvas"
	"github.com/matzehuels/peerplot/pkg/errors"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// Default target sizes in pixels.
const (
	DefaultMatrixSize      = 100.0
	DefaultFrequencyWidth  = 160.0
	DefaultFrequencyHeight = 80.0
)

// Frame holds the declared sizes of a question's render targets.
type Frame struct {
	MatrixSize      float64
	FrequencyWidth  float64
	FrequencyHeight float64
}

// DefaultFrame returns the default target sizes.
func DefaultFrame() Frame {
	return Frame{
		MatrixSize:      DefaultMatrixSize,
		FrequencyWidth:  DefaultFrequencyWidth,
		FrequencyHeight: DefaultFrequencyHeight,
	}
}

// Validate checks every size is positive and the frequency track leaves room
// for the left margin.
func (f Frame) Validate() error {
	if f.MatrixSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "matrix size must be positive, got %v", f.MatrixSize)
	}
	if f.FrequencyHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "frequency height must be positive, got %v", f.FrequencyHeight)
	}
	if f.FrequencyWidth <= MarginLeft {
		return errors.New(errors.ErrCodeInvalidInput, "frequency width must exceed %v, got %v", MarginLeft, f.FrequencyWidth)
	}
	return nil
}

// Register adds the targets and text nodes of question id to page.
func (f Frame) Register(page *canvas.Page, id string) {
	page.AddTarget(stats.MatrixTargetID(id), f.MatrixSize, f.MatrixSize)
	page.AddTarget(stats.FirstFrequencyTargetID(id), f.FrequencyWidth, f.FrequencyHeight)
	page.AddTarget(stats.SecondFrequencyTargetID(id), f.FrequencyWidth, f.FrequencyHeight)
	page.AddText(stats.RatingNodeID(id))
	page.AddText(stats.StatsNodeID(id))
}

// NewQuestionPage returns a page holding the targets of q only.
func NewQuestionPage(f Frame, q stats.Question) *canvas.Page {
	page := canvas.NewPage()
	f.Register(page, q.ID)
	return page
}

// Plot renders one question onto page: the rating, the quadrant, then the
// diverging bars.
//
// When the first-choice counts sum to zero the bars are skipped and the
// returned error wraps [stats.ErrNoData]; everything else has been drawn.
func Plot(page *canvas.Page, q stats.Question) error {
	if err := q.Validate(); err != nil {
		return err
	}

	if _, err := ApplyClassification(page, q.ID, q.Matrix); err != nil {
		return err
	}

	matrix, err := page.Target(stats.MatrixTargetID(q.ID))
	if err != nil {
		return err
	}
	if err := RenderQuadrant(q.Matrix, matrix); err != nil {
		return err
	}

	freq, err := stats.Normalize(q.Freq)
	if err != nil {
		return fmt.Errorf("question %s: %w", q.ID, err)
	}

	first, err := page.Target(stats.FirstFrequencyTargetID(q.ID))
	if err != nil {
		return err
	}
	second, err := page.Target(stats.SecondFrequencyTargetID(q.ID))
	if err != nil {
		return err
	}
	return RenderDivergingBars(q.ID, freq, first, second)
}

// PlotAll renders every question onto page. A failing question does not
// stop the others; all errors are joined. Questions share targets by id, so
// a repeated id fails with INVALID_ID instead of drawing twice.
func PlotAll(page *canvas.Page, questions []stats.Question) error {
	var errs []error
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			errs = append(errs, errors.New(errors.ErrCodeInvalidID, "question %s: repeated id", q.ID))
			continue
		}
		seen[q.ID] = true
		if err := Plot(page, q); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
