package plot

import (
	"github.com/matzehuels/peerplot/pkg/canvas"
	"github.com/matzehuels/peerplot/pkg/errors"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// MarginLeft is the gutter left of the second-choice track.
const MarginLeft = 30.0

const barOpacity = 0.2

// Element ids shared by every bar of one track.
func FirstChoiceBarID(id string) string  { return "first_choice-" + id }
func SecondChoiceBarID(id string) string { return "second_choice-" + id }

// RenderDivergingBars draws the mirrored bar charts of one question.
//
// freq must already be normalized. Both tracks share the scale
// x: [0,1] → [0, second.Width-MarginLeft]. First-choice bars are anchored
// at x(1) and grow leftward; second-choice bars are anchored at x(0) and
// grow rightward. Bars are emitted at zero width and carry their end state
// in [canvas.Shape.Final].
func RenderDivergingBars(id string, freq stats.Frequencies, first, second *canvas.Target) error {
	if first == nil || second == nil {
		return errors.New(errors.ErrCodeTargetNotFound, "bars %s: nil target", id)
	}
	if second.Width <= MarginLeft {
		return errors.New(errors.ErrCodeInvalidInput,
			"bars %s: target %s must be wider than %v", id, second.ID, MarginLeft)
	}
	if len(freq.FirstChoice) == 0 {
		return stats.ErrNoData
	}

	x := NewLinear(second.Width - MarginLeft)
	y := NewBand(freq.FirstChoice.Keys(), first.Height)
	dy := y.Bandwidth()/2 + labelDY

	// Second-choice track.
	g := canvas.NewGroup()
	g.TranslateX = MarginLeft
	g.AddGroup(bottomAxis(x))
	g.AddGroup(leftAxis(y, first.Height))

	bars := canvas.NewGroup()
	percents := canvas.NewGroup()
	keys := canvas.NewGroup()
	secondHeight := first.Height / float64(len(freq.SecondChoice))
	for _, k := range freq.SecondChoice.Keys() {
		v := freq.SecondChoice[k]
		top, ok := y.Scale(k)
		if !ok {
			return errors.New(errors.ErrCodeInvalidFrequency,
				"bars %s: second_choice key %q missing from first_choice", id, k)
		}

		bars.Add(bar(SecondChoiceBarID(id), top, secondHeight,
			canvas.Geometry{X: x.Scale(0), Width: 0},
			canvas.Geometry{X: x.Scale(0), Width: x.Scale(v)}))

		pct := label(x.Scale(0), top, dy, Percent(v))
		pct.DX = -2
		pct.Anchor = canvas.AnchorEnd
		percents.Add(pct)

		key := label(x.Scale(0), top, dy, k)
		key.DX = 2
		keys.Add(key)
	}
	g.AddGroup(bars).AddGroup(percents).AddGroup(keys)
	second.Append(g)

	// First-choice track.
	g = canvas.NewGroup()
	g.AddGroup(bottomAxis(x))

	bars = canvas.NewGroup()
	percents = canvas.NewGroup()
	firstHeight := first.Height / float64(len(freq.FirstChoice))
	for _, k := range freq.FirstChoice.Keys() {
		v := freq.FirstChoice[k]
		top, _ := y.Scale(k)

		bars.Add(bar(FirstChoiceBarID(id), top, firstHeight,
			canvas.Geometry{X: x.Scale(1), Width: 0},
			canvas.Geometry{X: x.Scale(1 - v), Width: x.Scale(v)}))

		pct := label(x.Scale(1), top, dy, Percent(v))
		pct.DX = 2
		percents.Add(pct)
	}
	g.AddGroup(bars).AddGroup(percents)
	first.Append(g)

	return nil
}

func bar(id string, y, height float64, initial, final canvas.Geometry) canvas.Shape {
	s := canvas.Rect(initial.X, y, initial.Width, height, canvas.Gray)
	s.ID = id
	s.Stroke = canvas.White
	s.Opacity = barOpacity
	s.Initial = &initial
	s.Final = &final
	return s
}

func label(x, y, dy float64, text string) canvas.Shape {
	s := canvas.Text(x, y, text)
	s.DY = dy
	s.FontSize = labelFontSize
	return s
}
