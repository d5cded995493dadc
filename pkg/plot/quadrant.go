package plot

import (
	"github.com/matzehuels/peerplot/pkg/canvas"
	"github.com/matzehuels/peerplot/pkg/errors"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// quadrant is the fixed cell of a category, in units of half the target size.
type quadrant struct {
	category stats.Category
	col, row float64
}

// quadrants is also the draw order.
var quadrants = []quadrant{
	{stats.Easy, 0, 0},
	{stats.Hard, 1, 1},
	{stats.Peer, 0, 1},
	{stats.Tricky, 1, 0},
}

// Opacity returns the square opacity for a category weight. A weight of 0
// still draws at half strength.
func Opacity(v float64) float64 { return 0.5 + 0.5*v }

// RenderQuadrant appends one group holding the four category squares and
// their percentage labels. The square side is half the target width.
func RenderQuadrant(m stats.ConfidenceMatrix, target *canvas.Target) error {
	if target == nil {
		return errors.New(errors.ErrCodeTargetNotFound, "quadrant: nil target")
	}
	if target.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "quadrant: target %s has no width", target.ID)
	}

	size := target.Width
	half := size / 2
	g := canvas.NewGroup()

	for _, q := range quadrants {
		v := m.Value(q.category)

		square := canvas.Rect(q.col*half, q.row*half, half, half, Palette[q.category])
		square.Class = string(q.category)
		square.Opacity = Opacity(v)

		label := canvas.Text(q.col*half+size/4, q.row*half+size/4, Percent(v))
		label.DY = labelDY
		label.FontSize = labelFontSize
		label.Fill = canvas.White
		label.Anchor = canvas.AnchorMiddle

		g.Add(square, label)
	}

	target.Append(g)
	return nil
}
