package plot

import (
	"github.com/matzehuels/peerplot/pkg/canvas"
)

const (
	tickSize    = 6.0
	tickPadding = 3.0
	axisFont    = 7.5 // pt, 10px
)

// bottomAxis draws a horizontal axis for x along y=0. The group is fully
// transparent: it reserves the guide without showing it.
func bottomAxis(x Linear) *canvas.Group {
	g := canvas.NewGroup()
	g.Class = "axis axis--x"
	g.Opacity = 0

	g.Add(canvas.Line(0, 0, x.Size(), 0, canvas.Black))
	for _, v := range x.Ticks() {
		pos := x.Scale(v)
		g.Add(canvas.Line(pos, 0, pos, tickSize, canvas.Black))

		label := canvas.Text(pos, tickSize+tickPadding, formatTick(v))
		label.DY = 7.1
		label.FontSize = axisFont
		label.Anchor = canvas.AnchorMiddle
		g.Add(label)
	}
	return g
}

// leftAxis draws a vertical axis for y along x=0, fully transparent.
func leftAxis(y Band, height float64) *canvas.Group {
	g := canvas.NewGroup()
	g.Class = "axis axis--y"
	g.Opacity = 0

	g.Add(canvas.Line(0, 0, 0, height, canvas.Black))
	for _, key := range y.Keys() {
		start, _ := y.Scale(key)
		pos := start + y.Bandwidth()/2
		g.Add(canvas.Line(-tickSize, pos, 0, pos, canvas.Black))

		label := canvas.Text(-(tickSize + tickPadding), pos, key)
		label.DY = 3.2
		label.FontSize = axisFont
		label.Anchor = canvas.AnchorEnd
		g.Add(label)
	}
	return g
}
