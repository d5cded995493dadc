package plot

import (
	"github.com/matzehuels/peerplot/pkg/canvas"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// Palette is the fixed colour of each category.
var Palette = map[stats.Category]canvas.Color{
	stats.Easy:   canvas.RGB(30, 142, 62),
	stats.Hard:   canvas.RGB(237, 69, 40),
	stats.Tricky: canvas.RGB(237, 170, 30),
	stats.Peer:   canvas.RGB(25, 118, 188),
}

const (
	labelFontSize = 8.0 // pt
	labelDY       = 4.0
)
