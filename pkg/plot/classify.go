package plot

import (
	"github.com/matzehuels/peerplot/pkg/canvas"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// ApplyClassification writes the dominant category of m into the page: the
// capitalized label into text node rating-{id} and the category colour onto
// stats-{id}. A matrix without signal leaves both nodes untouched.
//
// It returns the classification whether or not anything was written.
func ApplyClassification(page *canvas.Page, id string, m stats.ConfidenceMatrix) (stats.Classification, error) {
	c := stats.Classify(m)
	if !c.OK() {
		return c, nil
	}

	rating, err := page.Text(stats.RatingNodeID(id))
	if err != nil {
		return c, err
	}
	statsNode, err := page.Text(stats.StatsNodeID(id))
	if err != nil {
		return c, err
	}

	rating.Text = c.Label()
	statsNode.Color = Palette[c.Category]
	return c, nil
}
