package plot_test

import (
	"fmt"

	"github.com/matzehuels/peerplot/pkg/canvas"
	"github.com/matzehuels/peerplot/pkg/plot"
	"github.com/matzehuels/peerplot/pkg/stats"
)

func ExamplePercent() {
	fmt.Println(plot.Percent(0.76), plot.Percent(0.999))
	// Output: 76% 99%
}

func ExamplePlot() {
	q := stats.Question{
		ID:     "q1",
		Matrix: stats.ConfidenceMatrix{Easy: 0.2, Hard: 0.7, Tricky: 0.1},
		Freq: stats.Frequencies{
			FirstChoice:  stats.FrequencyTable{"A": 3, "B": 1},
			SecondChoice: stats.FrequencyTable{"A": 1},
		},
	}

	page := canvas.NewPage()
	plot.DefaultFrame().Register(page, q.ID)
	if err := plot.Plot(page, q); err != nil {
		fmt.Println("error:", err)
		return
	}

	rating, _ := page.Text("rating-q1")
	fmt.Println(rating.Text)

	first, _ := page.Target("first-frequency-q1")
	first.Walk(func(s canvas.Shape, _, _, _ float64) {
		if s.Animated() {
			fmt.Printf("%s x=%v width=%v\n", s.ID, s.Final.X, s.Final.Width)
		}
	})
	// Output:
	// Hard
	// first_choice-q1 x=33 width=98
	// first_choice-q1 x=98 width=33
}
