// Package plot draws a question's response analytics onto a [canvas.Page].
//
// Two artifacts are produced per question:
//
//   - A 2×2 confidence quadrant ([RenderQuadrant]): one square per category
//     at a fixed position, filled with the category colour and with an
//     opacity of 0.5 + 0.5·value, labelled with the truncated percentage.
//   - Mirrored diverging bar charts ([RenderDivergingBars]): first-choice
//     bars grow leftward from a right-hand baseline, second-choice bars grow
//     rightward from a left-hand baseline, both on one shared scale.
//
// [Plot] runs the whole sequence for one question: classification, quadrant,
// normalization and bars. The targets it draws into are registered with
// [Frame.Register]:
//
//	page := canvas.NewPage()
//	plot.DefaultFrame().Register(page, q.ID)
//	if err := plot.Plot(page, q); err != nil {
//	    // stats.ErrNoData: bars skipped, quadrant drawn
//	}
//
// # Percentages
//
// Every percentage label truncates: 0.76 renders as "76%", 0.999 as "99%".
//
// # Re-rendering
//
// Rendering appends. Calling a renderer twice on the same target draws every
// primitive twice; call [canvas.Target.Clear] (or [canvas.Page.Clear]) first.
//
// # Animation
//
// Bars are emitted at zero width with their end state in
// [canvas.Shape.Final]. Tweening between the two is left to the consumer.
package plot
