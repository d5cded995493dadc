// Package canvas is the drawing surface peerplot renders into.
//
// Renderers never touch an output format directly. They append declarative
// draw commands ([Shape] values grouped in a [Group]) to a [Target], and a
// sink in package sink turns targets into SVG, PNG, PDF, JSON or an HTML
// page. This keeps the data transformation testable without any display.
//
// # Page, Target and TextNode
//
// A [Page] owns every target and text node of one or more questions, keyed
// by element id:
//
//	page := canvas.NewPage()
//	page.AddTarget("matrix-42", 100, 100)
//	page.AddText("rating-42")
//
// Renderers append to targets and never remove anything. Drawing twice into
// the same target without [Target.Clear] duplicates every primitive; callers
// that re-render must clear first.
//
// # Animated geometry
//
// Shapes that are meant to be animated carry both an [Shape.Initial] and a
// [Shape.Final] geometry. The shape's own X and Width are the initial values.
// An external driver (the script embedded in the HTML sink, for example)
// tweens from one to the other; nothing in this package deals with time.
//
// # Concurrency
//
// Pages and targets are not safe for concurrent use. Concurrent renders into
// the same target are undefined; the pipeline gives each question its own
// page.
package canvas
