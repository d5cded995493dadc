// Package sink serializes drawn targets into output formats.
//
// # Overview
//
// A "sink" transforms a [canvas.Target] (or a whole [canvas.Page]) into
// bytes:
//
//   - SVG: one document per target, optionally with the bar transition script
//   - JSON: draw commands with initial and final bar geometry
//   - PNG: built-in rasteriser (Go Regular font), or rsvg-convert on request
//   - PDF: via rsvg-convert
//   - HTML: a report page laying out every question of a page
//
// # Animation
//
// Bars are drawn by [plot.RenderDivergingBars] at zero width with their end
// state attached. [RenderSVG] writes the end state as data-final-x and
// data-final-width attributes; [WithAnimation] and [RenderHTML] embed a
// small script that tweens every bar to it. Static formats (PNG, PDF, and
// SVG with [WithFinalState]) draw bars at their end state directly.
//
//	svg := sink.RenderSVG(target, sink.WithAnimation())
//	png, err := sink.RenderPNG(ctx, target, sink.WithScale(2))
//	page, err := sink.RenderHTML(p, questions)
//
// [Render] dispatches on a [Format] and is what the CLI and HTTP service use.
//
// PDF output, and PNG output with [WithRSVG], require librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [plot.RenderDivergingBars]: github.com/matzehuels/peerplot/pkg/plot.RenderDivergingBars
package sink
