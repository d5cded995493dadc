// Package pkg provides the core libraries for peerplot question analytics.
//
// # Overview
//
// peerplot turns the response statistics of a peer-instruction question into
// two pictures: a 2x2 confidence quadrant and a pair of mirrored bar charts
// comparing first and second answer choices. The pkg directory is organized
// into these areas:
//
//  1. [stats] - Domain types (categories, matrices, frequency tables) with
//     classification and normalisation
//  2. [canvas] - Declarative draw commands: pages, targets, groups, shapes
//  3. [plot] - Scales and the quadrant and bar renderers
//  4. [plot/sink] - Output formats (SVG, PNG, PDF, JSON, HTML report)
//  5. [pipeline] - Orchestration (validate, plot, render, cache)
//
// # Architecture
//
// The typical data flow through peerplot:
//
//	Question statistics (JSON file or MongoDB)
//	         ↓
//	    [source] package (load questions)
//	         ↓
//	    [stats] package (classify + normalise)
//	         ↓
//	    [plot] package (draw onto a [canvas] page)
//	         ↓
//	    [plot/sink] package (SVG/PNG/PDF/JSON/HTML)
//
// # Quick Start
//
// Plot one question and write its quadrant as SVG:
//
//	import (
//	    "github.com/matzehuels/peerplot/pkg/plot"
//	    "github.com/matzehuels/peerplot/pkg/plot/sink"
//	)
//
//	page := plot.NewQuestionPage(plot.DefaultFrame(), q)
//	if err := plot.Plot(page, q); err != nil && !errors.Is(err, stats.ErrNoData) {
//	    return err
//	}
//	svg := sink.RenderSVG(page.Target("matrix-" + q.ID))
//
// For batches, caching and concurrency use [pipeline.Runner]:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, questions, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//
// # Supporting Packages
//
// [cache] stores rendered artifacts on disk or in Redis. [config] loads
// peerplot.toml and PEERPLOT_* environment overrides. [errors] carries error
// codes shared by the CLI and the HTTP service. [io] reads and writes question
// batches as JSON. [observability] exposes hooks for metrics and tracing.
// [render] converts SVG to PDF or PNG through rsvg-convert. [buildinfo]
// carries version data injected at link time.
//
// [stats]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/stats
// [canvas]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/canvas
// [plot]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/plot
// [plot/sink]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/plot/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/pipeline#Runner
// [source]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/render
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/peerplot/pkg/buildinfo
package pkg
