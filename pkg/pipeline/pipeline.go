// Package pipeline provides the render pipeline for peerplot.
//
// This package implements the complete plot → render flow that the CLI and
// the HTTP service share. By centralizing it, both entry points cache,
// log and report the same way.
//
// # Architecture
//
// Each question goes through two stages:
//
//  1. Plot: classify the matrix, draw the quadrant, normalize the
//     frequencies and draw the diverging bars onto a fresh page
//  2. Render: serialize every target of the page in every requested format
//
// Questions are independent: each gets its own page, a failing question is
// recorded in its [QuestionResult] and never stops the batch.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, questions, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	for _, q := range result.Questions {
//	    svg := q.Artifacts["matrix-"+q.ID+".svg"]
//	}
//
// [Runner.Report] renders a batch into one HTML page instead.
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/peerplot/pkg/cache"
	"github.com/matzehuels/peerplot/pkg/plot"
	"github.com/matzehuels/peerplot/pkg/plot/sink"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultConcurrency bounds how many questions render at once.
	DefaultConcurrency = 4

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = string(sink.FormatSVG)
	FormatPNG  = string(sink.FormatPNG)
	FormatPDF  = string(sink.FormatPDF)
	FormatJSON = string(sink.FormatJSON)
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Target sizes in pixels
	MatrixSize      float64 `json:"matrix_size,omitempty"`
	FrequencyWidth  float64 `json:"frequency_width,omitempty"`
	FrequencyHeight float64 `json:"frequency_height,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Animate bool     `json:"animate,omitempty"` // SVG: embed the bar transition script
	RSVG    bool     `json:"rsvg,omitempty"`    // PNG: rasterise through rsvg-convert

	// Runtime options (not serialized)
	Concurrency int  `json:"-"`
	Refresh     bool `json:"-"` // bypass cache reads

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and exported JSON.
	RunID string

	// Questions holds one entry per input question, in input order.
	Questions []QuestionResult

	// Stats contains timing and count information.
	Stats Stats

	// CacheInfo counts questions served entirely from cache.
	CacheInfo CacheInfo
}

// QuestionResult is the outcome for one question.
type QuestionResult struct {
	ID string

	// Hash is the content hash of the question, used in cache keys.
	Hash string

	// Classification is the dominant category; zero when there is no signal.
	Classification stats.Classification

	// Artifacts maps "{target-id}.{format}" to rendered bytes.
	Artifacts map[string][]byte

	// NoData is set when the first-choice counts sum to zero; the bar
	// targets are rendered empty.
	NoData bool

	// CacheHit is set when every artifact came from cache.
	CacheHit bool

	// Err is the failure for this question, if any.
	Err error
}

// OK reports whether the question rendered.
func (q QuestionResult) OK() bool { return q.Err == nil }

// Stats contains pipeline execution statistics.
type Stats struct {
	Questions  int
	Rendered   int
	NoData     int
	Failed     int
	PlotTime   time.Duration // summed over questions
	RenderTime time.Duration // summed over questions
	Total      time.Duration // wall clock
}

// CacheInfo tracks cache hits for the run.
type CacheInfo struct {
	Hits   int
	Misses int
}

// ArtifactName returns the artifact key of a target in a format.
func ArtifactName(targetID, format string) string {
	return targetID + "." + format
}

// TargetIDs returns the render target ids of a question, in output order.
func TargetIDs(id string) []string {
	return []string{
		stats.MatrixTargetID(id),
		stats.FirstFrequencyTargetID(id),
		stats.SecondFrequencyTargetID(id),
	}
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Frame().Validate(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return fmt.Errorf("scale must be positive, got %v", o.Scale)
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero fields with defaults.
func (o *Options) SetDefaults() {
	if o.MatrixSize == 0 {
		o.MatrixSize = plot.DefaultMatrixSize
	}
	if o.FrequencyWidth == 0 {
		o.FrequencyWidth = plot.DefaultFrequencyWidth
	}
	if o.FrequencyHeight == 0 {
		o.FrequencyHeight = plot.DefaultFrequencyHeight
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
}

// Frame returns the target sizes.
func (o *Options) Frame() plot.Frame {
	return plot.Frame{
		MatrixSize:      o.MatrixSize,
		FrequencyWidth:  o.FrequencyWidth,
		FrequencyHeight: o.FrequencyHeight,
	}
}

// SinkOptions returns the options passed to every sink.
func (o *Options) SinkOptions() sink.Options {
	return sink.Options{Scale: o.Scale, Animate: o.Animate, RSVG: o.RSVG}
}

// ArtifactKeyOpts returns cache key options for one target in one format.
func (o *Options) ArtifactKeyOpts(target string, width, height float64, format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Target: target,
		Format: format,
		Width:  width,
		Height: height,
	}
	switch format {
	case FormatPNG:
		opts.Scale = o.Scale
		opts.RSVG = o.RSVG
	case FormatSVG:
		opts.Animate = o.Animate
	}
	return opts
}
