package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/matzehuels/peerplot/pkg/canvas"
	"github.com/matzehuels/peerplot/pkg/observability"
	"github.com/matzehuels/peerplot/pkg/plot"
	"github.com/matzehuels/peerplot/pkg/plot/sink"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// Plot draws q onto a fresh page sized by opts.
//
// A question with no first-choice data still returns its page (quadrant
// drawn, bars empty) together with an error wrapping [stats.ErrNoData].
func Plot(ctx context.Context, q stats.Question, opts Options) (*canvas.Page, error) {
	observability.Pipeline().OnPlotStart(ctx, q.ID)
	start := time.Now()

	page := plot.NewQuestionPage(opts.Frame(), q)
	err := plot.Plot(page, q)

	observability.Pipeline().OnPlotComplete(ctx, q.ID, time.Since(start), err)
	if err != nil && !stderrors.Is(err, stats.ErrNoData) {
		return nil, err
	}
	return page, err
}

// Render serializes every target of a question page in every requested
// format. Keys are "{target-id}.{format}".
func Render(ctx context.Context, page *canvas.Page, id string, opts Options) (map[string][]byte, error) {
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := render(ctx, page, id, opts)

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func render(ctx context.Context, page *canvas.Page, id string, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)
	sinkOpts := opts.SinkOptions()

	for _, targetID := range TargetIDs(id) {
		target, err := page.Target(targetID)
		if err != nil {
			return nil, err
		}
		for _, format := range opts.Formats {
			f, err := sink.ParseFormat(format)
			if err != nil {
				return nil, err
			}
			data, err := sink.Render(ctx, target, f, sinkOpts)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", ArtifactName(targetID, format), err)
			}
			artifacts[ArtifactName(targetID, format)] = data
		}
	}
	return artifacts, nil
}
