package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/peerplot/pkg/cache"
	"github.com/matzehuels/peerplot/pkg/canvas"
	"github.com/matzehuels/peerplot/pkg/observability"
	"github.com/matzehuels/peerplot/pkg/plot"
	"github.com/matzehuels/peerplot/pkg/plot/sink"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached artifacts.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLArtifact,
	}
}

// Execute plots and renders every question with caching.
//
// Questions render concurrently, at most opts.Concurrency at a time. A
// failing question is recorded in its result and the rest continue; the
// returned error joins every failure. Questions without first-choice data
// are not failures: they render with empty bars and are counted in
// Stats.NoData.
func (r *Runner) Execute(ctx context.Context, questions []stats.Question, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()
	result := &Result{
		RunID:     uuid.NewString(),
		Questions: make([]QuestionResult, len(questions)),
	}
	r.Logger.Debug("starting run", "run", result.RunID, "questions", len(questions), "formats", opts.Formats)

	var plotNanos, renderNanos atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, q := range questions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			qr, timing := r.renderQuestion(gctx, q, opts)
			plotNanos.Add(int64(timing.plot))
			renderNanos.Add(int64(timing.render))
			result.Questions[i] = qr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var errs []error
	for _, qr := range result.Questions {
		switch {
		case qr.Err != nil:
			result.Stats.Failed++
			errs = append(errs, qr.Err)
		case qr.NoData:
			result.Stats.NoData++
		}
		if qr.Err == nil {
			result.Stats.Rendered++
		}
		if qr.CacheHit {
			result.CacheInfo.Hits++
		} else {
			result.CacheInfo.Misses++
		}
	}
	result.Stats.Questions = len(questions)
	result.Stats.PlotTime = time.Duration(plotNanos.Load())
	result.Stats.RenderTime = time.Duration(renderNanos.Load())
	result.Stats.Total = time.Since(start)

	r.Logger.Info("rendered questions",
		"run", result.RunID,
		"rendered", result.Stats.Rendered,
		"failed", result.Stats.Failed,
		"cached", result.CacheInfo.Hits,
		"duration", result.Stats.Total)

	return result, stderrors.Join(errs...)
}

type questionTiming struct {
	plot, render time.Duration
}

// renderQuestion serves q from cache when every artifact is present, and
// plots and renders it otherwise.
func (r *Runner) renderQuestion(ctx context.Context, q stats.Question, opts Options) (QuestionResult, questionTiming) {
	var timing questionTiming
	qr := QuestionResult{
		ID:     q.ID,
		NoData: q.Freq.FirstChoice.Total() == 0,
	}
	if err := q.Validate(); err != nil {
		qr.Err = err
		r.Logger.Error("invalid question", "id", q.ID, "error", err)
		return qr, timing
	}
	qr.Classification = stats.Classify(q.Matrix)

	hash, err := cache.HashJSON(q)
	if err != nil {
		qr.Err = fmt.Errorf("hash question %s: %w", q.ID, err)
		return qr, timing
	}
	qr.Hash = hash
	keys := r.artifactKeys(hash, q.ID, opts)

	if !opts.Refresh {
		if artifacts, ok := r.lookup(ctx, keys); ok {
			qr.Artifacts = artifacts
			qr.CacheHit = true
			r.Logger.Debug("cache hit", "id", q.ID, "artifacts", len(artifacts))
			return qr, timing
		}
	}

	plotStart := time.Now()
	page, err := Plot(ctx, q, opts)
	timing.plot = time.Since(plotStart)
	if err != nil && !stderrors.Is(err, stats.ErrNoData) {
		qr.Err = err
		r.Logger.Error("plot failed", "id", q.ID, "error", err)
		return qr, timing
	}
	if err != nil {
		r.Logger.Warn("no first-choice data, bars skipped", "id", q.ID)
	}

	renderStart := time.Now()
	artifacts, err := Render(ctx, page, q.ID, opts)
	timing.render = time.Since(renderStart)
	if err != nil {
		qr.Err = fmt.Errorf("question %s: %w", q.ID, err)
		r.Logger.Error("render failed", "id", q.ID, "error", err)
		return qr, timing
	}
	qr.Artifacts = artifacts

	r.store(ctx, keys, artifacts)
	r.Logger.Info("rendered question",
		"id", q.ID,
		"rating", qr.Classification.Label(),
		"artifacts", len(artifacts),
		"duration", timing.plot+timing.render)
	return qr, timing
}

// artifactKeys maps artifact names to cache keys for one question.
func (r *Runner) artifactKeys(hash, id string, opts Options) map[string]string {
	frame := opts.Frame()
	sizes := map[string][2]float64{
		stats.MatrixTargetID(id):          {frame.MatrixSize, frame.MatrixSize},
		stats.FirstFrequencyTargetID(id):  {frame.FrequencyWidth, frame.FrequencyHeight},
		stats.SecondFrequencyTargetID(id): {frame.FrequencyWidth, frame.FrequencyHeight},
	}
	keys := make(map[string]string, len(sizes)*len(opts.Formats))
	for _, targetID := range TargetIDs(id) {
		size := sizes[targetID]
		for _, format := range opts.Formats {
			keyOpts := opts.ArtifactKeyOpts(targetKind(targetID, id), size[0], size[1], format)
			keys[ArtifactName(targetID, format)] = r.Keyer.ArtifactKey(hash, keyOpts)
		}
	}
	return keys
}

// targetKind returns a target id without its question suffix.
func targetKind(targetID, id string) string {
	return targetID[:len(targetID)-len(id)-1]
}

func (r *Runner) lookup(ctx context.Context, keys map[string]string) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(keys))
	for name, key := range keys {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Debug("cache read failed", "key", key, "error", err)
		}
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		artifacts[name] = data
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return artifacts, true
}

func (r *Runner) store(ctx context.Context, keys map[string]string, artifacts map[string][]byte) {
	for name, data := range artifacts {
		if err := r.Cache.Set(ctx, keys[name], data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "artifact", name, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
}

// Report plots every question onto one page and returns the HTML report.
// Questions without first-choice data appear with empty bars. Questions
// that fail to plot, and repeats of an id already in the batch, are logged
// and left out; the rest of the report is still rendered.
func (r *Runner) Report(ctx context.Context, questions []stats.Question, opts Options, htmlOpts ...sink.HTMLOption) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hash, err := cache.HashJSON(struct {
		Questions []stats.Question
		Frame     plot.Frame
	}{questions, opts.Frame()})
	if err != nil {
		return nil, fmt.Errorf("hash questions: %w", err)
	}
	key := r.Keyer.ArtifactKey(hash, cache.ArtifactKeyOpts{Target: "report", Format: "html"})
	if !opts.Refresh && len(htmlOpts) == 0 {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "report")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "report")
	}

	start := time.Now()
	page := canvas.NewPage()
	plotted := make([]stats.Question, 0, len(questions))
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			r.Logger.Warn("skipping repeated question id", "id", q.ID)
			continue
		}
		seen[q.ID] = true

		opts.Frame().Register(page, q.ID)
		err := plot.Plot(page, q)
		switch {
		case err == nil:
		case stderrors.Is(err, stats.ErrNoData):
			r.Logger.Warn("question has no first-choice data", "id", q.ID)
		default:
			r.Logger.Warn("leaving question out of report", "id", q.ID, "error", err)
			continue
		}
		plotted = append(plotted, q)
	}
	data, err := sink.RenderHTML(page, plotted, htmlOpts...)
	if err != nil {
		return nil, err
	}
	if len(htmlOpts) == 0 {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "report", len(data))
		}
	}

	r.Logger.Info("rendered report", "questions", len(plotted), "skipped", len(questions)-len(plotted), "bytes", len(data), "duration", time.Since(start))
	return data, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
