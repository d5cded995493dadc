package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/peerplot/pkg/config"
	"github.com/matzehuels/peerplot/pkg/errors"
	"github.com/matzehuels/peerplot/pkg/pipeline"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string // output directory
	formats     string // comma-separated formats
	ids         string // comma-separated question ids
	report      string // HTML report path
	matrixSize  float64
	width       float64
	height      float64
	scale       float64
	concurrency int
	animate     bool
	rsvg        bool
	noCache     bool
	refresh     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{output: "."}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render question statistics to files",
		Long: `Render every question to one file per target and format.

Files are named {target}-{id}.{format}, e.g. matrix-42.svg,
first-frequency-42.png. Without a file argument questions come from the
configured source.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			popts := renderPipelineOptions(cmd, cfg, &opts)
			if err := popts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, argOrEmpty(args), popts, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&opts.ids, "ids", "", "only render these question ids (comma-separated)")
	cmd.Flags().StringVar(&opts.report, "report", "", "also write an HTML report of all questions to this file")
	cmd.Flags().Float64Var(&opts.matrixSize, "matrix-size", 0, "confidence quadrant size in pixels")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "frequency chart width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "frequency chart height in pixels")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG scale factor")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "questions rendered in parallel")
	cmd.Flags().BoolVar(&opts.animate, "animate", false, "embed the bar transition in SVG output")
	cmd.Flags().BoolVar(&opts.rsvg, "rsvg", false, "rasterise PNG through rsvg-convert")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// renderPipelineOptions layers changed flags over the config file.
func renderPipelineOptions(cmd *cobra.Command, cfg config.Config, opts *renderOpts) pipeline.Options {
	p := cfg.PipelineOptions()
	flags := cmd.Flags()
	if flags.Changed("format") {
		p.Formats = parseFormats(opts.formats)
	}
	if flags.Changed("matrix-size") {
		p.MatrixSize = opts.matrixSize
	}
	if flags.Changed("width") {
		p.FrequencyWidth = opts.width
	}
	if flags.Changed("height") {
		p.FrequencyHeight = opts.height
	}
	if flags.Changed("scale") {
		p.Scale = opts.scale
	}
	if flags.Changed("concurrency") {
		p.Concurrency = opts.concurrency
	}
	if flags.Changed("animate") {
		p.Animate = opts.animate
	}
	if flags.Changed("rsvg") {
		p.RSVG = opts.rsvg
	}
	p.Refresh = opts.refresh
	return p
}

func (c *CLI) runRender(ctx context.Context, cfg config.Config, input string, popts pipeline.Options, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	src, err := c.openSource(ctx, cfg, input)
	if err != nil {
		return err
	}
	defer src.Close(ctx)

	qs, err := loadQuestions(ctx, src, parseIDs(opts.ids))
	if err != nil {
		return err
	}
	if len(qs) == 0 {
		printWarning("No questions to render")
		return nil
	}
	logger.Debug("loaded questions", "source", src.Name(), "count", len(qs))

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d questions...", len(qs)))
	spinner.Start()
	result, runErr := runner.Execute(ctx, qs, popts)
	if result == nil {
		if spinner.Cancelled() {
			spinner.Stop()
		} else {
			spinner.StopWithError("Render failed")
		}
		return runErr
	}
	spinner.Stop()

	written, err := writeArtifacts(opts.output, result)
	if err != nil {
		return err
	}
	for _, qr := range result.Questions {
		printQuestionResult(qr)
	}
	if opts.report != "" {
		if err := c.writeReport(ctx, runner, qs, popts, opts.report); err != nil {
			return err
		}
		written++
	}

	printStats(result.Stats, result.CacheInfo)
	prog.done(fmt.Sprintf("Wrote %d files to %s", written, opts.output))
	return runErr
}

func (c *CLI) writeReport(ctx context.Context, runner *pipeline.Runner, qs []stats.Question, popts pipeline.Options, path string) error {
	html, err := runner.Report(ctx, qs, popts)
	if err != nil {
		return err
	}
	if err := writeFile(path, html); err != nil {
		return err
	}
	printFile(path)
	return nil
}

// writeArtifacts writes every artifact of every rendered question into dir.
func writeArtifacts(dir string, result *pipeline.Result) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}
	n := 0
	for _, qr := range result.Questions {
		for _, name := range slices.Sorted(maps.Keys(qr.Artifacts)) {
			if err := errors.ValidateOutputPath(name); err != nil {
				return n, err
			}
			if err := writeFile(filepath.Join(dir, name), qr.Artifacts[name]); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func printQuestionResult(qr pipeline.QuestionResult) {
	switch {
	case qr.Err != nil:
		printError("%s: %s", qr.ID, errors.UserMessage(qr.Err))
	case qr.NoData:
		printWarning("%s: no first-choice answers, bars left empty", qr.ID)
	default:
		printSuccess("%s %s", qr.ID, renderRating(qr.Classification))
	}
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
