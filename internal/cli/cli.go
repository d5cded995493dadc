package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/peerplot/pkg/buildinfo"
	"github.com/matzehuels/peerplot/pkg/cache"
	"github.com/matzehuels/peerplot/pkg/config"
	"github.com/matzehuels/peerplot/pkg/errors"
	"github.com/matzehuels/peerplot/pkg/observability"
	"github.com/matzehuels/peerplot/pkg/pipeline"
	"github.com/matzehuels/peerplot/pkg/source"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "peerplot"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "peerplot renders peer-instruction question statistics",
		Long:         `peerplot turns per-question response statistics into a confidence quadrant and mirrored first/second choice bar charts, as SVG, PNG, PDF, JSON or an HTML report.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./peerplot.toml or ~/.config/peerplot/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config, Runner and Source Factories
// =============================================================================

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cc := cfg.Cache
	if noCache {
		cc.Backend = config.BackendNone
	}
	store, err := cc.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", cc.Backend, "error", err)
		store = cache.NewNullCache()
	}
	runner := pipeline.NewRunner(store, newKeyer(), c.Logger)
	if cc.TTL.Duration > 0 {
		runner.TTL = cc.TTL.Duration
	}
	return runner, nil
}

// newKeyer scopes cache keys by release so a new renderer never serves
// artifacts drawn by an old one.
func newKeyer() cache.Keyer {
	return cache.NewScopedKeyer(nil, buildinfo.Version+":")
}

// openSource returns a file source for path, or the configured source when
// path is empty. Remote sources are wrapped with the question cache.
func (c *CLI) openSource(ctx context.Context, cfg config.Config, path string) (source.Source, error) {
	if path != "" {
		return source.NewFile(path), nil
	}
	src, err := cfg.Source.OpenSource(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Source.Kind == config.SourceFile || cfg.Cache.Backend == config.BackendNone {
		return src, nil
	}
	store, err := cfg.Cache.OpenCache(ctx)
	if err != nil {
		c.Logger.Debug("question cache unavailable", "error", err)
		return src, nil
	}
	return source.Cached(src, store, newKeyer(), 0), nil
}

// loadQuestions lists every question of src, keeping only ids when given.
func loadQuestions(ctx context.Context, src source.Source, ids []string) ([]stats.Question, error) {
	observability.Pipeline().OnLoadStart(ctx, src.Name())
	start := time.Now()

	qs, err := src.List(ctx)
	if err == nil && len(ids) > 0 {
		qs, err = filterQuestions(qs, ids)
	}

	observability.Pipeline().OnLoadComplete(ctx, src.Name(), len(qs), time.Since(start), err)
	return qs, err
}

// filterQuestions keeps the questions named by ids, in ids order.
func filterQuestions(qs []stats.Question, ids []string) ([]stats.Question, error) {
	byID := make(map[string]stats.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}
	out := make([]stats.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, errQuestionNotFound(id)
		}
		out = append(out, q)
	}
	return out, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseIDs parses a comma-separated id list.
func parseIDs(s string) []string {
	var out []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func errQuestionNotFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "question %q not found", id)
}
