package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/peerplot/pkg/observability"
)

// logHooks reports pipeline, cache and HTTP events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

// RegisterLogHooks routes observability events to the CLI logger. main calls
// it when --verbose is set.
func (c *CLI) RegisterLogHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnLoadStart(_ context.Context, src string) {
	h.logger.Debug("loading questions", "source", src)
}

func (h logHooks) OnLoadComplete(_ context.Context, src string, n int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", src, "duration", d, "error", err)
		return
	}
	h.logger.Debug("loaded questions", "source", src, "count", n, "duration", d)
}

func (h logHooks) OnPlotStart(_ context.Context, id string) {
	h.logger.Debug("plotting", "id", id)
}

func (h logHooks) OnPlotComplete(_ context.Context, id string, d time.Duration, err error) {
	h.logger.Debug("plotted", "id", id, "duration", d, "error", err)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("rendering", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("rendered", "formats", formats, "duration", d, "error", err)
}

func (h logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}
