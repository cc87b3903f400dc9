package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeviz/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of an operation with its elapsed time.
// It is meant for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "drew threedtree (412ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports figure and cache events at debug level. It is
// registered with --verbose.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.FigureHooks = (*logHooks)(nil)
	_ observability.CacheHooks  = (*logHooks)(nil)
)

func (h *logHooks) OnFigureStart(_ context.Context, name, kind string) {
	h.logger.Debug("generating figure", "figure", name, "kind", kind)
}

func (h *logHooks) OnFigureComplete(_ context.Context, name, kind string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("figure failed", "figure", name, "err", err)
		return
	}
	h.logger.Debug("figure done", "figure", name, "bytes", size, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnConvert(_ context.Context, name, format string, d time.Duration, err error) {
	h.logger.Debug("converted", "figure", name, "format", format, "duration", d.Round(time.Millisecond), "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", shortKey(key))
}

func (h *logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", shortKey(key))
}

func (h *logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache store", "key", shortKey(key), "bytes", size)
}

// shortKey trims the hash of a cache key for display.
func shortKey(key string) string {
	if len(key) > 24 {
		return key[:24] + "…"
	}
	return key
}
