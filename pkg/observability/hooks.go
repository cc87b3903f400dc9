// Package observability provides hooks for instrumenting figure builds.
//
// Libraries emit events through the registered hooks; nothing is recorded
// unless a consumer registers an implementation at startup. The CLI uses
// this to log cache traffic in verbose mode.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetFigureHooks(&myFigureHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Figure().OnFigureStart(ctx, name, kind)
//	// ... simulate and draw ...
//	observability.Figure().OnFigureComplete(ctx, name, kind, len(svg), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// FigureHooks receives events for every figure that is generated, that is
// every figure not served from the cache.
type FigureHooks interface {
	OnFigureStart(ctx context.Context, name, kind string)
	OnFigureComplete(ctx context.Context, name, kind string, size int, duration time.Duration, err error)

	// OnConvert records a conversion of a figure to a non-SVG format.
	OnConvert(ctx context.Context, name, format string, duration time.Duration, err error)
}

// CacheHooks receives events from artifact cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, key string)
	OnCacheMiss(ctx context.Context, key string)
	OnCacheSet(ctx context.Context, key string, size int)
}

// NoopFigureHooks is a no-op implementation of FigureHooks.
type NoopFigureHooks struct{}

func (NoopFigureHooks) OnFigureStart(context.Context, string, string) {}
func (NoopFigureHooks) OnFigureComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopFigureHooks) OnConvert(context.Context, string, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	figureHooks FigureHooks = NoopFigureHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetFigureHooks registers figure hooks. A nil h is ignored.
func SetFigureHooks(h FigureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		figureHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Figure returns the registered figure hooks.
func Figure() FigureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return figureHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	figureHooks = NoopFigureHooks{}
	cacheHooks = NoopCacheHooks{}
}
