package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeviz/pkg/buildinfo"
	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/observability"
	"github.com/matzehuels/treeviz/pkg/render"
)

// Runner executes figures with caching.
//
// The Runner holds no build state besides its cache and logger, so the
// same Runner can run any number of figures.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of stored artifacts.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// keys on the current build version and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer(buildinfo.CacheVersion())
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

// Figure returns the figure in every requested format, running fn only
// when some format is missing from the cache.
func (r *Runner) Figure(ctx context.Context, spec Spec, fn FigureFunc) (*Result, error) {
	return r.figure(ctx, spec, r.Keyer, fn)
}

func (r *Runner) figure(ctx context.Context, spec Spec, keyer cache.Keyer, fn FigureFunc) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	name, kind := spec.Figure.Name, spec.Figure.Kind

	keys := make(map[render.Format]string, len(spec.Formats))
	for _, f := range spec.Formats {
		keys[f] = keyer.ArtifactKey(spec.Figure, string(f))
	}

	if !spec.Refresh {
		if artifacts, ok := r.lookup(ctx, spec.Formats, keys); ok {
			r.Logger.Debug("cache hit", "figure", name, "formats", spec.Formats)
			return &Result{
				Name:      name,
				Artifacts: artifacts,
				CacheHit:  true,
				Duration:  time.Since(start),
			}, nil
		}
	}

	hooks := observability.Figure()
	hooks.OnFigureStart(ctx, name, kind)
	svg, err := fn(ctx)
	hooks.OnFigureComplete(ctx, name, kind, len(svg), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("figure %s: %w", name, err)
	}

	artifacts := make(map[render.Format][]byte, len(spec.Formats))
	for _, f := range spec.Formats {
		convStart := time.Now()
		data, err := render.Convert(ctx, svg, f)
		if f != render.FormatSVG {
			hooks.OnConvert(ctx, name, string(f), time.Since(convStart), err)
		}
		if err != nil {
			return nil, fmt.Errorf("figure %s: convert %s: %w", name, f, err)
		}
		artifacts[f] = data
	}

	for f, data := range artifacts {
		if err := r.Cache.Set(ctx, keys[f], data, r.TTL); err != nil {
			r.Logger.Warn("cannot store artifact", "figure", name, "format", f, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keys[f], len(data))
	}

	r.Logger.Debug("generated figure", "figure", name, "kind", kind, "bytes", len(svg), "duration", time.Since(start))
	return &Result{
		Name:      name,
		Artifacts: artifacts,
		Duration:  time.Since(start),
	}, nil
}

// lookup returns the artifacts when every format is cached. Cache errors
// count as misses.
func (r *Runner) lookup(ctx context.Context, formats []render.Format, keys map[render.Format]string) (map[render.Format][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[render.Format][]byte, len(formats))
	for _, f := range formats {
		data, hit, err := r.Cache.Get(ctx, keys[f])
		if err != nil {
			r.Logger.Warn("cache lookup failed", "key", keys[f], "err", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, keys[f])
			return nil, false
		}
		hooks.OnCacheHit(ctx, keys[f])
		artifacts[f] = data
	}
	return artifacts, true
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
