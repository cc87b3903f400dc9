// Package pipeline runs figures through the artifact cache and writes a
// documentation build.
//
// # Architecture
//
// A figure is any function that returns SVG. The [Runner] wraps it with:
//
//  1. Cache lookup: one key per output format, derived from the figure
//     settings and the build version
//  2. Generation: on a miss the function runs once
//  3. Conversion: the SVG is converted to every other requested format
//
// [Runner.Build] applies this to every figure of a [config.Settings] and
// records the outcome in a manifest.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Figure(ctx, pipeline.Spec{
//	    Figure:  config.Figure{Name: "arg", Kind: config.KindARG},
//	    Formats: []render.Format{render.FormatSVG},
//	}, func(ctx context.Context) ([]byte, error) {
//	    return figures.Render(ctx, f, env)
//	})
//
// Or build everything:
//
//	manifest, err := runner.Build(ctx, settings)
package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/treeviz/pkg/config"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/render"
)

// FigureFunc generates a figure as SVG.
type FigureFunc func(ctx context.Context) ([]byte, error)

// Spec identifies a figure run. The whole Figure is part of the cache key.
type Spec struct {
	Figure  config.Figure
	Formats []render.Format

	// Refresh skips the cache lookup; the result is still stored.
	Refresh bool
}

// Validate checks the spec and defaults Formats to SVG.
func (s *Spec) Validate() error {
	if err := errors.ValidateFigureName(s.Figure.Name); err != nil {
		return err
	}
	if len(s.Formats) == 0 {
		s.Formats = []render.Format{render.FormatSVG}
	}
	for _, f := range s.Formats {
		if _, err := render.ParseFormat(string(f)); err != nil {
			return err
		}
	}
	return nil
}

// Result holds the artifacts of one figure run.
type Result struct {
	Name string

	// Artifacts contains the figure keyed by format.
	Artifacts map[render.Format][]byte

	// CacheHit is set when every format came from the cache.
	CacheHit bool

	Duration time.Duration
}

// Manifest describes a build. It is written as manifest.json next to the
// figures.
type Manifest struct {
	BuildID   string          `json:"build_id"`
	Version   string          `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	Figures   []ManifestEntry `json:"figures"`
}

// ManifestEntry describes one written file.
type ManifestEntry struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Format     string `json:"format"`
	File       string `json:"file"`
	Bytes      int    `json:"bytes"`
	CacheHit   bool   `json:"cache_hit"`
	DurationMS int64  `json:"duration_ms"`
}

// ManifestFile is the manifest's name inside the output directory.
const ManifestFile = "manifest.json"
