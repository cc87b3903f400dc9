package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/treeviz/pkg/buildinfo"
	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/config"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/figures"
	"github.com/matzehuels/treeviz/pkg/render"
	"github.com/matzehuels/treeviz/pkg/render/arg"
)

// BuildOptions narrows a build.
type BuildOptions struct {
	// Only lists the figure names to build; empty means all.
	Only []string
	// Refresh regenerates every figure, replacing cached artifacts.
	Refresh bool
}

// Build renders the configured figures into s.OutputDir as
// <name>.<format> and writes the manifest. It stops at the first failing
// figure; files written before it are kept, the manifest is not written.
func (r *Runner) Build(ctx context.Context, s config.Settings, opts BuildOptions) (*Manifest, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	for _, name := range opts.Only {
		if !slices.ContainsFunc(s.Figures, func(f config.Figure) bool { return f.Name == name }) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "no figure named %q", name)
		}
	}
	formats := make([]render.Format, len(s.Formats))
	for i, f := range s.Formats {
		formats[i] = render.Format(f)
	}
	if err := os.MkdirAll(s.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.OutputDir, err)
	}

	manifest := &Manifest{
		BuildID:   uuid.NewString(),
		Version:   buildinfo.Version,
		CreatedAt: time.Now().UTC(),
	}
	env := figures.Env{DataFile: s.DataFile, OutputDir: s.OutputDir}

	for _, f := range s.Figures {
		if len(opts.Only) > 0 && !slices.Contains(opts.Only, f.Name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		keyer, err := r.keyerFor(f, s.DataFile)
		if err != nil {
			return nil, err
		}
		spec := Spec{Figure: f, Formats: formats, Refresh: opts.Refresh}
		res, err := r.figure(ctx, spec, keyer, func(ctx context.Context) ([]byte, error) {
			return figures.Render(ctx, f, env)
		})
		if err != nil {
			return nil, err
		}
		if f.Kind == config.KindARG && res.CacheHit {
			if err := restoreARG(ctx, f, env, res); err != nil {
				return nil, err
			}
		}

		for _, format := range formats {
			file := f.Name + "." + string(format)
			data := res.Artifacts[format]
			if err := os.WriteFile(filepath.Join(s.OutputDir, file), data, 0644); err != nil {
				return nil, fmt.Errorf("write %s: %w", file, err)
			}
			manifest.Figures = append(manifest.Figures, ManifestEntry{
				Name:       f.Name,
				Kind:       f.Kind,
				Format:     string(format),
				File:       file,
				Bytes:      len(data),
				CacheHit:   res.CacheHit,
				DurationMS: res.Duration.Milliseconds(),
			})
		}
		r.Logger.Info("figure", "name", f.Name, "cached", res.CacheHit, "duration", res.Duration.Round(time.Millisecond))
	}

	if err := writeManifest(filepath.Join(s.OutputDir, ManifestFile), manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

// restoreARG rewrites the arg.svg that rendering an ARG figure leaves in
// the output directory, which a cache hit skips.
func restoreARG(ctx context.Context, f config.Figure, env figures.Env, res *Result) error {
	if svg, ok := res.Artifacts[render.FormatSVG]; ok {
		if err := os.WriteFile(filepath.Join(env.OutputDir, arg.FileName), svg, 0644); err != nil {
			return fmt.Errorf("write %s: %w", arg.FileName, err)
		}
		return nil
	}
	_, err := figures.Render(ctx, f, env)
	return err
}

// keyerFor scopes the keys of figures drawn from the data file by the
// file's content.
func (r *Runner) keyerFor(f config.Figure, dataFile string) (cache.Keyer, error) {
	if f.Kind != config.KindBasics && f.Kind != config.KindTreeMut {
		return r.Keyer, nil
	}
	data, err := os.ReadFile(dataFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "figure %s: read %s", f.Name, dataFile)
	}
	return cache.NewScopedKeyer(r.Keyer, "data:"+cache.Hash(data)[:16]+":"), nil
}

func writeManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by Build.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	return &m, nil
}
