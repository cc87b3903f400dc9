package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/config"
	"github.com/matzehuels/treeviz/pkg/pipeline"
)

type buildOpts struct {
	config  string
	noCache bool
	refresh bool
	only    []string
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [figure...]",
		Short: "Build every configured figure",
		Long: `Build every configured figure.

Figures are read from treeviz.toml (or the defaults when it is missing) and
written to the output directory as <name>.<format>, next to a manifest.json
describing the build. Unchanged figures are copied from the artifact cache.

Name figures as arguments to build only those.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.only = args
			return c.runBuild(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.config, "config", config.DefaultSettingsFile, "build settings file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate every figure and refresh the cache")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, opts buildOpts) error {
	logger := loggerFromContext(ctx)

	s, err := loadSettings(opts.config)
	if err != nil {
		return err
	}
	ttl, err := s.Cache.TTLDuration()
	if err != nil {
		return err
	}

	var store cache.Cache = cache.NewNullCache()
	if !opts.noCache {
		if store, err = openCache(ctx, s.Cache); err != nil {
			return err
		}
	}
	runner := pipeline.NewRunner(store, nil, logger)
	runner.TTL = ttl
	defer runner.Close()

	logger.Debug("build", "output", s.OutputDir, "figures", len(s.Figures), "formats", s.Formats, "cache", s.Cache.Backend)

	spinner := newSpinnerWithContext(ctx, "Building figures...")
	spinner.Start()
	start := time.Now()
	manifest, err := runner.Build(ctx, s, pipeline.BuildOptions{Only: opts.only, Refresh: opts.refresh})
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	cached := 0
	for _, e := range manifest.Figures {
		if e.CacheHit {
			cached++
		}
	}
	printSuccess("Built %d files in %s", len(manifest.Figures), time.Since(start).Round(time.Millisecond))
	for _, e := range manifest.Figures {
		printFigureLine(filepath.Join(s.OutputDir, e.File), e.Bytes, e.CacheHit)
	}
	printDetail("%d from cache · build %s", cached, manifest.BuildID)
	return nil
}
