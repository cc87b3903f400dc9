// Package cli implements the treeviz command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/buildinfo"
	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/config"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/observability"
	"github.com/matzehuels/treeviz/pkg/pipeline"
	"github.com/matzehuels/treeviz/pkg/render"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose bool
}

// New creates a CLI logging to w.
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
		Use:   "treeviz",
		Short: "treeviz draws the tree-sequence figures of the documentation",
		Long: `treeviz simulates the example genealogies used throughout the documentation
and draws them as SVG: the 3D tree sequence, the ancestral recombination graph,
recombination trees, tree topologies under four scenarios, and the basics trees.

Run 'treeviz build' to regenerate every figure configured in treeviz.toml.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				hooks := &logHooks{logger: c.Logger}
				observability.SetFigureHooks(hooks)
				observability.SetCacheHooks(hooks)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.varsCommand())
	root.AddCommand(c.threedCommand())
	root.AddCommand(c.argCommand())
	root.AddCommand(c.recombinationCommand())
	root.AddCommand(c.topologyCommand())
	root.AddCommand(c.basicsCommand())
	root.AddCommand(c.textCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadSettings reads the build settings and applies the variables file
// when it exists.
func loadSettings(path string) (config.Settings, error) {
	s, err := config.LoadSettings(path)
	if err != nil {
		return config.Settings{}, err
	}
	vars, err := config.LoadVars(s.VarsFile)
	if stderrors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return config.Settings{}, err
	}
	if err := s.ApplyVars(vars); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

func openCache(ctx context.Context, s config.CacheSettings) (cache.Cache, error) {
	return cache.Open(ctx, cache.Config{Backend: s.Backend, RedisAddr: s.RedisAddr})
}

// figureRun is a single figure drawn by one of the figure commands.
type figureRun struct {
	figure config.Figure
	output string // empty means <name>.svg
	fn     pipeline.FigureFunc
}

// runFigure draws one figure without the artifact cache and writes it to
// its output file. The format follows the file extension.
func (c *CLI) runFigure(ctx context.Context, run figureRun) error {
	logger := loggerFromContext(ctx)
	output := run.output
	if output == "" {
		output = run.figure.Name + ".svg"
	}
	format, err := formatFromPath(output)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, logger)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Drawing %s...", run.figure.Name))
	spinner.Start()
	prog := newProgress(logger)
	res, err := runner.Figure(ctx, pipeline.Spec{
		Figure:  run.figure,
		Formats: []render.Format{format},
	}, run.fn)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Drawing %s failed", run.figure.Name))
		return err
	}
	spinner.Stop()
	prog.done("drew " + run.figure.Name)

	if err := writeFile(output, res.Artifacts[format]); err != nil {
		return err
	}
	printSuccess("Wrote %s", run.figure.Name)
	printFile(output)
	return nil
}

// formatFromPath maps a file extension to an output format.
func formatFromPath(path string) (render.Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "output %q has no extension (want .svg, .png or .pdf)", path)
	}
	return render.ParseFormat(strings.ToLower(ext))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
