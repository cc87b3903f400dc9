package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/config"
	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/figures"
	"github.com/matzehuels/treeviz/pkg/tskit"
)

// threedCommand creates the threed command.
func (c *CLI) threedCommand() *cobra.Command {
	var output, css string
	p := figures.DefaultThreeDParams()

	cmd := &cobra.Command{
		Use:   "threed",
		Short: "Draw the seven-tree sequence with a 3D effect",
		Long: `Draw the seven-tree sequence with a 3D effect.

The four-tip tree sequence is simulated with a pinned seed and checked: it
must have seven trees, tips in the order 0,1,2,3 in every tree, and more than
one topology. The trees are then skewed in CSS so they read as slices along
the genome.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []figures.Option{
				figures.WithTreeWidth(p.TreeWidth),
				figures.WithYStep(p.YStep),
				figures.WithLMargin(p.LMargin),
				figures.WithRMargin(p.RMargin),
			}
			if cmd.Flags().Changed("style") {
				opts = append(opts, figures.WithStyle(css))
			}
			return c.runFigure(cmd.Context(), figureRun{
				figure: config.Figure{Name: figures.ThreeDID, Kind: config.KindThreeD},
				output: output,
				fn: func(context.Context) ([]byte, error) {
					return figures.Make3DTree(opts...)
				},
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.svg, .png or .pdf; default threedtree.svg)")
	cmd.Flags().Float64Var(&p.TreeWidth, "tree-width", p.TreeWidth, "width of each tree")
	cmd.Flags().Float64Var(&p.YStep, "y-step", p.YStep, "vertical offset between consecutive trees")
	cmd.Flags().Float64Var(&p.LMargin, "lmargin", p.LMargin, "left margin")
	cmd.Flags().Float64Var(&p.RMargin, "rmargin", p.RMargin, "right margin")
	cmd.Flags().StringVar(&css, "style", "", "stylesheet replacing the generated 3D style")

	return cmd
}

// argCommand creates the arg command.
func (c *CLI) argCommand() *cobra.Command {
	var dir string
	var opts figures.ARGOptions

	cmd := &cobra.Command{
		Use:   "arg",
		Short: "Draw an ancestral recombination graph with graphviz",
		Long: `Draw an ancestral recombination graph with graphviz.

A full ARG is simulated and every recombination node pair is collapsed into a
single box labelled "i/i+1". The result is written to <dir>/arg.svg.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runARG(cmd.Context(), dir, opts)
		},
	}

	cmd.Flags().StringVarP(&dir, "output", "o", ".", "output directory")
	cmd.Flags().IntVar(&opts.Samples, "samples", 3, "number of haploid samples")
	cmd.Flags().Float64Var(&opts.SequenceLength, "length", 100, "sequence length")
	cmd.Flags().Float64Var(&opts.RecombinationRate, "recombination-rate", 0.005, "recombination rate per unit length")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 42, "random seed")
	cmd.Flags().StringVar(&opts.Size, "size", "", `graphviz size attribute (default "4,6")`)

	return cmd
}

func (c *CLI) runARG(ctx context.Context, dir string, opts figures.ARGOptions) error {
	logger := loggerFromContext(ctx)
	spinner := newSpinnerWithContext(ctx, "Simulating ARG...")
	spinner.Start()
	prog := newProgress(logger)

	path, svg, err := figures.ARGFigure(ctx, dir, opts)
	if err != nil {
		spinner.StopWithError("ARG failed")
		return err
	}
	spinner.Stop()
	prog.done("rendered ARG")
	logger.Debug("arg", "samples", opts.Samples, "seed", opts.Seed, "bytes", len(svg))

	printSuccess("Wrote ARG")
	printFile(path)
	return nil
}

// recombinationCommand creates the recombination command.
func (c *CLI) recombinationCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "recombination",
		Short: "Draw the recombination trees with coloured lineages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFigure(cmd.Context(), figureRun{
				figure: config.Figure{Name: figures.RecombinationID, Kind: config.KindRecombination},
				output: output,
				fn: func(context.Context) ([]byte, error) {
					return figures.RecombinationTrees()
				},
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default recombination.svg)")
	return cmd
}

// topologyCommand creates the topology command.
func (c *CLI) topologyCommand() *cobra.Command {
	var (
		output, id, css string
		width, height   float64
		xAxis           bool
		symbolSize      float64
	)

	cmd := &cobra.Command{
		Use:   "topology <model>",
		Short: "Draw the tree topology of a demographic scenario",
		Long: `Draw the tree topology of a demographic scenario.

Models:
  neutral     constant population size
  expansion   exponential growth
  bottleneck  instantaneous bottleneck
  selection   hard selective sweep

Each scenario uses a fixed seed, so the figure is stable across runs.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: figures.TopologyModels,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := args[0]
			if id == "" {
				id = "tree-topology-" + model
			}
			opts := []figures.Option{
				figures.WithXAxis(xAxis),
				figures.WithSymbolSize(symbolSize),
			}
			f := config.Figure{Name: id, Kind: config.KindTopology, Model: model, ID: id}
			if cmd.Flags().Changed("width") || cmd.Flags().Changed("height") {
				opts = append(opts, figures.WithSize(width, height))
				f.Size = []float64{width, height}
			}
			if cmd.Flags().Changed("style") {
				opts = append(opts, figures.WithStyle(css))
				f.Style = css
			}
			return c.runFigure(cmd.Context(), figureRun{
				figure: f,
				output: output,
				fn: func(context.Context) ([]byte, error) {
					return figures.TreeTopology(model, id, opts...)
				},
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <id>.svg)")
	cmd.Flags().StringVar(&id, "id", "", "svg id the style is scoped under (default tree-topology-<model>)")
	cmd.Flags().Float64Var(&width, "width", 300, "figure width")
	cmd.Flags().Float64Var(&height, "height", 500, "figure height")
	cmd.Flags().BoolVar(&xAxis, "x-axis", false, "draw the genome axis")
	cmd.Flags().Float64Var(&symbolSize, "symbol-size", 0, "node symbol size")
	cmd.Flags().StringVar(&css, "style", "", "stylesheet (default 2px edges)")

	return cmd
}

// basicsCommand creates the basics command.
func (c *CLI) basicsCommand() *cobra.Command {
	var output, data string
	var mutate bool

	cmd := &cobra.Command{
		Use:   "basics",
		Short: "Draw the precomputed basics tree sequence",
		Long: `Draw the precomputed basics tree sequence.

The first site is removed before drawing. With --mutate, mutations are added
at rate 1e-5 with a fixed seed (the treemut figure).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := config.Figure{Name: "basics_tree", Kind: config.KindBasics}
			load := figures.BasicsTree
			if mutate {
				f = config.Figure{Name: "treemut", Kind: config.KindTreeMut}
				load = figures.TreeMut
			}
			return c.runFigure(cmd.Context(), figureRun{
				figure: f,
				output: output,
				fn: func(context.Context) ([]byte, error) {
					ts, err := load(data)
					if err != nil {
						return nil, err
					}
					return draw.TreeSequence(ts)
				},
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default basics_tree.svg or treemut.svg)")
	cmd.Flags().StringVar(&data, "data", config.DefaultDataFile, "tree sequence file")
	cmd.Flags().BoolVar(&mutate, "mutate", false, "add mutations before drawing")

	return cmd
}

// textCommand creates the text command.
func (c *CLI) textCommand() *cobra.Command {
	var newick bool
	var precision int

	cmd := &cobra.Command{
		Use:   "text <file.trees>",
		Short: "Print the trees of a tree sequence as text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := tskit.Load(args[0])
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("loaded", "file", args[0],
				"trees", ts.NumTrees(), "nodes", ts.NumNodes(), "sites", ts.NumSites())
			if !newick {
				fmt.Fprint(cmd.OutOrStdout(), ts.DrawText())
				return nil
			}
			for _, t := range ts.Trees() {
				s, err := t.Newick(precision)
				if err != nil {
					return err
				}
				left, right := t.Interval()
				fmt.Fprintf(cmd.OutOrStdout(), "[%g, %g) %s\n", left, right, s)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&newick, "newick", false, "print one newick string per tree")
	cmd.Flags().IntVar(&precision, "precision", 3, "decimal places of newick branch lengths")

	return cmd
}
