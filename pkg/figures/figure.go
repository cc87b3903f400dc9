package figures

import (
	"context"

	"github.com/matzehuels/treeviz/pkg/config"
	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/errors"
)

// Env carries the build locations a figure may need.
type Env struct {
	// DataFile is the basics tree sequence.
	DataFile string
	// OutputDir receives files written as a side effect (arg.svg).
	OutputDir string
}

// Render produces the SVG for one configured figure.
func Render(ctx context.Context, f config.Figure, env Env) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	opts := figureOptions(f)

	switch f.Kind {
	case config.KindThreeD:
		return Make3DTree(opts...)

	case config.KindARG:
		_, svg, err := ARGFigure(ctx, env.OutputDir, ARGOptions{Seed: f.Seed})
		return svg, err

	case config.KindRecombination:
		return RecombinationTrees()

	case config.KindTopology:
		id := f.ID
		if id == "" {
			id = "tree-topology-" + f.Model
		}
		return TreeTopology(f.Model, id, opts...)

	case config.KindBasics, config.KindTreeMut:
		load := BasicsTree
		if f.Kind == config.KindTreeMut {
			load = TreeMut
		}
		ts, err := load(env.DataFile)
		if err != nil {
			return nil, err
		}
		var dopts []draw.Option
		if len(f.Size) == 2 {
			dopts = append(dopts, draw.WithSize(f.Size[0], f.Size[1]))
		}
		if f.Style != "" {
			dopts = append(dopts, draw.WithStyle(f.Style))
		}
		if f.ID != "" {
			dopts = append(dopts, draw.WithRootAttributes(map[string]string{"id": f.ID}))
		}
		return draw.TreeSequence(ts, dopts...)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "figure %q: unknown kind %q", f.Name, f.Kind)
}

func figureOptions(f config.Figure) []Option {
	var opts []Option
	if len(f.Size) == 2 {
		opts = append(opts, WithSize(f.Size[0], f.Size[1]))
	}
	if f.Style != "" {
		opts = append(opts, WithStyle(f.Style))
	}
	if f.TreeWidth != 0 {
		opts = append(opts, WithTreeWidth(f.TreeWidth))
	}
	if f.YStep != 0 {
		opts = append(opts, WithYStep(f.YStep))
	}
	if f.LMargin != 0 {
		opts = append(opts, WithLMargin(f.LMargin))
	}
	if f.RMargin != 0 {
		opts = append(opts, WithRMargin(f.RMargin))
	}
	return opts
}
