package figures

import (
	"context"

	"github.com/matzehuels/treeviz/pkg/msprime"
	"github.com/matzehuels/treeviz/pkg/render/arg"
	"github.com/matzehuels/treeviz/pkg/tskit"
)

// ARGOptions sets the simulation behind [ARGFigure]. Zero fields take the
// defaults: 3 haploid samples, length 100, recombination rate 0.005,
// seed 42 and the renderer's default size.
type ARGOptions struct {
	Samples           int
	SequenceLength    float64
	RecombinationRate float64
	Seed              uint64
	Size              string
}

func (o ARGOptions) withDefaults() ARGOptions {
	if o.Samples == 0 {
		o.Samples = 3
	}
	if o.SequenceLength == 0 {
		o.SequenceLength = 100
	}
	if o.RecombinationRate == 0 {
		o.RecombinationRate = 0.005
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	return o
}

// SimulateARG runs a full-ARG simulation with haploid samples.
func SimulateARG(opts ARGOptions) (*tskit.TreeSequence, error) {
	opts = opts.withDefaults()
	return msprime.SimAncestry(
		msprime.WithSamples(opts.Samples),
		msprime.WithPloidy(1),
		msprime.WithSequenceLength(opts.SequenceLength),
		msprime.WithRecombinationRate(opts.RecombinationRate),
		msprime.WithRecordFullARG(),
		msprime.WithRandomSeed(opts.Seed),
	)
}

// ARGFigure simulates a small ARG and renders it to dir/arg.svg, returning
// the path and the SVG.
func ARGFigure(ctx context.Context, dir string, opts ARGOptions) (string, []byte, error) {
	ts, err := SimulateARG(opts)
	if err != nil {
		return "", nil, err
	}
	return arg.Render(ctx, ts, dir, arg.Options{Size: opts.Size})
}
