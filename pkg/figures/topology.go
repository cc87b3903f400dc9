package figures

import (
	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/msprime"
	"github.com/matzehuels/treeviz/pkg/style"
	"github.com/matzehuels/treeviz/pkg/tskit"
)

// Topology scenarios.
const (
	ModelNeutral    = "neutral"
	ModelExpansion  = "expansion"
	ModelBottleneck = "bottleneck"
	ModelSelection  = "selection"
)

// TopologyModels lists the scenarios [TreeTopology] accepts.
var TopologyModels = []string{ModelNeutral, ModelExpansion, ModelBottleneck, ModelSelection}

const defaultTopologyStyle = ".edge {stroke-width: 2px}"

// SimulateTopology simulates ten samples under the named scenario. Unknown
// names fail with INVALID_MODEL.
func SimulateTopology(model string) (*tskit.TreeSequence, error) {
	switch model {
	case ModelNeutral:
		return msprime.SimAncestry(msprime.WithSamples(10), msprime.WithRandomSeed(12))

	case ModelExpansion:
		d := msprime.NewDemography()
		d.AddPopulation("A", 10_000, 0.1)
		return msprime.SimAncestry(
			msprime.WithPopulationSamples("A", 10),
			msprime.WithDemography(d),
			msprime.WithRandomSeed(12),
		)

	case ModelBottleneck:
		d := msprime.NewDemography()
		a := d.AddPopulation("A", 1_000, 0)
		d.AddInstantaneousBottleneck(100, 1000, a)
		return msprime.SimAncestry(
			msprime.WithPopulationSamples("A", 10),
			msprime.WithDemography(d),
			msprime.WithRandomSeed(12),
		)

	case ModelSelection:
		const ne, length = 1_000, 1e6
		sweep := msprime.SweepGenicSelection{
			Position:       length / 2,
			StartFrequency: 1.0 / (2 * ne),
			EndFrequency:   1.0 - 1.0/(2*ne),
			S:              0.25,
			DT:             1e-6,
		}
		return msprime.SimAncestry(
			msprime.WithSamples(10),
			msprime.WithModels(sweep, msprime.StandardCoalescent{}),
			msprime.WithPopulationSize(ne),
			msprime.WithSequenceLength(length),
			msprime.WithRandomSeed(119),
		)
	}
	return nil, errors.New(errors.ErrCodeInvalidModel, "unknown topology model %q (want neutral, expansion, bottleneck or selection)", model)
}

// TreeTopology draws the tree of a scenario inside an svg with the given
// id. It honours WithSize (default 300x500), WithXAxis (off),
// WithNodeLabels (none), WithSymbolSize (0) and WithStyle (2px edges); the
// style is scoped under the id.
func TreeTopology(model, svgID string, opts ...Option) ([]byte, error) {
	if err := errors.ValidateSVGID(svgID); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	css := orDefault(o.style, defaultTopologyStyle)
	if err := style.ValidateCSS(css); err != nil {
		return nil, err
	}

	ts, err := SimulateTopology(model)
	if err != nil {
		return nil, err
	}

	size := orDefault(o.size, [2]float64{300, 500})
	labels := map[int]string{}
	if o.labelsSet && o.nodeLabels != nil {
		labels = o.nodeLabels
	}
	return draw.TreeSequence(ts,
		draw.WithSize(size[0], size[1]),
		draw.WithXAxis(orDefault(o.xAxis, false)),
		draw.WithNodeLabels(labels),
		draw.WithSymbolSize(orDefault(o.symbolSize, 0)),
		draw.WithStyle(style.Scope(svgID, css)),
		draw.WithRootAttributes(map[string]string{"id": svgID}),
	)
}
