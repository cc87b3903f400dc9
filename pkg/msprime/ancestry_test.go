package msprime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/tskit"
)

func requireCoalesced(t *testing.T, ts *tskit.TreeSequence) {
	t.Helper()
	for _, tree := range ts.Trees() {
		root := tree.Root()
		require.NotEqual(t, tskit.Null, root, "tree %d has %d roots", tree.Index(), len(tree.Roots()))
		assert.Equal(t, ts.Samples(), tree.Samples(root))
	}
}

func TestSimAncestry_Validation(t *testing.T) {
	twoPops := NewDemography()
	twoPops.AddPopulation("A", 100, 0)
	twoPops.AddPopulation("B", 100, 0)

	tests := []struct {
		name string
		opts []Option
		code errors.Code
	}{
		{"no samples", nil, errors.ErrCodeInvalidInput},
		{"bad ploidy", []Option{WithSamples(2), WithPloidy(0)}, errors.ErrCodeInvalidInput},
		{"negative recombination", []Option{WithSamples(2), WithRecombinationRate(-1)}, errors.ErrCodeInvalidInput},
		{"fractional discrete length", []Option{WithSamples(2), WithSequenceLength(10.5)}, errors.ErrCodeInvalidInput},
		{"zero population size", []Option{WithSamples(2), WithPopulationSize(0)}, errors.ErrCodeInvalidInput},
		{"two populations", []Option{WithSamples(2), WithDemography(twoPops)}, errors.ErrCodeUnsupported},
		{"unknown population", []Option{WithPopulationSamples("X", 2)}, errors.ErrCodeInvalidInput},
		{
			"sweep with recombination",
			[]Option{
				WithSamples(2), WithSequenceLength(100), WithRecombinationRate(1e-3),
				WithModels(SweepGenicSelection{Position: 50, StartFrequency: 0.01, EndFrequency: 0.99, S: 0.1, DT: 1e-3}, StandardCoalescent{}),
			},
			errors.ErrCodeUnsupported,
		},
		{
			"sweep last",
			[]Option{
				WithSamples(2), WithSequenceLength(100),
				WithModels(SweepGenicSelection{Position: 50, StartFrequency: 0.01, EndFrequency: 0.99, S: 0.1, DT: 1e-3}),
			},
			errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SimAncestry(tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestSimAncestry_NoRecombination(t *testing.T) {
	ts, err := SimAncestry(WithSamples(5), WithPopulationSize(100), WithRandomSeed(1))
	require.NoError(t, err)

	assert.Equal(t, 10, ts.NumSamples())
	assert.Equal(t, 19, ts.NumNodes())
	assert.Equal(t, 1, ts.NumTrees())
	requireCoalesced(t, ts)

	tree := ts.Trees()[0]
	for _, u := range tree.Nodes(tskit.Preorder) {
		if !tree.IsLeaf(u) {
			assert.Equal(t, 2, tree.NumChildren(u))
		}
	}
}

func TestSimAncestry_Deterministic(t *testing.T) {
	opts := []Option{
		WithSamples(4), WithPloidy(1), WithSequenceLength(1000),
		WithRecombinationRate(0.001), WithRandomSeed(889),
	}
	a, err := SimAncestry(opts...)
	require.NoError(t, err)
	b, err := SimAncestry(opts...)
	require.NoError(t, err)

	assert.Equal(t, a.Nodes(), b.Nodes())
	assert.Equal(t, a.Edges(), b.Edges())
}

func TestSimAncestry_Recombination(t *testing.T) {
	ts, err := SimAncestry(
		WithSamples(4), WithSequenceLength(1e6), WithRecombinationRate(1e-6),
		WithPopulationSize(1), WithRandomSeed(19),
	)
	require.NoError(t, err)
	requireCoalesced(t, ts)

	for _, bp := range ts.Breakpoints() {
		assert.Equal(t, float64(int64(bp)), bp, "discrete genome breakpoints are integers")
	}
}

func TestSimAncestry_ContinuousGenome(t *testing.T) {
	ts, err := SimAncestry(
		WithSamples(3), WithPloidy(1), WithSequenceLength(1), WithRecombinationRate(2),
		WithContinuousGenome(), WithRandomSeed(5),
	)
	require.NoError(t, err)
	requireCoalesced(t, ts)
}

func TestSimAncestry_FullARG(t *testing.T) {
	ts, err := SimAncestry(
		WithSamples(3), WithPloidy(1), WithSequenceLength(100),
		WithRecombinationRate(0.005), WithRecordFullARG(), WithRandomSeed(42),
	)
	require.NoError(t, err)
	requireCoalesced(t, ts)

	nodes := ts.Nodes()
	for u := 0; u < len(nodes); u++ {
		if nodes[u].Flags&tskit.NodeIsREEvent == 0 {
			continue
		}
		require.Less(t, u+1, len(nodes), "recombination node %d has no partner", u)
		assert.Equal(t, nodes[u].Flags, nodes[u+1].Flags)
		assert.Equal(t, nodes[u].Time, nodes[u+1].Time)
		u++
	}
}

func TestSimAncestry_FullARGRecordsRecombinations(t *testing.T) {
	found := false
	for seed := uint64(1); seed <= 20 && !found; seed++ {
		ts, err := SimAncestry(
			WithSamples(3), WithPloidy(1), WithSequenceLength(100),
			WithRecombinationRate(0.01), WithRecordFullARG(), WithRandomSeed(seed),
		)
		require.NoError(t, err)
		for _, n := range ts.Nodes() {
			found = found || n.Flags&tskit.NodeIsREEvent != 0
		}
	}
	assert.True(t, found, "expected at least one recombination node")
}

func TestSimAncestry_Bottleneck(t *testing.T) {
	d := NewDemography()
	d.AddPopulation("A", 1000, 0)
	d.AddInstantaneousBottleneck(100, 1e6, 0)

	ts, err := SimAncestry(WithPopulationSamples("A", 10), WithDemography(d), WithRandomSeed(12))
	require.NoError(t, err)
	requireCoalesced(t, ts)

	tree := ts.Trees()[0]
	root := tree.Root()
	assert.Equal(t, 100.0, tree.Time(root))
	assert.Greater(t, tree.NumChildren(root), 2)
}

func TestSimAncestry_Growth(t *testing.T) {
	d := NewDemography()
	d.AddPopulation("A", 10_000, 0.1)

	ts, err := SimAncestry(WithPopulationSamples("A", 10), WithDemography(d), WithRandomSeed(12))
	require.NoError(t, err)
	requireCoalesced(t, ts)
	assert.Less(t, ts.MaxRootTime(), 200.0)
}

func TestSimAncestry_Sweep(t *testing.T) {
	const ne, length = 1000.0, 1e6
	sweep := SweepGenicSelection{
		Position:       length / 2,
		StartFrequency: 1 / (2 * ne),
		EndFrequency:   1 - 1/(2*ne),
		S:              0.25,
		DT:             1e-6,
	}
	ts, err := SimAncestry(
		WithSamples(10), WithPopulationSize(ne), WithSequenceLength(length),
		WithModels(sweep, StandardCoalescent{}), WithRandomSeed(119),
	)
	require.NoError(t, err)
	requireCoalesced(t, ts)
	assert.Equal(t, 1, ts.NumTrees())
}

func TestSweepBack(t *testing.T) {
	assert.Equal(t, 0.3, sweepBack(0.3, 0.25, 0))
	assert.Less(t, sweepBack(0.3, 0.25, 1), 0.3, "frequency falls backwards in time")

	// A step split at a coalescence lands where the whole step would.
	whole := sweepBack(0.6, 0.25, 0.8)
	split := sweepBack(sweepBack(0.6, 0.25, 0.3), 0.25, 0.5)
	assert.InDelta(t, whole, split, 1e-12)
}

func TestOverlapCounter(t *testing.T) {
	o := newOverlapCounter(10, 3)

	var got [][3]float64
	o.decrement(2, 5, 1, func(l, r float64, c int) {
		got = append(got, [3]float64{l, r, float64(c)})
	})
	assert.Equal(t, [][3]float64{{2, 5, 2}}, got)

	got = nil
	o.decrement(4, 10, 1, func(l, r float64, c int) {
		got = append(got, [3]float64{l, r, float64(c)})
	})
	assert.Equal(t, [][3]float64{{4, 5, 1}, {5, 10, 2}}, got)

	assert.Equal(t, 3, o.at(0))
	assert.Equal(t, 2, o.at(3))
	assert.Equal(t, 1, o.at(4.5))
	assert.Equal(t, 2, o.at(9))
}

func TestSplitLineage(t *testing.T) {
	l := &lineage{segs: []segment{{0, 10, 1}, {20, 30, 2}}}

	left, right := splitLineage(l, 5)
	assert.Equal(t, []segment{{0, 5, 1}}, left.segs)
	assert.Equal(t, []segment{{5, 10, 1}, {20, 30, 2}}, right.segs)

	left, right = splitLineage(l, 15)
	assert.Equal(t, []segment{{0, 10, 1}}, left.segs)
	assert.Equal(t, []segment{{20, 30, 2}}, right.segs)
}

func TestDemography_Validate(t *testing.T) {
	d := NewDemography()
	assert.Error(t, d.Validate())

	d.AddPopulation("A", 100, 0)
	assert.NoError(t, d.Validate())
	assert.Equal(t, 0, d.Lookup("A"))
	assert.Equal(t, -1, d.Lookup("B"))

	d.AddInstantaneousBottleneck(10, 5, 1)
	assert.True(t, errors.Is(d.Validate(), errors.ErrCodeInvalidInput))
}

func TestPopulation_SizeAt(t *testing.T) {
	p := Population{Name: "A", InitialSize: 100, GrowthRate: 0}
	assert.Equal(t, 100.0, p.SizeAt(50))

	p.GrowthRate = 0.1
	assert.InDelta(t, 100*0.36787944, p.SizeAt(10), 1e-6)
}
