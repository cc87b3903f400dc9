package msprime

import (
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/tskit"
)

func loadBasics(t *testing.T) *tskit.TreeSequence {
	t.Helper()
	ts, err := tskit.Load(filepath.Join("..", "..", "data", "basics.trees"))
	require.NoError(t, err)
	return ts
}

func TestSimMutations(t *testing.T) {
	base := loadBasics(t)

	ts, err := SimMutations(base, 1e-5, WithMutationSeed(228))
	require.NoError(t, err)
	require.GreaterOrEqual(t, ts.NumMutations(), base.NumMutations())

	type key struct {
		pos  float64
		node int
	}
	existing := make(map[key]bool)
	for _, m := range base.Mutations() {
		existing[key{base.Site(m.Site).Position, m.Node}] = true
	}

	nodes := ts.Nodes()
	for i, m := range ts.Mutations() {
		site := ts.Site(m.Site)
		assert.Equal(t, float64(int64(site.Position)), site.Position, "mutation %d at integer position", i)
		assert.GreaterOrEqual(t, m.Time, nodes[m.Node].Time)

		inherited := site.AncestralState
		if m.Parent != tskit.Null {
			parent := ts.Mutation(m.Parent)
			assert.Equal(t, m.Site, parent.Site)
			assert.Greater(t, parent.Time, m.Time)
			inherited = parent.DerivedState
		}
		if !existing[key{site.Position, m.Node}] {
			assert.NotEqual(t, inherited, m.DerivedState, "mutation %d", i)
		}
	}
}

func TestSimMutations_Deterministic(t *testing.T) {
	base := loadBasics(t)
	a, err := SimMutations(base, 1e-4, WithMutationSeed(7))
	require.NoError(t, err)
	b, err := SimMutations(base, 1e-4, WithMutationSeed(7))
	require.NoError(t, err)
	assert.Equal(t, a.Sites(), b.Sites())
	assert.Equal(t, a.Mutations(), b.Mutations())
}

func TestSimMutations_KeepsExisting(t *testing.T) {
	base := loadBasics(t)

	kept, err := SimMutations(base, 0, WithMutationSeed(1))
	require.NoError(t, err)
	assert.Equal(t, base.Sites(), kept.Sites())
	assert.Equal(t, base.Mutations(), kept.Mutations())

	dropped, err := SimMutations(base, 0, WithMutationSeed(1), WithKeep(false))
	require.NoError(t, err)
	assert.Zero(t, dropped.NumSites())
}

func TestSimMutations_NestedParents(t *testing.T) {
	tc := tskit.NewTableCollection(10)
	a := tc.AddNode(tskit.NodeIsSample, 0, 0)
	b := tc.AddNode(tskit.NodeIsSample, 0, 0)
	p := tc.AddNode(0, 10, 0)
	tc.AddEdge(0, 10, p, a)
	tc.AddEdge(0, 10, p, b)
	base, err := tc.TreeSequence()
	require.NoError(t, err)

	ts, err := SimMutations(base, 2, WithMutationSeed(3))
	require.NoError(t, err)
	require.Greater(t, ts.NumMutations(), ts.NumSites(), "high rate stacks mutations on sites")

	for i, m := range ts.Mutations() {
		if m.Parent == tskit.Null {
			continue
		}
		assert.Less(t, m.Parent, i)
		assert.Equal(t, m.Node, ts.Mutation(m.Parent).Node, "only one branch per sample here")
	}
}

func TestSimMutations_InvalidRate(t *testing.T) {
	_, err := SimMutations(loadBasics(t), -1)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestPoisson(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, mean := range []float64{0.5, 3, 75} {
		var sum int
		const n = 20000
		for range n {
			sum += poisson(rng, mean)
		}
		assert.InDelta(t, mean, float64(sum)/n, mean*0.05+0.05)
	}
	assert.Equal(t, 0, poisson(rng, 0))
}
