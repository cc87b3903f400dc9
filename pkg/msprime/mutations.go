package msprime

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/tskit"
)

var nucleotides = []string{"A", "C", "G", "T"}

// MutationOption configures [SimMutations].
type MutationOption func(*mutationConfig)

type mutationConfig struct {
	seed       uint64
	seeded     bool
	keep       bool
	continuous bool
}

func WithMutationSeed(seed uint64) MutationOption {
	return func(c *mutationConfig) { c.seed, c.seeded = seed, true }
}

// WithKeep controls whether existing sites and mutations are retained.
// The default is true.
func WithKeep(keep bool) MutationOption {
	return func(c *mutationConfig) { c.keep = keep }
}

// WithContinuousPositions places mutations at arbitrary positions instead
// of integer ones.
func WithContinuousPositions() MutationOption {
	return func(c *mutationConfig) { c.continuous = true }
}

type newMutation struct {
	position float64
	node     int
	time     float64
}

// SimMutations returns a copy of ts with Jukes-Cantor mutations added at
// rate per unit of sequence per generation. Each edge receives a Poisson
// number of mutations, placed uniformly along its span and its branch.
// Mutation parents and inherited states are recomputed for every site.
func SimMutations(ts *tskit.TreeSequence, rate float64, opts ...MutationOption) (*tskit.TreeSequence, error) {
	cfg := &mutationConfig{keep: true}
	for _, opt := range opts {
		opt(cfg)
	}
	if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mutation rate must be non-negative and finite, got %v", rate)
	}
	seed := cfg.seed
	if !cfg.seeded {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	tables := ts.Tables()
	if !cfg.keep {
		tables.Sites, tables.Mutations = nil, nil
	}

	var added []newMutation
	for _, e := range tables.Edges {
		branch := tables.Nodes[e.Parent].Time - tables.Nodes[e.Child].Time
		lo, hi := e.Left, e.Right
		if !cfg.continuous {
			lo, hi = math.Ceil(lo), math.Ceil(hi)
		}
		if hi <= lo {
			continue
		}
		for range poisson(rng, rate*(hi-lo)*branch) {
			pos := lo + rng.Float64()*(hi-lo)
			if !cfg.continuous {
				pos = math.Floor(pos)
			}
			t := tables.Nodes[e.Child].Time + rng.Float64()*branch
			added = append(added, newMutation{pos, e.Child, t})
		}
	}
	slices.SortStableFunc(added, func(a, b newMutation) int {
		return cmp.Or(cmp.Compare(a.position, b.position), cmp.Compare(b.time, a.time))
	})

	siteAt := make(map[float64]int, len(tables.Sites))
	for i, s := range tables.Sites {
		siteAt[s.Position] = i
	}
	for _, m := range added {
		site, ok := siteAt[m.position]
		if !ok {
			site = tables.AddSite(m.position, nucleotides[rng.IntN(len(nucleotides))])
			siteAt[m.position] = site
		}
		tables.AddMutation(site, m.node, "", tskit.Null, m.time)
	}
	tables.Sort()

	base, err := tables.TreeSequence()
	if err != nil {
		return nil, err
	}
	assignStates(base, tables, rng)
	return tables.TreeSequence()
}

// assignStates computes mutation parents by walking towards the root and
// draws a derived state different from the inherited one for every new
// mutation. tables must be the sorted tables base was built from.
func assignStates(base *tskit.TreeSequence, tables *tskit.TableCollection, rng *rand.Rand) {
	bySite := make([][]int, len(tables.Sites))
	for i, m := range tables.Mutations {
		bySite[m.Site] = append(bySite[m.Site], i)
	}
	for site, muts := range bySite {
		if len(muts) == 0 {
			continue
		}
		tree, err := base.At(tables.Sites[site].Position)
		if err != nil {
			continue
		}
		onNode := make(map[int][]int)
		for _, id := range muts { // oldest first
			m := &tables.Mutations[id]
			m.Parent = tskit.Null
			for u := m.Node; u != tskit.Null && m.Parent == tskit.Null; u = tree.Parent(u) {
				if above := onNode[u]; len(above) > 0 {
					m.Parent = above[len(above)-1]
				}
			}
			onNode[m.Node] = append(onNode[m.Node], id)

			if m.DerivedState != "" {
				continue
			}
			inherited := tables.Sites[site].AncestralState
			if m.Parent != tskit.Null {
				inherited = tables.Mutations[m.Parent].DerivedState
			}
			m.DerivedState = jukesCantor(rng, inherited)
		}
	}
}

// jukesCantor picks one of the three nucleotides different from state.
func jukesCantor(rng *rand.Rand, state string) string {
	choices := make([]string, 0, 3)
	for _, n := range nucleotides {
		if n != state {
			choices = append(choices, n)
		}
	}
	return choices[rng.IntN(len(choices))]
}

// poisson draws the number of mutations expected at mean.
func poisson(rng *rand.Rand, mean float64) int {
	if mean <= 0 {
		return 0
	}
	return int(distuv.Poisson{Lambda: mean, Src: rng}.Rand())
}
