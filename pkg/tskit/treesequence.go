package tskit

import (
	"slices"
	"sort"

	"github.com/matzehuels/treeviz/pkg/errors"
)

// TreeSequence is an immutable, validated set of tables.
type TreeSequence struct {
	tables      *TableCollection
	samples     []int
	breakpoints []float64
}

func newTreeSequence(tables *TableCollection) *TreeSequence {
	ts := &TreeSequence{tables: tables}
	for u, node := range tables.Nodes {
		if node.IsSample() {
			ts.samples = append(ts.samples, u)
		}
	}
	bps := []float64{0, tables.SequenceLength}
	for _, e := range tables.Edges {
		bps = append(bps, e.Left, e.Right)
	}
	slices.Sort(bps)
	ts.breakpoints = slices.Compact(bps)
	return ts
}

func (ts *TreeSequence) SequenceLength() float64 { return ts.tables.SequenceLength }
func (ts *TreeSequence) NumNodes() int            { return len(ts.tables.Nodes) }
func (ts *TreeSequence) NumEdges() int            { return len(ts.tables.Edges) }
func (ts *TreeSequence) NumSites() int            { return len(ts.tables.Sites) }
func (ts *TreeSequence) NumMutations() int        { return len(ts.tables.Mutations) }
func (ts *TreeSequence) NumPopulations() int      { return len(ts.tables.Populations) }
func (ts *TreeSequence) NumSamples() int          { return len(ts.samples) }

func (ts *TreeSequence) Node(u int) Node         { return ts.tables.Nodes[u] }
func (ts *TreeSequence) Edge(i int) Edge         { return ts.tables.Edges[i] }
func (ts *TreeSequence) Site(i int) Site         { return ts.tables.Sites[i] }
func (ts *TreeSequence) Mutation(i int) Mutation { return ts.tables.Mutations[i] }

func (ts *TreeSequence) Nodes() []Node         { return slices.Clone(ts.tables.Nodes) }
func (ts *TreeSequence) Edges() []Edge         { return slices.Clone(ts.tables.Edges) }
func (ts *TreeSequence) Sites() []Site         { return slices.Clone(ts.tables.Sites) }
func (ts *TreeSequence) Mutations() []Mutation { return slices.Clone(ts.tables.Mutations) }

// Samples returns the sample node IDs in increasing order.
func (ts *TreeSequence) Samples() []int { return slices.Clone(ts.samples) }

// Breakpoints returns the tree boundaries, including 0 and the sequence
// length.
func (ts *TreeSequence) Breakpoints() []float64 { return slices.Clone(ts.breakpoints) }

func (ts *TreeSequence) NumTrees() int { return len(ts.breakpoints) - 1 }

// MaxRootTime returns the time of the oldest node.
func (ts *TreeSequence) MaxRootTime() float64 {
	var t float64
	for _, n := range ts.tables.Nodes {
		t = max(t, n.Time)
	}
	return t
}

// Tables returns a mutable deep copy of the underlying tables.
func (ts *TreeSequence) Tables() *TableCollection { return ts.tables.Copy() }

// Trees returns every tree along the genome, left to right.
func (ts *TreeSequence) Trees() []*Tree {
	trees := make([]*Tree, ts.NumTrees())
	for i := range trees {
		trees[i] = ts.buildTree(i)
	}
	return trees
}

// At returns the tree covering position.
func (ts *TreeSequence) At(position float64) (*Tree, error) {
	if position < 0 || position >= ts.SequenceLength() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"position %v outside [0, %v)", position, ts.SequenceLength())
	}
	i := sort.Search(len(ts.breakpoints), func(i int) bool { return ts.breakpoints[i] > position }) - 1
	return ts.buildTree(i), nil
}

// DeleteSites returns a copy without the given sites and their mutations.
// Remaining sites and mutations are renumbered in order.
func (ts *TreeSequence) DeleteSites(ids ...int) (*TreeSequence, error) {
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id < 0 || id >= ts.NumSites() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "site %d out of range", id)
		}
		drop[id] = true
	}

	tables := ts.tables.Copy()
	siteMap := make([]int, len(tables.Sites))
	sites := tables.Sites[:0]
	for i, s := range ts.tables.Sites {
		if drop[i] {
			siteMap[i] = Null
			continue
		}
		siteMap[i] = len(sites)
		sites = append(sites, s)
	}
	tables.Sites = sites

	mutMap := make([]int, len(ts.tables.Mutations))
	muts := tables.Mutations[:0]
	for i, m := range ts.tables.Mutations {
		if siteMap[m.Site] == Null {
			mutMap[i] = Null
			continue
		}
		mutMap[i] = len(muts)
		m.Site = siteMap[m.Site]
		if m.Parent != Null {
			m.Parent = mutMap[m.Parent]
		}
		muts = append(muts, m)
	}
	tables.Mutations = muts
	return tables.TreeSequence()
}

func (ts *TreeSequence) buildTree(index int) *Tree {
	left, right := ts.breakpoints[index], ts.breakpoints[index+1]
	n := ts.NumNodes()
	t := &Tree{
		ts:       ts,
		index:    index,
		left:     left,
		right:    right,
		parent:   make([]int, n),
		children: make([][]int, n),
	}
	for u := range t.parent {
		t.parent[u] = Null
	}
	for _, e := range ts.tables.Edges {
		if e.Left <= left && e.Right > left {
			t.parent[e.Child] = e.Parent
			t.children[e.Parent] = append(t.children[e.Parent], e.Child)
		}
	}
	for u := range t.children {
		slices.Sort(t.children[u])
	}

	seen := make(map[int]bool)
	for _, s := range ts.samples {
		u := s
		for t.parent[u] != Null {
			u = t.parent[u]
		}
		if !seen[u] {
			seen[u] = true
			t.roots = append(t.roots, u)
		}
	}
	slices.Sort(t.roots)
	t.minlex = t.minlexKeys()
	return t
}
