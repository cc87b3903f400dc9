package tskit

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/treeviz/pkg/errors"
)

// Node flags.
const (
	NodeIsSample   uint32 = 1
	NodeIsREEvent  uint32 = 1 << 17
	NodeIsCAEvent  uint32 = 1 << 18
	NodeIsMigEvent uint32 = 1 << 19
)

// Null marks a missing node, population, individual or mutation reference.
const Null = -1

type Node struct {
	Flags      uint32  `json:"flags"`
	Time       float64 `json:"time"`
	Population int     `json:"population"`
	Individual int     `json:"individual"`
}

func (n Node) IsSample() bool { return n.Flags&NodeIsSample != 0 }

// Edge records that Parent is the parent of Child over [Left, Right).
type Edge struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Parent int     `json:"parent"`
	Child  int     `json:"child"`
}

func (e Edge) Span() float64 { return e.Right - e.Left }

type Site struct {
	Position       float64 `json:"position"`
	AncestralState string  `json:"ancestral_state"`
}

// Mutation is a state change at a site on the branch above Node.
// Parent is the index of the next older mutation at the same site on the
// path to the root, or Null.
type Mutation struct {
	Site         int     `json:"site"`
	Node         int     `json:"node"`
	DerivedState string  `json:"derived_state"`
	Parent       int     `json:"parent"`
	Time         float64 `json:"time"`
}

type Population struct {
	Name string `json:"name"`
}

// TableCollection is the mutable form of a tree sequence.
type TableCollection struct {
	SequenceLength float64
	Nodes          []Node
	Edges          []Edge
	Sites          []Site
	Mutations      []Mutation
	Populations    []Population
}

// NewTableCollection returns empty tables for a genome of the given length.
func NewTableCollection(sequenceLength float64) *TableCollection {
	return &TableCollection{SequenceLength: sequenceLength}
}

// AddNode appends a node and returns its ID.
func (tc *TableCollection) AddNode(flags uint32, time float64, population int) int {
	tc.Nodes = append(tc.Nodes, Node{Flags: flags, Time: time, Population: population, Individual: Null})
	return len(tc.Nodes) - 1
}

func (tc *TableCollection) AddEdge(left, right float64, parent, child int) {
	tc.Edges = append(tc.Edges, Edge{Left: left, Right: right, Parent: parent, Child: child})
}

// AddSite appends a site and returns its ID.
func (tc *TableCollection) AddSite(position float64, ancestral string) int {
	tc.Sites = append(tc.Sites, Site{Position: position, AncestralState: ancestral})
	return len(tc.Sites) - 1
}

// AddMutation appends a mutation and returns its ID.
func (tc *TableCollection) AddMutation(site, node int, derived string, parent int, time float64) int {
	tc.Mutations = append(tc.Mutations, Mutation{Site: site, Node: node, DerivedState: derived, Parent: parent, Time: time})
	return len(tc.Mutations) - 1
}

func (tc *TableCollection) AddPopulation(name string) int {
	tc.Populations = append(tc.Populations, Population{Name: name})
	return len(tc.Populations) - 1
}

// Copy returns a deep copy of the tables.
func (tc *TableCollection) Copy() *TableCollection {
	return &TableCollection{
		SequenceLength: tc.SequenceLength,
		Nodes:          slices.Clone(tc.Nodes),
		Edges:          slices.Clone(tc.Edges),
		Sites:          slices.Clone(tc.Sites),
		Mutations:      slices.Clone(tc.Mutations),
		Populations:    slices.Clone(tc.Populations),
	}
}

// Sort puts the tables into canonical order: edges by (parent time,
// parent, child, left), sites by position and mutations by (site, time
// descending). Site and mutation-parent references are remapped.
func (tc *TableCollection) Sort() {
	slices.SortStableFunc(tc.Edges, func(a, b Edge) int {
		return cmp.Or(
			cmp.Compare(tc.nodeTime(a.Parent), tc.nodeTime(b.Parent)),
			cmp.Compare(a.Parent, b.Parent),
			cmp.Compare(a.Child, b.Child),
			cmp.Compare(a.Left, b.Left),
		)
	})

	siteOrder := make([]int, len(tc.Sites))
	for i := range siteOrder {
		siteOrder[i] = i
	}
	slices.SortStableFunc(siteOrder, func(a, b int) int {
		return cmp.Compare(tc.Sites[a].Position, tc.Sites[b].Position)
	})
	siteMap := make([]int, len(tc.Sites))
	sites := make([]Site, len(tc.Sites))
	for newID, oldID := range siteOrder {
		siteMap[oldID] = newID
		sites[newID] = tc.Sites[oldID]
	}
	tc.Sites = sites
	for i := range tc.Mutations {
		if m := tc.Mutations[i].Site; m >= 0 && m < len(siteMap) {
			tc.Mutations[i].Site = siteMap[m]
		}
	}

	mutOrder := make([]int, len(tc.Mutations))
	for i := range mutOrder {
		mutOrder[i] = i
	}
	slices.SortStableFunc(mutOrder, func(a, b int) int {
		ma, mb := tc.Mutations[a], tc.Mutations[b]
		return cmp.Or(
			cmp.Compare(ma.Site, mb.Site),
			cmp.Compare(mb.Time, ma.Time),
		)
	})
	mutMap := make([]int, len(tc.Mutations))
	muts := make([]Mutation, len(tc.Mutations))
	for newID, oldID := range mutOrder {
		mutMap[oldID] = newID
		muts[newID] = tc.Mutations[oldID]
	}
	for i := range muts {
		if p := muts[i].Parent; p >= 0 && p < len(mutMap) {
			muts[i].Parent = mutMap[p]
		}
	}
	tc.Mutations = muts
}

// SquashEdges merges edges with the same parent and child whose intervals
// abut. The edge table must be sorted.
func (tc *TableCollection) SquashEdges() {
	if len(tc.Edges) == 0 {
		return
	}
	out := tc.Edges[:1]
	for _, e := range tc.Edges[1:] {
		last := &out[len(out)-1]
		if last.Parent == e.Parent && last.Child == e.Child && last.Right == e.Left {
			last.Right = e.Right
			continue
		}
		out = append(out, e)
	}
	tc.Edges = out
}

func (tc *TableCollection) nodeTime(u int) float64 {
	if u < 0 || u >= len(tc.Nodes) {
		return math.Inf(1)
	}
	return tc.Nodes[u].Time
}

// Validate checks referential integrity and the ordering constraints a tree
// sequence requires.
func (tc *TableCollection) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidTreeSequence, format, args...)
	}
	if !(tc.SequenceLength > 0) || math.IsInf(tc.SequenceLength, 0) {
		return invalid("sequence length must be positive and finite, got %v", tc.SequenceLength)
	}
	n := len(tc.Nodes)
	for i, node := range tc.Nodes {
		if math.IsNaN(node.Time) || math.IsInf(node.Time, 0) {
			return invalid("node %d: time must be finite", i)
		}
		if p := node.Population; p < Null || (p > 0 && p >= len(tc.Populations)) {
			return invalid("node %d: population %d out of range", i, node.Population)
		}
	}
	for i, e := range tc.Edges {
		switch {
		case e.Parent < 0 || e.Parent >= n:
			return invalid("edge %d: parent %d out of range", i, e.Parent)
		case e.Child < 0 || e.Child >= n:
			return invalid("edge %d: child %d out of range", i, e.Child)
		case e.Left < 0 || e.Right > tc.SequenceLength || e.Left >= e.Right:
			return invalid("edge %d: bad interval [%v, %v)", i, e.Left, e.Right)
		case tc.Nodes[e.Parent].Time <= tc.Nodes[e.Child].Time:
			return invalid("edge %d: parent %d must be older than child %d", i, e.Parent, e.Child)
		}
	}

	byChild := slices.Clone(tc.Edges)
	slices.SortFunc(byChild, func(a, b Edge) int {
		return cmp.Or(cmp.Compare(a.Child, b.Child), cmp.Compare(a.Left, b.Left))
	})
	for i := 1; i < len(byChild); i++ {
		prev, cur := byChild[i-1], byChild[i]
		if prev.Child == cur.Child && cur.Left < prev.Right {
			return invalid("node %d has overlapping parent edges at %v", cur.Child, cur.Left)
		}
	}

	for i, s := range tc.Sites {
		if s.Position < 0 || s.Position >= tc.SequenceLength {
			return invalid("site %d: position %v outside [0, %v)", i, s.Position, tc.SequenceLength)
		}
		if i > 0 && tc.Sites[i-1].Position >= s.Position {
			return invalid("site %d: positions must be strictly increasing", i)
		}
	}
	for i, m := range tc.Mutations {
		switch {
		case m.Site < 0 || m.Site >= len(tc.Sites):
			return invalid("mutation %d: site %d out of range", i, m.Site)
		case m.Node < 0 || m.Node >= n:
			return invalid("mutation %d: node %d out of range", i, m.Node)
		case m.Parent != Null && (m.Parent < 0 || m.Parent >= i):
			return invalid("mutation %d: parent %d must precede it", i, m.Parent)
		case m.Parent != Null && tc.Mutations[m.Parent].Site != m.Site:
			return invalid("mutation %d: parent %d is at a different site", i, m.Parent)
		case m.Time < tc.Nodes[m.Node].Time:
			return invalid("mutation %d: time %v is younger than node %d", i, m.Time, m.Node)
		}
	}
	return nil
}

// TreeSequence sorts a copy of the tables, merges abutting edges,
// validates the result and returns it frozen.
func (tc *TableCollection) TreeSequence() (*TreeSequence, error) {
	tables := tc.Copy()
	tables.Sort()
	tables.SquashEdges()
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return newTreeSequence(tables), nil
}
