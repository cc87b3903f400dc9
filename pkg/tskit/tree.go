package tskit

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
)

// TraversalOrder names a node visiting order for [Tree.Nodes].
type TraversalOrder string

const (
	Preorder  TraversalOrder = "preorder"
	Postorder TraversalOrder = "postorder"
	// MinlexPostorder is a postorder that visits roots, and the children of
	// every node, in increasing order of the smallest sample beneath them.
	MinlexPostorder TraversalOrder = "minlex_postorder"
)

// Tree is the genealogy over one interval of a tree sequence.
type Tree struct {
	ts       *TreeSequence
	index    int
	left     float64
	right    float64
	parent   []int
	children [][]int
	roots    []int
	minlex   []int
}

func (t *Tree) TreeSequence() *TreeSequence { return t.ts }
func (t *Tree) Index() int                  { return t.index }

// Interval returns the half-open genomic interval [left, right).
func (t *Tree) Interval() (left, right float64) { return t.left, t.right }
func (t *Tree) Span() float64                   { return t.right - t.left }

func (t *Tree) Parent(u int) int     { return t.parent[u] }
func (t *Tree) Children(u int) []int { return slices.Clone(t.children[u]) }
func (t *Tree) NumChildren(u int) int {
	return len(t.children[u])
}

// Roots returns the roots with at least one sample beneath them.
func (t *Tree) Roots() []int { return slices.Clone(t.roots) }

// Root returns the single root, or Null when the tree has several.
func (t *Tree) Root() int {
	if len(t.roots) != 1 {
		return Null
	}
	return t.roots[0]
}

func (t *Tree) IsSample(u int) bool { return t.ts.tables.Nodes[u].IsSample() }
func (t *Tree) IsLeaf(u int) bool   { return len(t.children[u]) == 0 }
func (t *Tree) Time(u int) float64  { return t.ts.tables.Nodes[u].Time }

// BranchLength returns the length of the branch above u, zero for roots.
func (t *Tree) BranchLength(u int) float64 {
	p := t.parent[u]
	if p == Null {
		return 0
	}
	return t.Time(p) - t.Time(u)
}

func (t *Tree) TotalBranchLength() float64 {
	var total float64
	for _, u := range t.Nodes(Preorder) {
		total += t.BranchLength(u)
	}
	return total
}

// Samples returns the samples in the subtree rooted at u, ascending.
func (t *Tree) Samples(u int) []int {
	var out []int
	t.preorderFrom(u, t.children, func(v int) {
		if t.IsSample(v) {
			out = append(out, v)
		}
	})
	slices.Sort(out)
	return out
}

// MRCA returns the most recent common ancestor of u and v, or Null.
func (t *Tree) MRCA(u, v int) int {
	ancestors := make(map[int]bool)
	for w := u; w != Null; w = t.parent[w] {
		ancestors[w] = true
	}
	for w := v; w != Null; w = t.parent[w] {
		if ancestors[w] {
			return w
		}
	}
	return Null
}

// Nodes returns the nodes of the tree in the given order.
// An unknown order yields nil.
func (t *Tree) Nodes(order TraversalOrder) []int {
	var out []int
	visit := func(u int) { out = append(out, u) }
	switch order {
	case Preorder:
		for _, r := range t.roots {
			t.preorderFrom(r, t.children, visit)
		}
	case Postorder:
		for _, r := range t.roots {
			t.postorderFrom(r, t.children, visit)
		}
	case MinlexPostorder:
		sorted := make([][]int, len(t.children))
		for u := range t.children {
			sorted[u] = t.MinlexChildren(u)
		}
		for _, r := range t.MinlexRoots() {
			t.postorderFrom(r, sorted, visit)
		}
	}
	return out
}

// MinlexChildren returns the children of u ordered by their smallest
// descendant sample.
func (t *Tree) MinlexChildren(u int) []int { return t.byMinlex(t.children[u]) }

// MinlexRoots returns the roots ordered by their smallest descendant sample.
func (t *Tree) MinlexRoots() []int { return t.byMinlex(t.roots) }

// SampleOrder returns the samples as met in a minlex postorder traversal.
func (t *Tree) SampleOrder() []int {
	var out []int
	for _, u := range t.Nodes(MinlexPostorder) {
		if t.IsSample(u) {
			out = append(out, u)
		}
	}
	return out
}

// Topology returns a canonical key for the labelled shape of the tree.
// Branch lengths, internal node IDs and unary nodes are ignored, so two
// trees share a key exactly when they relate the same samples the same way.
func (t *Tree) Topology() string {
	keys := make([]string, 0, len(t.roots))
	for _, r := range t.roots {
		keys = append(keys, t.topologyKey(r))
	}
	slices.Sort(keys)
	return strings.Join(keys, " ")
}

func (t *Tree) topologyKey(u int) string {
	kids := t.children[u]
	if len(kids) == 0 {
		if t.IsSample(u) {
			return strconv.Itoa(u)
		}
		return "_"
	}
	if len(kids) == 1 && !t.IsSample(u) {
		return t.topologyKey(kids[0])
	}
	keys := make([]string, len(kids))
	for i, c := range kids {
		keys[i] = t.topologyKey(c)
	}
	slices.Sort(keys)
	label := ""
	if t.IsSample(u) {
		label = strconv.Itoa(u)
	}
	return label + "(" + strings.Join(keys, ",") + ")"
}

// Sites returns the IDs of the sites inside the tree's interval.
func (t *Tree) Sites() []int {
	var out []int
	for i, s := range t.ts.tables.Sites {
		if s.Position >= t.left && s.Position < t.right {
			out = append(out, i)
		}
	}
	return out
}

// Mutations returns the IDs of the mutations at the tree's sites that sit
// on a node of this tree.
func (t *Tree) Mutations() []int {
	inTree := make(map[int]bool)
	for _, u := range t.Nodes(Preorder) {
		inTree[u] = true
	}
	var out []int
	for i, m := range t.ts.tables.Mutations {
		pos := t.ts.tables.Sites[m.Site].Position
		if pos >= t.left && pos < t.right && inTree[m.Node] {
			out = append(out, i)
		}
	}
	return out
}

func (t *Tree) byMinlex(nodes []int) []int {
	out := slices.Clone(nodes)
	slices.SortStableFunc(out, func(a, b int) int {
		return cmp.Or(cmp.Compare(t.minlex[a], t.minlex[b]), cmp.Compare(a, b))
	})
	return out
}

// minlexKeys assigns each node the smallest sample ID beneath it. Subtrees
// without samples sort after all others, by their smallest leaf.
func (t *Tree) minlexKeys() []int {
	n := len(t.parent)
	keys := make([]int, n)
	for u := range keys {
		keys[u] = math.MaxInt
	}
	var walk func(u int) int
	walk = func(u int) int {
		k := math.MaxInt
		if len(t.children[u]) == 0 {
			k = n + u
		}
		if t.IsSample(u) {
			k = u
		}
		for _, c := range t.children[u] {
			k = min(k, walk(c))
		}
		keys[u] = k
		return k
	}
	for _, r := range t.roots {
		walk(r)
	}
	return keys
}

func (t *Tree) preorderFrom(u int, children [][]int, visit func(int)) {
	stack := []int{u}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(v)
		kids := children[v]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
}

func (t *Tree) postorderFrom(u int, children [][]int, visit func(int)) {
	for _, c := range children[u] {
		t.postorderFrom(c, children, visit)
	}
	visit(u)
}
