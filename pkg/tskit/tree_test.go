package tskit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_Structure(t *testing.T) {
	trees := basicsTS(t).Trees()
	require.Len(t, trees, 2)

	first, second := trees[0], trees[1]
	left, right := first.Interval()
	assert.Equal(t, 0.0, left)
	assert.Equal(t, 600.0, right)

	assert.Equal(t, 7, first.Root())
	assert.Equal(t, []int{4, 5}, first.Children(7))
	assert.Equal(t, 8, second.Root())
	assert.Equal(t, 6, second.Parent(4))
	assert.Equal(t, Null, second.Parent(7), "node 7 is absent from the second tree")

	assert.True(t, first.IsLeaf(0))
	assert.True(t, first.IsSample(3))
	assert.False(t, first.IsSample(5))
	assert.Equal(t, 2100.0, first.BranchLength(4))
	assert.Equal(t, 6500.0, first.TotalBranchLength())
	assert.Equal(t, 7, first.MRCA(0, 2))
	assert.Equal(t, 6, second.MRCA(0, 2))
	assert.Equal(t, []int{0, 1, 2}, second.Samples(6))
}

func TestTree_Nodes(t *testing.T) {
	trees := basicsTS(t).Trees()

	tests := []struct {
		tree  int
		order TraversalOrder
		want  []int
	}{
		{0, Preorder, []int{7, 4, 0, 1, 5, 2, 3}},
		{0, Postorder, []int{0, 1, 4, 2, 3, 5, 7}},
		{0, MinlexPostorder, []int{0, 1, 4, 2, 3, 5, 7}},
		{1, Preorder, []int{8, 3, 6, 2, 4, 0, 1}},
		{1, Postorder, []int{3, 2, 0, 1, 4, 6, 8}},
		{1, MinlexPostorder, []int{0, 1, 4, 2, 6, 3, 8}},
		{1, TraversalOrder("levelorder"), nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			assert.Equal(t, tt.want, trees[tt.tree].Nodes(tt.order))
		})
	}
}

func TestTree_SampleOrder(t *testing.T) {
	for _, tree := range basicsTS(t).Trees() {
		assert.Equal(t, []int{0, 1, 2, 3}, tree.SampleOrder())
	}
}

func TestTree_Topology(t *testing.T) {
	trees := basicsTS(t).Trees()
	assert.Equal(t, "((0,1),(2,3))", trees[0].Topology())
	assert.Equal(t, "(((0,1),2),3)", trees[1].Topology())
}

func TestTree_TopologyIgnoresNodeIDsAndUnaryNodes(t *testing.T) {
	build := func(extra bool) *Tree {
		tc := NewTableCollection(1)
		for range 3 {
			tc.AddNode(NodeIsSample, 0, 0)
		}
		var inner int
		if extra {
			unary := tc.AddNode(0, 0.5, 0)
			tc.AddEdge(0, 1, unary, 2)
			inner = tc.AddNode(0, 1, 0)
			tc.AddEdge(0, 1, inner, unary)
		} else {
			inner = tc.AddNode(0, 1, 0)
			tc.AddEdge(0, 1, inner, 2)
		}
		tc.AddEdge(0, 1, inner, 1)
		root := tc.AddNode(0, 2, 0)
		tc.AddEdge(0, 1, root, inner)
		tc.AddEdge(0, 1, root, 0)
		ts, err := tc.TreeSequence()
		require.NoError(t, err)
		return ts.Trees()[0]
	}

	assert.Equal(t, build(false).Topology(), build(true).Topology())
	assert.Equal(t, "((1,2),0)", build(true).Topology())
}

func TestTree_MultipleRoots(t *testing.T) {
	tc := NewTableCollection(1)
	tc.AddNode(NodeIsSample, 0, 0)
	tc.AddNode(NodeIsSample, 0, 0)
	tc.AddNode(NodeIsSample, 0, 0)
	p := tc.AddNode(0, 1, 0)
	tc.AddEdge(0, 1, p, 1)
	tc.AddEdge(0, 1, p, 2)
	ts, err := tc.TreeSequence()
	require.NoError(t, err)

	tree := ts.Trees()[0]
	assert.Equal(t, []int{0, 3}, tree.Roots())
	assert.Equal(t, Null, tree.Root())
	assert.Equal(t, "(1,2) 0", tree.Topology())

	_, err = tree.Newick(2)
	assert.Error(t, err)
}

func TestTree_SitesAndMutations(t *testing.T) {
	trees := basicsTS(t).Trees()
	assert.Equal(t, []int{0, 1}, trees[0].Sites())
	assert.Equal(t, []int{0, 1}, trees[0].Mutations())
	assert.Equal(t, []int{2}, trees[1].Sites())
	assert.Equal(t, []int{2}, trees[1].Mutations())
}
