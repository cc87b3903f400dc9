package tskit_test

import (
	"fmt"

	"github.com/matzehuels/treeviz/pkg/tskit"
)

func ExampleTableCollection_TreeSequence() {
	tc := tskit.NewTableCollection(100)
	a := tc.AddNode(tskit.NodeIsSample, 0, 0)
	b := tc.AddNode(tskit.NodeIsSample, 0, 0)
	c := tc.AddNode(tskit.NodeIsSample, 0, 0)
	ab := tc.AddNode(0, 1, 0)
	root := tc.AddNode(0, 3, 0)
	tc.AddEdge(0, 100, ab, a)
	tc.AddEdge(0, 100, ab, b)
	tc.AddEdge(0, 100, root, ab)
	tc.AddEdge(0, 100, root, c)

	ts, err := tc.TreeSequence()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	tree := ts.Trees()[0]
	fmt.Println(ts.NumTrees(), tree.Topology())
	fmt.Println(tree.Nodes(tskit.MinlexPostorder))
	// Output:
	// 1 ((0,1),2)
	// [0 1 3 2 4]
}
