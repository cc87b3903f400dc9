package tskit

import "testing"

// basicsTables mirrors data/basics.trees: four samples, two trees split
// at position 600.
//
//	[0, 600)             [600, 1000)
//	     7                    8
//	   /   \                /   \
//	  4     5              6     3
//	 / \   / \            / \
//	0   1 2   3          2   4
//	                        / \
//	                       0   1
func basicsTables() *TableCollection {
	tc := NewTableCollection(1000)
	tc.AddPopulation("pop_0")
	for range 4 {
		tc.AddNode(NodeIsSample, 0, 0)
	}
	for _, time := range []float64{400, 1100, 1800, 2500, 3200} {
		tc.AddNode(0, time, 0)
	}
	tc.AddEdge(0, 1000, 4, 0)
	tc.AddEdge(0, 1000, 4, 1)
	tc.AddEdge(0, 600, 5, 2)
	tc.AddEdge(0, 600, 5, 3)
	tc.AddEdge(600, 1000, 6, 2)
	tc.AddEdge(600, 1000, 6, 4)
	tc.AddEdge(0, 600, 7, 4)
	tc.AddEdge(0, 600, 7, 5)
	tc.AddEdge(600, 1000, 8, 3)
	tc.AddEdge(600, 1000, 8, 6)
	tc.AddSite(120, "A")
	tc.AddSite(350, "G")
	tc.AddSite(780, "C")
	tc.AddMutation(0, 5, "T", Null, 1500)
	tc.AddMutation(1, 0, "A", Null, 200)
	tc.AddMutation(2, 6, "G", Null, 2100)
	return tc
}

func basicsTS(t *testing.T) *TreeSequence {
	t.Helper()
	ts, err := basicsTables().TreeSequence()
	if err != nil {
		t.Fatalf("basics tree sequence: %v", err)
	}
	return ts
}
