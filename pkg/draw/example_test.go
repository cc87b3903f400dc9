package draw_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/tskit"
)

func ExampleTreeSequence() {
	tc := tskit.NewTableCollection(10)
	tc.AddNode(tskit.NodeIsSample, 0, tskit.Null)
	tc.AddNode(tskit.NodeIsSample, 0, tskit.Null)
	tc.AddNode(0, 1, tskit.Null)
	tc.AddEdge(0, 10, 2, 0)
	tc.AddEdge(0, 10, 2, 1)
	ts, err := tc.TreeSequence()
	if err != nil {
		panic(err)
	}

	out, err := draw.TreeSequence(ts, draw.WithRootAttributes(map[string]string{"id": "pair"}))
	if err != nil {
		panic(err)
	}
	svg := string(out)
	fmt.Println(strings.Count(svg, `class="node n`))
	fmt.Println(strings.Contains(svg, `class="node n2 root"`))
	// Output:
	// 3
	// true
}
