package figures

import (
	"maps"
	"slices"
	"strconv"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/msprime"
	"github.com/matzehuels/treeviz/pkg/style"
	"github.com/matzehuels/treeviz/pkg/tskit"
)

// RecombinationID is the id of the recombination figure's root element.
const RecombinationID = "recombination"

// Four-colour viridis. Purple marks edges whose samples cross lineages.
const (
	viridisPurple = "#440154FF"
	viridisBlue   = "#31688EFF"
	viridisGreen  = "#35B779FF"
	viridisYellow = "#FDE725FF"
)

var lineageColours = []string{viridisBlue, viridisGreen, viridisYellow}

// RecombinationLineages assigns every sample of ts a lineage. The lineages
// are the subtrees of the first tree, split from the root down until there
// are as many as there are lineage colours.
func RecombinationLineages(ts *tskit.TreeSequence) map[int]int {
	first := ts.Trees()[0]
	var tops []int
	for _, r := range first.MinlexRoots() {
		if first.IsLeaf(r) {
			tops = append(tops, r)
			continue
		}
		tops = append(tops, first.MinlexChildren(r)...)
	}
	for len(tops) < len(lineageColours) {
		widest, size := -1, 1
		for i, u := range tops {
			if n := len(first.Samples(u)); n > size && len(tops)-1+first.NumChildren(u) <= len(lineageColours) {
				widest, size = i, n
			}
		}
		if widest < 0 {
			break
		}
		tops = slices.Replace(tops, widest, widest+1, first.MinlexChildren(tops[widest])...)
	}
	lineage := make(map[int]int)
	for k, u := range tops {
		for _, s := range first.Samples(u) {
			lineage[s] = k
		}
	}
	return lineage
}

// RecombinationColours maps every node drawn with an edge to its colour: the
// lineage colour when all samples below it, in every tree, share a lineage,
// and purple otherwise.
func RecombinationColours(ts *tskit.TreeSequence) map[int]string {
	lineage := RecombinationLineages(ts)
	seen := make(map[int]map[int]bool)
	for _, t := range ts.Trees() {
		for _, u := range t.Nodes(tskit.Preorder) {
			if t.Parent(u) == tskit.Null {
				continue
			}
			if seen[u] == nil {
				seen[u] = make(map[int]bool)
			}
			for _, s := range t.Samples(u) {
				seen[u][lineage[s]] = true
			}
		}
	}
	colours := make(map[int]string, len(seen))
	for u, ls := range seen {
		colours[u] = viridisPurple
		if len(ls) == 1 {
			for l := range ls {
				colours[u] = lineageColours[l]
			}
		}
	}
	return colours
}

// RecombinationSheet returns the unscoped style of the recombination figure
// for ts. Each rule targets only the edge drawn directly by its node group.
func RecombinationSheet(ts *tskit.TreeSequence) *style.Sheet {
	s := style.New().Add(".edge", style.Decl("stroke-width", "5px"))
	colours := RecombinationColours(ts)
	nodes := slices.Sorted(maps.Keys(colours))
	for _, u := range nodes {
		s.Add(".n"+strconv.Itoa(u)+" > .edge", style.Decl("stroke", colours[u]))
	}
	return s
}

// SimulateRecombination simulates the four-sample, seed-19 example.
func SimulateRecombination() (*tskit.TreeSequence, error) {
	return msprime.SimAncestry(
		msprime.WithSamples(4),
		msprime.WithSequenceLength(1e6),
		msprime.WithRecombinationRate(1e-6),
		msprime.WithRandomSeed(19),
	)
}

// RecombinationTrees draws the trees along a recombining sequence with
// lineages coloured across the breakpoints.
func RecombinationTrees() ([]byte, error) {
	ts, err := SimulateRecombination()
	if err != nil {
		return nil, err
	}
	return draw.TreeSequence(ts,
		draw.WithSize(1000, 300),
		draw.WithXAxis(false),
		draw.WithNodeLabels(map[int]string{}),
		draw.WithSymbolSize(0),
		draw.WithStyle(RecombinationSheet(ts).Scoped(RecombinationID)),
		draw.WithRootAttributes(map[string]string{"id": RecombinationID}),
	)
}
