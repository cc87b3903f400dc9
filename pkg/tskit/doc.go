// Package tskit is a compact tree-sequence data model.
//
// A tree sequence stores the genealogy of a set of sampled genomes as a
// handful of tables: nodes (ancestral genomes with a time), edges (a
// parent-child relationship valid over a half-open genomic interval), sites
// and mutations. Walking along the genome, the edges present at each
// position define one tree; consecutive trees differ only where an edge
// starts or stops.
//
// # Building
//
// Tables are assembled in a mutable [TableCollection] and frozen into an
// immutable [TreeSequence]:
//
//	tc := tskit.NewTableCollection(1000)
//	a := tc.AddNode(tskit.NodeIsSample, 0, 0)
//	b := tc.AddNode(tskit.NodeIsSample, 0, 0)
//	p := tc.AddNode(0, 1.5, 0)
//	tc.AddEdge(0, 1000, p, a)
//	tc.AddEdge(0, 1000, p, b)
//	ts, err := tc.TreeSequence()
//
// [TableCollection.TreeSequence] sorts and validates the tables; a failure is
// reported with code INVALID_TREE_SEQUENCE.
//
// # Trees
//
// [TreeSequence.Trees] returns one [Tree] per interval between breakpoints.
// Trees support the traversal orders used for drawing ([Preorder],
// [Postorder], [MinlexPostorder]) and a canonical [Tree.Topology] key for
// counting distinct shapes.
//
// # Files
//
// [Load] and [TreeSequence.Dump] read and write a JSON encoding of the
// tables marked with the format name "treeviz.trees".
package tskit
