// Package figures builds the tree-sequence figures of the tskit
// documentation.
//
// Each figure is a short composition: simulate (or load) a tree sequence
// with fixed parameters, optionally post-process it, and hand it to a
// renderer with figure-specific styling:
//
//   - [Make3DTree]: seven trees staggered and skewed with CSS transforms
//   - [ARGFigure]: a small ancestral recombination graph via Graphviz
//   - [RecombinationTrees]: lineages coloured across recombination breakpoints
//   - [TreeTopology]: one tree under a neutral, expansion, bottleneck or
//     selective-sweep scenario
//   - [BasicsTree] and [TreeMut]: the precomputed basics example, with and
//     without extra mutations
//
// Seeds are fixed so the figures are reproducible. [MakeSevenTreeFourTipTS]
// additionally checks that its seed still yields the intended example data
// and fails with CANARY_FAILED otherwise.
package figures
