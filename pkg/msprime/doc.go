// Package msprime simulates ancestry and mutations into tskit tree
// sequences.
//
// [SimAncestry] runs the coalescent with recombination backwards in time
// (Hudson's algorithm). Lineages carry segments of ancestral material;
// when two lineages with overlapping material meet, a parent node and its
// edges are recorded, and regions whose most recent common ancestor has
// been found stop being tracked. The run ends when no material is left.
//
// # Options
//
//	ts, err := msprime.SimAncestry(
//	    msprime.WithSamples(4),
//	    msprime.WithPloidy(1),
//	    msprime.WithSequenceLength(1000),
//	    msprime.WithRecombinationRate(0.001),
//	    msprime.WithRandomSeed(889),
//	)
//
// Population history is given with a [Demography]: a single population
// with an initial size and exponential growth rate, plus instantaneous
// bottlenecks. A [SweepGenicSelection] model followed by
// [StandardCoalescent] simulates a selective sweep at a site.
//
// WithRecordFullARG keeps every recombination and common-ancestor event
// as a node, flagged with [tskit.NodeIsREEvent] and [tskit.NodeIsCAEvent].
// Each recombination yields two nodes with consecutive IDs at the same
// time, the lower ID carrying the material left of the breakpoint.
//
// # Mutations
//
// [SimMutations] overlays Jukes-Cantor nucleotide mutations on a tree
// sequence at a per-unit, per-generation rate.
//
// # Reproducibility
//
// Runs are deterministic for a given seed. The random source is a PCG
// generator from math/rand/v2; results are not comparable to other
// simulators for the same seed.
package msprime
