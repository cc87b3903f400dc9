// Package pkg provides the libraries behind treeviz, the figure generator
// for the tree-sequence documentation.
//
// # Overview
//
// treeviz simulates small genealogies and draws them for the docs. The pkg
// directory is organized into three areas:
//
//  1. Data: [tskit] (tree sequences) and [msprime] (coalescent simulation)
//  2. Drawing: [draw] (tree SVG), [style] (CSS), [render] (graphviz ARG
//     rendering and format conversion), and [figures] (the named figures)
//  3. Build: [config], [cache], [pipeline], [observability], [buildinfo]
//     and [errors]
//
// # Architecture
//
// The typical data flow:
//
//	treeviz.toml + _variables.yml
//	         ↓
//	    [config] package (settings and variables)
//	         ↓
//	    [msprime] package (simulate) or [tskit] package (load)
//	         ↓
//	    [figures] package (canaries, layout, styles)
//	         ↓
//	    [draw] / [render/arg] packages (SVG)
//	         ↓
//	    [pipeline] package (cache, convert, write, manifest)
//
// # Quick Start
//
// Simulate a scenario and draw it:
//
//	import (
//	    "github.com/matzehuels/treeviz/pkg/draw"
//	    "github.com/matzehuels/treeviz/pkg/msprime"
//	)
//
//	ts, err := msprime.SimAncestry(
//	    msprime.WithSamples(10),
//	    msprime.WithPopulationSize(1e4),
//	    msprime.WithSequenceLength(1e4),
//	    msprime.WithRandomSeed(7),
//	)
//	if err != nil {
//	    return err
//	}
//	svg, err := draw.TreeSequence(ts, draw.WithSize(300, 500))
//
// Or draw a named documentation figure:
//
//	svg, err := figures.TreeTopology("bottleneck", "tree-topology-bottleneck")
package pkg
