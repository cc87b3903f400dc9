// Package arg renders ancestral recombination graphs as node-link diagrams.
//
// # Overview
//
// A tree sequence simulated with full ARG recording stores every
// recombination as two nodes with consecutive IDs, equal times and equal
// flags. [ToDOT] folds each such pair into one visible box labelled
// "i/i+1", redirects edges from the second node to the first, and labels
// the edges into a recombination node with the genomic interval they carry.
//
// # Usage
//
//	dot, err := arg.ToDOT(ts, arg.Options{})
//	svg, err := arg.RenderSVG(ctx, dot)
//
// [Render] does both and writes the result to arg.svg in a directory.
//
// # Layout
//
// Samples share one rank and are drawn as double circles. Every other node
// gets an invisible edge to its numeric predecessor (or to the first node of
// the predecessor's pair), which stacks nodes in ID order, and node IDs
// increase with time.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz] in-process; no graphviz
// installation is needed.
package arg
