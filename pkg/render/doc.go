// Package render converts finished SVG figures to the other output formats.
//
// Figures are always produced as SVG, either by [draw] or by the Graphviz
// based [arg] renderer. [Convert] turns them into PDF or PNG using the
// external rsvg-convert tool (from librsvg):
//
//	pdf, err := render.Convert(ctx, svg, render.FormatPDF)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// SVG input is returned unchanged, so callers can loop over the formats a
// build asks for without special-casing it.
//
// [draw]: github.com/matzehuels/treeviz/pkg/draw
// [arg]: github.com/matzehuels/treeviz/pkg/render/arg
package render
