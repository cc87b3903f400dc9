package arg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/tskit"
)

// FileName is the base name [Render] writes to.
const FileName = "arg.svg"

// DefaultSize is the graphviz size attribute, in inches.
const DefaultSize = "4,6"

// Options configures ARG rendering.
type Options struct {
	// Size is the graphviz size attribute ("width,height" in inches).
	// Empty means DefaultSize.
	Size string
}

// RecombinationPairs maps both nodes of every recombination pair to the
// first (lower) ID of the pair.
//
// Two nodes pair up when both carry [tskit.NodeIsREEvent], their IDs are
// consecutive, and their times and flags are equal. A recombination node
// without a partner is an error rather than a guess.
func RecombinationPairs(ts *tskit.TreeSequence) (map[int]int, error) {
	pairs := make(map[int]int)
	n := ts.NumNodes()
	for u := 0; u < n; u++ {
		node := ts.Node(u)
		if node.Flags&tskit.NodeIsREEvent == 0 {
			continue
		}
		if u+1 >= n {
			return nil, errors.New(errors.ErrCodeInvalidTreeSequence, "recombination node %d has no partner", u)
		}
		next := ts.Node(u + 1)
		if next.Flags != node.Flags || next.Time != node.Time {
			return nil, errors.New(errors.ErrCodeInvalidTreeSequence,
				"recombination node %d has no partner: node %d differs in time or flags", u, u+1)
		}
		pairs[u], pairs[u+1] = u, u
		u++
	}
	return pairs, nil
}

// ToDOT converts a tree sequence to Graphviz DOT source.
func ToDOT(ts *tskit.TreeSequence, opts Options) (string, error) {
	pairs, err := RecombinationPairs(ts)
	if err != nil {
		return "", err
	}
	size := opts.Size
	if size == "" {
		size = DefaultSize
	}

	normalize := func(u int) int {
		if first, ok := pairs[u]; ok {
			return first
		}
		return u
	}

	var buf bytes.Buffer
	buf.WriteString("digraph {\n")
	fmt.Fprintf(&buf, "  size=%q;\n", size)

	buf.WriteString("  subgraph {\n")
	buf.WriteString("    rank=same;\n")
	for _, u := range ts.Samples() {
		fmt.Fprintf(&buf, "    %q [shape=doublecircle];\n", id(u))
	}
	buf.WriteString("  }\n\n")

	for u := 0; u < ts.NumNodes(); u++ {
		if ts.Node(u).IsSample() {
			continue
		}
		if first, ok := pairs[u]; ok && first == u {
			buf.WriteString("  subgraph {\n")
			buf.WriteString("    rank=same;\n")
			fmt.Fprintf(&buf, "    %q [shape=rect, label=%q];\n", id(u), id(u)+"/"+id(u+1))
			fmt.Fprintf(&buf, "    %q [style=invis];\n", id(u+1))
			buf.WriteString("  }\n")
		} else if ok {
			continue
		} else {
			fmt.Fprintf(&buf, "  %q [shape=circle];\n", id(u))
		}
		if u >= 1 {
			fmt.Fprintf(&buf, "  %q -> %q [style=invis];\n", id(u), id(normalize(u-1)))
		}
	}

	buf.WriteString("\n")
	seen := make(map[[2]int]bool)
	for _, e := range ts.Edges() {
		pa, ch := normalize(e.Parent), normalize(e.Child)
		key := [2]int{pa, ch}
		if seen[key] {
			continue
		}
		seen[key] = true

		if _, ok := pairs[ch]; ok {
			label := fmt.Sprintf("[%d,%d)", int(e.Left), int(e.Right))
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", id(pa), id(ch), label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", id(pa), id(ch))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func id(u int) string { return strconv.Itoa(u) }

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	if g == nil {
		return nil, errors.New(errors.ErrCodeRender, "parse DOT: no graph")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render draws ts and writes the SVG to dir/arg.svg, returning the path
// and the bytes written.
func Render(ctx context.Context, ts *tskit.TreeSequence, dir string, opts Options) (string, []byte, error) {
	dot, err := ToDOT(ts, opts)
	if err != nil {
		return "", nil, err
	}
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return "", nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, svg, 0o644); err != nil {
		return "", nil, fmt.Errorf("write %s: %w", path, err)
	}
	return path, svg, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces graphviz's point-sized root element with a
// plain one whose width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
