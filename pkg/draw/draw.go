package draw

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"github.com/matzehuels/treeviz/pkg/tskit"
)

const defaultCSS = `.tree-sequence text {font-family: sans-serif; font-size: 12px}
.edge {stroke: black; fill: none; stroke-width: 1px}
.sym {fill: black; stroke: none}
.mut .sym {fill: none; stroke: red; stroke-width: 2px}
.mut .lab {fill: red; font-size: 10px}
.lab {text-anchor: middle}
.lab.lft {text-anchor: end}
.lab.rgt {text-anchor: start}
.x-axis line {stroke: black}
.x-axis .tick .lab {font-size: 10px}
.x-axis .title {text-anchor: middle}`

// DefaultCSS returns the stylesheet embedded in every drawing.
func DefaultCSS() string { return defaultCSS }

// TreeSequence draws every tree of ts side by side, with a genome axis
// unless [WithXAxis] turns it off.
func TreeSequence(ts *tskit.TreeSequence, opts ...Option) ([]byte, error) {
	o, err := newOptions(ts.NumTrees(), true, opts)
	if err != nil {
		return nil, err
	}
	d := &drawer{o: o, ts: ts, maxTime: ts.MaxRootTime()}
	return d.render(ts.Trees()), nil
}

// Tree draws a single tree, scaled to its own oldest root.
func Tree(t *tskit.Tree, opts ...Option) ([]byte, error) {
	o, err := newOptions(1, false, opts)
	if err != nil {
		return nil, err
	}
	d := &drawer{o: o, ts: t.TreeSequence()}
	for _, r := range t.Roots() {
		d.maxTime = max(d.maxTime, t.Time(r))
	}
	return d.render([]*tskit.Tree{t}), nil
}

type drawer struct {
	o       *options
	ts      *tskit.TreeSequence
	maxTime float64
	canvas  *svg.SVG

	// genomic range covered by the drawn trees
	left, right float64
}

func (d *drawer) render(trees []*tskit.Tree) []byte {
	var buf bytes.Buffer
	d.canvas = svg.New(&buf)
	d.left, _ = trees[0].Interval()
	_, d.right = trees[len(trees)-1].Interval()

	c := d.canvas
	c.Start(d.o.canvasW, d.o.canvasH, rootAttributes(d.o.rootAttributes)...)
	c.Def()
	if d.o.style != "" {
		c.Style("text/css", defaultCSS, d.o.style)
	} else {
		c.Style("text/css", defaultCSS)
	}
	c.DefEnd()

	c.Group(class("tree-sequence"))
	if *d.o.xAxis {
		d.axis(trees)
	}
	c.Group(class("trees"))
	for i, t := range trees {
		x, w := d.treeBox(i, len(trees), t)
		c.Group(class("tree", "t"+strconv.Itoa(t.Index())), translate(x, 0))
		c.Group(class("plotbox"))
		d.tree(t, w)
		c.Gend()
		c.Gend()
	}
	c.Gend()
	c.Gend()
	c.End()
	return buf.Bytes()
}

// treeBox returns the left edge and width of tree i.
func (d *drawer) treeBox(i, n int, t *tskit.Tree) (x, w float64) {
	avail := d.o.width - 2*margin
	if d.o.xScale == Treewise {
		w = avail / float64(n)
		return margin + float64(i)*w, w
	}
	left, _ := t.Interval()
	return d.genomeX(left), avail * t.Span() / (d.right - d.left)
}

func (d *drawer) genomeX(pos float64) float64 {
	return margin + (d.o.width-2*margin)*(pos-d.left)/(d.right-d.left)
}

func (d *drawer) timeY(time float64) float64 {
	h := d.o.plotHeight()
	if d.maxTime <= 0 {
		return margin + h
	}
	return margin + h*(1-time/d.maxTime)
}

type layout struct {
	x, y []float64
	muts map[int][]int
}

func (d *drawer) layout(t *tskit.Tree, width float64) *layout {
	l := &layout{
		x:    make([]float64, d.ts.NumNodes()),
		y:    make([]float64, d.ts.NumNodes()),
		muts: make(map[int][]int),
	}
	var leaves []int
	var visit func(u int)
	visit = func(u int) {
		children := t.MinlexChildren(u)
		if len(children) == 0 {
			leaves = append(leaves, u)
		}
		for _, v := range children {
			visit(v)
		}
	}
	for _, r := range t.MinlexRoots() {
		visit(r)
	}
	spacing := width / float64(max(len(leaves), 1))
	for k, u := range leaves {
		l.x[u] = (float64(k) + 0.5) * spacing
	}
	for _, u := range t.Nodes(tskit.MinlexPostorder) {
		if children := t.MinlexChildren(u); len(children) > 0 {
			l.x[u] = (l.x[children[0]] + l.x[children[len(children)-1]]) / 2
		}
		l.y[u] = d.timeY(t.Time(u))
	}
	for _, m := range t.Mutations() {
		u := d.ts.Mutation(m).Node
		l.muts[u] = append(l.muts[u], m)
	}
	return l
}

func (d *drawer) tree(t *tskit.Tree, width float64) {
	l := d.layout(t, width)
	for _, r := range t.MinlexRoots() {
		d.node(t, l, r, 0, 0, true)
	}
}

// node emits the group for u, translated relative to its parent at (px, py).
func (d *drawer) node(t *tskit.Tree, l *layout, u int, px, py float64, root bool) {
	c := d.canvas
	x, y := l.x[u], l.y[u]

	classes := []string{"node", "n" + strconv.Itoa(u)}
	if t.IsSample(u) {
		classes = append(classes, "sample")
	}
	if t.IsLeaf(u) {
		classes = append(classes, "leaf")
	}
	if root {
		classes = append(classes, "root")
	}
	c.Group(class(classes...), translate(x-px, y-py))

	muts := l.muts[u]
	switch {
	case !root:
		c.Path(fmt.Sprintf("M 0 0 V %s H %s", num(py-y), num(px-x)), class("edge"))
	case len(muts) > 0:
		c.Path(fmt.Sprintf("M 0 0 V %s", num(-rootStub*float64(len(muts)+1))), class("edge"))
	}
	d.mutations(muts, y, py, root)

	for _, v := range t.MinlexChildren(u) {
		d.node(t, l, v, x, y, false)
	}

	r := d.o.symbolSize / 2
	if r > 0 {
		if t.IsSample(u) {
			c.Rect(-r, -r, 2*r, 2*r, class("sym"))
		} else {
			c.Circle(0, 0, r, class("sym"))
		}
	}
	if text, ok := label(d.o.nodeLabels, u); ok {
		switch {
		case t.IsLeaf(u):
			c.Text(0, r+12, text, class("lab"))
		case root:
			c.Text(0, -r-5, text, class("lab"))
		default:
			c.Text(-r-3, -3, text, class("lab", "lft"))
		}
	}
	c.Gend()
}

const rootStub = 10

// mutations places the mutations above a node at y, oldest highest. Mutation
// times position them on the edge; above a root they are stacked evenly.
func (d *drawer) mutations(ids []int, y, py float64, root bool) {
	if len(ids) == 0 {
		return
	}
	c := d.canvas
	ids = slices.Clone(ids)
	slices.SortStableFunc(ids, func(a, b int) int {
		return cmp.Compare(d.ts.Mutation(a).Time, d.ts.Mutation(b).Time)
	})
	s := max(d.o.symbolSize/2, 3)
	for k, m := range ids {
		mut := d.ts.Mutation(m)
		var my float64
		if root {
			my = -rootStub * float64(k+1)
		} else {
			my = min(max(d.timeY(mut.Time)-y, py-y), 0)
		}
		c.Group(class("mut", "m"+strconv.Itoa(m), "s"+strconv.Itoa(mut.Site)), translate(0, my))
		c.Path(fmt.Sprintf("M %s %s L %s %s M %s %s L %s %s",
			num(-s), num(-s), num(s), num(s), num(-s), num(s), num(s), num(-s)), class("sym"))
		if text, ok := label(d.o.mutationLabels, m); ok {
			c.Text(s+2, 4, text, class("lab", "rgt"))
		}
		c.Gend()
	}
}

func (d *drawer) axis(trees []*tskit.Tree) {
	c := d.canvas
	y := margin + d.o.plotHeight() + 10
	c.Group(class("x-axis"))
	c.Line(margin, y, d.o.width-margin, y, class("ax-line"))

	type tick struct{ pos, x float64 }
	ticks := make([]tick, 0, len(trees)+1)
	for i, t := range trees {
		left, _ := t.Interval()
		x, _ := d.treeBox(i, len(trees), t)
		ticks = append(ticks, tick{left, x})
	}
	ticks = append(ticks, tick{d.right, d.o.width - margin})
	for _, tk := range ticks {
		c.Group(class("tick"), translate(tk.x, y))
		c.Line(0, 0, 0, 5)
		c.Text(0, 16, num(tk.pos), class("lab"))
		c.Gend()
	}
	c.Text(d.o.width/2, y+28, "Genome position", class("title"))
	c.Gend()
}

func label(labels map[int]string, id int) (string, bool) {
	if labels == nil {
		return strconv.Itoa(id), true
	}
	s, ok := labels[id]
	return s, ok
}

func class(names ...string) string {
	return `class="` + strings.Join(names, " ") + `"`
}

func translate(x, y float64) string {
	return fmt.Sprintf(`transform="translate(%s %s)"`, num(x), num(y))
}

func rootAttributes(attrs map[string]string) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf(`%s="%s"`, k, attrEscaper.Replace(attrs[k]))
	}
	return out
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
