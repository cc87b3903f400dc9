package figures

import (
	"math"
	"strconv"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/style"
)

// ThreeDID is the id of the 3D-effect figure's root element.
const ThreeDID = "threedtree"

// ThreeDParams are the geometric inputs of the 3D-effect tree.
type ThreeDParams struct {
	TreeWidth float64 // width of one tree
	YStep     float64 // vertical stagger between consecutive trees
	LMargin   float64
	RMargin   float64
	Height    float64 // height of one tree plus the x axis
	Skew      float64 // skew of every tree, in radians
}

func DefaultThreeDParams() ThreeDParams {
	return ThreeDParams{TreeWidth: 100, YStep: 40, LMargin: 20, RMargin: 20, Height: 200, Skew: 0.6}
}

// ThreeDLayout holds the numbers derived from ThreeDParams for a given
// number of trees.
type ThreeDLayout struct {
	Params   ThreeDParams
	NumTrees int

	Width        float64
	Angle        float64
	AxisMove     [2]float64
	CanvasWidth  float64
	CanvasHeight float64
	// TreeShift[i] moves tree i down so later trees sit higher up.
	TreeShift []float64
}

// Layout computes the layout for n trees.
func (p ThreeDParams) Layout(n int) (ThreeDLayout, error) {
	if n < 1 {
		return ThreeDLayout{}, errors.New(errors.ErrCodeInvalidInput, "need at least one tree, got %d", n)
	}
	if p.TreeWidth <= 0 || p.Height <= 0 || p.YStep < 0 {
		return ThreeDLayout{}, errors.New(errors.ErrCodeInvalidInput,
			"invalid 3D tree geometry: tree width %g, height %g, y step %g", p.TreeWidth, p.Height, p.YStep)
	}
	nf := float64(n)
	l := ThreeDLayout{
		Params:   p,
		NumTrees: n,
		Width:    p.TreeWidth*nf + p.LMargin + p.RMargin,
		Angle:    math.Atan(p.YStep / p.TreeWidth),
		AxisMove: [2]float64{
			p.YStep,
			(nf-1)*p.YStep + math.Tan(p.Skew)*p.TreeWidth*0.9,
		},
		TreeShift: make([]float64, n),
	}
	l.CanvasWidth = l.Width + p.YStep
	l.CanvasHeight = p.Height + nf*p.YStep + math.Tan(p.Skew)*p.TreeWidth
	for i := range n {
		l.TreeShift[i] = float64(n-i-1) * p.YStep
	}
	return l, nil
}

// Sheet returns the unscoped rules: a skewed, shifted x axis and one
// translate-and-skew rule per tree.
func (l ThreeDLayout) Sheet() *style.Sheet {
	s := style.New().Add(".x-axis", style.Decl("transform",
		style.Translate(l.AxisMove[0], l.AxisMove[1])+" skewY(-"+style.Rad(l.Angle)+")"))
	for i, shift := range l.TreeShift {
		s.Add(".tree.t"+strconv.Itoa(i)+" > .plotbox", style.Decl("transform",
			"translateY("+style.Px(shift)+") skewY("+style.Rad(l.Params.Skew)+")"))
	}
	return s
}

// Style returns Sheet scoped under the figure's root id.
func (l ThreeDLayout) Style() string { return l.Sheet().Scoped(ThreeDID) }

// Make3DTree draws the seven-tree example with a 3D effect. It honours
// WithStyle, WithTreeWidth, WithYStep, WithLMargin and WithRMargin; a
// caller style replaces the generated one.
func Make3DTree(opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	p := DefaultThreeDParams()
	p.TreeWidth = orDefault(o.treeWidth, p.TreeWidth)
	p.YStep = orDefault(o.yStep, p.YStep)
	p.LMargin = orDefault(o.lmargin, p.LMargin)
	p.RMargin = orDefault(o.rmargin, p.RMargin)

	ts, err := MakeSevenTreeFourTipTS()
	if err != nil {
		return nil, err
	}
	l, err := p.Layout(ts.NumTrees())
	if err != nil {
		return nil, err
	}

	css := l.Style()
	if o.style != nil {
		css = *o.style
	} else if err := l.Sheet().Validate(); err != nil {
		return nil, err
	}

	return draw.TreeSequence(ts,
		draw.WithSize(l.Width, p.Height),
		draw.WithXScale(draw.Treewise),
		draw.WithStyle(css),
		draw.WithCanvasSize(l.CanvasWidth, l.CanvasHeight),
		draw.WithRootAttributes(map[string]string{"id": ThreeDID}),
	)
}
