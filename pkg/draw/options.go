package draw

import (
	"maps"

	"github.com/matzehuels/treeviz/pkg/errors"
)

// XScale controls how horizontal space is shared between trees.
type XScale string

const (
	// Physical makes each tree's width proportional to its genomic span.
	Physical XScale = "physical"
	// Treewise gives every tree the same width.
	Treewise XScale = "treewise"
)

const (
	DefaultTreeWidth  = 200
	DefaultHeight     = 200
	DefaultSymbolSize = 6

	margin     = 20
	axisHeight = 30
)

// Option configures a drawing.
type Option func(*options)

type options struct {
	width, height  float64
	canvasW        float64
	canvasH        float64
	xScale         XScale
	xAxis          *bool
	nodeLabels     map[int]string
	mutationLabels map[int]string
	symbolSize     float64
	style          string
	rootAttributes map[string]string
}

// WithSize sets the size of the drawing area.
func WithSize(w, h float64) Option {
	return func(o *options) { o.width, o.height = w, h }
}

// WithCanvasSize sets the size of the SVG canvas, which may exceed the
// drawing area when a style moves trees around.
func WithCanvasSize(w, h float64) Option {
	return func(o *options) { o.canvasW, o.canvasH = w, h }
}

func WithXScale(s XScale) Option { return func(o *options) { o.xScale = s } }
func WithXAxis(on bool) Option   { return func(o *options) { o.xAxis = &on } }

// WithNodeLabels replaces the node labels. A nil map keeps the default of
// labelling every node by ID; an empty map draws no labels at all.
func WithNodeLabels(labels map[int]string) Option {
	return func(o *options) { o.nodeLabels = labels }
}

// WithMutationLabels follows the same rule as [WithNodeLabels].
func WithMutationLabels(labels map[int]string) Option {
	return func(o *options) { o.mutationLabels = labels }
}

// WithSymbolSize sets the node symbol diameter; zero hides the symbols.
func WithSymbolSize(s float64) Option { return func(o *options) { o.symbolSize = s } }

// WithStyle appends CSS after the default stylesheet.
func WithStyle(css string) Option { return func(o *options) { o.style = css } }

// WithRootAttributes adds attributes to the root svg element.
func WithRootAttributes(attrs map[string]string) Option {
	return func(o *options) {
		if o.rootAttributes == nil {
			o.rootAttributes = make(map[string]string, len(attrs))
		}
		maps.Copy(o.rootAttributes, attrs)
	}
}

func newOptions(numTrees int, axis bool, opts []Option) (*options, error) {
	o := &options{
		xScale:     Physical,
		symbolSize: DefaultSymbolSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.width == 0 && o.height == 0 {
		o.width, o.height = float64(DefaultTreeWidth*numTrees), DefaultHeight
	}
	if o.canvasW == 0 && o.canvasH == 0 {
		o.canvasW, o.canvasH = o.width, o.height
	}
	if o.xAxis == nil {
		o.xAxis = &axis
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *options) validate() error {
	if o.width <= 2*margin || o.plotHeight() <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "size %gx%g leaves no room to draw", o.width, o.height)
	}
	if o.canvasW <= 0 || o.canvasH <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid canvas size %gx%g", o.canvasW, o.canvasH)
	}
	if o.xScale != Physical && o.xScale != Treewise {
		return errors.New(errors.ErrCodeInvalidInput, "unknown x scale %q", o.xScale)
	}
	if o.symbolSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "symbol size must be >= 0, got %g", o.symbolSize)
	}
	return nil
}

func (o *options) plotHeight() float64 {
	h := o.height - 2*margin
	if *o.xAxis {
		h -= axisHeight
	}
	return h
}
