package figures

// Option customizes a figure. Each figure reads only the options that make
// sense for it; the rest are ignored.
type Option func(*options)

type options struct {
	size       *[2]float64
	xAxis      *bool
	nodeLabels map[int]string
	labelsSet  bool
	symbolSize *float64
	style      *string

	treeWidth, yStep *float64
	lmargin, rmargin *float64
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func WithSize(w, h float64) Option { return func(o *options) { o.size = &[2]float64{w, h} } }
func WithXAxis(on bool) Option     { return func(o *options) { o.xAxis = &on } }

// WithNodeLabels sets the node labels; an empty map hides them.
func WithNodeLabels(labels map[int]string) Option {
	return func(o *options) { o.nodeLabels, o.labelsSet = labels, true }
}

func WithSymbolSize(s float64) Option { return func(o *options) { o.symbolSize = &s } }

// WithStyle replaces the figure's default style.
func WithStyle(css string) Option { return func(o *options) { o.style = &css } }

func WithTreeWidth(w float64) Option { return func(o *options) { o.treeWidth = &w } }
func WithYStep(y float64) Option     { return func(o *options) { o.yStep = &y } }
func WithLMargin(m float64) Option   { return func(o *options) { o.lmargin = &m } }
func WithRMargin(m float64) Option   { return func(o *options) { o.rmargin = &m } }

func orDefault[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
