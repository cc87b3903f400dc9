package msprime

import (
	"math"
	"math/rand/v2"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/tskit"
)

// SimAncestry simulates the ancestry of the configured samples and returns
// the resulting tree sequence.
func SimAncestry(opts ...Option) (*tskit.TreeSequence, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	sim, err := newSimulator(cfg)
	if err != nil {
		return nil, err
	}
	if err := sim.run(); err != nil {
		return nil, err
	}
	ts, err := sim.tables.TreeSequence()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSimulation, err, "finalise tables")
	}
	return ts, nil
}

// segment is a stretch [left, right) of ancestral material currently
// represented by node.
type segment struct {
	left, right float64
	node        int
}

type lineage struct {
	segs []segment
}

func (l *lineage) extent() (left, right float64) {
	return l.segs[0].left, l.segs[len(l.segs)-1].right
}

type simulator struct {
	cfg      *config
	rng      *rand.Rand
	tables   *tskit.TableCollection
	pop      Population
	events   []InstantaneousBottleneck
	lineages []*lineage
	overlap  *overlapCounter
	t        float64
	steps    int
}

func newSimulator(cfg *config) (*simulator, error) {
	demography := cfg.demography
	if demography == nil {
		demography = NewDemography()
		demography.AddPopulation("pop_0", cfg.populationSize, 0)
	}

	individuals := cfg.samples
	for _, s := range cfg.sampleSets {
		if demography.Lookup(s.population) < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown population %q", s.population)
		}
		individuals += s.count
	}

	seed := cfg.seed
	if !cfg.seeded {
		seed = rand.Uint64()
	}
	s := &simulator{
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
		tables: tskit.NewTableCollection(cfg.sequenceLength),
		pop:    demography.Populations[0],
		events: demography.sortedEvents(),
	}
	s.tables.AddPopulation(s.pop.Name)

	n := individuals * cfg.ploidy
	for i := 0; i < n; i++ {
		u := s.tables.AddNode(tskit.NodeIsSample, 0, 0)
		s.tables.Nodes[u].Individual = i / cfg.ploidy
		s.lineages = append(s.lineages, &lineage{segs: []segment{{0, cfg.sequenceLength, u}}})
	}
	s.overlap = newOverlapCounter(cfg.sequenceLength, n)
	return s, nil
}

func (s *simulator) run() error {
	if len(s.lineages) < 2 {
		return nil
	}
	models := s.cfg.models
	if len(models) == 0 {
		models = []Model{StandardCoalescent{}}
	}
	for _, m := range models {
		var err error
		switch m := m.(type) {
		case SweepGenicSelection:
			err = s.runSweep(m)
		case StandardCoalescent:
			err = s.runHudson()
		default:
			err = errors.New(errors.ErrCodeUnsupported, "model %s", m.Name())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *simulator) runHudson() error {
	for len(s.lineages) > 1 {
		if err := s.tick(); err != nil {
			return err
		}
		tRe := math.Inf(1)
		if rate := s.cfg.recombination * s.recombinationMass(); rate > 0 {
			tRe = s.exp(rate)
		}
		tCa := s.coalescenceWait(len(s.lineages), s.exp(1))
		dt := min(tRe, tCa)
		next := s.nextEventTime()

		if math.IsInf(dt, 1) && math.IsInf(next, 1) {
			return errors.New(errors.ErrCodeSimulation,
				"no further events possible at time %g with %d lineages", s.t, len(s.lineages))
		}
		if s.t+dt >= next {
			s.t = max(s.t, next)
			s.applyEvent()
			continue
		}
		s.t += dt
		if tRe < tCa {
			s.recombine()
		} else {
			s.coalescePair()
		}
	}
	return nil
}

// runSweep follows the beneficial allele frequency backwards from
// EndFrequency to StartFrequency. All lineages sit in the beneficial
// background, where the pairwise rate is scaled by 1/x.
func (s *simulator) runSweep(sw SweepGenicSelection) error {
	x := sw.EndFrequency
	target := s.exp(1)
	var hazard float64
	for x > sw.StartFrequency && len(s.lineages) > 1 {
		if err := s.tick(); err != nil {
			return err
		}
		step := sw.DT * float64(s.cfg.ploidy) * s.pop.SizeAt(s.t)
		rate := s.pairRate(len(s.lineages)) / (s.pop.SizeAt(s.t) * x)
		if hazard+rate*step >= target {
			dt := (target - hazard) / rate
			s.t += dt
			x = sweepBack(x, sw.S, dt)
			s.coalescePair()
			hazard, target = 0, s.exp(1)
			continue
		}
		hazard += rate * step
		s.t += step
		x = sweepBack(x, sw.S, step)
		for s.nextEventTime() <= s.t && len(s.lineages) > 1 {
			s.applyEvent()
		}
	}
	return nil
}

// sweepBack moves the beneficial allele frequency x back in time by dt
// under logistic growth with selection coefficient sel.
func sweepBack(x, sel, dt float64) float64 {
	return x / (x + (1-x)*math.Exp(sel*dt))
}

// exp draws an exponential waiting time with the given rate.
func (s *simulator) exp(rate float64) float64 {
	return distuv.Exponential{Rate: rate, Src: s.rng}.Rand()
}

func (s *simulator) tick() error {
	s.steps++
	if s.steps > s.cfg.maxEvents {
		return errors.New(errors.ErrCodeSimulation, "exceeded %d events at time %g", s.cfg.maxEvents, s.t)
	}
	return nil
}

// pairRate is the number of pairs per ploidy, the coalescence rate at
// unit population size.
func (s *simulator) pairRate(k int) float64 {
	return float64(k*(k-1)) / 2 / float64(s.cfg.ploidy)
}

// coalescenceWait converts an Exp(1) draw into a waiting time under the
// current, possibly growing, population size.
func (s *simulator) coalescenceWait(k int, e float64) float64 {
	if k < 2 {
		return math.Inf(1)
	}
	c := s.pairRate(k)
	n := s.pop.SizeAt(s.t)
	g := s.pop.GrowthRate
	if g == 0 {
		return e * n / c
	}
	arg := 1 + e*g*n/c
	if arg <= 0 {
		return math.Inf(1)
	}
	return math.Log(arg) / g
}

func (s *simulator) nextEventTime() float64 {
	if len(s.events) == 0 {
		return math.Inf(1)
	}
	return s.events[0].Time
}

// applyEvent runs the next bottleneck: a Kingman coalescent of the current
// lineages for Strength generations at the current size, after which every
// group of merged lineages shares a single ancestor.
func (s *simulator) applyEvent() {
	e := s.events[0]
	s.events = s.events[1:]
	if len(s.lineages) < 2 {
		return
	}

	duration := e.Strength / (float64(s.cfg.ploidy) * s.pop.SizeAt(s.t))
	groups := make([][]int, len(s.lineages))
	for i := range groups {
		groups[i] = []int{i}
	}
	var tau float64
	for len(groups) > 1 {
		m := len(groups)
		tau += s.exp(float64(m*(m-1)) / 2)
		if tau > duration {
			break
		}
		i, j := s.pickPair(m)
		groups[i] = append(groups[i], groups[j]...)
		groups = slices.Delete(groups, j, j+1)
	}

	var next []*lineage
	for _, g := range groups {
		if len(g) == 1 {
			next = append(next, s.lineages[g[0]])
			continue
		}
		members := make([]*lineage, len(g))
		for i, idx := range g {
			members[i] = s.lineages[idx]
		}
		if merged := s.merge(members); merged != nil {
			next = append(next, merged)
		}
	}
	s.lineages = next
}

func (s *simulator) pickPair(k int) (int, int) {
	i := s.rng.IntN(k)
	j := s.rng.IntN(k - 1)
	if j >= i {
		j++
	}
	return i, j
}

func (s *simulator) coalescePair() {
	i, j := s.pickPair(len(s.lineages))
	merged := s.merge([]*lineage{s.lineages[i], s.lineages[j]})
	var next []*lineage
	for k, l := range s.lineages {
		if k != i && k != j {
			next = append(next, l)
		}
	}
	if merged != nil {
		next = append(next, merged)
	}
	s.lineages = next
}

// breakpoints returns the number of places a lineage can be split, or the
// length it can be split over on a continuous genome.
func (s *simulator) breakpoints(l *lineage) float64 {
	left, right := l.extent()
	if s.cfg.continuousGenome {
		return right - left
	}
	return max(0, right-left-1)
}

func (s *simulator) recombinationMass() float64 {
	var total float64
	for _, l := range s.lineages {
		total += s.breakpoints(l)
	}
	return total
}

func (s *simulator) recombine() {
	u := s.rng.Float64() * s.recombinationMass()
	idx := -1
	for i, l := range s.lineages {
		m := s.breakpoints(l)
		if m <= 0 {
			continue
		}
		idx = i
		if u < m {
			break
		}
		u -= m
	}
	l := s.lineages[idx]
	lo, hi := l.extent()
	var x float64
	if s.cfg.continuousGenome {
		x = lo + s.rng.Float64()*(hi-lo)
		if x <= lo {
			x = math.Nextafter(lo, hi)
		}
	} else {
		x = lo + 1 + float64(s.rng.IntN(int(hi-lo-1)))
	}

	left, right := splitLineage(l, x)
	if s.cfg.fullARG {
		a := s.tables.AddNode(tskit.NodeIsREEvent, s.t, 0)
		b := s.tables.AddNode(tskit.NodeIsREEvent, s.t, 0)
		s.relabel(left, a)
		s.relabel(right, b)
	}
	s.lineages[idx] = left
	s.lineages = append(s.lineages, right)
}

func (s *simulator) relabel(l *lineage, parent int) {
	for i := range l.segs {
		seg := &l.segs[i]
		s.tables.AddEdge(seg.left, seg.right, parent, seg.node)
		seg.node = parent
	}
}

func splitLineage(l *lineage, x float64) (left, right *lineage) {
	left, right = &lineage{}, &lineage{}
	for _, seg := range l.segs {
		switch {
		case seg.right <= x:
			left.segs = append(left.segs, seg)
		case seg.left >= x:
			right.segs = append(right.segs, seg)
		default:
			left.segs = append(left.segs, segment{seg.left, x, seg.node})
			right.segs = append(right.segs, segment{x, seg.right, seg.node})
		}
	}
	return left, right
}

type piece struct {
	left, right float64
	nodes       []int
}

// merge joins lineages into a common ancestor at the current time. Regions
// carried by two or more lineages coalesce into a new node; regions whose
// overlap count drops to one are finished and no longer tracked. Without
// full ARG recording, a merge with no overlap creates no node. merge
// returns nil when no material is left.
func (s *simulator) merge(ls []*lineage) *lineage {
	var bounds []float64
	for _, l := range ls {
		for _, seg := range l.segs {
			bounds = append(bounds, seg.left, seg.right)
		}
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	cursor := make([]int, len(ls))
	var pieces []piece
	overlapping := false
	for i := 0; i+1 < len(bounds); i++ {
		a, b := bounds[i], bounds[i+1]
		var nodes []int
		for li, l := range ls {
			for cursor[li] < len(l.segs) && l.segs[cursor[li]].right <= a {
				cursor[li]++
			}
			if cursor[li] < len(l.segs) && l.segs[cursor[li]].left <= a {
				nodes = append(nodes, l.segs[cursor[li]].node)
			}
		}
		if len(nodes) == 0 {
			continue
		}
		overlapping = overlapping || len(nodes) > 1
		pieces = append(pieces, piece{a, b, nodes})
	}

	if !overlapping && !s.cfg.fullARG {
		segs := make([]segment, len(pieces))
		for i, p := range pieces {
			segs[i] = segment{p.left, p.right, p.nodes[0]}
		}
		return &lineage{segs: squashSegments(segs)}
	}

	var flags uint32
	if !overlapping {
		flags = tskit.NodeIsCAEvent
	}
	parent := s.tables.AddNode(flags, s.t, 0)
	var out []segment
	for _, p := range pieces {
		if len(p.nodes) == 1 {
			if s.cfg.fullARG {
				s.tables.AddEdge(p.left, p.right, parent, p.nodes[0])
				out = append(out, segment{p.left, p.right, parent})
			} else {
				out = append(out, segment{p.left, p.right, p.nodes[0]})
			}
			continue
		}
		for _, child := range p.nodes {
			s.tables.AddEdge(p.left, p.right, parent, child)
		}
		s.overlap.decrement(p.left, p.right, len(p.nodes)-1, func(l, r float64, count int) {
			if count > 1 {
				out = append(out, segment{l, r, parent})
			}
		})
	}
	out = squashSegments(out)
	if len(out) == 0 {
		return nil
	}
	return &lineage{segs: out}
}

func squashSegments(segs []segment) []segment {
	if len(segs) == 0 {
		return segs
	}
	out := segs[:1]
	for _, seg := range segs[1:] {
		last := &out[len(out)-1]
		if last.node == seg.node && last.right == seg.left {
			last.right = seg.right
			continue
		}
		out = append(out, seg)
	}
	return out
}

// overlapCounter tracks, along the genome, how many lineages still carry
// ancestral material. count[i] applies on [pos[i], pos[i+1]).
type overlapCounter struct {
	pos    []float64
	count  []int
	length float64
}

func newOverlapCounter(length float64, n int) *overlapCounter {
	return &overlapCounter{pos: []float64{0}, count: []int{n}, length: length}
}

func (o *overlapCounter) split(x float64) int {
	if x >= o.length {
		return len(o.pos)
	}
	i := sort.SearchFloat64s(o.pos, x)
	if i < len(o.pos) && o.pos[i] == x {
		return i
	}
	o.pos = slices.Insert(o.pos, i, x)
	o.count = slices.Insert(o.count, i, o.count[i-1])
	return i
}

func (o *overlapCounter) end(i int) float64 {
	if i+1 < len(o.pos) {
		return o.pos[i+1]
	}
	return o.length
}

// decrement lowers the count on [a, b) by d and reports every constant
// stretch with its new count.
func (o *overlapCounter) decrement(a, b float64, d int, emit func(left, right float64, count int)) {
	i := o.split(a)
	j := o.split(b)
	for k := i; k < j; k++ {
		o.count[k] -= d
		emit(o.pos[k], o.end(k), o.count[k])
	}
}

func (o *overlapCounter) at(x float64) int {
	i := sort.Search(len(o.pos), func(i int) bool { return o.pos[i] > x }) - 1
	return o.count[i]
}
