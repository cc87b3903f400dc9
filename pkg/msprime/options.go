package msprime

import (
	"math"

	"github.com/matzehuels/treeviz/pkg/errors"
)

// Option configures [SimAncestry].
type Option func(*config)

type config struct {
	samples          int
	sampleSets       []sampleSet
	ploidy           int
	sequenceLength   float64
	recombination    float64
	populationSize   float64
	demography       *Demography
	models           []Model
	seed             uint64
	seeded           bool
	fullARG          bool
	continuousGenome bool
	maxEvents        int
}

type sampleSet struct {
	population string
	count      int
}

func defaultConfig() *config {
	return &config{
		ploidy:         2,
		sequenceLength: 1,
		populationSize: 1,
		maxEvents:      10_000_000,
	}
}

// WithSamples sets the number of sampled individuals. Each contributes
// ploidy sample nodes.
func WithSamples(n int) Option {
	return func(c *config) { c.samples = n }
}

// WithPopulationSamples samples n individuals from the named population of
// the demography.
func WithPopulationSamples(population string, n int) Option {
	return func(c *config) { c.sampleSets = append(c.sampleSets, sampleSet{population, n}) }
}

func WithPloidy(p int) Option {
	return func(c *config) { c.ploidy = p }
}

func WithSequenceLength(l float64) Option {
	return func(c *config) { c.sequenceLength = l }
}

// WithRecombinationRate sets the rate per unit of sequence per generation.
func WithRecombinationRate(r float64) Option {
	return func(c *config) { c.recombination = r }
}

// WithPopulationSize sets a constant population size. It is ignored when a
// demography is given.
func WithPopulationSize(n float64) Option {
	return func(c *config) { c.populationSize = n }
}

func WithDemography(d *Demography) Option {
	return func(c *config) { c.demography = d }
}

// WithModels sets the simulation models, run in order. Every model but the
// last ends on its own; the last runs until the simulation completes.
func WithModels(models ...Model) Option {
	return func(c *config) { c.models = models }
}

func WithRandomSeed(seed uint64) Option {
	return func(c *config) { c.seed, c.seeded = seed, true }
}

func WithRecordFullARG() Option {
	return func(c *config) { c.fullARG = true }
}

// WithContinuousGenome places breakpoints anywhere in the sequence instead
// of at integer positions.
func WithContinuousGenome() Option {
	return func(c *config) { c.continuousGenome = true }
}

// WithMaxEvents bounds the number of simulated events.
func WithMaxEvents(n int) Option {
	return func(c *config) { c.maxEvents = n }
}

func (c *config) validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidInput, format, args...)
	}
	switch {
	case c.samples <= 0 && len(c.sampleSets) == 0:
		return invalid("at least one sample is required")
	case c.samples < 0:
		return invalid("negative number of samples: %d", c.samples)
	case c.ploidy < 1:
		return invalid("ploidy must be at least 1, got %d", c.ploidy)
	case !(c.sequenceLength > 0) || math.IsInf(c.sequenceLength, 0):
		return invalid("sequence length must be positive, got %v", c.sequenceLength)
	case !c.continuousGenome && c.sequenceLength != math.Trunc(c.sequenceLength):
		return invalid("discrete genome needs an integer sequence length, got %v", c.sequenceLength)
	case c.recombination < 0 || math.IsNaN(c.recombination):
		return invalid("recombination rate must be non-negative, got %v", c.recombination)
	case c.demography == nil && !(c.populationSize > 0):
		return invalid("population size must be positive, got %v", c.populationSize)
	case c.maxEvents <= 0:
		return invalid("max events must be positive")
	}
	for _, s := range c.sampleSets {
		if s.count <= 0 {
			return invalid("population %q: sample count must be positive", s.population)
		}
	}
	if c.demography != nil {
		if err := c.demography.Validate(); err != nil {
			return err
		}
	}
	for i, m := range c.models {
		if err := m.validate(c); err != nil {
			return err
		}
		if _, ok := m.(StandardCoalescent); !ok && i == len(c.models)-1 {
			return errors.New(errors.ErrCodeInvalidInput, "the last model must be StandardCoalescent, got %s", m.Name())
		}
	}
	return nil
}
