package msprime

import (
	"math"
	"slices"

	"github.com/matzehuels/treeviz/pkg/errors"
)

// Population is a deme with a size at time zero and an exponential growth
// rate. A positive rate means the population was smaller in the past.
type Population struct {
	Name        string
	InitialSize float64
	GrowthRate  float64
}

// SizeAt returns the population size t generations ago.
func (p Population) SizeAt(t float64) float64 {
	if p.GrowthRate == 0 {
		return p.InitialSize
	}
	return p.InitialSize * math.Exp(-p.GrowthRate*t)
}

// InstantaneousBottleneck collapses lineages at Time as if the population
// had spent Strength generations coalescing at its current size.
type InstantaneousBottleneck struct {
	Time       float64
	Strength   float64
	Population int
}

// Demography describes the history of the sampled populations.
type Demography struct {
	Populations []Population
	Events      []InstantaneousBottleneck
}

func NewDemography() *Demography { return &Demography{} }

// AddPopulation appends a population and returns its index.
func (d *Demography) AddPopulation(name string, initialSize, growthRate float64) int {
	d.Populations = append(d.Populations, Population{Name: name, InitialSize: initialSize, GrowthRate: growthRate})
	return len(d.Populations) - 1
}

func (d *Demography) AddInstantaneousBottleneck(time, strength float64, population int) {
	d.Events = append(d.Events, InstantaneousBottleneck{Time: time, Strength: strength, Population: population})
}

// Lookup returns the index of the named population, or -1.
func (d *Demography) Lookup(name string) int {
	return slices.IndexFunc(d.Populations, func(p Population) bool { return p.Name == name })
}

// Validate checks sizes, names and event references. Only single-population
// models can be simulated; more populations need migration, which is not
// implemented.
func (d *Demography) Validate() error {
	if len(d.Populations) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "demography has no populations")
	}
	if len(d.Populations) > 1 {
		return errors.New(errors.ErrCodeUnsupported, "demography has %d populations; only one is supported", len(d.Populations))
	}
	seen := make(map[string]bool)
	for _, p := range d.Populations {
		switch {
		case p.Name == "":
			return errors.New(errors.ErrCodeInvalidInput, "population name cannot be empty")
		case seen[p.Name]:
			return errors.New(errors.ErrCodeInvalidInput, "duplicate population %q", p.Name)
		case !(p.InitialSize > 0):
			return errors.New(errors.ErrCodeInvalidInput, "population %q: initial size must be positive", p.Name)
		case math.IsNaN(p.GrowthRate) || math.IsInf(p.GrowthRate, 0):
			return errors.New(errors.ErrCodeInvalidInput, "population %q: growth rate must be finite", p.Name)
		}
		seen[p.Name] = true
	}
	for _, e := range d.Events {
		switch {
		case e.Time < 0:
			return errors.New(errors.ErrCodeInvalidInput, "bottleneck at negative time %v", e.Time)
		case e.Strength < 0:
			return errors.New(errors.ErrCodeInvalidInput, "bottleneck strength must be non-negative, got %v", e.Strength)
		case e.Population < 0 || e.Population >= len(d.Populations):
			return errors.New(errors.ErrCodeInvalidInput, "bottleneck population %d out of range", e.Population)
		}
	}
	return nil
}

// sortedEvents returns the events ordered by time.
func (d *Demography) sortedEvents() []InstantaneousBottleneck {
	events := slices.Clone(d.Events)
	slices.SortStableFunc(events, func(a, b InstantaneousBottleneck) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	return events
}
