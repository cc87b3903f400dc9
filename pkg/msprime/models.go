package msprime

import (
	"fmt"

	"github.com/matzehuels/treeviz/pkg/errors"
)

// Model is a simulation model for [WithModels].
type Model interface {
	Name() string
	validate(c *config) error
}

// StandardCoalescent is the Hudson coalescent with recombination.
type StandardCoalescent struct{}

func (StandardCoalescent) Name() string            { return "hudson" }
func (StandardCoalescent) validate(*config) error { return nil }

// SweepGenicSelection models a beneficial allele at Position rising from
// StartFrequency to EndFrequency with selection coefficient S. Looking
// backwards, the allele frequency follows the deterministic logistic
// trajectory in steps of DT, measured in units of ploidy*N generations.
type SweepGenicSelection struct {
	Position       float64
	StartFrequency float64
	EndFrequency   float64
	S              float64
	DT             float64
}

func (s SweepGenicSelection) Name() string {
	return fmt.Sprintf("sweep_genic_selection(position=%g, s=%g)", s.Position, s.S)
}

func (s SweepGenicSelection) validate(c *config) error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidInput, "sweep: "+format, args...)
	}
	switch {
	case s.Position < 0 || s.Position >= c.sequenceLength:
		return invalid("position %v outside [0, %v)", s.Position, c.sequenceLength)
	case !(s.StartFrequency > 0 && s.StartFrequency < 1):
		return invalid("start frequency must be in (0, 1), got %v", s.StartFrequency)
	case !(s.EndFrequency > s.StartFrequency && s.EndFrequency < 1):
		return invalid("end frequency must be in (start, 1), got %v", s.EndFrequency)
	case !(s.S > 0):
		return invalid("selection coefficient must be positive, got %v", s.S)
	case !(s.DT > 0):
		return invalid("dt must be positive, got %v", s.DT)
	}
	if c.recombination != 0 {
		return errors.New(errors.ErrCodeUnsupported, "sweeps with recombination are not supported")
	}
	return nil
}
