package main

import (
	"log"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/mire/config"
	"github.com/pthm-cable/mire/sim"
)

// FitnessEvaluator scores parameter vectors by running headless
// simulations and measuring how structured the resulting trail
// pattern is.
type FitnessEvaluator struct {
	params   *ParamVector
	maxTicks int
	seeds    []float64
	baseCfg  *config.Config

	lastContrast float64
	lastCoverage float64
}

// NewFitnessEvaluator creates a fitness evaluator.
// seeds: rule seeds to average over, so the score reflects the physics
// rather than one lucky rule.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []float64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		maxTicks: maxTicks,
		seeds:    seeds,
		baseCfg:  baseCfg,
	}
}

// Evaluate runs one simulation per seed and returns the negated mean
// structure score (optimize.Minimize minimizes).
func (e *FitnessEvaluator) Evaluate(raw []float64) float64 {
	var total float64
	for _, seed := range e.seeds {
		total += e.runOnce(raw, seed)
	}
	return -total / float64(len(e.seeds))
}

// LastContrast returns the contrast component of the most recent run.
func (e *FitnessEvaluator) LastContrast() float64 {
	return e.lastContrast
}

// LastCoverage returns the coverage component of the most recent run.
func (e *FitnessEvaluator) LastCoverage() float64 {
	return e.lastCoverage
}

// runOnce simulates one configuration to maxTicks and scores the canvas.
func (e *FitnessEvaluator) runOnce(raw []float64, seed float64) float64 {
	cfg := *e.baseCfg
	cfg.Rule.Seed = seed
	cfg.Rule.Centers = nil
	e.params.ApplyToConfig(&cfg, raw)

	settings, err := cfg.Settings()
	if err != nil {
		log.Printf("invalid settings during evaluation: %v", err)
		return 0
	}

	s, err := sim.New(settings, cfg.World.Size)
	if err != nil {
		log.Printf("failed to create sim during evaluation: %v", err)
		return 0
	}
	defer s.Close()

	for t := 0; t < e.maxTicks; t++ {
		s.Advance()
	}

	return e.scoreCanvas(s)
}

// scoreCanvas measures pattern structure on the final trail field.
//
// Contrast (stddev over mean of cell deposit) rewards sharp filaments
// over uniform haze; coverage (fraction of cells carrying deposit)
// guards against the degenerate case where everything collapses into
// one bright clump. Their product favors canvases that are both
// differentiated and filled.
func (e *FitnessEvaluator) scoreCanvas(s *sim.Sim) float64 {
	cells := s.Canvas().Cells()
	deposits := make([]float64, len(cells))
	covered := 0
	for i, c := range cells {
		d := math.Abs(float64(c.W))
		deposits[i] = d
		if d > 1e-4 {
			covered++
		}
	}

	mean := stat.Mean(deposits, nil)
	if mean < 1e-9 {
		e.lastContrast = 0
		e.lastCoverage = 0
		return 0
	}
	contrast := stat.StdDev(deposits, nil) / mean
	coverage := float64(covered) / float64(len(cells))

	e.lastContrast = contrast
	e.lastCoverage = coverage
	return contrast * coverage
}
