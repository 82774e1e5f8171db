// Package montecarlo builds an outcome distribution by projecting the same
// baseline scenario many times with independent random paths.
package montecarlo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/random"
	"github.com/simaogato/wealthflow-risk/internal/stats"
	"github.com/simaogato/wealthflow-risk/internal/usecase/projection"
)

// percentileFractions are read at index floor(n·fraction) of the sorted outcomes.
var percentileFractions = [...]float64{0.05, 0.10, 0.25, 0.50, 0.75, 0.90, 0.95}

// Engine runs Monte Carlo simulations with an injected random source.
type Engine struct {
	src random.Source
	// IncludeVolatility toggles the stochastic term of every path.
	IncludeVolatility bool
	// OnPath is called after each completed path. Optional.
	OnPath func()
}

// NewEngine creates a Monte Carlo engine drawing from src.
func NewEngine(src random.Source) *Engine {
	return &Engine{src: src, IncludeVolatility: true}
}

// Run projects the baseline scenario numberOfSimulations times and summarizes the final values.
// goal is optional; without it the goal probability is zero.
// ctx is checked between paths; a cancelled run returns ctx.Err() and no result.
func (e *Engine) Run(ctx context.Context, input domain.SimulationInput, baseline domain.EconomicScenario, numberOfSimulations int, goal *decimal.Decimal) (*domain.MonteCarloResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if numberOfSimulations <= 0 {
		return nil, fmt.Errorf("%w: number of simulations must be positive, got %d", domain.ErrValidation, numberOfSimulations)
	}

	params := baseline.Parameters
	opts := projection.SimulateOptions{IncludeVolatility: e.IncludeVolatility}
	finals := make([]float64, 0, numberOfSimulations)
	for i := 0; i < numberOfSimulations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, err := projection.Simulate(input, params.ReferenceRate, params.Volatility, e.src, opts)
		if err != nil {
			return nil, fmt.Errorf("baseline %q: %w", baseline.Name, err)
		}
		finals = append(finals, path.FinalBalance)
		if e.OnPath != nil {
			e.OnPath()
		}
	}

	return summarize(baseline.ID, finals, input.TotalInvested().InexactFloat64(), goal), nil
}

// summarize sorts the final values and derives the distribution figures.
func summarize(baselineID string, finals []float64, totalInvested float64, goal *decimal.Decimal) *domain.MonteCarloResult {
	sorted := stats.SortedCopy(finals)
	n := len(sorted)

	p := make([]float64, len(percentileFractions))
	for i, f := range percentileFractions {
		p[i] = stats.PercentileAt(sorted, f)
	}

	expected := stats.Mean(sorted)
	stdDev := stats.PopulationStdDev(sorted, expected)

	goalProbability := 0.0
	if goal != nil && n > 0 {
		target := goal.InexactFloat64()
		reached := 0
		for _, v := range sorted {
			if v >= target {
				reached++
			}
		}
		goalProbability = float64(reached) / float64(n) * 100
	}

	// Return on invested capital per unit of relative dispersion
	expectedReturnPercent := stats.PercentChange(expected, totalInvested)
	stdDevPercent := stats.SafeDiv(stdDev, expected) * 100

	return &domain.MonteCarloResult{
		BaselineScenarioID: baselineID,
		Simulations:        n,
		FinalValues:        sorted,
		Percentiles: domain.Percentiles{
			P5:  p[0],
			P10: p[1],
			P25: p[2],
			P50: p[3],
			P75: p[4],
			P90: p[5],
			P95: p[6],
		},
		ExpectedValue:          expected,
		StdDev:                 stdDev,
		GoalProbabilityPercent: goalProbability,
		SharpeRatio:            stats.SafeDiv(expectedReturnPercent, stdDevPercent),
	}
}
