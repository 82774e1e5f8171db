// Package backtest replays a contribution schedule against historical macro periods.
package backtest

import (
	"context"
	"fmt"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/random"
	"github.com/simaogato/wealthflow-risk/internal/stats"
	"github.com/simaogato/wealthflow-risk/internal/usecase/projection"
)

// Engine replays historical periods with an injected random source.
type Engine struct {
	src random.Source
	// IncludeVolatility toggles the stochastic term of every replay.
	IncludeVolatility bool
}

// NewEngine creates a backtest engine drawing from src.
func NewEngine(src random.Source) *Engine {
	return &Engine{src: src, IncludeVolatility: true}
}

// Run replays the plan once per period, in table order.
// ctx is checked between periods; a cancelled run returns ctx.Err() and no results.
func (e *Engine) Run(ctx context.Context, input domain.SimulationInput, periods []domain.HistoricalPeriod) ([]domain.BacktestResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	results := make([]domain.BacktestResult, 0, len(periods))
	for _, period := range periods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := e.replay(input, period)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// replay runs one period through the projection loop and derives its performance figures.
func (e *Engine) replay(input domain.SimulationInput, period domain.HistoricalPeriod) (domain.BacktestResult, error) {
	path, err := projection.Simulate(input, period.AnnualReturnPercent, period.AnnualVolatilityPercent, e.src, projection.SimulateOptions{
		RecordReturns:     true,
		RecordTrajectory:  true,
		IncludeVolatility: e.IncludeVolatility,
	})
	if err != nil {
		return domain.BacktestResult{}, fmt.Errorf("period %q: %w", period.Label, err)
	}

	wins := 0
	for _, r := range path.MonthlyReturns {
		if r > 0 {
			wins++
		}
	}

	annualized := stats.Mean(path.MonthlyReturns) * 12 * 100

	return domain.BacktestResult{
		PeriodLabel:             period.Label,
		FinalValue:              path.FinalBalance,
		AnnualizedReturnPercent: annualized,
		VolatilityPercent:       period.AnnualVolatilityPercent,
		SharpeRatio:             stats.SafeDiv(annualized, period.AnnualVolatilityPercent),
		MaxDrawdownPercent:      stats.MaxDrawdown(path.Trajectory) * 100,
		WinRatePercent:          stats.SafeDiv(float64(wins), float64(len(path.MonthlyReturns))) * 100,
		Trajectory:              path.Trajectory,
	}, nil
}
