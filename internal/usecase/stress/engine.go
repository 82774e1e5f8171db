// Package stress projects every scenario of a catalog and aggregates the
// results into worst/best case, probability of loss and max drawdown.
package stress

import (
	"fmt"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/random"
	"github.com/simaogato/wealthflow-risk/internal/stats"
	"github.com/simaogato/wealthflow-risk/internal/usecase/catalog"
	"github.com/simaogato/wealthflow-risk/internal/usecase/projection"
)

// Engine runs stress tests with an injected random source.
type Engine struct {
	projector *projection.Engine
}

// NewEngine creates a stress engine drawing from src.
func NewEngine(src random.Source) *Engine {
	return &Engine{projector: projection.NewEngine(src)}
}

// Run projects each scenario with a recorded trajectory, in order, and summarizes them.
// Trajectories are always recorded regardless of opts.RecordTrajectory.
func (e *Engine) Run(input domain.SimulationInput, scenarios []domain.EconomicScenario, opts projection.Options) ([]domain.ScenarioResult, domain.StressTestSummary, error) {
	if len(scenarios) == 0 {
		return nil, domain.StressTestSummary{}, fmt.Errorf("%w: stress test needs at least one scenario", domain.ErrValidation)
	}

	opts.RecordTrajectory = true
	results := make([]domain.ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		result, err := e.projector.Project(sc, input, opts)
		if err != nil {
			return nil, domain.StressTestSummary{}, err
		}
		results = append(results, result)
	}

	return results, Summarize(results), nil
}

// Summarize derives the cross-scenario risk figures from existing results.
func Summarize(results []domain.ScenarioResult) domain.StressTestSummary {
	var summary domain.StressTestSummary
	if len(results) == 0 {
		return summary
	}

	worst, best := 0, 0
	maxDrawdown := 0.0
	for i := range results {
		r := &results[i]
		if r.FinalValue < results[worst].FinalValue {
			worst = i
		}
		if r.FinalValue > results[best].FinalValue {
			best = i
		}
		if dd := stats.MaxDrawdown(r.Trajectory); dd > maxDrawdown {
			maxDrawdown = dd
		}

		ref := *r
		switch r.Scenario.ID {
		case catalog.ScenarioOptimistic:
			summary.Optimistic = &ref
		case catalog.ScenarioRealistic:
			summary.Realistic = &ref
		case catalog.ScenarioPessimistic:
			summary.Pessimistic = &ref
		}
	}

	summary.WorstCase = results[worst]
	summary.BestCase = results[best]
	summary.ProbabilityOfLossPercent = ProbabilityOfLoss(results)
	summary.MaxDrawdownPercent = maxDrawdown * 100
	return summary
}

// ProbabilityOfLoss is the share of results with a negative real return, in percent.
func ProbabilityOfLoss(results []domain.ScenarioResult) float64 {
	if len(results) == 0 {
		return 0
	}
	losses := 0
	for _, r := range results {
		if r.RealReturnPercent < 0 {
			losses++
		}
	}
	return float64(losses) / float64(len(results)) * 100
}
