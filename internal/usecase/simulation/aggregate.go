package simulation

import (
	"math"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/stats"
	"github.com/simaogato/wealthflow-risk/internal/usecase/stress"
)

// Aggregate summarizes per-scenario results into the report metrics
func Aggregate(results []domain.ScenarioResult) domain.AggregateMetrics {
	if len(results) == 0 {
		return domain.AggregateMetrics{EfficiencyLabel: domain.EfficiencyLow}
	}

	values := make([]float64, len(results))
	returns := make([]float64, len(results))
	risks := make([]float64, len(results))
	squaredRisks := make([]float64, len(results))
	vars := make([]float64, len(results))

	best, worst := 0, 0
	for i, r := range results {
		values[i] = r.FinalValue
		returns[i] = r.RealReturnPercent
		risks[i] = r.RiskScore
		squaredRisks[i] = r.RiskScore * r.RiskScore
		vars[i] = r.ValueAtRisk

		if r.FinalValue > results[best].FinalValue {
			best = i
		}
		if r.FinalValue < results[worst].FinalValue {
			worst = i
		}
	}

	meanValue := stats.Mean(values)
	meanReturn := stats.Mean(returns)
	stdDev := stats.PopulationStdDev(values, meanValue)

	// Return per unit of dispersion relative to the mean outcome
	sharpe := stats.SafeDiv(meanReturn, stats.SafeDiv(stdDev, meanValue)*100)

	return domain.AggregateMetrics{
		MeanValue:                meanValue,
		MeanReturn:               meanReturn,
		MeanRisk:                 stats.Mean(risks),
		MinValue:                 results[worst].FinalValue,
		MaxValue:                 results[best].FinalValue,
		StdDev:                   stdDev,
		ProbabilityOfLossPercent: stress.ProbabilityOfLoss(results),
		SharpeRatio:              sharpe,
		DiversificationIndex:     1 - stats.SafeDiv(stdDev, math.Sqrt(stats.Mean(squaredRisks))),
		MeanValueAtRisk:          stats.Mean(vars),
		BestScenarioName:         results[best].Scenario.Name,
		WorstScenarioName:        results[worst].Scenario.Name,
		EfficiencyLabel:          EfficiencyFor(sharpe),
	}
}

// EfficiencyFor bands a sharpe ratio: >1 High, >0.5 Medium, otherwise Low.
func EfficiencyFor(sharpe float64) domain.EfficiencyLabel {
	switch {
	case sharpe > 1:
		return domain.EfficiencyHigh
	case sharpe > 0.5:
		return domain.EfficiencyMedium
	default:
		return domain.EfficiencyLow
	}
}
