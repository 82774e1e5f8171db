// Package projection simulates one stochastic compounding path of a savings
// plan under an economic scenario.
package projection

import (
	"fmt"
	"math"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/random"
	"github.com/simaogato/wealthflow-risk/internal/stats"
)

// Options controls a single projection.
type Options struct {
	RecordTrajectory  bool
	IncludeVolatility bool
	IncludeInflation  bool
	// ConfidenceLevel is the VaR confidence in percent; zero means 95.
	ConfidenceLevel float64
}

// DefaultOptions applies volatility and inflation without recording a trajectory.
func DefaultOptions() Options {
	return Options{
		IncludeVolatility: true,
		IncludeInflation:  true,
		ConfidenceLevel:   domain.DefaultConfidenceLevel,
	}
}

// MaxBalance bounds the magnitude of a projected balance. Sums of squares over
// a full Monte Carlo run stay finite below it.
const MaxBalance = 1e100

// Path is the raw month-by-month outcome of one simulated plan.
type Path struct {
	FinalBalance float64
	// MonthlyReturns is nil unless recorded. It has HorizonMonths points.
	MonthlyReturns []float64
	// Trajectory is nil unless recorded. It has HorizonMonths+1 points.
	Trajectory []float64
}

// SimulateOptions selects what a Path records besides its final balance.
type SimulateOptions struct {
	RecordReturns     bool
	RecordTrajectory  bool
	IncludeVolatility bool
}

// Simulate runs the monthly compounding loop for an annual rate and volatility (percent).
// Each month: add the contribution, draw z, then grow by rate/12·(1 + z·σ/√12).
// No uniform is drawn when the stochastic term is off or σ is zero.
// A balance whose magnitude exceeds MaxBalance fails with ErrValidation.
func Simulate(input domain.SimulationInput, annualRatePercent, annualVolatilityPercent float64, src random.Source, opts SimulateOptions) (Path, error) {
	months := input.HorizonMonths
	balance := input.InitialValue.InexactFloat64()
	contribution := input.MonthlyContribution.InexactFloat64()

	monthlyRate := annualRatePercent / 100 / 12
	monthlyVolatility := annualVolatilityPercent / 100 / math.Sqrt(12)
	stochastic := opts.IncludeVolatility && monthlyVolatility != 0

	var path Path
	if opts.RecordReturns {
		path.MonthlyReturns = make([]float64, 0, months)
	}
	if opts.RecordTrajectory {
		path.Trajectory = make([]float64, 0, months+1)
		path.Trajectory = append(path.Trajectory, balance)
	}

	for m := 1; m <= months; m++ {
		balance += contribution

		factor := 1.0
		if stochastic {
			factor = 1 + random.StandardNormal(src)*monthlyVolatility
		}
		monthlyReturn := monthlyRate * factor

		balance *= 1 + monthlyReturn
		if math.IsNaN(balance) || math.Abs(balance) > MaxBalance {
			return Path{}, fmt.Errorf("%w: projected balance diverges in month %d at %g%% a year", domain.ErrValidation, m, annualRatePercent)
		}
		if opts.RecordReturns {
			path.MonthlyReturns = append(path.MonthlyReturns, monthlyReturn)
		}
		if opts.RecordTrajectory {
			path.Trajectory = append(path.Trajectory, balance)
		}
	}

	path.FinalBalance = balance
	return path, nil
}

// Engine projects scenarios with an injected random source.
type Engine struct {
	src random.Source
}

// NewEngine creates a projection engine drawing from src.
func NewEngine(src random.Source) *Engine {
	return &Engine{src: src}
}

// Project simulates one path of the scenario and derives its risk figures.
func (e *Engine) Project(scenario domain.EconomicScenario, input domain.SimulationInput, opts Options) (domain.ScenarioResult, error) {
	if err := input.Validate(); err != nil {
		return domain.ScenarioResult{}, err
	}
	return e.project(scenario, input, opts)
}

// project assumes input is already validated.
func (e *Engine) project(scenario domain.EconomicScenario, input domain.SimulationInput, opts Options) (domain.ScenarioResult, error) {
	params := scenario.Parameters
	path, err := Simulate(input, params.ReferenceRate, params.Volatility, e.src, SimulateOptions{
		RecordReturns:     true,
		RecordTrajectory:  opts.RecordTrajectory,
		IncludeVolatility: opts.IncludeVolatility,
	})
	if err != nil {
		return domain.ScenarioResult{}, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	balance := path.FinalBalance
	totalInvested := input.TotalInvested().InexactFloat64()

	inflation := 0.0
	if opts.IncludeInflation {
		inflation = params.Inflation
	}

	sortedReturns := stats.SortedCopy(path.MonthlyReturns)
	confidence := opts.ConfidenceLevel
	if confidence <= 0 {
		confidence = domain.DefaultConfidenceLevel
	}

	realReturn := stats.PercentChange(balance, totalInvested)

	return domain.ScenarioResult{
		Scenario:                   scenario,
		FinalValue:                 balance,
		TotalInvested:              totalInvested,
		RealReturnPercent:          realReturn,
		PurchasingPowerLossPercent: PurchasingPowerLoss(balance, inflation, input.HorizonMonths),
		RiskScore:                  RiskScore(scenario),
		Recommendation:             domain.RecommendationFor(realReturn),
		Trajectory:                 path.Trajectory,
		VaR95:                      stats.PercentileAt(sortedReturns, 0.05) * balance,
		VaR99:                      stats.PercentileAt(sortedReturns, 0.01) * balance,
		ValueAtRisk:                stats.PercentileAt(sortedReturns, 1-confidence/100) * balance,
	}, nil
}

// PurchasingPowerLoss discounts balance by compounded inflation over the horizon
// and returns the gap as a percent of balance.
func PurchasingPowerLoss(balance, inflationPercent float64, months int) float64 {
	if balance == 0 {
		return 0
	}
	deflator := math.Pow(1+inflationPercent/100, float64(months)/12)
	realValue := stats.SafeDiv(balance, deflator)
	return stats.SafeDiv(balance-realValue, balance) * 100
}

// RiskScore scales scenario volatility by its impact multiplier.
func RiskScore(scenario domain.EconomicScenario) float64 {
	return math.Abs(scenario.Parameters.Volatility) * scenario.Impact.RiskMultiplier()
}
