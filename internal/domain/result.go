package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation bands a scenario by its real return
type Recommendation string

const (
	RecommendationExcellent      Recommendation = "excellent"
	RecommendationGood           Recommendation = "good"
	RecommendationModerate       Recommendation = "moderate"
	RecommendationLow            Recommendation = "low"
	RecommendationHighRiskOfLoss Recommendation = "high risk of loss"
)

// RecommendationFor thresholds a real return percentage.
// Bands: >15 excellent, >10 good, >5 moderate, >0 low, otherwise high risk of loss.
func RecommendationFor(realReturnPercent float64) Recommendation {
	switch {
	case realReturnPercent > 15:
		return RecommendationExcellent
	case realReturnPercent > 10:
		return RecommendationGood
	case realReturnPercent > 5:
		return RecommendationModerate
	case realReturnPercent > 0:
		return RecommendationLow
	default:
		return RecommendationHighRiskOfLoss
	}
}

// ScenarioResult is the outcome of projecting one scenario
type ScenarioResult struct {
	Scenario                   EconomicScenario `json:"scenario"`
	FinalValue                 float64          `json:"finalValue"`
	TotalInvested              float64          `json:"totalInvested"`
	RealReturnPercent          float64          `json:"realReturnPercent"`
	PurchasingPowerLossPercent float64          `json:"purchasingPowerLossPercent"`
	RiskScore                  float64          `json:"riskScore"`
	Recommendation             Recommendation   `json:"recommendation"`
	// Trajectory holds the opening balance followed by one balance per month.
	Trajectory []float64 `json:"trajectory,omitempty"`
	VaR95      float64   `json:"var95"`
	VaR99      float64   `json:"var99"`
	// ValueAtRisk is computed at the configured confidence level.
	ValueAtRisk float64 `json:"valueAtRisk"`
}

// StressTestSummary aggregates scenario results into worst/best case risk
type StressTestSummary struct {
	Optimistic               *ScenarioResult `json:"optimistic,omitempty"`
	Realistic                *ScenarioResult `json:"realistic,omitempty"`
	Pessimistic              *ScenarioResult `json:"pessimistic,omitempty"`
	WorstCase                ScenarioResult  `json:"worstCase"`
	BestCase                 ScenarioResult  `json:"bestCase"`
	ProbabilityOfLossPercent float64         `json:"probabilityOfLossPercent"`
	MaxDrawdownPercent       float64         `json:"maxDrawdownPercent"`
}

// Percentiles of a Monte Carlo outcome distribution
type Percentiles struct {
	P5  float64 `json:"p5"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// Ordered returns the percentile values from p5 to p95.
func (p Percentiles) Ordered() []float64 {
	return []float64{p.P5, p.P10, p.P25, p.P50, p.P75, p.P90, p.P95}
}

// MonteCarloResult is the outcome distribution of many independent paths
type MonteCarloResult struct {
	BaselineScenarioID     string      `json:"baselineScenarioId"`
	Simulations            int         `json:"simulations"`
	FinalValues            []float64   `json:"finalValues"` // sorted ascending
	Percentiles            Percentiles `json:"percentiles"`
	ExpectedValue          float64     `json:"expectedValue"`
	StdDev                 float64     `json:"stdDev"`
	GoalProbabilityPercent float64     `json:"goalProbabilityPercent"`
	SharpeRatio            float64     `json:"sharpeRatio"`
}

// HistoricalPeriod is a named macro period replayed by the backtest
type HistoricalPeriod struct {
	Label                   string  `json:"label"`
	AnnualReturnPercent     float64 `json:"annualReturnPercent"`
	AnnualVolatilityPercent float64 `json:"annualVolatilityPercent"`
}

// BacktestResult is one historical replay
type BacktestResult struct {
	PeriodLabel             string    `json:"periodLabel"`
	FinalValue              float64   `json:"finalValue"`
	AnnualizedReturnPercent float64   `json:"annualizedReturnPercent"`
	VolatilityPercent       float64   `json:"volatilityPercent"`
	SharpeRatio             float64   `json:"sharpeRatio"`
	MaxDrawdownPercent      float64   `json:"maxDrawdownPercent"`
	WinRatePercent          float64   `json:"winRatePercent"`
	Trajectory              []float64 `json:"trajectory"`
}

// RiskBucket classifies the strength of a correlation
type RiskBucket string

const (
	RiskBucketLow    RiskBucket = "low"
	RiskBucketMedium RiskBucket = "medium"
	RiskBucketHigh   RiskBucket = "high"
)

// RiskBucketFor bands |correlation|: <0.3 low, <0.7 medium, otherwise high.
func RiskBucketFor(correlation float64) RiskBucket {
	abs := correlation
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 0.3:
		return RiskBucketLow
	case abs < 0.7:
		return RiskBucketMedium
	default:
		return RiskBucketHigh
	}
}

// Asset is one entry of the correlation universe
type Asset struct {
	Symbol                  string  `json:"symbol"`
	Name                    string  `json:"name"`
	ExpectedReturnPercent   float64 `json:"expectedReturnPercent"`
	AnnualVolatilityPercent float64 `json:"annualVolatilityPercent"`
}

// AssetCorrelation is the relation between an unordered pair of assets
type AssetCorrelation struct {
	AssetA      string     `json:"assetA"`
	AssetB      string     `json:"assetB"`
	Correlation float64    `json:"correlation"`
	Beta        float64    `json:"beta"`
	RiskBucket  RiskBucket `json:"riskBucket"`
	// Heuristic is false when the value came from the random fallback range.
	Heuristic bool `json:"heuristic"`
}

// EfficiencyLabel bands the aggregate sharpe ratio
type EfficiencyLabel string

const (
	EfficiencyHigh   EfficiencyLabel = "High"
	EfficiencyMedium EfficiencyLabel = "Medium"
	EfficiencyLow    EfficiencyLabel = "Low"
)

// AggregateMetrics summarizes the per-scenario results of a run
type AggregateMetrics struct {
	MeanValue                float64         `json:"meanValue"`
	MeanReturn               float64         `json:"meanReturn"`
	MeanRisk                 float64         `json:"meanRisk"`
	MinValue                 float64         `json:"minValue"`
	MaxValue                 float64         `json:"maxValue"`
	StdDev                   float64         `json:"stdDev"`
	ProbabilityOfLossPercent float64         `json:"probabilityOfLossPercent"`
	SharpeRatio              float64         `json:"sharpeRatio"`
	DiversificationIndex     float64         `json:"diversificationIndex"`
	MeanValueAtRisk          float64         `json:"meanValueAtRisk"`
	BestScenarioName         string          `json:"bestScenarioName"`
	WorstScenarioName        string          `json:"worstScenarioName"`
	EfficiencyLabel          EfficiencyLabel `json:"efficiencyLabel"`
}

// SimulationReport is the full output of one orchestrator run
type SimulationReport struct {
	ID                 uuid.UUID          `json:"id"`
	CreatedAt          time.Time          `json:"createdAt"`
	Seed               uint64             `json:"seed"`
	Input              SimulationInput    `json:"input"`
	Config             SimulationConfig   `json:"config"`
	Scenarios          []EconomicScenario `json:"scenarios"`
	Results            []ScenarioResult   `json:"results"`
	StressTest         StressTestSummary  `json:"stressTest"`
	MonteCarlo         *MonteCarloResult  `json:"monteCarlo,omitempty"`
	Backtest           []BacktestResult   `json:"backtest,omitempty"`
	Correlations       []AssetCorrelation `json:"correlations,omitempty"`
	AggregateMetrics   AggregateMetrics   `json:"aggregateMetrics"`
	MissingScenarioIDs []string           `json:"missingScenarioIds,omitempty"`
}

// RunSummary is the persisted digest of a SimulationReport
type RunSummary struct {
	ID                     uuid.UUID       `json:"id"`
	CreatedAt              time.Time       `json:"createdAt"`
	Seed                   uint64          `json:"seed"`
	Input                  SimulationInput `json:"input"`
	ScenarioIDs            []string        `json:"scenarioIds"`
	MeanFinalValue         float64         `json:"meanFinalValue"`
	WorstScenarioName      string          `json:"worstScenarioName"`
	BestScenarioName       string          `json:"bestScenarioName"`
	ProbabilityOfLoss      float64         `json:"probabilityOfLossPercent"`
	MonteCarloExpected     *float64        `json:"monteCarloExpected,omitempty"`
	GoalProbabilityPercent *float64        `json:"goalProbabilityPercent,omitempty"`
}

// Summarize builds the persisted digest of the report.
func (r *SimulationReport) Summarize() *RunSummary {
	ids := make([]string, 0, len(r.Scenarios))
	for _, s := range r.Scenarios {
		ids = append(ids, s.ID)
	}

	summary := &RunSummary{
		ID:                r.ID,
		CreatedAt:         r.CreatedAt,
		Seed:              r.Seed,
		Input:             r.Input,
		ScenarioIDs:       ids,
		MeanFinalValue:    r.AggregateMetrics.MeanValue,
		WorstScenarioName: r.AggregateMetrics.WorstScenarioName,
		BestScenarioName:  r.AggregateMetrics.BestScenarioName,
		ProbabilityOfLoss: r.AggregateMetrics.ProbabilityOfLossPercent,
	}
	if r.MonteCarlo != nil {
		expected := r.MonteCarlo.ExpectedValue
		goal := r.MonteCarlo.GoalProbabilityPercent
		summary.MonteCarloExpected = &expected
		summary.GoalProbabilityPercent = &goal
	}
	return summary
}
