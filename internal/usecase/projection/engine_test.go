package projection

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/random"
)

func realisticScenario(volatility float64) domain.EconomicScenario {
	return domain.EconomicScenario{
		ID:   "realistic",
		Name: "Realistic",
		Parameters: domain.ScenarioParameters{
			Inflation:     4.5,
			ReferenceRate: 13.75,
			PolicyRate:    13.75,
			GDPGrowth:     2,
			Volatility:    volatility,
		},
		Impact: domain.ImpactNeutral,
	}
}

func planInput(initial, monthly int64, months int) domain.SimulationInput {
	return domain.SimulationInput{
		InitialValue:        decimal.NewFromInt(initial),
		MonthlyContribution: decimal.NewFromInt(monthly),
		HorizonMonths:       months,
	}
}

// closedForm is the future value of P with contributions c made at the start of each period.
func closedForm(p, c, annualRatePercent float64, n int) float64 {
	r := annualRatePercent / 100 / 12
	growth := math.Pow(1+r, float64(n))
	return p*growth + c*(1+r)*(growth-1)/r
}

func TestProject_ZeroVolatilityMatchesClosedForm(t *testing.T) {
	// Sequence would panic the assertion below if any uniform were consumed
	seq := random.NewSequence(0.3, 0.7)
	engine := NewEngine(seq)
	input := planInput(10000, 500, 12)

	result, err := engine.Project(realisticScenario(0), input, DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, 16000.0, result.TotalInvested)
	assert.InDelta(t, closedForm(10000, 500, 13.75, 12), result.FinalValue, 1e-6)
	assert.Equal(t, 0, seq.Draws(), "zero volatility must not draw")

	// Reproducible on every run
	again, err := NewEngine(random.New(99, 0)).Project(realisticScenario(0), input, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, result.FinalValue, again.FinalValue)
}

func TestProject_VolatilityToggleOff(t *testing.T) {
	seq := random.NewSequence(0.3, 0.7)
	opts := DefaultOptions()
	opts.IncludeVolatility = false

	result, err := NewEngine(seq).Project(realisticScenario(30), planInput(1000, 100, 24), opts)

	require.NoError(t, err)
	assert.InDelta(t, closedForm(1000, 100, 13.75, 24), result.FinalValue, 1e-6)
	assert.Equal(t, 0, seq.Draws())
}

func TestProject_TrajectoryLength(t *testing.T) {
	engine := NewEngine(random.New(1, 1))
	opts := DefaultOptions()
	opts.RecordTrajectory = true

	for _, months := range []int{1, 12, 60, 361} {
		result, err := engine.Project(realisticScenario(12), planInput(5000, 200, months), opts)
		require.NoError(t, err)
		assert.Len(t, result.Trajectory, months+1)
		assert.Equal(t, 5000.0, result.Trajectory[0], "trajectory opens with the initial value")
		assert.Equal(t, result.FinalValue, result.Trajectory[months])
	}
}

func TestProject_NoTrajectoryUnlessRequested(t *testing.T) {
	result, err := NewEngine(random.New(1, 1)).Project(realisticScenario(12), planInput(5000, 200, 12), DefaultOptions())

	require.NoError(t, err)
	assert.Nil(t, result.Trajectory)
}

func TestProject_SeededStreamIsDeterministic(t *testing.T) {
	input := planInput(10000, 500, 120)
	opts := DefaultOptions()
	opts.RecordTrajectory = true

	a, err := NewEngine(random.New(2024, 3)).Project(realisticScenario(25), input, opts)
	require.NoError(t, err)
	b, err := NewEngine(random.New(2024, 3)).Project(realisticScenario(25), input, opts)
	require.NoError(t, err)

	assert.Equal(t, a.FinalValue, b.FinalValue)
	assert.Equal(t, a.Trajectory, b.Trajectory)
	assert.Equal(t, a.VaR95, b.VaR95)
}

func TestProject_ZeroTotalInvested(t *testing.T) {
	result, err := NewEngine(random.New(1, 1)).Project(realisticScenario(12), planInput(0, 0, 12), DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.TotalInvested)
	assert.Equal(t, 0.0, result.RealReturnPercent)
	assert.Equal(t, 0.0, result.PurchasingPowerLossPercent)
	assert.False(t, math.IsNaN(result.VaR95))
}

func TestProject_InvalidInput(t *testing.T) {
	engine := NewEngine(random.New(1, 1))

	tests := []struct {
		name  string
		input domain.SimulationInput
	}{
		{"zero horizon", planInput(1000, 100, 0)},
		{"negative horizon", planInput(1000, 100, -3)},
		{"negative initial value", planInput(-1, 100, 12)},
		{"negative contribution", planInput(1000, -1, 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Project(realisticScenario(0), tt.input, DefaultOptions())
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProject_PurchasingPowerLoss(t *testing.T) {
	result, err := NewEngine(nil).Project(realisticScenario(0), planInput(10000, 0, 12), DefaultOptions())
	require.NoError(t, err)

	// One year at 4.5%: loss = 1 - 1/1.045
	assert.InDelta(t, (1-1/1.045)*100, result.PurchasingPowerLossPercent, 1e-9)

	opts := DefaultOptions()
	opts.IncludeInflation = false
	result, err = NewEngine(nil).Project(realisticScenario(0), planInput(10000, 0, 12), opts)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.PurchasingPowerLossPercent)
}

func TestProject_RiskScoreMultipliers(t *testing.T) {
	tests := []struct {
		impact   domain.ImpactTag
		expected float64
	}{
		{domain.ImpactNegative, 30},
		{domain.ImpactPositive, 16},
		{domain.ImpactNeutral, 20},
	}

	for _, tt := range tests {
		t.Run(string(tt.impact), func(t *testing.T) {
			scenario := realisticScenario(20)
			scenario.Impact = tt.impact
			assert.InDelta(t, tt.expected, RiskScore(scenario), 1e-12)
		})
	}
}

func TestProject_RecommendationBands(t *testing.T) {
	// Zero-volatility 5-year plan at 13.75% lands well above 15% real return
	result, err := NewEngine(nil).Project(realisticScenario(0), planInput(10000, 0, 60), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, domain.RecommendationExcellent, result.Recommendation)

	// A zero-rate regime returns exactly what was invested
	flat := realisticScenario(0)
	flat.Parameters.ReferenceRate = 0
	result, err = NewEngine(nil).Project(flat, planInput(10000, 100, 12), DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 0, result.RealReturnPercent, 1e-9)
	assert.Equal(t, domain.RecommendationHighRiskOfLoss, result.Recommendation)
}

func TestProject_ValueAtRiskOrdering(t *testing.T) {
	opts := DefaultOptions()
	opts.ConfidenceLevel = 99

	result, err := NewEngine(random.New(5, 5)).Project(realisticScenario(35), planInput(10000, 500, 240), opts)

	require.NoError(t, err)
	assert.LessOrEqual(t, result.VaR99, result.VaR95)
	assert.Equal(t, result.VaR99, result.ValueAtRisk)
}

func TestSimulate_RecordsOnlyWhatIsRequested(t *testing.T) {
	input := planInput(1000, 100, 24)

	bare, err := Simulate(input, 13.75, 20, random.New(4, 4), SimulateOptions{IncludeVolatility: true})
	require.NoError(t, err)
	assert.Nil(t, bare.MonthlyReturns)
	assert.Nil(t, bare.Trajectory)

	full, err := Simulate(input, 13.75, 20, random.New(4, 4), SimulateOptions{
		RecordReturns:     true,
		RecordTrajectory:  true,
		IncludeVolatility: true,
	})
	require.NoError(t, err)
	assert.Len(t, full.MonthlyReturns, 24)
	assert.Len(t, full.Trajectory, 25)
	assert.Equal(t, bare.FinalBalance, full.FinalBalance, "recording does not change the draws")
}

func TestProject_DivergingBalanceFails(t *testing.T) {
	runaway := realisticScenario(0)
	runaway.Parameters.ReferenceRate = 1000

	_, err := NewEngine(nil).Project(runaway, planInput(10000, 500, 600), DefaultOptions())

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "diverges")

	// The same rate over a short horizon stays finite.
	result, err := NewEngine(nil).Project(runaway, planInput(10000, 500, 24), DefaultOptions())
	require.NoError(t, err)
	assert.False(t, math.IsInf(result.FinalValue, 0))
	assert.Less(t, math.Abs(result.FinalValue), MaxBalance)
}
