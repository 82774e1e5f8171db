package simulation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/observability"
	"github.com/simaogato/wealthflow-risk/internal/usecase/catalog"
)

// MockScenarioRepository is a mock implementation of ScenarioRepository for testing
type MockScenarioRepository struct {
	mock.Mock
}

func (m *MockScenarioRepository) GetByID(ctx context.Context, id string) (*domain.EconomicScenario, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EconomicScenario), args.Error(1)
}

func (m *MockScenarioRepository) Create(ctx context.Context, scenario *domain.EconomicScenario) error {
	args := m.Called(ctx, scenario)
	return args.Error(0)
}

func (m *MockScenarioRepository) List(ctx context.Context, customOnly bool) ([]*domain.EconomicScenario, error) {
	args := m.Called(ctx, customOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EconomicScenario), args.Error(1)
}

func seeded(seed uint64) *uint64 {
	return &seed
}

func plan(initial, monthly int64, months int) domain.SimulationInput {
	return domain.SimulationInput{
		InitialValue:        decimal.NewFromInt(initial),
		MonthlyContribution: decimal.NewFromInt(monthly),
		HorizonMonths:       months,
	}
}

func fastConfig() domain.SimulationConfig {
	cfg := domain.DefaultSimulationConfig()
	cfg.NumberOfSimulations = 200
	cfg.Seed = seeded(7)
	return cfg
}

func resultFor(t *testing.T, report *domain.SimulationReport, id string) domain.ScenarioResult {
	t.Helper()
	for _, r := range report.Results {
		if r.Scenario.ID == id {
			return r
		}
	}
	t.Fatalf("no result for scenario %s", id)
	return domain.ScenarioResult{}
}

func TestRunSimulation_DeterministicRealistic(t *testing.T) {
	service := NewSimulationService(nil, nil, nil)
	cfg := fastConfig()
	cfg.IncludeVolatility = false

	report, err := service.RunSimulation(context.Background(), plan(10000, 500, 12), cfg)

	require.NoError(t, err)
	realistic := resultFor(t, report, catalog.ScenarioRealistic)
	assert.Equal(t, 16000.0, realistic.TotalInvested)

	r := 13.75 / 100 / 12
	growth := math.Pow(1+r, 12)
	expected := 10000*growth + 500*(1+r)*(growth-1)/r
	assert.InDelta(t, expected, realistic.FinalValue, 1e-6)
	assert.Len(t, realistic.Trajectory, 13)
}

func TestRunSimulation_FullReport(t *testing.T) {
	service := NewSimulationService(nil, nil, nil)
	cfg := fastConfig()

	report, err := service.RunSimulation(context.Background(), plan(10000, 500, 60), cfg)

	require.NoError(t, err)
	assert.Equal(t, uint64(7), report.Seed)
	assert.Len(t, report.Scenarios, 7)
	assert.Len(t, report.Results, 7)
	for _, r := range report.Results {
		assert.Len(t, r.Trajectory, 61, r.Scenario.ID)
		assert.GreaterOrEqual(t, r.RiskScore, 0.0)
	}

	// Worst and best bound every other result
	for _, r := range report.Results {
		assert.LessOrEqual(t, report.StressTest.WorstCase.FinalValue, r.FinalValue)
		assert.GreaterOrEqual(t, report.StressTest.BestCase.FinalValue, r.FinalValue)
	}
	assert.GreaterOrEqual(t, report.StressTest.MaxDrawdownPercent, 0.0)
	assert.NotNil(t, report.StressTest.Realistic)

	require.NotNil(t, report.MonteCarlo)
	assert.Equal(t, catalog.ScenarioRealistic, report.MonteCarlo.BaselineScenarioID)
	assert.Equal(t, 200, report.MonteCarlo.Simulations)
	assert.IsNonDecreasing(t, report.MonteCarlo.Percentiles.Ordered())

	assert.Len(t, report.Backtest, len(service.Periods))
	assert.Len(t, report.Correlations, len(service.Assets)*(len(service.Assets)-1)/2)

	agg := report.AggregateMetrics
	assert.Equal(t, report.StressTest.WorstCase.Scenario.Name, agg.WorstScenarioName)
	assert.Equal(t, report.StressTest.BestCase.Scenario.Name, agg.BestScenarioName)
	assert.Equal(t, report.StressTest.ProbabilityOfLossPercent, agg.ProbabilityOfLossPercent)
}

func TestRunSimulation_GoalBelowDeterministicValue(t *testing.T) {
	service := NewSimulationService(nil, nil, nil)
	cfg := fastConfig()
	cfg.NumberOfSimulations = 1000
	cfg.IncludeVolatility = false
	cfg.IncludeBacktest = false
	cfg.IncludeCorrelation = false
	goal := decimal.NewFromInt(16000)
	cfg.GoalValue = &goal

	report, err := service.RunSimulation(context.Background(), plan(10000, 500, 12), cfg)

	require.NoError(t, err)
	require.NotNil(t, report.MonteCarlo)
	assert.Equal(t, 100.0, report.MonteCarlo.GoalProbabilityPercent)
}

func TestRunSimulation_InvalidInput(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics("test", reg)
	service := NewSimulationService(nil, metrics, nil)

	report, err := service.RunSimulation(context.Background(), plan(10000, 500, 0), fastConfig())

	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues(observability.StatusInvalid)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.MonteCarloPaths))
}

func TestRunSimulation_InvalidConfig(t *testing.T) {
	service := NewSimulationService(nil, nil, nil)
	cfg := fastConfig()
	cfg.NumberOfSimulations = 0

	_, err := service.RunSimulation(context.Background(), plan(10000, 500, 12), cfg)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRunSimulation_AnalysisPeriodReplacesHorizon(t *testing.T) {
	service := NewSimulationService(nil, nil, nil)
	cfg := fastConfig()
	cfg.AnalysisPeriodMonths = 24
	cfg.IncludeMonteCarlo = false

	report, err := service.RunSimulation(context.Background(), plan(1000, 100, 0), cfg)

	require.NoError(t, err)
	assert.Equal(t, 24, report.Input.HorizonMonths)
	assert.Len(t, report.Results[0].Trajectory, 25)
}

func TestRunSimulation_OptionalEnginesGated(t *testing.T) {
	service := NewSimulationService(nil, nil, nil)
	cfg := fastConfig()
	cfg.IncludeMonteCarlo = false
	cfg.IncludeBacktest = false
	cfg.IncludeCorrelation = false

	report, err := service.RunSimulation(context.Background(), plan(1000, 100, 12), cfg)

	require.NoError(t, err)
	assert.Nil(t, report.MonteCarlo)
	assert.Nil(t, report.Backtest)
	assert.Nil(t, report.Correlations)
	assert.Len(t, report.Results, 7)
}

func TestRunSimulation_SeedIsReproducible(t *testing.T) {
	service := NewSimulationService(nil, nil, nil)
	cfg := fastConfig()
	cfg.Seed = seeded(2024)

	a, err := service.RunSimulation(context.Background(), plan(5000, 300, 36), cfg)
	require.NoError(t, err)
	b, err := service.RunSimulation(context.Background(), plan(5000, 300, 36), cfg)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Results, b.Results)
	assert.Equal(t, a.MonteCarlo, b.MonteCarlo)
	assert.Equal(t, a.Backtest, b.Backtest)
	assert.Equal(t, a.Correlations, b.Correlations)
	assert.Equal(t, a.AggregateMetrics, b.AggregateMetrics)
}

func TestRunSimulation_DefaultSeed(t *testing.T) {
	service := NewSimulationService(nil, nil, nil)
	service.DefaultSeed = seeded(99)
	cfg := fastConfig()
	cfg.Seed = nil

	report, err := service.RunSimulation(context.Background(), plan(5000, 300, 12), cfg)

	require.NoError(t, err)
	assert.Equal(t, uint64(99), report.Seed)
}

func TestRunSimulation_CustomScenarios(t *testing.T) {
	service := NewSimulationService(nil, nil, nil)
	cfg := fastConfig()
	cfg.CustomScenarios = []domain.EconomicScenario{{
		ID:   "hyperinflation",
		Name: "Hyperinflation",
		Parameters: domain.ScenarioParameters{
			Inflation:     80,
			ReferenceRate: 60,
			Volatility:    40,
		},
		Impact: domain.ImpactNegative,
	}}
	cfg.BaselineScenarioID = "hyperinflation"
	cfg.CustomScenarioIDs = []string{"stale-id", catalog.ScenarioCrisis}

	report, err := service.RunSimulation(context.Background(), plan(1000, 100, 12), cfg)

	require.NoError(t, err)
	assert.Len(t, report.Results, 8)
	assert.True(t, report.Scenarios[7].Custom)
	assert.Equal(t, []string{"stale-id"}, report.MissingScenarioIDs)
	assert.Equal(t, "hyperinflation", report.MonteCarlo.BaselineScenarioID)
}

func TestRunSimulation_InvalidCustomScenario(t *testing.T) {
	service := NewSimulationService(nil, nil, nil)
	cfg := fastConfig()
	cfg.CustomScenarios = []domain.EconomicScenario{{
		Name:       "Broken",
		Parameters: domain.ScenarioParameters{Volatility: -1},
	}}

	_, err := service.RunSimulation(context.Background(), plan(1000, 100, 12), cfg)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRunSimulation_StoredScenarioIDs(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockScenarioRepository)
	stored := &domain.EconomicScenario{
		ID:         "stored-1",
		Name:       "Stored",
		Parameters: domain.ScenarioParameters{ReferenceRate: 10, Volatility: 5},
		Impact:     domain.ImpactNeutral,
		Custom:     true,
	}
	mockRepo.On("GetByID", ctx, "stored-1").Return(stored, nil)
	mockRepo.On("GetByID", ctx, "gone").Return(nil, fmt.Errorf("%w: scenario gone", domain.ErrNotFound))
	mockRepo.On("GetByID", ctx, "broken").Return(nil, errors.New("connection reset"))

	service := NewSimulationService(catalog.NewCatalogService(mockRepo, nil), nil, nil)
	cfg := fastConfig()
	cfg.IncludeMonteCarlo = false
	cfg.CustomScenarioIDs = []string{"stored-1", "gone"}

	report, err := service.RunSimulation(ctx, plan(1000, 100, 12), cfg)

	require.NoError(t, err)
	assert.Len(t, report.Results, 8)
	assert.Equal(t, "Stored", report.Results[7].Scenario.Name)
	assert.Equal(t, []string{"gone"}, report.MissingScenarioIDs)

	cfg.CustomScenarioIDs = []string{"broken"}
	_, err = service.RunSimulation(ctx, plan(1000, 100, 12), cfg)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestRunSimulation_UnknownBaseline(t *testing.T) {
	service := NewSimulationService(nil, nil, nil)
	cfg := fastConfig()
	cfg.BaselineScenarioID = "ghost"

	_, err := service.RunSimulation(context.Background(), plan(1000, 100, 12), cfg)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunSimulation_Cancelled(t *testing.T) {
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	service := NewSimulationService(nil, metrics, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := service.RunSimulation(ctx, plan(1000, 100, 12), fastConfig())

	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues(observability.StatusCancelled)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues(observability.StatusDeadlineExceeded)))
}

func TestRunSimulation_DeadlineExceeded(t *testing.T) {
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	service := NewSimulationService(nil, metrics, nil)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	report, err := service.RunSimulation(ctx, plan(1000, 100, 12), fastConfig())

	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues(observability.StatusDeadlineExceeded)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues(observability.StatusCancelled)))
}

func TestRunSimulation_RecordsMetrics(t *testing.T) {
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	service := NewSimulationService(nil, metrics, nil)

	_, err := service.RunSimulation(context.Background(), plan(1000, 100, 12), fastConfig())

	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues(observability.StatusOK)))
	assert.Equal(t, 200.0, testutil.ToFloat64(metrics.MonteCarloPaths))
	assert.Equal(t, 4, testutil.CollectAndCount(metrics.StageDuration))
}
