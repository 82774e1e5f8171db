// Package simulation orchestrates the scenario engines into one report and
// keeps a single live run per session.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/logging"
	"github.com/simaogato/wealthflow-risk/internal/observability"
	"github.com/simaogato/wealthflow-risk/internal/random"
	"github.com/simaogato/wealthflow-risk/internal/usecase/backtest"
	"github.com/simaogato/wealthflow-risk/internal/usecase/catalog"
	"github.com/simaogato/wealthflow-risk/internal/usecase/correlation"
	"github.com/simaogato/wealthflow-risk/internal/usecase/montecarlo"
	"github.com/simaogato/wealthflow-risk/internal/usecase/projection"
	"github.com/simaogato/wealthflow-risk/internal/usecase/stress"
)

// Random streams derived from a run seed, one per engine
const (
	streamProjection uint64 = iota + 1
	streamMonteCarlo
	streamBacktest
	streamCorrelation
)

// SimulationService runs the full scenario analysis for a plan
type SimulationService struct {
	catalog *catalog.CatalogService
	metrics *observability.Metrics
	logger  *logrus.Logger

	// Periods and Assets default to the built-in tables.
	Periods []domain.HistoricalPeriod
	Assets  []domain.Asset
	// DefaultSeed is used when a config carries no seed. Nil draws a fresh seed per run.
	DefaultSeed *uint64
}

// NewSimulationService creates a new SimulationService instance
// A nil catalogService uses the built-in catalog only; metrics may be nil
func NewSimulationService(catalogService *catalog.CatalogService, metrics *observability.Metrics, logger *logrus.Logger) *SimulationService {
	if catalogService == nil {
		catalogService = catalog.NewCatalogService(nil, logger)
	}
	return &SimulationService{
		catalog: catalogService,
		metrics: metrics,
		logger:  logging.OrDiscard(logger),
		Periods: backtest.HistoricalPeriods(),
		Assets:  correlation.AssetUniverse(),
	}
}

// RunSimulation validates the plan and configuration, projects every scenario,
// runs the enabled optional engines concurrently and assembles the report.
// Invalid input fails before any engine runs. A cancelled ctx yields ctx.Err() and no report.
func (s *SimulationService) RunSimulation(ctx context.Context, input domain.SimulationInput, cfg domain.SimulationConfig) (*domain.SimulationReport, error) {
	report, err := s.run(ctx, input, cfg)
	switch {
	case err == nil:
		s.metrics.RecordRun(observability.StatusOK)
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		s.metrics.RecordRun(observability.StatusInvalid)
	case errors.Is(err, context.DeadlineExceeded):
		s.metrics.RecordRun(observability.StatusDeadlineExceeded)
	case errors.Is(err, context.Canceled):
		s.metrics.RecordRun(observability.StatusCancelled)
	default:
		s.metrics.RecordRun(observability.StatusError)
	}
	return report, err
}

func (s *SimulationService) run(ctx context.Context, input domain.SimulationInput, cfg domain.SimulationConfig) (*domain.SimulationReport, error) {
	input = cfg.EffectiveInput(input)
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := s.seedFor(cfg)
	log := s.logger.WithFields(logrus.Fields{
		"seed":           seed,
		"horizon_months": input.HorizonMonths,
	})

	scenarios, missing, err := s.resolveScenarios(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		log.WithField("missing_ids", missing).Warn("skipping unknown scenario ids")
	}

	var baseline domain.EconomicScenario
	if cfg.IncludeMonteCarlo {
		baseline, err = s.resolveBaseline(ctx, cfg.BaselineScenarioID, scenarios)
		if err != nil {
			return nil, err
		}
	}

	opts := projection.Options{
		IncludeVolatility: cfg.IncludeVolatility,
		IncludeInflation:  cfg.IncludeInflation,
		ConfidenceLevel:   cfg.ConfidenceLevel,
	}

	start := time.Now()
	results, summary, err := stress.NewEngine(random.New(seed, streamProjection)).Run(input, scenarios, opts)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveStage(observability.StageProjection, start)

	report := &domain.SimulationReport{
		ID:                 uuid.New(),
		CreatedAt:          time.Now().UTC(),
		Seed:               seed,
		Input:              input,
		Config:             cfg,
		Scenarios:          scenarios,
		Results:            results,
		StressTest:         summary,
		MissingScenarioIDs: missing,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.IncludeMonteCarlo {
		g.Go(func() error {
			start := time.Now()
			engine := montecarlo.NewEngine(random.New(seed, streamMonteCarlo))
			engine.IncludeVolatility = cfg.IncludeVolatility
			engine.OnPath = s.metrics.PathDone

			result, err := engine.Run(gctx, input, baseline, cfg.NumberOfSimulations, cfg.GoalValue)
			if err != nil {
				return err
			}
			s.metrics.ObserveStage(observability.StageMonteCarlo, start)
			report.MonteCarlo = result
			return nil
		})
	}

	if cfg.IncludeBacktest {
		g.Go(func() error {
			start := time.Now()
			engine := backtest.NewEngine(random.New(seed, streamBacktest))
			engine.IncludeVolatility = cfg.IncludeVolatility

			results, err := engine.Run(gctx, input, s.Periods)
			if err != nil {
				return err
			}
			s.metrics.ObserveStage(observability.StageBacktest, start)
			report.Backtest = results
			return nil
		})
	}

	if cfg.IncludeCorrelation {
		g.Go(func() error {
			start := time.Now()
			correlations, err := correlation.NewAnalyzer(random.New(seed, streamCorrelation)).Analyze(s.Assets)
			if err != nil {
				return err
			}
			s.metrics.ObserveStage(observability.StageCorrelation, start)
			report.Correlations = correlations
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.AggregateMetrics = Aggregate(results)

	log.WithFields(logrus.Fields{
		"report_id": report.ID,
		"scenarios": len(scenarios),
		"worst":     report.AggregateMetrics.WorstScenarioName,
		"best":      report.AggregateMetrics.BestScenarioName,
	}).Info("simulation completed")

	return report, nil
}

// seedFor picks the config seed, then the service default, then a fresh one.
func (s *SimulationService) seedFor(cfg domain.SimulationConfig) uint64 {
	if cfg.Seed != nil {
		return *cfg.Seed
	}
	if s.DefaultSeed != nil {
		return *s.DefaultSeed
	}
	return random.NewSeed()
}

// resolveScenarios combines the catalog, inline custom scenarios and custom ids.
// Ids that resolve to nothing are returned as missing rather than failing the run.
func (s *SimulationService) resolveScenarios(ctx context.Context, cfg domain.SimulationConfig) ([]domain.EconomicScenario, []string, error) {
	scenarios := s.catalog.ListScenarios()
	present := make(map[string]bool, len(scenarios))
	for _, sc := range scenarios {
		present[sc.ID] = true
	}

	for i := range cfg.CustomScenarios {
		sc := cfg.CustomScenarios[i]
		if sc.Impact == "" {
			sc.Impact = domain.ImpactNeutral
		}
		if _, err := domain.ParseImpactTag(string(sc.Impact)); err != nil {
			return nil, nil, err
		}
		if err := sc.Validate(); err != nil {
			return nil, nil, err
		}
		if sc.ID == "" {
			sc.ID = uuid.New().String()
		}
		if present[sc.ID] {
			return nil, nil, fmt.Errorf("%w: duplicate scenario id %q", domain.ErrValidation, sc.ID)
		}
		sc.Custom = true
		present[sc.ID] = true
		scenarios = append(scenarios, sc)
	}

	var missing []string
	for _, id := range cfg.CustomScenarioIDs {
		if present[id] {
			continue
		}
		sc, err := s.catalog.GetScenario(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		present[id] = true
		scenarios = append(scenarios, *sc)
	}

	return scenarios, missing, nil
}

// resolveBaseline finds the Monte Carlo regime among the run's scenarios, then in the catalog.
func (s *SimulationService) resolveBaseline(ctx context.Context, id string, scenarios []domain.EconomicScenario) (domain.EconomicScenario, error) {
	for _, sc := range scenarios {
		if sc.ID == id {
			return sc, nil
		}
	}
	sc, err := s.catalog.GetScenario(ctx, id)
	if err != nil {
		return domain.EconomicScenario{}, fmt.Errorf("failed to resolve baseline scenario: %w", err)
	}
	return *sc, nil
}
