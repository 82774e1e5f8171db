package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-risk/internal/domain"
)

// runRepository implements domain.RunRepository
type runRepository struct {
	db *DB
}

// NewRunRepository creates a new run summary repository
func NewRunRepository(db *DB) domain.RunRepository {
	return &runRepository{db: db}
}

// Create stores a run summary
func (r *runRepository) Create(ctx context.Context, run *domain.RunSummary) error {
	query := `
		INSERT INTO simulation_runs (
			id, created_at, seed, initial_value, monthly_contribution, horizon_months,
			scenario_ids, mean_final_value, worst_scenario_name, best_scenario_name,
			probability_of_loss, monte_carlo_expected, goal_probability
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var expected, goal interface{}
	if run.MonteCarloExpected != nil {
		expected = *run.MonteCarloExpected
	}
	if run.GoalProbabilityPercent != nil {
		goal = *run.GoalProbabilityPercent
	}

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.CreatedAt,
		strconv.FormatUint(run.Seed, 10),
		run.Input.InitialValue.String(),
		run.Input.MonthlyContribution.String(),
		run.Input.HorizonMonths,
		pq.Array(run.ScenarioIDs),
		run.MeanFinalValue,
		run.WorstScenarioName,
		run.BestScenarioName,
		run.ProbabilityOfLoss,
		expected,
		goal,
	)
	if err != nil {
		return fmt.Errorf("failed to create run summary: %w", err)
	}

	return nil
}

// GetByID retrieves a run summary by its ID
func (r *runRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RunSummary, error) {
	query := `
		SELECT id, created_at, seed, initial_value, monthly_contribution, horizon_months,
			scenario_ids, mean_final_value, worst_scenario_name, best_scenario_name,
			probability_of_loss, monte_carlo_expected, goal_probability
		FROM simulation_runs
		WHERE id = $1
	`

	var run domain.RunSummary
	var seedStr, initialStr, monthlyStr string
	var expected, goal sql.NullFloat64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.CreatedAt,
		&seedStr,
		&initialStr,
		&monthlyStr,
		&run.Input.HorizonMonths,
		pq.Array(&run.ScenarioIDs),
		&run.MeanFinalValue,
		&run.WorstScenarioName,
		&run.BestScenarioName,
		&run.ProbabilityOfLoss,
		&expected,
		&goal,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: run %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run by ID: %w", err)
	}

	run.Seed, err = strconv.ParseUint(seedStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	// Parse money columns (NUMERIC)
	run.Input.InitialValue, err = decimal.NewFromString(initialStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse initial_value: %w", err)
	}
	run.Input.MonthlyContribution, err = decimal.NewFromString(monthlyStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse monthly_contribution: %w", err)
	}

	if expected.Valid {
		v := expected.Float64
		run.MonteCarloExpected = &v
	}
	if goal.Valid {
		v := goal.Float64
		run.GoalProbabilityPercent = &v
	}

	return &run, nil
}
