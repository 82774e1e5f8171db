package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/wealthflow-risk/internal/domain"
)

// scenarioRepository implements domain.ScenarioRepository
type scenarioRepository struct {
	db *DB
}

// NewScenarioRepository creates a new scenario repository
func NewScenarioRepository(db *DB) domain.ScenarioRepository {
	return &scenarioRepository{db: db}
}

const scenarioColumns = `id, name, description, inflation, reference_rate, policy_rate, gdp_growth,
		volatility, probability_weight, impact, custom`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScenario(row rowScanner) (*domain.EconomicScenario, error) {
	var sc domain.EconomicScenario
	var impact string

	err := row.Scan(
		&sc.ID,
		&sc.Name,
		&sc.Description,
		&sc.Parameters.Inflation,
		&sc.Parameters.ReferenceRate,
		&sc.Parameters.PolicyRate,
		&sc.Parameters.GDPGrowth,
		&sc.Parameters.Volatility,
		&sc.ProbabilityWeight,
		&impact,
		&sc.Custom,
	)
	if err != nil {
		return nil, err
	}

	sc.Impact, err = domain.ParseImpactTag(impact)
	if err != nil {
		return nil, fmt.Errorf("failed to parse impact: %w", err)
	}
	return &sc, nil
}

// GetByID retrieves a scenario by its ID
func (r *scenarioRepository) GetByID(ctx context.Context, id string) (*domain.EconomicScenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE id = $1`

	sc, err := scanScenario(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: scenario %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get scenario by ID: %w", err)
	}
	return sc, nil
}

// Create creates a new scenario
func (r *scenarioRepository) Create(ctx context.Context, sc *domain.EconomicScenario) error {
	query := `
		INSERT INTO scenarios (` + scenarioColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		sc.ID,
		sc.Name,
		sc.Description,
		sc.Parameters.Inflation,
		sc.Parameters.ReferenceRate,
		sc.Parameters.PolicyRate,
		sc.Parameters.GDPGrowth,
		sc.Parameters.Volatility,
		sc.ProbabilityWeight,
		string(sc.Impact),
		sc.Custom,
	)
	if err != nil {
		return fmt.Errorf("failed to create scenario: %w", err)
	}

	return nil
}

// List retrieves stored scenarios in creation order, optionally only the custom ones
func (r *scenarioRepository) List(ctx context.Context, customOnly bool) ([]*domain.EconomicScenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios`
	if customOnly {
		query += ` WHERE custom`
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []*domain.EconomicScenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		scenarios = append(scenarios, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scenarios: %w", err)
	}

	return scenarios, nil
}
