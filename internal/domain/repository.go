package domain

import (
	"context"

	"github.com/google/uuid"
)

// ScenarioRepository defines the interface for scenario persistence operations
type ScenarioRepository interface {
	// GetByID retrieves a scenario by its ID
	// Returns an error wrapping ErrNotFound if no scenario has that ID
	GetByID(ctx context.Context, id string) (*EconomicScenario, error)

	// Create stores a new scenario
	Create(ctx context.Context, scenario *EconomicScenario) error

	// List retrieves every stored scenario
	// If customOnly is true, built-in catalog rows are skipped
	List(ctx context.Context, customOnly bool) ([]*EconomicScenario, error)
}

// RunRepository defines the interface for simulation run persistence operations
type RunRepository interface {
	// Create stores the digest of a finished run
	Create(ctx context.Context, run *RunSummary) error

	// GetByID retrieves a run digest by its ID
	// Returns an error wrapping ErrNotFound if no run has that ID
	GetByID(ctx context.Context, id uuid.UUID) (*RunSummary, error)
}
