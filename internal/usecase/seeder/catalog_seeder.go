package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/logging"
	"github.com/simaogato/wealthflow-risk/internal/usecase/catalog"
)

// CatalogSeeder mirrors the built-in scenario catalog into the scenario repository
// so stored runs and custom scenarios can reference built-in ids
type CatalogSeeder struct {
	repo   domain.ScenarioRepository
	logger *logrus.Logger
}

// NewCatalogSeeder creates a new CatalogSeeder instance
func NewCatalogSeeder(repo domain.ScenarioRepository, logger *logrus.Logger) *CatalogSeeder {
	return &CatalogSeeder{
		repo:   repo,
		logger: logging.OrDiscard(logger),
	}
}

// Seed ensures every built-in scenario exists in the repository
// Existing rows are left untouched; returns the number of rows created
func (s *CatalogSeeder) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, builtin := range catalog.BuiltinScenarios() {
		_, err := s.repo.GetByID(ctx, builtin.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, fmt.Errorf("failed to check scenario %s: %w", builtin.ID, err)
		}

		scenario := builtin
		if err := scenario.Validate(); err != nil {
			return created, err
		}
		if err := s.repo.Create(ctx, &scenario); err != nil {
			return created, fmt.Errorf("failed to seed scenario %s: %w", builtin.ID, err)
		}
		created++
	}

	s.logger.WithField("created", created).Info("scenario catalog seeded")
	return created, nil
}
