package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/logging"
)

// CreateScenarioInput represents the input for creating a custom scenario
type CreateScenarioInput struct {
	Name              string
	Description       string
	Parameters        domain.ScenarioParameters
	ProbabilityWeight float64
	Impact            domain.ImpactTag // empty means neutral
}

// CatalogService handles scenario catalog operations
type CatalogService struct {
	// ScenarioRepo is optional. When nil, custom scenarios live only in the caller's hands.
	ScenarioRepo domain.ScenarioRepository

	extensions []domain.EconomicScenario
	logger     *logrus.Logger
}

// NewCatalogService creates a new CatalogService instance
// extensions are appended after the built-in regimes and are never mutated afterwards
func NewCatalogService(scenarioRepo domain.ScenarioRepository, logger *logrus.Logger, extensions ...domain.EconomicScenario) *CatalogService {
	ext := make([]domain.EconomicScenario, len(extensions))
	copy(ext, extensions)

	return &CatalogService{
		ScenarioRepo: scenarioRepo,
		extensions:   ext,
		logger:       logging.OrDiscard(logger),
	}
}

// ListScenarios returns the built-in regimes followed by the startup extensions
// The returned slice is a copy; callers may append custom scenarios to it
func (s *CatalogService) ListScenarios() []domain.EconomicScenario {
	out := BuiltinScenarios()
	return append(out, s.extensions...)
}

// CreateCustomScenario validates the parameters and returns a scenario with a fresh id
// The built-in catalog is not modified. When a repository is configured the scenario is stored
func (s *CatalogService) CreateCustomScenario(ctx context.Context, input CreateScenarioInput) (*domain.EconomicScenario, error) {
	impact := input.Impact
	if impact == "" {
		impact = domain.ImpactNeutral
	}
	if _, err := domain.ParseImpactTag(string(impact)); err != nil {
		return nil, err
	}

	scenario := &domain.EconomicScenario{
		ID:                uuid.New().String(),
		Name:              strings.TrimSpace(input.Name),
		Description:       input.Description,
		Parameters:        input.Parameters,
		ProbabilityWeight: input.ProbabilityWeight,
		Impact:            impact,
		Custom:            true,
	}

	if err := scenario.Validate(); err != nil {
		s.logger.WithError(err).WithField("name", input.Name).Warn("rejected custom scenario")
		return nil, err
	}

	if s.ScenarioRepo != nil {
		if err := s.ScenarioRepo.Create(ctx, scenario); err != nil {
			return nil, fmt.Errorf("failed to store custom scenario: %w", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"scenario_id": scenario.ID,
		"name":        scenario.Name,
		"impact":      scenario.Impact,
	}).Info("created custom scenario")

	return scenario, nil
}

// GetScenario looks a scenario up by id
// Lookup order: built-ins, extensions, then the repository if configured
func (s *CatalogService) GetScenario(ctx context.Context, id string) (*domain.EconomicScenario, error) {
	for _, sc := range s.ListScenarios() {
		if sc.ID == id {
			found := sc
			return &found, nil
		}
	}

	if s.ScenarioRepo != nil {
		sc, err := s.ScenarioRepo.GetByID(ctx, id)
		if err == nil {
			return sc, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to get scenario %s: %w", id, err)
		}
	}

	return nil, fmt.Errorf("%w: scenario %s", domain.ErrNotFound, id)
}

// ListCustomScenarios returns the stored custom scenarios, or none without a repository
func (s *CatalogService) ListCustomScenarios(ctx context.Context) ([]domain.EconomicScenario, error) {
	if s.ScenarioRepo == nil {
		return nil, nil
	}

	stored, err := s.ScenarioRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom scenarios: %w", err)
	}

	out := make([]domain.EconomicScenario, 0, len(stored))
	for _, sc := range stored {
		out = append(out, *sc)
	}
	return out, nil
}

// scenarioFile is the YAML layout of a catalog extension file
type scenarioFile struct {
	Scenarios []domain.EconomicScenario `yaml:"scenarios"`
}

// LoadScenarioFile reads catalog extensions from a YAML file
// Every entry goes through the same validation as CreateCustomScenario
// Entries without an id get a fresh one; ids may not shadow built-in regimes
func LoadScenarioFile(path string) ([]domain.EconomicScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenarios(data)
}

// ParseScenarios decodes and validates a YAML catalog extension document
func ParseScenarios(data []byte) ([]domain.EconomicScenario, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: malformed scenario file: %v", domain.ErrValidation, err)
	}

	seen := make(map[string]bool)
	for _, sc := range builtinScenarios {
		seen[sc.ID] = true
	}

	out := make([]domain.EconomicScenario, 0, len(file.Scenarios))
	for i := range file.Scenarios {
		sc := file.Scenarios[i]
		if sc.ID == "" {
			sc.ID = uuid.New().String()
		}
		if sc.Impact == "" {
			sc.Impact = domain.ImpactNeutral
		}
		if seen[sc.ID] {
			return nil, fmt.Errorf("%w: duplicate scenario id %q", domain.ErrValidation, sc.ID)
		}
		if err := sc.Validate(); err != nil {
			return nil, err
		}
		seen[sc.ID] = true
		sc.Custom = true
		out = append(out, sc)
	}
	return out, nil
}
