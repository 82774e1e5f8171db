package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Defaults for SimulationConfig
const (
	DefaultNumberOfSimulations = 10000
	DefaultConfidenceLevel     = 95.0
	DefaultBaselineScenarioID  = "realistic"
	MaxNumberOfSimulations     = 1000000
)

// SimulationConfig gates the optional engines and tunes the run.
// The per-scenario projections and the stress test always run.
type SimulationConfig struct {
	IncludeInflation  bool `json:"includeInflation"`
	IncludeVolatility bool `json:"includeVolatility"`

	// AnalysisPeriodMonths replaces the input horizon when greater than zero.
	AnalysisPeriodMonths int `json:"analysisPeriodMonths" validate:"gte=0"`

	// ConfidenceLevel is the VaR confidence in percent (95 means 95%).
	ConfidenceLevel float64 `json:"confidenceLevel" validate:"finite,gt=50,lt=100"`

	NumberOfSimulations int              `json:"numberOfSimulations" validate:"gte=1,lte=1000000"`
	GoalValue           *decimal.Decimal `json:"goalValue,omitempty"`
	BaselineScenarioID  string           `json:"baselineScenarioId" validate:"required"`

	IncludeMonteCarlo  bool `json:"includeMonteCarlo"`
	IncludeBacktest    bool `json:"includeBacktest"`
	IncludeCorrelation bool `json:"includeCorrelation"`

	// CustomScenarios are already-built scenarios folded into the run.
	CustomScenarios []EconomicScenario `json:"customScenarios,omitempty" validate:"dive"`
	// CustomScenarioIDs are resolved through the catalog. Unknown ids are reported, not fatal.
	CustomScenarioIDs []string `json:"customScenarioIds,omitempty"`

	// Seed makes a run reproducible. Nil means a fresh seed per run.
	Seed *uint64 `json:"seed,omitempty"`
}

// DefaultSimulationConfig returns the documented defaults
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		IncludeInflation:    true,
		IncludeVolatility:   true,
		ConfidenceLevel:     DefaultConfidenceLevel,
		NumberOfSimulations: DefaultNumberOfSimulations,
		BaselineScenarioID:  DefaultBaselineScenarioID,
		IncludeMonteCarlo:   true,
		IncludeBacktest:     true,
		IncludeCorrelation:  true,
	}
}

// Validate ensures the configuration values are in range
// Returns an error wrapping ErrValidation if validation fails
func (c *SimulationConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: simulation config: %s", ErrValidation, describeValidationError(err))
	}
	if c.GoalValue != nil && c.GoalValue.IsNegative() {
		return fmt.Errorf("%w: simulation config: goal value cannot be negative", ErrValidation)
	}
	return nil
}

// EffectiveInput applies AnalysisPeriodMonths to the caller's input.
func (c *SimulationConfig) EffectiveInput(in SimulationInput) SimulationInput {
	if c.AnalysisPeriodMonths > 0 {
		return in.WithHorizon(c.AnalysisPeriodMonths)
	}
	return in
}

// DecodeSimulationConfig decodes a flat JSON record on top of the defaults.
// Unknown keys are ignored and omitted keys keep their default value.
func DecodeSimulationConfig(data []byte) (SimulationConfig, error) {
	return MergeSimulationConfig(DefaultSimulationConfig(), data)
}

// MergeSimulationConfig decodes a flat JSON record on top of base.
func MergeSimulationConfig(base SimulationConfig, data []byte) (SimulationConfig, error) {
	cfg := base
	if len(data) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return SimulationConfig{}, fmt.Errorf("%w: malformed simulation config: %v", ErrValidation, err)
	}
	return cfg, nil
}
