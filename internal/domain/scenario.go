package domain

import (
	"fmt"
	"strings"
)

// ImpactTag classifies how a macro regime affects a savings plan
type ImpactTag string

const (
	ImpactPositive ImpactTag = "positive"
	ImpactNegative ImpactTag = "negative"
	ImpactNeutral  ImpactTag = "neutral"
)

// ParseImpactTag converts a string to an ImpactTag.
// An empty string maps to ImpactNeutral.
func ParseImpactTag(s string) (ImpactTag, error) {
	switch ImpactTag(strings.ToLower(strings.TrimSpace(s))) {
	case ImpactPositive:
		return ImpactPositive, nil
	case ImpactNegative:
		return ImpactNegative, nil
	case ImpactNeutral, "":
		return ImpactNeutral, nil
	default:
		return "", fmt.Errorf("%w: unknown impact tag %q", ErrValidation, s)
	}
}

// UnmarshalText keeps the tag a closed set when decoding JSON or YAML.
func (t *ImpactTag) UnmarshalText(text []byte) error {
	parsed, err := ParseImpactTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// RiskMultiplier scales scenario volatility into a risk score.
func (t ImpactTag) RiskMultiplier() float64 {
	switch t {
	case ImpactNegative:
		return 1.5
	case ImpactPositive:
		return 0.8
	default:
		return 1.0
	}
}

// ScenarioParameters holds the macro parameters of a regime.
// All values are annualized percentages (13.75 means 13.75% a year).
// Rates above -1200 keep the monthly growth factor positive.
type ScenarioParameters struct {
	Inflation     float64 `json:"inflation" yaml:"inflation" validate:"finite,gt=-100,lte=1000"`
	ReferenceRate float64 `json:"referenceRate" yaml:"reference_rate" validate:"finite,gt=-1200,lte=1000"`
	PolicyRate    float64 `json:"policyRate" yaml:"policy_rate" validate:"finite,gt=-1200,lte=1000"`
	GDPGrowth     float64 `json:"gdpGrowth" yaml:"gdp_growth" validate:"finite,gt=-100,lte=1000"`
	Volatility    float64 `json:"volatility" yaml:"volatility" validate:"finite,gte=0,lte=500"`
}

// EconomicScenario is a named macroeconomic regime
// Built-in catalog entries are never mutated; custom scenarios get a fresh id
type EconomicScenario struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name" validate:"required"`
	Description string             `json:"description" yaml:"description"`
	Parameters  ScenarioParameters `json:"parameters" yaml:"parameters"`
	// ProbabilityWeight is a display weight only. Weights do not need to sum to 100.
	ProbabilityWeight float64   `json:"probabilityWeight" yaml:"probability_weight" validate:"finite,gte=0"`
	Impact            ImpactTag `json:"impact" yaml:"impact"`
	Custom            bool      `json:"custom" yaml:"-"`
}

// Validate ensures the scenario parameters are finite and within their bounds
// Returns an error wrapping ErrValidation if validation fails
func (s *EconomicScenario) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: scenario %q: %s", ErrValidation, s.Name, describeValidationError(err))
	}
	return nil
}
