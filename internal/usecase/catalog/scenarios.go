package catalog

import "github.com/simaogato/wealthflow-risk/internal/domain"

// Built-in scenario ids
const (
	ScenarioOptimistic  = "optimistic"
	ScenarioRealistic   = "realistic"
	ScenarioPessimistic = "pessimistic"
	ScenarioCrisis      = "crisis"
	ScenarioBoom        = "boom"
	ScenarioStagflation = "stagflation"
	ScenarioDeflation   = "deflation"
)

// builtinScenarios is the read-only regime table shared by every run.
// Rates are annualized percentages; the reference rate drives compounding.
var builtinScenarios = []domain.EconomicScenario{
	{
		ID:          ScenarioOptimistic,
		Name:        "Optimistic",
		Description: "Controlled inflation, high real rates and steady growth",
		Parameters: domain.ScenarioParameters{
			Inflation:     3.5,
			ReferenceRate: 14.5,
			PolicyRate:    14.25,
			GDPGrowth:     3.5,
			Volatility:    8.0,
		},
		ProbabilityWeight: 20,
		Impact:            domain.ImpactPositive,
	},
	{
		ID:          ScenarioRealistic,
		Name:        "Realistic",
		Description: "Current policy rate maintained with inflation near target",
		Parameters: domain.ScenarioParameters{
			Inflation:     4.5,
			ReferenceRate: 13.75,
			PolicyRate:    13.75,
			GDPGrowth:     2.0,
			Volatility:    12.0,
		},
		ProbabilityWeight: 40,
		Impact:            domain.ImpactNeutral,
	},
	{
		ID:          ScenarioPessimistic,
		Name:        "Pessimistic",
		Description: "Inflation above target, rate cuts and weak growth",
		Parameters: domain.ScenarioParameters{
			Inflation:     7.0,
			ReferenceRate: 10.5,
			PolicyRate:    11.0,
			GDPGrowth:     0.5,
			Volatility:    18.0,
		},
		ProbabilityWeight: 20,
		Impact:            domain.ImpactNegative,
	},
	{
		ID:          ScenarioCrisis,
		Name:        "Crisis",
		Description: "Recession with emergency rate cuts and market stress",
		Parameters: domain.ScenarioParameters{
			Inflation:     9.5,
			ReferenceRate: 6.5,
			PolicyRate:    7.0,
			GDPGrowth:     -3.5,
			Volatility:    35.0,
		},
		ProbabilityWeight: 5,
		Impact:            domain.ImpactNegative,
	},
	{
		ID:          ScenarioBoom,
		Name:        "Boom",
		Description: "Strong expansion with tight monetary policy",
		Parameters: domain.ScenarioParameters{
			Inflation:     5.0,
			ReferenceRate: 16.0,
			PolicyRate:    15.0,
			GDPGrowth:     5.0,
			Volatility:    15.0,
		},
		ProbabilityWeight: 5,
		Impact:            domain.ImpactPositive,
	},
	{
		ID:          ScenarioStagflation,
		Name:        "Stagflation",
		Description: "High inflation combined with economic contraction",
		Parameters: domain.ScenarioParameters{
			Inflation:     12.0,
			ReferenceRate: 11.0,
			PolicyRate:    12.5,
			GDPGrowth:     -1.0,
			Volatility:    25.0,
		},
		ProbabilityWeight: 5,
		Impact:            domain.ImpactNegative,
	},
	{
		ID:          ScenarioDeflation,
		Name:        "Deflation",
		Description: "Falling prices, near-zero growth and low nominal rates",
		Parameters: domain.ScenarioParameters{
			Inflation:     -1.0,
			ReferenceRate: 4.0,
			PolicyRate:    4.5,
			GDPGrowth:     -0.5,
			Volatility:    10.0,
		},
		ProbabilityWeight: 5,
		Impact:            domain.ImpactNegative,
	},
}

// BuiltinScenarios returns a copy of the built-in regime table.
func BuiltinScenarios() []domain.EconomicScenario {
	out := make([]domain.EconomicScenario, len(builtinScenarios))
	copy(out, builtinScenarios)
	return out
}
