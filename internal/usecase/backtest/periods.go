package backtest

import "github.com/simaogato/wealthflow-risk/internal/domain"

// historicalPeriods is the read-only table of replayed macro periods.
// Returns and volatilities are annualized percentages of a reference-rate portfolio.
var historicalPeriods = []domain.HistoricalPeriod{
	{Label: "2008-2009 Global Financial Crisis", AnnualReturnPercent: -8.0, AnnualVolatilityPercent: 32.0},
	{Label: "2011-2012 Eurozone Debt Crisis", AnnualReturnPercent: 4.5, AnnualVolatilityPercent: 22.0},
	{Label: "2015-2016 Brazilian Recession", AnnualReturnPercent: 13.5, AnnualVolatilityPercent: 18.0},
	{Label: "2017-2019 Recovery", AnnualReturnPercent: 9.5, AnnualVolatilityPercent: 12.0},
	{Label: "2020-2021 Pandemic", AnnualReturnPercent: 3.0, AnnualVolatilityPercent: 28.0},
	{Label: "2022-2023 Monetary Tightening", AnnualReturnPercent: 12.5, AnnualVolatilityPercent: 14.0},
}

// HistoricalPeriods returns a copy of the historical period table.
func HistoricalPeriods() []domain.HistoricalPeriod {
	out := make([]domain.HistoricalPeriod, len(historicalPeriods))
	copy(out, historicalPeriods)
	return out
}
