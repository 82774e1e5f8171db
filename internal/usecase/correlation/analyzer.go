// Package correlation estimates pairwise correlation, beta and risk bucket
// across an asset universe.
package correlation

import (
	"fmt"
	"math"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/random"
	"github.com/simaogato/wealthflow-risk/internal/stats"
)

// Fallback range for pairs without a heuristic constant
const (
	FallbackMin = -0.4
	FallbackMax = 0.4
)

// Analyzer computes correlations with an injected random source for the fallback range.
type Analyzer struct {
	src random.Source
}

// NewAnalyzer creates an analyzer drawing fallback values from src.
func NewAnalyzer(src random.Source) *Analyzer {
	return &Analyzer{src: src}
}

// Analyze returns one entry per unordered pair, ordered (0,1), (0,2) ... (n-2,n-1).
// Symbols must be unique.
func (a *Analyzer) Analyze(assets []domain.Asset) ([]domain.AssetCorrelation, error) {
	seen := make(map[string]bool, len(assets))
	for _, asset := range assets {
		if seen[asset.Symbol] {
			return nil, fmt.Errorf("%w: duplicate asset %q", domain.ErrValidation, asset.Symbol)
		}
		if asset.AnnualVolatilityPercent < 0 || math.IsNaN(asset.AnnualVolatilityPercent) {
			return nil, fmt.Errorf("%w: asset %q volatility must be non-negative", domain.ErrValidation, asset.Symbol)
		}
		seen[asset.Symbol] = true
	}

	out := make([]domain.AssetCorrelation, 0, len(assets)*(len(assets)-1)/2)
	for i := 0; i < len(assets); i++ {
		for j := i + 1; j < len(assets); j++ {
			out = append(out, a.pair(assets[i], assets[j]))
		}
	}
	return out, nil
}

func (a *Analyzer) pair(x, y domain.Asset) domain.AssetCorrelation {
	corr, heuristic := KnownCorrelation(x.Symbol, y.Symbol)
	if !heuristic {
		corr = random.Uniform(a.src, FallbackMin, FallbackMax)
	}
	corr = clamp(corr)

	return domain.AssetCorrelation{
		AssetA:      x.Symbol,
		AssetB:      y.Symbol,
		Correlation: corr,
		Beta:        stats.SafeDiv(corr*y.AnnualVolatilityPercent, x.AnnualVolatilityPercent),
		RiskBucket:  domain.RiskBucketFor(corr),
		Heuristic:   heuristic,
	}
}

func clamp(c float64) float64 {
	return math.Max(-1, math.Min(1, c))
}
