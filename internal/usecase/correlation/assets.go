package correlation

import "github.com/simaogato/wealthflow-risk/internal/domain"

// Asset symbols of the default universe
const (
	AssetCDI  = "CDI"
	AssetIPCA = "IPCA+"
	AssetIBOV = "IBOV"
	AssetUSD  = "USD"
	AssetGold = "GOLD"
	AssetBTC  = "BTC"
)

var assetUniverse = []domain.Asset{
	{Symbol: AssetCDI, Name: "Reference-rate deposit", ExpectedReturnPercent: 13.75, AnnualVolatilityPercent: 0.5},
	{Symbol: AssetIPCA, Name: "Inflation-linked bond", ExpectedReturnPercent: 11.0, AnnualVolatilityPercent: 6.0},
	{Symbol: AssetIBOV, Name: "Broad equity index", ExpectedReturnPercent: 12.0, AnnualVolatilityPercent: 25.0},
	{Symbol: AssetUSD, Name: "US dollar", ExpectedReturnPercent: 5.0, AnnualVolatilityPercent: 15.0},
	{Symbol: AssetGold, Name: "Gold", ExpectedReturnPercent: 8.0, AnnualVolatilityPercent: 16.0},
	{Symbol: AssetBTC, Name: "Bitcoin", ExpectedReturnPercent: 40.0, AnnualVolatilityPercent: 70.0},
}

// pairKey identifies an unordered pair of symbols.
type pairKey struct{ a, b string }

func keyOf(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

// knownCorrelations are domain approximations, not estimates from market data.
var knownCorrelations = map[pairKey]float64{
	keyOf(AssetCDI, AssetIPCA):  0.65,
	keyOf(AssetIBOV, AssetUSD):  -0.55,
	keyOf(AssetIBOV, AssetBTC):  0.35,
	keyOf(AssetUSD, AssetGold):  0.45,
	keyOf(AssetCDI, AssetIBOV):  -0.25,
	keyOf(AssetIPCA, AssetIBOV): 0.40,
	keyOf(AssetGold, AssetBTC):  0.20,
}

// AssetUniverse returns a copy of the default asset table.
func AssetUniverse() []domain.Asset {
	out := make([]domain.Asset, len(assetUniverse))
	copy(out, assetUniverse)
	return out
}

// KnownCorrelation reports the heuristic constant for a pair, in either order.
func KnownCorrelation(a, b string) (float64, bool) {
	c, ok := knownCorrelations[keyOf(a, b)]
	return c, ok
}
