package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// StrategyWeight is one asset's allocation under a weighting strategy.
type StrategyWeight struct {
	Symbol  string  `json:"symbol"`
	Weight  float64 `json:"weight"`
	Percent string  `json:"percent"`
}

// WeightSet holds a full allocation, sorted descending by weight.
type WeightSet []StrategyWeight

// NewWeightSet pairs symbols with weights, formats each weight as a
// percentage, and sorts descending. Ties sort by symbol so output is
// stable across runs.
func NewWeightSet(symbols []string, weights []float64) WeightSet {
	set := make(WeightSet, len(symbols))
	for i, symbol := range symbols {
		set[i] = StrategyWeight{
			Symbol:  symbol,
			Weight:  weights[i],
			Percent: decimal.NewFromFloat(weights[i] * 100).Round(2).String() + "%",
		}
	}
	sort.Slice(set, func(i, j int) bool {
		if set[i].Weight != set[j].Weight {
			return set[i].Weight > set[j].Weight
		}
		return set[i].Symbol < set[j].Symbol
	})
	return set
}

// ExcludedAsset records an asset dropped during return alignment because
// its history was too short relative to its peers.
type ExcludedAsset struct {
	Symbol         string `json:"symbol"`
	Length         int    `json:"length"`
	RequiredLength int    `json:"requiredLength"`
}

// CorrelationPair flags two assets whose return correlation exceeds a
// reporting threshold.
type CorrelationPair struct {
	SymbolA     string  `json:"symbolA"`
	SymbolB     string  `json:"symbolB"`
	Correlation float64 `json:"correlation"`
}
