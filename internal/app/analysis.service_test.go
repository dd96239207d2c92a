package app

import (
	"math"
	"sort"
	"testing"
	"time"

	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/backtest"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/domain"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/hrp"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testHandler() AnalysisHandler {
	return AnalysisHandler{
		Logger:                   zap.NewNop().Sugar(),
		MinLengthRatio:           0.5,
		HighCorrelationThreshold: 0.8,
		BacktestConfig:           backtest.Config{TradingDaysPerYear: 252},
	}
}

// syntheticPrices builds a deterministic multi-asset price history with
// distinct volatility and drift per asset.
func syntheticPrices(start time.Time, days int) map[string]domain.PriceSeries {
	defs := []struct {
		symbol string
		base   float64
		drift  float64
		wobble float64
		period float64
	}{
		{"AAA", 100, 0.0004, 0.010, 9},
		{"BBB", 50, 0.0003, 0.011, 9.5},
		{"CCC", 200, 0.0002, 0.002, 17},
		{"DDD", 80, 0.0005, 0.004, 23},
	}

	prices := map[string]domain.PriceSeries{}
	for _, def := range defs {
		series := make(domain.PriceSeries, days)
		value := def.base
		for d := 0; d < days; d++ {
			value *= 1 + def.drift + def.wobble*math.Sin(float64(d)/def.period)
			series[d] = domain.PricePoint{
				Date:  start.AddDate(0, 0, d),
				Close: decimal.NewFromFloat(value),
			}
		}
		prices[def.symbol] = series
	}
	return prices
}

func Test_Analyze(t *testing.T) {
	handler := testHandler()
	start := util.NewDate(2023, 1, 2)
	prices := syntheticPrices(start, 120)

	result, err := handler.Analyze(prices)
	require.NoError(t, err)

	n := len(result.Symbols)
	require.Equal(t, 4, n)

	t.Run("matrices are well formed", func(t *testing.T) {
		require.Len(t, result.Correlation, n)
		require.Len(t, result.Covariance, n)
		require.Len(t, result.Distance, n)
		for i := 0; i < n; i++ {
			assert.Equal(t, 1.0, result.Correlation[i][i])
			assert.Equal(t, 0.0, result.Distance[i][i])
			assert.GreaterOrEqual(t, result.Covariance[i][i], 0.0)
		}
	})

	t.Run("linkage and order", func(t *testing.T) {
		require.Len(t, result.Linkage, n-1)

		sorted := append([]int{}, result.QuasiDiagonal...)
		sort.Ints(sorted)
		require.Equal(t, []int{0, 1, 2, 3}, sorted)
	})

	t.Run("weight sets sum to 1 sorted descending", func(t *testing.T) {
		for _, set := range []domain.WeightSet{result.HRPWeights, result.EqualWeights, result.InverseVarWeights} {
			require.Len(t, set, n)
			sum := 0.0
			for i, entry := range set {
				assert.GreaterOrEqual(t, entry.Weight, 0.0)
				sum += entry.Weight
				if i > 0 {
					assert.LessOrEqual(t, entry.Weight, set[i-1].Weight)
				}
			}
			assert.InDelta(t, 1, sum, 1e-9)
		}
		for _, entry := range result.EqualWeights {
			assert.Equal(t, 0.25, entry.Weight)
		}
	})

	t.Run("risk contributions sum to 1", func(t *testing.T) {
		sum := 0.0
		for _, c := range result.RiskContributions {
			sum += c
		}
		assert.InDelta(t, 1, sum, 1e-9)
	})

	t.Run("aligned views agree", func(t *testing.T) {
		require.Equal(t, len(result.Dates), len(result.SimpleReturns))
		require.NotEmpty(t, result.Dates)
	})
}

func Test_Analyze_ExcludesShortHistory(t *testing.T) {
	handler := testHandler()
	start := util.NewDate(2023, 1, 2)
	prices := syntheticPrices(start, 120)

	short := make(domain.PriceSeries, 10)
	for d := range short {
		short[d] = domain.PricePoint{
			Date:  start.AddDate(0, 0, 110+d),
			Close: decimal.NewFromFloat(10 + float64(d)),
		}
	}
	prices["EEE"] = short

	result, err := handler.Analyze(prices)
	require.NoError(t, err)
	require.NotContains(t, result.Symbols, "EEE")
	require.Len(t, result.Excluded, 1)
	assert.Equal(t, "EEE", result.Excluded[0].Symbol)
	assert.Equal(t, 9, result.Excluded[0].Length)
}

func Test_Analyze_InsufficientAssets(t *testing.T) {
	handler := testHandler()
	start := util.NewDate(2023, 1, 2)

	prices := map[string]domain.PriceSeries{}
	for symbol, series := range syntheticPrices(start, 120) {
		if symbol == "AAA" {
			prices[symbol] = series
		}
	}
	_, err := handler.Analyze(prices)
	require.ErrorIs(t, err, hrp.ErrInsufficientAssets)
}

func Test_Compare(t *testing.T) {
	handler := testHandler()
	start := util.NewDate(2023, 1, 2)
	prices := syntheticPrices(start, 120)

	t.Run("three strategies without benchmark", func(t *testing.T) {
		result, err := handler.Compare(prices, "", nil)
		require.NoError(t, err)

		require.Len(t, result.Comparison.Results, 3)
		require.Contains(t, result.Comparison.Table, StrategyHRP)
		require.Contains(t, result.Comparison.Table, StrategyEqualWeight)
		require.Contains(t, result.Comparison.Table, StrategyInverseVariance)

		for _, r := range result.Comparison.Results {
			require.Equal(t, 1.0, r.Cumulative[0])
			require.Len(t, r.DailyReturns, len(result.Analysis.Dates))
		}
	})

	t.Run("with benchmark", func(t *testing.T) {
		benchmark := make(domain.PriceSeries, 120)
		value := 400.0
		for d := 0; d < 120; d++ {
			value *= 1 + 0.0003
			benchmark[d] = domain.PricePoint{
				Date:  start.AddDate(0, 0, d),
				Close: decimal.NewFromFloat(value),
			}
		}

		result, err := handler.Compare(prices, "SPY", benchmark)
		require.NoError(t, err)
		require.Len(t, result.Comparison.Results, 4)
		require.Contains(t, result.Comparison.Table, "SPY")
	})
}
