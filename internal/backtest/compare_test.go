package backtest

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Compare(t *testing.T) {
	start := util.NewDate(2022, 1, 3)
	simpleReturns := [][]float64{
		{0.01, 0.02},
		{-0.01, 0.00},
		{0.03, -0.02},
		{0.00, 0.01},
	}
	dates := tradingDates(start, 4)
	strategies := []Strategy{
		{Name: "hrp", Weights: []float64{0.6, 0.4}},
		{Name: "equalWeight", Weights: []float64{0.5, 0.5}},
	}

	t.Run("without benchmark", func(t *testing.T) {
		comparison, err := Compare(strategies, simpleReturns, dates, nil, Config{})
		require.NoError(t, err)

		require.Len(t, comparison.Results, 2)
		require.Contains(t, comparison.Table, "hrp")
		require.Contains(t, comparison.Table, "equalWeight")
		for _, result := range comparison.Results {
			assert.Equal(t, 1.0, result.Cumulative[0])
			assert.Len(t, result.Dates, 4)
		}
	})

	t.Run("with benchmark as single-asset strategy", func(t *testing.T) {
		benchmark := &BenchmarkSeries{
			Name:    "SPY",
			Returns: []float64{0.005, -0.002, 0.01, 0.0},
		}
		comparison, err := Compare(strategies, simpleReturns, dates, benchmark, Config{})
		require.NoError(t, err)

		require.Len(t, comparison.Results, 3)
		require.Contains(t, comparison.Table, "SPY")

		spy := comparison.Results[2]
		assert.Equal(t, "SPY", spy.Strategy)
		// 100% weight on the benchmark's own returns
		assert.InDelta(t, benchmark.Returns[0], spy.DailyReturns[0], 1e-12)
	})

	t.Run("benchmark length mismatch", func(t *testing.T) {
		benchmark := &BenchmarkSeries{Name: "SPY", Returns: []float64{0.005}}
		_, err := Compare(strategies, simpleReturns, dates, benchmark, Config{})
		require.Error(t, err)
	})
}

func Test_Metrics_MarshalJSON(t *testing.T) {
	metrics := Metrics{
		TotalReturn:  0.5,
		SortinoRatio: math.Inf(1),
	}
	bytes, err := json.Marshal(metrics)
	require.NoError(t, err)

	var decoded map[string]*float64
	require.NoError(t, json.Unmarshal(bytes, &decoded))
	require.NotNil(t, decoded["totalReturn"])
	assert.Equal(t, 0.5, *decoded["totalReturn"])
	assert.Nil(t, decoded["sortinoRatio"], "infinite sortino marshals as null")
}
