package backtest

import (
	"fmt"
	"time"
)

// Strategy names a candidate weight vector over the aligned asset set.
type Strategy struct {
	Name    string
	Weights []float64
}

// Comparison is the side-by-side evaluation of several strategies over an
// identical aligned date range.
type Comparison struct {
	Results []Result           `json:"results"`
	Table   map[string]Metrics `json:"table"`
}

// Compare backtests every strategy over the same simple-returns matrix
// and assembles a metric-by-strategy table. A benchmark series, when
// present, is treated as a single-asset strategy holding 100% of the
// benchmark; its return series must already be aligned to the same dates.
func Compare(strategies []Strategy, simpleReturns [][]float64, dates []time.Time, benchmark *BenchmarkSeries, cfg Config) (*Comparison, error) {
	comparison := &Comparison{
		Results: make([]Result, 0, len(strategies)+1),
		Table:   map[string]Metrics{},
	}

	for _, strategy := range strategies {
		result, err := Run(strategy.Name, strategy.Weights, simpleReturns, dates, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to backtest strategy %s: %w", strategy.Name, err)
		}
		comparison.Results = append(comparison.Results, *result)
		comparison.Table[strategy.Name] = result.Metrics
	}

	if benchmark != nil {
		if len(benchmark.Returns) != len(dates) {
			return nil, fmt.Errorf("benchmark has %d returns but the aligned range has %d dates", len(benchmark.Returns), len(dates))
		}
		column := make([][]float64, len(benchmark.Returns))
		for t, r := range benchmark.Returns {
			column[t] = []float64{r}
		}
		result, err := Run(benchmark.Name, []float64{1}, column, dates, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to backtest benchmark %s: %w", benchmark.Name, err)
		}
		comparison.Results = append(comparison.Results, *result)
		comparison.Table[benchmark.Name] = result.Metrics
	}

	return comparison, nil
}

// BenchmarkSeries is an external index evaluated alongside the portfolio
// strategies, expressed as simple returns aligned to the comparison's
// date range.
type BenchmarkSeries struct {
	Name    string
	Returns []float64
}
