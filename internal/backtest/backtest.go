package backtest

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"
)

const (
	DefaultTradingDaysPerYear = 252.0
	DefaultRiskFreeRate       = 0.0
)

// Config carries the annualization constants for metric computation.
// RiskFreeRate is annual; it is divided down to a per-day rate using
// TradingDaysPerYear.
type Config struct {
	TradingDaysPerYear float64
	RiskFreeRate       float64
}

func (c Config) withDefaults() Config {
	if c.TradingDaysPerYear <= 0 {
		c.TradingDaysPerYear = DefaultTradingDaysPerYear
	}
	return c
}

// Metrics summarizes one strategy's historical performance.
type Metrics struct {
	TotalReturn          float64 `json:"totalReturn"`
	CAGR                 float64 `json:"cagr"`
	AnnualizedVolatility float64 `json:"annualizedVolatility"`
	SharpeRatio          float64 `json:"sharpeRatio"`
	SortinoRatio         float64 `json:"sortinoRatio"`
	MaxDrawdown          float64 `json:"maxDrawdown"`
	CalmarRatio          float64 `json:"calmarRatio"`
}

// MarshalJSON renders non-finite ratios (the Sortino +Inf sentinel and
// degenerate Sharpe values) as null instead of failing the encoder.
func (m Metrics) MarshalJSON() ([]byte, error) {
	finiteOrNull := func(f float64) *float64 {
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil
		}
		return &f
	}
	return json.Marshal(map[string]*float64{
		"totalReturn":          finiteOrNull(m.TotalReturn),
		"cagr":                 finiteOrNull(m.CAGR),
		"annualizedVolatility": finiteOrNull(m.AnnualizedVolatility),
		"sharpeRatio":          finiteOrNull(m.SharpeRatio),
		"sortinoRatio":         finiteOrNull(m.SortinoRatio),
		"maxDrawdown":          finiteOrNull(m.MaxDrawdown),
		"calmarRatio":          finiteOrNull(m.CalmarRatio),
	})
}

// Result is one strategy's full backtest: its daily and cumulative return
// series over the aligned dates, plus summary metrics.
type Result struct {
	Strategy     string      `json:"strategy"`
	Dates        []time.Time `json:"dates"`
	DailyReturns []float64   `json:"dailyReturns"`
	Cumulative   []float64   `json:"cumulative"`
	Metrics      Metrics     `json:"metrics"`
}

// Run evaluates a weight vector against an aligned simple-returns matrix
// (rows = time steps, columns = assets) over the given dates.
func Run(strategy string, weights []float64, simpleReturns [][]float64, dates []time.Time, cfg Config) (*Result, error) {
	if len(simpleReturns) == 0 {
		return nil, fmt.Errorf("cannot backtest %s with an empty return matrix", strategy)
	}
	if len(simpleReturns[0]) != len(weights) {
		return nil, fmt.Errorf("weight vector has %d entries but return matrix has %d columns", len(weights), len(simpleReturns[0]))
	}
	if len(dates) != len(simpleReturns) {
		return nil, fmt.Errorf("date axis has %d entries but return matrix has %d rows", len(dates), len(simpleReturns))
	}
	cfg = cfg.withDefaults()

	daily := PortfolioReturns(weights, simpleReturns)
	cumulative := CumulativeReturns(daily)
	metrics, err := ComputeMetrics(daily, cumulative, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute metrics for %s: %w", strategy, err)
	}

	return &Result{
		Strategy:     strategy,
		Dates:        dates,
		DailyReturns: daily,
		Cumulative:   cumulative,
		Metrics:      *metrics,
	}, nil
}

// PortfolioReturns computes the weighted sum of asset returns at each
// time step.
func PortfolioReturns(weights []float64, simpleReturns [][]float64) []float64 {
	daily := make([]float64, len(simpleReturns))
	for t, row := range simpleReturns {
		var sum float64
		for i, r := range row {
			sum += weights[i] * r
		}
		daily[t] = sum
	}
	return daily
}

// CumulativeReturns compounds daily returns starting at 1.0:
// cum[0] = 1 and cum[t] = cum[t−1] × (1 + r[t]).
func CumulativeReturns(daily []float64) []float64 {
	cumulative := make([]float64, len(daily))
	if len(daily) == 0 {
		return cumulative
	}
	cumulative[0] = 1
	for t := 1; t < len(daily); t++ {
		cumulative[t] = cumulative[t-1] * (1 + daily[t])
	}
	return cumulative
}

// ComputeMetrics derives the summary metrics from a daily return series
// and its cumulative counterpart. Ratios with a zero denominator resolve
// to 0 by convention; the one exception is Sortino with no negative
// excess days, which returns +Inf to signal "no measured downside risk"
// rather than "zero risk".
func ComputeMetrics(daily, cumulative []float64, cfg Config) (*Metrics, error) {
	if len(daily) == 0 || len(cumulative) == 0 {
		return nil, fmt.Errorf("cannot compute metrics on an empty return series")
	}
	cfg = cfg.withDefaults()

	totalCumulative := cumulative[len(cumulative)-1]
	totalReturn := totalCumulative - 1

	years := float64(len(daily)) / cfg.TradingDaysPerYear
	cagr := 0.0
	if years > 0 && totalCumulative > 0 {
		cagr = math.Pow(totalCumulative, 1/years) - 1
	}

	stdev := 0.0
	if len(daily) > 1 {
		var err error
		stdev, err = stats.StandardDeviationSample(daily)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate stdev: %w", err)
		}
	}
	annualizedVolatility := stdev * math.Sqrt(cfg.TradingDaysPerYear)

	dailyRiskFree := cfg.RiskFreeRate / cfg.TradingDaysPerYear
	meanExcess := 0.0
	for _, r := range daily {
		meanExcess += r - dailyRiskFree
	}
	meanExcess /= float64(len(daily))

	// Zero volatility with zero excess return is a flat strategy and
	// scores 0; zero volatility with nonzero excess return keeps the
	// sign of the excess so a guaranteed loss never scores better than
	// a risky one.
	sharpe := 0.0
	if stdev > 0 {
		sharpe = meanExcess / stdev * math.Sqrt(cfg.TradingDaysPerYear)
	} else if meanExcess != 0 {
		sharpe = math.Inf(1)
		if meanExcess < 0 {
			sharpe = math.Inf(-1)
		}
	}

	sortino := sortinoRatio(daily, dailyRiskFree, meanExcess, cfg.TradingDaysPerYear)

	maxDrawdown := MaxDrawdown(cumulative)

	calmar := 0.0
	if maxDrawdown > 0 {
		calmar = cagr / maxDrawdown
	}

	return &Metrics{
		TotalReturn:          totalReturn,
		CAGR:                 cagr,
		AnnualizedVolatility: annualizedVolatility,
		SharpeRatio:          sharpe,
		SortinoRatio:         sortino,
		MaxDrawdown:          maxDrawdown,
		CalmarRatio:          calmar,
	}, nil
}

// sortinoRatio divides mean excess return by downside deviation, the
// root-mean-square of excess returns on negative-excess days only.
func sortinoRatio(daily []float64, dailyRiskFree, meanExcess, tradingDays float64) float64 {
	var sumSquares float64
	negativeDays := 0
	for _, r := range daily {
		excess := r - dailyRiskFree
		if excess < 0 {
			sumSquares += excess * excess
			negativeDays++
		}
	}
	if negativeDays == 0 {
		return math.Inf(1)
	}
	downside := math.Sqrt(sumSquares / float64(negativeDays))
	if downside == 0 {
		return 0
	}
	return meanExcess / downside * math.Sqrt(tradingDays)
}

// MaxDrawdown is the largest relative decline from any running peak of
// the cumulative series, in [0, 1] for series starting at 1.
func MaxDrawdown(cumulative []float64) float64 {
	if len(cumulative) == 0 {
		return 0
	}
	peak := cumulative[0]
	maxDrawdown := 0.0
	for _, value := range cumulative {
		if value > peak {
			peak = value
		}
		if peak > 0 {
			drawdown := (peak - value) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}
	return maxDrawdown
}
