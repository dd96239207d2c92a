package hrp

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/domain"
)

// ErrInsufficientAssets is returned when fewer than two assets survive
// alignment filtering. Callers should surface it verbatim.
var ErrInsufficientAssets = errors.New("insufficient assets after alignment filtering")

// ReturnKind selects the return semantics. Log returns feed the
// correlation/covariance estimators; simple returns feed the backtest,
// where compounding has to match economic interpretation.
type ReturnKind int

const (
	LogReturns ReturnKind = iota
	SimpleReturns
)

const DefaultMinLengthRatio = 0.5

// AlignedReturns is a T×N return matrix over a shared, contiguous,
// most-recent date range, plus the assets that were dropped to get there.
type AlignedReturns struct {
	Symbols  []string
	Dates    []time.Time
	Returns  [][]float64 // rows = time steps, columns = assets
	Excluded []domain.ExcludedAsset
}

// ComputeReturns derives a return series from a price series, skipping
// any step where either price is non-positive. The date attached to each
// return is the later date of the pair.
func ComputeReturns(prices domain.PriceSeries, kind ReturnKind) ([]float64, []time.Time) {
	returns := make([]float64, 0, len(prices))
	dates := make([]time.Time, 0, len(prices))
	for t := 1; t < len(prices); t++ {
		prev := prices[t-1].Close.InexactFloat64()
		curr := prices[t].Close.InexactFloat64()
		if prev <= 0 || curr <= 0 {
			continue
		}
		switch kind {
		case LogReturns:
			returns = append(returns, math.Log(curr/prev))
		case SimpleReturns:
			returns = append(returns, curr/prev-1)
		}
		dates = append(dates, prices[t].Date)
	}
	return returns, dates
}

// AlignReturns converts each asset's prices to returns and aligns all
// series onto a common time axis: assets whose return history is shorter
// than minLengthRatio of the longest history are excluded, and the
// survivors are truncated to the shortest surviving length keeping the
// most recent observations.
func AlignReturns(prices map[string]domain.PriceSeries, kind ReturnKind, minLengthRatio float64) (*AlignedReturns, error) {
	if minLengthRatio <= 0 {
		minLengthRatio = DefaultMinLengthRatio
	}

	symbols := make([]string, 0, len(prices))
	for symbol := range prices {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	seriesBySymbol := map[string][]float64{}
	datesBySymbol := map[string][]time.Time{}
	maxLength := 0
	for _, symbol := range symbols {
		returns, dates := ComputeReturns(prices[symbol], kind)
		seriesBySymbol[symbol] = returns
		datesBySymbol[symbol] = dates
		if len(returns) > maxLength {
			maxLength = len(returns)
		}
	}

	requiredLength := int(math.Ceil(float64(maxLength) * minLengthRatio))

	surviving := make([]string, 0, len(symbols))
	excluded := []domain.ExcludedAsset{}
	minLength := maxLength
	for _, symbol := range symbols {
		length := len(seriesBySymbol[symbol])
		if length == 0 || length < requiredLength {
			excluded = append(excluded, domain.ExcludedAsset{
				Symbol:         symbol,
				Length:         length,
				RequiredLength: requiredLength,
			})
			continue
		}
		surviving = append(surviving, symbol)
		if length < minLength {
			minLength = length
		}
	}

	if len(surviving) < 2 {
		return nil, fmt.Errorf("%w: %d of %d assets survived", ErrInsufficientAssets, len(surviving), len(symbols))
	}

	// Right-align every surviving series to the shortest one, keeping
	// the most recent observations.
	aligned := make([][]float64, minLength)
	for t := range aligned {
		aligned[t] = make([]float64, len(surviving))
	}
	for col, symbol := range surviving {
		series := seriesBySymbol[symbol]
		offset := len(series) - minLength
		for t := 0; t < minLength; t++ {
			aligned[t][col] = series[offset+t]
		}
	}

	// The date axis comes from the longest surviving series so every row
	// maps onto an actual trading date of the most complete asset.
	var dates []time.Time
	for _, symbol := range surviving {
		if len(datesBySymbol[symbol]) > len(dates) {
			dates = datesBySymbol[symbol]
		}
	}
	dates = dates[len(dates)-minLength:]

	return &AlignedReturns{
		Symbols:  surviving,
		Dates:    dates,
		Returns:  aligned,
		Excluded: excluded,
	}, nil
}

// Column extracts one asset's return series from the aligned matrix.
func (a *AlignedReturns) Column(col int) []float64 {
	series := make([]float64, len(a.Returns))
	for t, row := range a.Returns {
		series[t] = row[col]
	}
	return series
}
