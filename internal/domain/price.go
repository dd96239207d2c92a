package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one close observation for an asset. Series are expected
// to be sorted ascending by date, oldest first.
type PricePoint struct {
	Date  time.Time
	Close decimal.Decimal
}

type PriceSeries []PricePoint

func (p PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(p))
	for i, point := range p {
		dates[i] = point.Date
	}
	return dates
}

// Closes returns the close values as floats, in series order.
func (p PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p))
	for i, point := range p {
		closes[i] = point.Close.InexactFloat64()
	}
	return closes
}
