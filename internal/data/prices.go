package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/domain"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/util"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

type priceRow struct {
	Date  string  `csv:"date"`
	Close float64 `csv:"close"`
}

// LoadPriceSeries parses one per-symbol CSV file with a date,close
// header into a price series sorted ascending by date.
func LoadPriceSeries(path string) (domain.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price file %s: %w", path, err)
	}
	defer f.Close()

	rows := []*priceRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse price file %s: %w", path, err)
	}

	series := make(domain.PriceSeries, 0, len(rows))
	for _, row := range rows {
		date, err := util.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q in %s: %w", row.Date, path, err)
		}
		series = append(series, domain.PricePoint{
			Date:  date,
			Close: decimal.NewFromFloat(row.Close),
		})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series, nil
}

// LoadPriceDir loads every *.csv file in a directory, keyed by the
// filename without extension as the asset symbol.
func LoadPriceDir(dir string) (map[string]domain.PriceSeries, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read price directory %s: %w", dir, err)
	}

	prices := map[string]domain.PriceSeries{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		symbol := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		series, err := LoadPriceSeries(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		prices[strings.ToUpper(symbol)] = series
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("no csv price files found in %s", dir)
	}
	return prices, nil
}
