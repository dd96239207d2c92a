package api

import (
	"errors"
	"fmt"

	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/domain"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/hrp"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PriceRecord struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

type AnalyzeRequest struct {
	Prices map[string][]PriceRecord `json:"prices"`
}

func (h ApiHandler) analyze(c *gin.Context) {
	var requestBody AnalyzeRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.returnErrorJsonCode(err, c, 400)
		return
	}

	prices, err := toPriceSeries(requestBody.Prices)
	if err != nil {
		h.returnErrorJsonCode(err, c, 400)
		return
	}

	result, err := h.AnalysisHandler.Analyze(prices)
	if errors.Is(err, hrp.ErrInsufficientAssets) {
		h.returnErrorJsonCode(err, c, 422)
		return
	} else if err != nil {
		h.returnErrorJson(err, c)
		return
	}

	c.JSON(200, result)
}

func toPriceSeries(in map[string][]PriceRecord) (map[string]domain.PriceSeries, error) {
	if len(in) < 2 {
		return nil, fmt.Errorf("need price history for at least 2 assets, got %d", len(in))
	}
	prices := map[string]domain.PriceSeries{}
	for symbol, records := range in {
		series := make(domain.PriceSeries, 0, len(records))
		for _, record := range records {
			date, err := util.ParseDate(record.Date)
			if err != nil {
				return nil, fmt.Errorf("invalid date %q for %s: %w", record.Date, symbol, err)
			}
			series = append(series, domain.PricePoint{
				Date:  date,
				Close: decimal.NewFromFloat(record.Close),
			})
		}
		prices[symbol] = series
	}
	return prices, nil
}
