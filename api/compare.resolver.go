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

type CompareRequest struct {
	Prices          map[string][]PriceRecord `json:"prices"`
	BenchmarkSymbol string                   `json:"benchmarkSymbol"`
	Benchmark       []PriceRecord            `json:"benchmark"`
}

func (h ApiHandler) compare(c *gin.Context) {
	var requestBody CompareRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.returnErrorJsonCode(err, c, 400)
		return
	}

	prices, err := toPriceSeries(requestBody.Prices)
	if err != nil {
		h.returnErrorJsonCode(err, c, 400)
		return
	}

	benchmarkName := requestBody.BenchmarkSymbol
	if benchmarkName == "" && len(requestBody.Benchmark) > 0 {
		benchmarkName = "benchmark"
	}
	benchmark := make(domain.PriceSeries, 0, len(requestBody.Benchmark))
	for _, record := range requestBody.Benchmark {
		date, err := util.ParseDate(record.Date)
		if err != nil {
			h.returnErrorJsonCode(fmt.Errorf("invalid benchmark date %q: %w", record.Date, err), c, 400)
			return
		}
		benchmark = append(benchmark, domain.PricePoint{
			Date:  date,
			Close: decimal.NewFromFloat(record.Close),
		})
	}

	result, err := h.AnalysisHandler.Compare(prices, benchmarkName, benchmark)
	if errors.Is(err, hrp.ErrInsufficientAssets) {
		h.returnErrorJsonCode(err, c, 422)
		return
	} else if err != nil {
		h.returnErrorJson(err, c)
		return
	}

	c.JSON(200, result)
}
