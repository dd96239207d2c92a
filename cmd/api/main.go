package main

import (
	"log"

	"github.com/Amanmohammed1/structura-portfolio-sub000/api"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/app"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/backtest"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/logger"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/util"
)

func main() {
	settings, err := util.LoadSettings()
	if err != nil {
		log.Fatal(err)
	}

	l := logger.New()
	apiHandler := api.ApiHandler{
		Logger: l,
		AnalysisHandler: app.AnalysisHandler{
			Logger:                   l,
			MinLengthRatio:           settings.MinLengthRatio,
			HighCorrelationThreshold: settings.HighCorrelationThreshold,
			BacktestConfig: backtest.Config{
				TradingDaysPerYear: settings.TradingDaysPerYear,
				RiskFreeRate:       settings.RiskFreeRate,
			},
		},
	}

	if err := apiHandler.StartApi(settings.ApiPort); err != nil {
		log.Fatal(err)
	}
}
