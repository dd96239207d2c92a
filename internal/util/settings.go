package util

import (
	"encoding/json"
	"fmt"
	"os"
)

// Settings holds the tunable constants for the analysis pipeline and the
// API server. Zero values fall back to package defaults downstream.
type Settings struct {
	ApiPort                  int     `json:"apiPort"`
	TradingDaysPerYear       float64 `json:"tradingDaysPerYear"`
	RiskFreeRate             float64 `json:"riskFreeRate"`
	MinLengthRatio           float64 `json:"minLengthRatio"`
	HighCorrelationThreshold float64 `json:"highCorrelationThreshold"`
}

func DefaultSettings() Settings {
	return Settings{
		ApiPort:                  3009,
		TradingDaysPerYear:       252,
		RiskFreeRate:             0.0,
		MinLengthRatio:           0.5,
		HighCorrelationThreshold: 0.8,
	}
}

// LoadSettings reads settings from STRUCTURA_SETTINGS if set, otherwise
// settings.json in the working directory. A missing file is not an error;
// defaults apply.
func LoadSettings() (*Settings, error) {
	settingsFile := "settings.json"
	if path := os.Getenv("STRUCTURA_SETTINGS"); path != "" {
		settingsFile = path
	}

	settings := DefaultSettings()
	f, err := os.ReadFile(settingsFile)
	if os.IsNotExist(err) {
		return &settings, nil
	} else if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", settingsFile, err)
	}

	if err := json.Unmarshal(f, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", settingsFile, err)
	}
	return &settings, nil
}
