package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/app"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/backtest"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/data"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/domain"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/logger"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/util"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hrp",
		Short:         "Hierarchical Risk Parity portfolio analytics",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(analyzeCmd(), compareCmd())
	return cmd
}

func newHandler(minRatio float64) (app.AnalysisHandler, error) {
	settings, err := util.LoadSettings()
	if err != nil {
		return app.AnalysisHandler{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if minRatio > 0 {
		settings.MinLengthRatio = minRatio
	}
	return app.AnalysisHandler{
		Logger:                   logger.New(),
		MinLengthRatio:           settings.MinLengthRatio,
		HighCorrelationThreshold: settings.HighCorrelationThreshold,
		BacktestConfig: backtest.Config{
			TradingDaysPerYear: settings.TradingDaysPerYear,
			RiskFreeRate:       settings.RiskFreeRate,
		},
	}, nil
}

func analyzeCmd() *cobra.Command {
	var (
		pricesDir string
		minRatio  float64
		asJson    bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute HRP weights and risk contributions from CSV price history",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := newHandler(minRatio)
			if err != nil {
				return err
			}
			prices, err := data.LoadPriceDir(pricesDir)
			if err != nil {
				return err
			}
			result, err := handler.Analyze(prices)
			if err != nil {
				return err
			}
			if asJson {
				return printJson(result)
			}
			printWeights("HRP", result.HRPWeights, result.RiskContributions)
			printWeights("Equal weight", result.EqualWeights, nil)
			printWeights("Inverse variance", result.InverseVarWeights, nil)
			for _, excluded := range result.Excluded {
				fmt.Printf("excluded %s: %d observations, need %d\n", excluded.Symbol, excluded.Length, excluded.RequiredLength)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pricesDir, "prices", "prices", "directory of per-symbol date,close csv files")
	cmd.Flags().Float64Var(&minRatio, "min-ratio", 0, "minimum history length ratio for inclusion (default from settings)")
	cmd.Flags().BoolVar(&asJson, "json", false, "print the full analysis result as json")
	return cmd
}

func compareCmd() *cobra.Command {
	var (
		pricesDir     string
		benchmarkFile string
		minRatio      float64
		asJson        bool
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Backtest HRP against equal-weight and inverse-variance baselines",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := newHandler(minRatio)
			if err != nil {
				return err
			}
			prices, err := data.LoadPriceDir(pricesDir)
			if err != nil {
				return err
			}
			var benchmark domain.PriceSeries
			benchmarkName := ""
			if benchmarkFile != "" {
				benchmark, err = data.LoadPriceSeries(benchmarkFile)
				if err != nil {
					return err
				}
				benchmarkName = "benchmark"
			}
			result, err := handler.Compare(prices, benchmarkName, benchmark)
			if err != nil {
				return err
			}
			if asJson {
				return printJson(result)
			}
			printMetricsTable(result.Comparison.Results)
			return nil
		},
	}
	cmd.Flags().StringVar(&pricesDir, "prices", "prices", "directory of per-symbol date,close csv files")
	cmd.Flags().StringVar(&benchmarkFile, "benchmark", "", "optional benchmark index csv file")
	cmd.Flags().Float64Var(&minRatio, "min-ratio", 0, "minimum history length ratio for inclusion (default from settings)")
	cmd.Flags().BoolVar(&asJson, "json", false, "print the full comparison result as json")
	return cmd
}

func printWeights(name string, weights domain.WeightSet, contributions map[string]float64) {
	fmt.Printf("\n%s:\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, entry := range weights {
		if contributions != nil {
			fmt.Fprintf(w, "  %s\t%s\trisk %.1f%%\n", entry.Symbol, entry.Percent, contributions[entry.Symbol]*100)
		} else {
			fmt.Fprintf(w, "  %s\t%s\n", entry.Symbol, entry.Percent)
		}
	}
	w.Flush()
}

func printMetricsTable(results []backtest.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "strategy\ttotal\tcagr\tvol\tsharpe\tsortino\tmaxDD\tcalmar")
	for _, result := range results {
		m := result.Metrics
		fmt.Fprintf(w, "%s\t%.2f%%\t%.2f%%\t%.2f%%\t%.2f\t%.2f\t%.2f%%\t%.2f\n",
			result.Strategy,
			m.TotalReturn*100,
			m.CAGR*100,
			m.AnnualizedVolatility*100,
			m.SharpeRatio,
			m.SortinoRatio,
			m.MaxDrawdown*100,
			m.CalmarRatio,
		)
	}
	w.Flush()
}

func printJson(i interface{}) error {
	bytes, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(bytes))
	return nil
}
