package app

import (
	"fmt"
	"time"

	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/backtest"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/domain"
	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/hrp"
	"go.uber.org/zap"
)

const (
	StrategyHRP             = "hrp"
	StrategyEqualWeight     = "equalWeight"
	StrategyInverseVariance = "inverseVariance"
)

// AnalysisHandler composes the HRP pipeline stages into one analysis call
// and one multi-strategy comparison call. Each invocation is a pure
// function of its price input, so handlers may be shared across
// concurrent requests without locks.
type AnalysisHandler struct {
	Logger                   *zap.SugaredLogger
	MinLengthRatio           float64
	HighCorrelationThreshold float64
	BacktestConfig           backtest.Config
}

// AnalysisResult is the full output of one HRP analysis, shaped for
// downstream reporting and visualization collaborators.
type AnalysisResult struct {
	Symbols           []string                   `json:"symbols"`
	Excluded          []domain.ExcludedAsset     `json:"excluded"`
	Correlation       [][]float64                `json:"correlation"`
	Covariance        [][]float64                `json:"covariance"`
	Distance          [][]float64                `json:"distance"`
	Linkage           []hrp.LinkageRecord        `json:"linkage"`
	Tree              *hrp.ClusterTree           `json:"tree"`
	QuasiDiagonal     []int                      `json:"quasiDiagonalOrder"`
	HRPWeights        domain.WeightSet           `json:"hrpWeights"`
	EqualWeights      domain.WeightSet           `json:"equalWeights"`
	InverseVarWeights domain.WeightSet           `json:"inverseVarianceWeights"`
	RiskContributions map[string]float64         `json:"riskContributions"`
	HighCorrelations  []domain.CorrelationPair   `json:"highCorrelations"`
	SimpleReturns     [][]float64                `json:"simpleReturns"`
	Dates             []time.Time                `json:"dates"`
	Profile           *domain.PerformanceProfile `json:"profile,omitempty"`

	// raw weight vectors in Symbols order, reused by the comparison call
	rawHRP        []float64
	rawEqual      []float64
	rawInverseVar []float64
}

// ComparisonResult pairs an analysis with the per-strategy backtests over
// the identical aligned date range.
type ComparisonResult struct {
	Analysis   *AnalysisResult      `json:"analysis"`
	Comparison *backtest.Comparison `json:"comparison"`
}

// Analyze runs the full pipeline: returns/alignment (log returns for the
// statistics, simple returns for the backtest view), correlation,
// covariance, distance, clustering, quasi-diagonalization, recursive
// bisection, baselines, and risk contributions.
func (h AnalysisHandler) Analyze(prices map[string]domain.PriceSeries) (*AnalysisResult, error) {
	profile := domain.NewPerformanceProfile()

	logAligned, err := hrp.AlignReturns(prices, hrp.LogReturns, h.MinLengthRatio)
	if err != nil {
		return nil, err
	}
	simpleAligned, err := hrp.AlignReturns(prices, hrp.SimpleReturns, h.MinLengthRatio)
	if err != nil {
		return nil, err
	}
	logAligned, simpleAligned, err = reconcileAlignments(logAligned, simpleAligned)
	if err != nil {
		return nil, err
	}
	profile.Add("alignment")

	for _, excluded := range logAligned.Excluded {
		h.Logger.Infow("excluded asset from analysis",
			"symbol", excluded.Symbol,
			"length", excluded.Length,
			"requiredLength", excluded.RequiredLength,
		)
	}

	symbols := logAligned.Symbols
	correlation := hrp.CorrelationMatrix(logAligned.Returns)
	covariance := hrp.CovarianceMatrix(logAligned.Returns)
	distance := hrp.DistanceMatrix(correlation)
	profile.Add("statistics")

	linkage, err := hrp.SingleLinkage(distance)
	if err != nil {
		return nil, fmt.Errorf("failed to cluster assets: %w", err)
	}
	tree, err := hrp.BuildClusterTree(len(symbols), linkage)
	if err != nil {
		return nil, fmt.Errorf("failed to build cluster tree: %w", err)
	}
	order := tree.QuasiDiagonalOrder()
	profile.Add("clustering")

	hrpWeights, err := hrp.RecursiveBisection(covariance, order)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate weights: %w", err)
	}
	equalWeights := hrp.EqualWeights(len(symbols))
	inverseVarWeights := hrp.InverseVarianceWeights(covariance)

	contributions, err := hrp.RiskContributions(hrpWeights, covariance)
	if err != nil {
		return nil, fmt.Errorf("failed to compute risk contributions: %w", err)
	}
	contributionsBySymbol := map[string]float64{}
	for i, symbol := range symbols {
		contributionsBySymbol[symbol] = contributions[i]
	}
	profile.Add("allocation")

	threshold := h.HighCorrelationThreshold
	if threshold <= 0 {
		threshold = 0.8
	}
	highCorrelations := []domain.CorrelationPair{}
	for _, pair := range hrp.HighCorrelationPairs(correlation, threshold) {
		highCorrelations = append(highCorrelations, domain.CorrelationPair{
			SymbolA:     symbols[pair[0]],
			SymbolB:     symbols[pair[1]],
			Correlation: correlation[pair[0]][pair[1]],
		})
	}

	profile.End()
	h.Logger.Infow("analysis complete",
		"assets", len(symbols),
		"observations", len(logAligned.Returns),
		"excluded", len(logAligned.Excluded),
		"totalMs", profile.TotalMs,
	)

	return &AnalysisResult{
		Symbols:           symbols,
		Excluded:          logAligned.Excluded,
		Correlation:       correlation,
		Covariance:        covariance,
		Distance:          distance,
		Linkage:           linkage,
		Tree:              tree,
		QuasiDiagonal:     order,
		HRPWeights:        domain.NewWeightSet(symbols, hrpWeights),
		EqualWeights:      domain.NewWeightSet(symbols, equalWeights),
		InverseVarWeights: domain.NewWeightSet(symbols, inverseVarWeights),
		RiskContributions: contributionsBySymbol,
		HighCorrelations:  highCorrelations,
		SimpleReturns:     simpleAligned.Returns,
		Dates:             simpleAligned.Dates,
		Profile:           profile,
		rawHRP:            hrpWeights,
		rawEqual:          equalWeights,
		rawInverseVar:     inverseVarWeights,
	}, nil
}

// Compare runs Analyze and then backtests the three weight sets (plus an
// optional benchmark index) over the identical aligned date range.
func (h AnalysisHandler) Compare(prices map[string]domain.PriceSeries, benchmarkName string, benchmark domain.PriceSeries) (*ComparisonResult, error) {
	analysis, err := h.Analyze(prices)
	if err != nil {
		return nil, err
	}

	strategies := []backtest.Strategy{
		{Name: StrategyHRP, Weights: analysis.rawHRP},
		{Name: StrategyEqualWeight, Weights: analysis.rawEqual},
		{Name: StrategyInverseVariance, Weights: analysis.rawInverseVar},
	}

	var benchmarkSeries *backtest.BenchmarkSeries
	if len(benchmark) > 0 {
		aligned, err := alignBenchmark(benchmark, analysis.Dates)
		if err != nil {
			return nil, fmt.Errorf("failed to align benchmark %s: %w", benchmarkName, err)
		}
		benchmarkSeries = &backtest.BenchmarkSeries{Name: benchmarkName, Returns: aligned}
	}

	comparison, err := backtest.Compare(strategies, analysis.SimpleReturns, analysis.Dates, benchmarkSeries, h.BacktestConfig)
	if err != nil {
		return nil, err
	}

	return &ComparisonResult{Analysis: analysis, Comparison: comparison}, nil
}

// reconcileAlignments forces the log- and simple-return views onto the
// same assets and the same trailing window. The two alignments are built
// from the same price history with the same skip rule, so they normally
// agree already; a mismatch in survivors is a bug worth failing loudly
// on, while a length offset is resolved by trimming both to the shared
// most-recent range.
func reconcileAlignments(logAligned, simpleAligned *hrp.AlignedReturns) (*hrp.AlignedReturns, *hrp.AlignedReturns, error) {
	if len(logAligned.Symbols) != len(simpleAligned.Symbols) {
		return nil, nil, fmt.Errorf("alignment mismatch: log view has %d assets, simple view has %d", len(logAligned.Symbols), len(simpleAligned.Symbols))
	}
	for i, symbol := range logAligned.Symbols {
		if simpleAligned.Symbols[i] != symbol {
			return nil, nil, fmt.Errorf("alignment mismatch: log view has %s at column %d, simple view has %s", symbol, i, simpleAligned.Symbols[i])
		}
	}

	minT := len(logAligned.Returns)
	if len(simpleAligned.Returns) < minT {
		minT = len(simpleAligned.Returns)
	}
	logAligned.Returns = logAligned.Returns[len(logAligned.Returns)-minT:]
	logAligned.Dates = logAligned.Dates[len(logAligned.Dates)-minT:]
	simpleAligned.Returns = simpleAligned.Returns[len(simpleAligned.Returns)-minT:]
	simpleAligned.Dates = simpleAligned.Dates[len(simpleAligned.Dates)-minT:]
	return logAligned, simpleAligned, nil
}

// alignBenchmark converts a benchmark price series to simple returns and
// matches them to the analysis dates by date lookup, so the benchmark is
// evaluated over exactly the same range as the strategies.
func alignBenchmark(benchmark domain.PriceSeries, dates []time.Time) ([]float64, error) {
	returns, returnDates := hrp.ComputeReturns(benchmark, hrp.SimpleReturns)
	byDate := map[string]float64{}
	for i, d := range returnDates {
		byDate[d.Format("2006-01-02")] = returns[i]
	}

	aligned := make([]float64, len(dates))
	missing := 0
	for i, d := range dates {
		r, ok := byDate[d.Format("2006-01-02")]
		if !ok {
			missing++
			continue
		}
		aligned[i] = r
	}
	if missing > len(dates)/2 {
		return nil, fmt.Errorf("benchmark covers only %d of %d aligned dates", len(dates)-missing, len(dates))
	}
	return aligned, nil
}
