package hrp

import (
	"math"

	"github.com/montanaflynn/stats"
)

// CorrelationMatrix computes pairwise Pearson correlation over the
// columns of a T×N return matrix. Only the upper triangle is computed and
// mirrored; the diagonal is hard-coded to 1. A pair with a zero
// denominator (e.g. a constant series in the aligned window) gets
// correlation 0 instead of NaN.
func CorrelationMatrix(returns [][]float64) [][]float64 {
	n := columnCount(returns)
	corr := newSquareMatrix(n)
	means := columnMeans(returns)

	for i := 0; i < n; i++ {
		corr[i][i] = 1
		for j := i + 1; j < n; j++ {
			value := pearson(returns, i, j, means)
			corr[i][j] = value
			corr[j][i] = value
		}
	}
	return corr
}

// CovarianceMatrix computes the sample covariance matrix (T−1 divisor)
// over the columns of a T×N return matrix, upper triangle mirrored, with
// each asset's own variance on the diagonal.
func CovarianceMatrix(returns [][]float64) [][]float64 {
	n := columnCount(returns)
	cov := newSquareMatrix(n)
	means := columnMeans(returns)

	for i := 0; i < n; i++ {
		cov[i][i] = sampleCovariance(returns, i, i, means)
		for j := i + 1; j < n; j++ {
			value := sampleCovariance(returns, i, j, means)
			cov[i][j] = value
			cov[j][i] = value
		}
	}
	return cov
}

// HighCorrelationPairs lists the asset index pairs whose correlation
// magnitude meets the threshold, upper triangle only.
func HighCorrelationPairs(corr [][]float64, threshold float64) [][2]int {
	pairs := [][2]int{}
	for i := 0; i < len(corr); i++ {
		for j := i + 1; j < len(corr); j++ {
			if math.Abs(corr[i][j]) >= threshold {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

func pearson(returns [][]float64, i, j int, means []float64) float64 {
	var sumIJ, sumII, sumJJ float64
	for _, row := range returns {
		di := row[i] - means[i]
		dj := row[j] - means[j]
		sumIJ += di * dj
		sumII += di * di
		sumJJ += dj * dj
	}
	denominator := math.Sqrt(sumII * sumJJ)
	if denominator == 0 {
		return 0
	}
	return sumIJ / denominator
}

func sampleCovariance(returns [][]float64, i, j int, means []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	var sum float64
	for _, row := range returns {
		sum += (row[i] - means[i]) * (row[j] - means[j])
	}
	return sum / float64(len(returns)-1)
}

func columnMeans(returns [][]float64) []float64 {
	n := columnCount(returns)
	means := make([]float64, n)
	for col := 0; col < n; col++ {
		series := make([]float64, len(returns))
		for t, row := range returns {
			series[t] = row[col]
		}
		mean, err := stats.Mean(series)
		if err != nil {
			mean = 0
		}
		means[col] = mean
	}
	return means
}

func columnCount(returns [][]float64) int {
	if len(returns) == 0 {
		return 0
	}
	return len(returns[0])
}

func newSquareMatrix(n int) [][]float64 {
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	return matrix
}
