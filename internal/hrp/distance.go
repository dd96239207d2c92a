package hrp

import "math"

// DistanceMatrix maps a correlation matrix onto a clustering metric:
// d = sqrt(0.5 × (1 − ρ)). Correlation 1 maps to distance 0, correlation
// −1 to distance 1. Correlations are clamped to [-1, 1] first so floating
// noise cannot push the square root negative. The diagonal is always 0.
func DistanceMatrix(corr [][]float64) [][]float64 {
	n := len(corr)
	dist := newSquareMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			c := math.Max(-1, math.Min(1, corr[i][j]))
			dist[i][j] = math.Sqrt(0.5 * (1 - c))
		}
	}
	return dist
}
