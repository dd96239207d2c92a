package hrp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// minVariance is the clamp applied to degenerate (near-zero) variances so
// inverse-variance splits never divide by zero.
const minVariance = 1e-12

// RecursiveBisection computes Hierarchical Risk Parity weights from a
// covariance matrix and a quasi-diagonal asset order.
//
// Weights start at 1 per position and are repeatedly scaled: each
// contiguous range is split at its midpoint, each half's cluster variance
// is computed as the variance of an equally-weighted portfolio of its
// members, and the halves receive inverse-variance allocations. No matrix
// inversion is performed.
//
// The worklist is an explicit stack of index ranges rather than call
// recursion.
func RecursiveBisection(cov [][]float64, order []int) ([]float64, error) {
	n := len(order)
	if n == 0 || len(cov) != n {
		return nil, fmt.Errorf("covariance size %d does not match order size %d", len(cov), n)
	}

	weights := make([]float64, n) // indexed by quasi-diagonal position
	for i := range weights {
		weights[i] = 1
	}

	type span struct{ lo, hi int } // half-open [lo, hi)
	stack := []span{{0, n}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current.hi-current.lo <= 1 {
			continue
		}

		mid := current.lo + (current.hi-current.lo)/2
		left := order[current.lo:mid]
		right := order[mid:current.hi]

		varLeft := clusterVariance(cov, left)
		varRight := clusterVariance(cov, right)
		allocLeft := (1 / varLeft) / (1/varLeft + 1/varRight)
		allocRight := 1 - allocLeft

		for i := current.lo; i < mid; i++ {
			weights[i] *= allocLeft
		}
		for i := mid; i < current.hi; i++ {
			weights[i] *= allocRight
		}

		if mid-current.lo > 1 {
			stack = append(stack, span{current.lo, mid})
		}
		if current.hi-mid > 1 {
			stack = append(stack, span{mid, current.hi})
		}
	}

	// Map from quasi-diagonal positions back to original asset indices,
	// then normalize so the vector sums to exactly 1.
	byAsset := make([]float64, n)
	total := 0.0
	for position, asset := range order {
		byAsset[asset] = weights[position]
		total += weights[position]
	}
	if total <= 0 {
		return nil, fmt.Errorf("bisection produced a non-positive weight total %f", total)
	}
	for i := range byAsset {
		byAsset[i] /= total
	}
	return byAsset, nil
}

// clusterVariance is the variance of an equally-weighted synthetic
// portfolio over the given assets: w'·CovSub·w with w = 1/k.
func clusterVariance(cov [][]float64, assets []int) float64 {
	k := len(assets)
	if k == 0 {
		return minVariance
	}
	sub := mat.NewSymDense(k, nil)
	for i, a := range assets {
		for j := i; j < k; j++ {
			sub.SetSym(i, j, cov[a][assets[j]])
		}
	}
	w := mat.NewVecDense(k, nil)
	for i := 0; i < k; i++ {
		w.SetVec(i, 1/float64(k))
	}
	variance := mat.Inner(w, sub, w)
	if variance < minVariance || math.IsNaN(variance) {
		return minVariance
	}
	return variance
}

// EqualWeights allocates exactly 1/N to every asset.
func EqualWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1 / float64(n)
	}
	return weights
}

// InverseVarianceWeights allocates proportionally to 1/v using each
// asset's own variance from the covariance diagonal:
// w_i = (1/v_i) / Σ(1/v_j). Degenerate variances are clamped rather than
// rejected so allocation always completes.
func InverseVarianceWeights(cov [][]float64) []float64 {
	n := len(cov)
	weights := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		variance := cov[i][i]
		if variance < minVariance {
			variance = minVariance
		}
		weights[i] = 1 / variance
		total += weights[i]
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}
