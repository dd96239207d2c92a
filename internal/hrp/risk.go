package hrp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// RiskContributions computes each asset's share of total portfolio
// variance: contribution_i = w_i × (Cov·w)_i / (w'·Cov·w). Contributions
// sum to 1 whenever portfolio variance is nonzero; when it is zero every
// contribution is defined as 0.
func RiskContributions(weights []float64, cov [][]float64) ([]float64, error) {
	n := len(weights)
	if len(cov) != n {
		return nil, fmt.Errorf("covariance size %d does not match weight size %d", len(cov), n)
	}

	sigma := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sigma.SetSym(i, j, cov[i][j])
		}
	}
	w := mat.NewVecDense(n, weights)

	marginal := mat.NewVecDense(n, nil)
	marginal.MulVec(sigma, w)
	portfolioVariance := mat.Dot(w, marginal)

	contributions := make([]float64, n)
	if portfolioVariance <= 0 {
		return contributions, nil
	}
	for i := 0; i < n; i++ {
		contributions[i] = weights[i] * marginal.AtVec(i) / portfolioVariance
	}
	return contributions, nil
}
