package hrp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RecursiveBisection(t *testing.T) {
	t.Run("two uncorrelated assets reduce to inverse variance", func(t *testing.T) {
		cov := [][]float64{
			{0.01, 0},
			{0, 0.04},
		}
		weights, err := RecursiveBisection(cov, []int{0, 1})
		require.NoError(t, err)
		assert.InDelta(t, 0.8, weights[0], 1e-9)
		assert.InDelta(t, 0.2, weights[1], 1e-9)
	})

	t.Run("weights sum to 1 and are non-negative", func(t *testing.T) {
		cov := [][]float64{
			{0.040, 0.035, 0.000, 0.000, 0.001},
			{0.035, 0.045, 0.000, 0.000, 0.002},
			{0.000, 0.000, 0.020, 0.015, 0.000},
			{0.000, 0.000, 0.015, 0.025, 0.000},
			{0.001, 0.002, 0.000, 0.000, 0.010},
		}
		weights, err := RecursiveBisection(cov, []int{2, 3, 4, 0, 1})
		require.NoError(t, err)

		sum := 0.0
		for _, w := range weights {
			assert.GreaterOrEqual(t, w, 0.0)
			sum += w
		}
		assert.InDelta(t, 1, sum, 1e-9)
	})

	t.Run("identical correlated assets split by range symmetry", func(t *testing.T) {
		// three assets, pairwise correlation 1, equal variances: the
		// midpoint split gives the lone half as much as the pair
		v := 0.04
		cov := [][]float64{
			{v, v, v},
			{v, v, v},
			{v, v, v},
		}
		weights, err := RecursiveBisection(cov, []int{0, 1, 2})
		require.NoError(t, err)
		assert.InDelta(t, 0.5, weights[0], 1e-9)
		assert.InDelta(t, 0.25, weights[1], 1e-9)
		assert.InDelta(t, 0.25, weights[2], 1e-9)
	})

	t.Run("degenerate zero-variance asset does not blow up", func(t *testing.T) {
		cov := [][]float64{
			{0, 0, 0},
			{0, 0.04, 0},
			{0, 0, 0.01},
		}
		weights, err := RecursiveBisection(cov, []int{0, 1, 2})
		require.NoError(t, err)
		sum := 0.0
		for _, w := range weights {
			require.False(t, w < 0)
			sum += w
		}
		assert.InDelta(t, 1, sum, 1e-9)
	})

	t.Run("size mismatch", func(t *testing.T) {
		_, err := RecursiveBisection([][]float64{{1}}, []int{0, 1})
		require.Error(t, err)
	})
}

func Test_EqualWeights(t *testing.T) {
	for _, n := range []int{2, 3, 7, 100} {
		weights := EqualWeights(n)
		require.Len(t, weights, n)
		for _, w := range weights {
			assert.Equal(t, 1/float64(n), w)
		}
	}
}

func Test_InverseVarianceWeights(t *testing.T) {
	t.Run("lower variance gets more weight", func(t *testing.T) {
		cov := [][]float64{
			{4, 0},
			{0, 1},
		}
		weights := InverseVarianceWeights(cov)
		assert.InDelta(t, 0.2, weights[0], 1e-12)
		assert.InDelta(t, 0.8, weights[1], 1e-12)
	})

	t.Run("zero variance is clamped not rejected", func(t *testing.T) {
		cov := [][]float64{
			{0, 0},
			{0, 1},
		}
		weights := InverseVarianceWeights(cov)
		sum := weights[0] + weights[1]
		assert.InDelta(t, 1, sum, 1e-9)
		// the clamped zero-variance asset dominates, it reports no risk
		assert.Greater(t, weights[0], weights[1])
	})
}
