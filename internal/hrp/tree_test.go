package hrp

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BuildClusterTree(t *testing.T) {
	// dendrogram for 4 leaves: (0,1)→4, (2,3)→5, (4,5)→6
	links := []LinkageRecord{
		{ClusterA: 0, ClusterB: 1, Distance: 0.1, Size: 2},
		{ClusterA: 2, ClusterB: 3, Distance: 0.2, Size: 2},
		{ClusterA: 4, ClusterB: 5, Distance: 0.7, Size: 4},
	}
	tree, err := BuildClusterTree(4, links)
	require.NoError(t, err)

	require.Len(t, tree.Nodes, 7)
	require.Equal(t, 6, tree.Root)

	for i := 0; i < 4; i++ {
		assert.Equal(t, -1, tree.Nodes[i].Left)
		assert.Equal(t, -1, tree.Nodes[i].Right)
		require.Equal(t, []int{i}, tree.Nodes[i].Leaves)
	}
	require.Equal(t, "", cmp.Diff([]int{0, 1}, tree.Nodes[4].Leaves))
	require.Equal(t, "", cmp.Diff([]int{2, 3}, tree.Nodes[5].Leaves))
	// left subtree's leaves come before the right subtree's
	require.Equal(t, "", cmp.Diff([]int{0, 1, 2, 3}, tree.Nodes[6].Leaves))
}

func Test_BuildClusterTree_Errors(t *testing.T) {
	t.Run("wrong record count", func(t *testing.T) {
		_, err := BuildClusterTree(4, []LinkageRecord{{ClusterA: 0, ClusterB: 1}})
		require.Error(t, err)
	})

	t.Run("forward reference", func(t *testing.T) {
		_, err := BuildClusterTree(3, []LinkageRecord{
			{ClusterA: 0, ClusterB: 4, Distance: 0.1, Size: 2},
			{ClusterA: 1, ClusterB: 3, Distance: 0.2, Size: 3},
		})
		require.Error(t, err)
	})
}

func Test_QuasiDiagonalOrder_IsPermutation(t *testing.T) {
	// build from actual clustering output so the property is tested
	// end-to-end
	dist := [][]float64{
		{0, 0.2, 0.9, 0.7, 0.6},
		{0.2, 0, 0.8, 0.65, 0.5},
		{0.9, 0.8, 0, 0.3, 0.4},
		{0.7, 0.65, 0.3, 0, 0.45},
		{0.6, 0.5, 0.4, 0.45, 0},
	}
	links, err := SingleLinkage(dist)
	require.NoError(t, err)
	tree, err := BuildClusterTree(5, links)
	require.NoError(t, err)

	order := tree.QuasiDiagonalOrder()
	require.Len(t, order, 5)

	sorted := append([]int{}, order...)
	sort.Ints(sorted)
	require.Equal(t, []int{0, 1, 2, 3, 4}, sorted, "order must be a bijection on 0..n-1")
}
