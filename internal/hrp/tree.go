package hrp

import "fmt"

// ClusterNode is one entry in the flat dendrogram table. Leaves carry
// ids 0..N−1 with Left/Right set to −1; internal nodes carry ids
// N..2N−2 and reference their two children by id. Every node owns the
// list of leaf ids beneath it, assembled left subtree first.
type ClusterNode struct {
	ID     int   `json:"id"`
	Left   int   `json:"left"`
	Right  int   `json:"right"`
	Leaves []int `json:"leaves"`
}

// ClusterTree is a dendrogram stored as a flat node table indexed by id,
// which keeps it serializable and free of parent/child object cycles.
type ClusterTree struct {
	Nodes []ClusterNode `json:"nodes"`
	Root  int           `json:"root"`
}

// BuildClusterTree reconstructs the binary cluster tree for n leaves from
// its linkage records. Leaf lists are assembled bottom-up while iterating
// the merge events, so no traversal of the finished tree is ever needed.
func BuildClusterTree(n int, links []LinkageRecord) (*ClusterTree, error) {
	if len(links) != n-1 {
		return nil, fmt.Errorf("expected %d linkage records for %d leaves, got %d", n-1, n, len(links))
	}

	nodes := make([]ClusterNode, 2*n-1)
	for i := 0; i < n; i++ {
		nodes[i] = ClusterNode{ID: i, Left: -1, Right: -1, Leaves: []int{i}}
	}
	for k, link := range links {
		id := n + k
		if link.ClusterA >= id || link.ClusterB >= id || link.ClusterA < 0 || link.ClusterB < 0 {
			return nil, fmt.Errorf("linkage record %d references invalid cluster ids %d, %d", k, link.ClusterA, link.ClusterB)
		}
		leaves := make([]int, 0, len(nodes[link.ClusterA].Leaves)+len(nodes[link.ClusterB].Leaves))
		leaves = append(leaves, nodes[link.ClusterA].Leaves...)
		leaves = append(leaves, nodes[link.ClusterB].Leaves...)
		nodes[id] = ClusterNode{
			ID:     id,
			Left:   link.ClusterA,
			Right:  link.ClusterB,
			Leaves: leaves,
		}
	}

	return &ClusterTree{Nodes: nodes, Root: 2*n - 2}, nil
}

// QuasiDiagonalOrder returns the permutation of leaf ids that places
// early-clustering assets adjacent: the root's leaf list, left subtree
// before right.
func (t *ClusterTree) QuasiDiagonalOrder() []int {
	order := make([]int, len(t.Nodes[t.Root].Leaves))
	copy(order, t.Nodes[t.Root].Leaves)
	return order
}
