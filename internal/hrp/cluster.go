package hrp

import "fmt"

// LinkageRecord is one merge event in the dendrogram: the two cluster ids
// merged, the distance they merged at, and the resulting member count.
// Leaf clusters are 0..N−1; merged clusters take ids N..2N−2 in merge
// order.
type LinkageRecord struct {
	ClusterA int     `json:"clusterA"`
	ClusterB int     `json:"clusterB"`
	Distance float64 `json:"distance"`
	Size     int     `json:"size"`
}

// SingleLinkage runs naive O(N³) single-linkage agglomerative clustering
// over a distance matrix and returns exactly N−1 linkage records.
//
// Ties are broken deterministically: active cluster ids are scanned in
// ascending order and the first pair attaining the minimum wins, i.e. the
// lexicographically smallest (a, b) pair. HRP weights are sensitive to
// this choice when distances are exactly equal, so it is fixed here
// rather than left to map iteration order.
func SingleLinkage(dist [][]float64) ([]LinkageRecord, error) {
	n := len(dist)
	if n < 2 {
		return nil, fmt.Errorf("cannot cluster %d assets, need at least 2", n)
	}
	for i := range dist {
		if len(dist[i]) != n {
			return nil, fmt.Errorf("distance matrix is not square: row %d has %d entries, want %d", i, len(dist[i]), n)
		}
	}

	// Distances are tracked in a (2N−1)² table so merged clusters get
	// rows of their own under their new ids.
	total := 2*n - 1
	d := make([][]float64, total)
	for i := range d {
		d[i] = make([]float64, total)
	}
	for i := 0; i < n; i++ {
		copy(d[i][:n], dist[i])
	}

	active := make([]int, 0, n)
	for i := 0; i < n; i++ {
		active = append(active, i)
	}
	sizes := make([]int, total)
	for i := 0; i < n; i++ {
		sizes[i] = 1
	}

	links := make([]LinkageRecord, 0, n-1)
	nextID := n
	for len(active) > 1 {
		bestA, bestB := -1, -1
		bestDist := 0.0
		for ai := 0; ai < len(active); ai++ {
			for bi := ai + 1; bi < len(active); bi++ {
				a, b := active[ai], active[bi]
				if bestA == -1 || d[a][b] < bestDist {
					bestA, bestB = a, b
					bestDist = d[a][b]
				}
			}
		}

		sizes[nextID] = sizes[bestA] + sizes[bestB]
		links = append(links, LinkageRecord{
			ClusterA: bestA,
			ClusterB: bestB,
			Distance: bestDist,
			Size:     sizes[nextID],
		})

		// Single-linkage rule: distance to the merged cluster is the
		// minimum of the distances to its two inputs.
		remaining := make([]int, 0, len(active)-1)
		for _, id := range active {
			if id == bestA || id == bestB {
				continue
			}
			merged := d[id][bestA]
			if d[id][bestB] < merged {
				merged = d[id][bestB]
			}
			d[id][nextID] = merged
			d[nextID][id] = merged
			remaining = append(remaining, id)
		}
		active = append(remaining, nextID)
		nextID++
	}

	return links, nil
}
