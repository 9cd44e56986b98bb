package neighbor

import (
	"github.com/mohit67890/realm-core-hnsw/distance"
	"github.com/mohit67890/realm-core-hnsw/internal/graphstore"
)

// Prune enforces rowKey's degree bound at layer l:
// if the node's current adjacency at l already fits within cap, Prune
// does nothing. Otherwise it recomputes distances from the node to each
// current neighbor, reselects down to cap neighbors with the configured
// strategy, and unlinks whichever neighbors were dropped — preserving
// adjacency symmetry because Unlink removes both sides of the edge.
func Prune(store *graphstore.Store, dist distance.Func, l, cap int, useHeuristic bool, rowKey int64) {
	node := store.Lookup(rowKey)
	if node == nil {
		return
	}
	neighbors := store.Neighbors(rowKey, l)
	if len(neighbors) <= cap {
		return
	}

	candidates := make([]Candidate, 0, len(neighbors))
	for _, nb := range neighbors {
		nbNode := store.Lookup(nb)
		if nbNode == nil {
			continue
		}
		candidates = append(candidates, Candidate{
			RowKey:   nb,
			Distance: dist(node.Vector, nbNode.Vector),
			Vector:   nbNode.Vector,
		})
	}

	kept := Select(dist, candidates, cap, useHeuristic)
	keptSet := make(map[int64]struct{}, len(kept))
	for _, k := range kept {
		keptSet[k.RowKey] = struct{}{}
	}

	for _, nb := range neighbors {
		if _, ok := keptSet[nb]; !ok {
			store.Unlink(rowKey, nb, l)
		}
	}
}
