package neighbor

import (
	"github.com/mohit67890/realm-core-hnsw/distance"
	"github.com/mohit67890/realm-core-hnsw/internal/graphstore"
)

// Extend grows candidates with the layer-l neighbors of each existing
// candidate that are not already present, computing their distance to
// query. This is the "extend" variant of the heuristic selector (spec
// §4.F), used only during insertion at upper layers — never during
// pruning.
func Extend(store *graphstore.Store, dist distance.Func, query []float64, candidates []Candidate, l int) []Candidate {
	present := make(map[int64]struct{}, len(candidates))
	for _, c := range candidates {
		present[c.RowKey] = struct{}{}
	}

	extended := make([]Candidate, len(candidates))
	copy(extended, candidates)

	for _, c := range candidates {
		for _, nb := range store.Neighbors(c.RowKey, l) {
			if _, ok := present[nb]; ok {
				continue
			}
			present[nb] = struct{}{}

			nbNode := store.Lookup(nb)
			if nbNode == nil {
				continue
			}
			extended = append(extended, Candidate{
				RowKey:   nb,
				Distance: dist(query, nbNode.Vector),
				Vector:   nbNode.Vector,
			})
		}
	}
	return extended
}
