// Package neighbor implements the two neighbor-selection strategies:
// simple top-M truncation for layer 0, and a diversity heuristic for
// upper layers, plus the bidirectional pruning that keeps the graph's
// degree bound.
package neighbor

import (
	"sort"

	"github.com/mohit67890/realm-core-hnsw/distance"
)

// This file is intentionally independent of graphstore/search so it can
// be unit-tested against plain slices of candidates; the hnsw package
// wires it to the live graph.

// Candidate is a (row-key, distance-to-query) pair under consideration
// for linking. Vector is the candidate's own vector, needed by the
// heuristic selector to compute candidate-to-candidate distances.
type Candidate struct {
	RowKey   int64
	Distance float64
	Vector   []float64
}

// Simple keeps the m candidates nearest the query. candidates need not
// be pre-sorted; Simple sorts a copy ascending by distance and truncates.
// Used for layer 0.
func Simple(candidates []Candidate, m int) []Candidate {
	sorted := sortedCopy(candidates)
	if len(sorted) > m {
		sorted = sorted[:m]
	}
	return sorted
}

// Heuristic produces up to m diverse neighbors from candidates (spec
// §4.F "Heuristic"): sort by distance to the query, then iteratively
// accept the nearest remaining candidate unless it is strictly closer to
// some already-accepted neighbor than to the query. If fewer than m
// survive the diversity pass, the nearest remaining rejects fill out the
// rest so the result never falls short when enough candidates exist.
func Heuristic(dist distance.Func, candidates []Candidate, m int) []Candidate {
	sorted := sortedCopy(candidates)
	if len(sorted) <= m {
		return sorted
	}

	accepted := make([]Candidate, 0, m)
	rejected := make([]Candidate, 0, len(sorted))

	for _, c := range sorted {
		if len(accepted) >= m {
			rejected = append(rejected, c)
			continue
		}
		good := true
		for _, a := range accepted {
			if dist(c.Vector, a.Vector) < c.Distance {
				good = false
				break
			}
		}
		if good {
			accepted = append(accepted, c)
		} else {
			rejected = append(rejected, c)
		}
	}

	for i := 0; len(accepted) < m && i < len(rejected); i++ {
		accepted = append(accepted, rejected[i])
	}
	return accepted
}

// Select dispatches to Heuristic or Simple depending on useHeuristic.
// Insertion uses Simple at layer 0 and Heuristic at layer >= 1; Prune
// passes the configured strategy at every layer, layer 0 included.
func Select(dist distance.Func, candidates []Candidate, m int, useHeuristic bool) []Candidate {
	if useHeuristic {
		return Heuristic(dist, candidates, m)
	}
	return Simple(candidates, m)
}

func sortedCopy(candidates []Candidate) []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}
