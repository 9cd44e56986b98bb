package query

import (
	"context"

	"github.com/mohit67890/realm-core-hnsw/hnsw"
)

// DefaultOverFetch is used when a caller passes overFetch <= 0.
const DefaultOverFetch = 10

// Searcher is the subset of *hnsw.Index that FilteredSearch needs.
type Searcher interface {
	SearchKNN(ctx context.Context, query []float64, k int, efSearch int) ([]hnsw.Result, error)
	Count() int
}

// Membership is the host query engine's predicate-membership set:
// given a row-key, reports whether it satisfies the host's predicates.
// The core never sees this; FilteredSearch applies it entirely outside
// the index's lock.
type Membership interface {
	Contains(rowKey int64) bool
}

// MembershipSet is a plain set-backed Membership, the common case when
// the host has already materialized S.
type MembershipSet map[int64]struct{}

func (s MembershipSet) Contains(rowKey int64) bool {
	_, ok := s[rowKey]
	return ok
}

// FilteredSearch implements the post-filter pattern: request
// k*overFetch results from the core, intersect with membership, and
// truncate to k. overFetch <= 0 uses DefaultOverFetch; the over-fetched
// k is bounded by idx.Count() since the core can never return more
// results than it holds nodes, but it is never less than k.
func FilteredSearch(ctx context.Context, idx Searcher, query []float64, k int, overFetch int, efSearch int, membership Membership) ([]hnsw.Result, error) {
	if overFetch <= 0 {
		overFetch = DefaultOverFetch
	}

	fetchK := k * overFetch
	if n := idx.Count(); fetchK > n {
		fetchK = n
	}
	if fetchK < k {
		fetchK = k
	}

	raw, err := idx.SearchKNN(ctx, query, fetchK, efSearch)
	if err != nil {
		return nil, err
	}

	out := make([]hnsw.Result, 0, k)
	for _, r := range raw {
		if membership.Contains(r.RowKey) {
			out = append(out, r)
			if len(out) == k {
				break
			}
		}
	}
	return out, nil
}

// EmptyMembershipShortcut reports whether the host can skip the core
// entirely because its predicate set is already known to be empty.
func EmptyMembershipShortcut(s MembershipSet) bool {
	return len(s) == 0
}
