// Package query implements the host integration layer: a bulk-insert
// driver and filtered-search composition that keep the core index
// independent of the host's query predicate engine.
package query

import (
	"context"
)

// Inserter is the subset of *hnsw.Index that BulkInsert needs; kept as
// an interface so callers can mock it in tests.
type Inserter interface {
	Insert(ctx context.Context, rowKey int64) error
}

// BulkResult reports the outcome of a single row-key in a bulk insert.
type BulkResult struct {
	RowKey int64
	Err    error
}

// BulkInsert drives a single insert call per row-key in keys, in order.
// It does not stop at the first error: every key is attempted, and the
// caller gets a result per key. This mirrors Realm core's
// insert_bulk/insert_bulk_list, which tolerate individual row failures
// without aborting the batch.
func BulkInsert(ctx context.Context, idx Inserter, keys []int64) []BulkResult {
	results := make([]BulkResult, len(keys))
	for i, k := range keys {
		results[i] = BulkResult{RowKey: k, Err: idx.Insert(ctx, k)}
	}
	return results
}

// CountFailures returns how many of results carry a non-nil error.
func CountFailures(results []BulkResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
