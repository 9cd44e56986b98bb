package hnsw

import (
	"fmt"
	"sort"
	"strings"
)

// DebugString returns a human-readable dump of the graph's structure:
// entry point, per-node top-layer, and per-layer adjacency. Mirrors
// Realm core's `#ifdef REALM_DEBUG void print() const`; read-lock only,
// intended for tests and ad-hoc debugging, not for parsing.
func (idx *Index) DebugString() string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var b strings.Builder
	entry, hasEntry := idx.store.EntryPoint()
	if hasEntry {
		fmt.Fprintf(&b, "entry-point=%d entry-layer=%d nodes=%d\n", entry, idx.store.EntryLayer(), idx.store.Len())
	} else {
		fmt.Fprintf(&b, "entry-point=<none> nodes=%d\n", idx.store.Len())
	}

	keys := make([]int64, 0, idx.store.Len())
	for k := range idx.store.Nodes() {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		n := idx.store.Lookup(k)
		fmt.Fprintf(&b, "  node %d top-layer=%d\n", n.RowKey, n.TopLayer)
		for l, adj := range n.Adjacency {
			fmt.Fprintf(&b, "    layer %d: %v\n", l, adj)
		}
	}
	return b.String()
}
