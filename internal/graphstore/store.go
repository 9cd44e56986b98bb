package graphstore

// Store is the row-key -> Node mapping plus entry-point tracking. It
// holds the invariant that an empty store has no entry point and entry
// layer -1; a non-empty store's entry point names a node whose TopLayer
// equals EntryLayer.
type Store struct {
	nodes      map[int64]*Node
	entryPoint int64
	hasEntry   bool
	entryLayer int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		nodes:      make(map[int64]*Node),
		entryLayer: -1,
	}
}

// Lookup returns the node for rowKey, or nil if absent.
func (s *Store) Lookup(rowKey int64) *Node {
	return s.nodes[rowKey]
}

// Len returns the number of nodes in the store.
func (s *Store) Len() int {
	return len(s.nodes)
}

// Nodes returns the underlying node map. Callers must not mutate it
// directly; it exists for read-only iteration (persistence, verify,
// rebuild).
func (s *Store) Nodes() map[int64]*Node {
	return s.nodes
}

// EntryPoint returns the current entry-point row-key and whether one
// exists.
func (s *Store) EntryPoint() (int64, bool) {
	return s.entryPoint, s.hasEntry
}

// EntryLayer returns the layer of the current entry point, or -1 if the
// store is empty.
func (s *Store) EntryLayer() int {
	return s.entryLayer
}

// SetEntryPoint updates the entry point directly. Used when a newly
// inserted node's layer exceeds the current entry layer, and when
// restoring persisted state.
func (s *Store) SetEntryPoint(rowKey int64, layer int) {
	s.entryPoint = rowKey
	s.hasEntry = true
	s.entryLayer = layer
}

// ClearEntryPoint marks the store as having no entry point (empty
// graph).
func (s *Store) ClearEntryPoint() {
	s.hasEntry = false
	s.entryPoint = 0
	s.entryLayer = -1
}

// Register adds a new node to the store. The node must not already
// exist; Register does not establish adjacency — callers link it in
// separately.
func (s *Store) Register(n *Node) {
	s.nodes[n.RowKey] = n
}

// Remove deletes a node from the store without touching adjacency on
// other nodes; callers must unlink it from every neighbor first (see
// Unlink) to preserve invariant 3 (symmetry).
func (s *Store) Remove(rowKey int64) {
	delete(s.nodes, rowKey)
}

// Link adds a bidirectional edge between a and b at layer l, growing
// adjacency slices lazily. It is a no-op if the edge already exists on
// either side, and never links a node to itself.
func (s *Store) Link(a, b int64, l int) {
	if a == b {
		return
	}
	na := s.nodes[a]
	nb := s.nodes[b]
	if na == nil || nb == nil {
		return
	}
	growAdjacency(na, l)
	growAdjacency(nb, l)
	if !na.hasNeighbor(l, b) {
		na.Adjacency[l] = append(na.Adjacency[l], b)
	}
	if !nb.hasNeighbor(l, a) {
		nb.Adjacency[l] = append(nb.Adjacency[l], a)
	}
}

// Unlink removes the bidirectional edge between a and b at layer l, if
// present on either side.
func (s *Store) Unlink(a, b int64, l int) {
	if na := s.nodes[a]; na != nil && l < len(na.Adjacency) {
		na.removeNeighbor(l, b)
	}
	if nb := s.nodes[b]; nb != nil && l < len(nb.Adjacency) {
		nb.removeNeighbor(l, a)
	}
}

// ReplaceAdjacency sets a's adjacency at layer l to newSet wholesale.
// Callers are responsible for keeping symmetry: for every b added or
// removed by this call, the corresponding edge on b's side must be
// updated separately.
func (s *Store) ReplaceAdjacency(a int64, l int, newSet []int64) {
	na := s.nodes[a]
	if na == nil {
		return
	}
	growAdjacency(na, l)
	cp := make([]int64, len(newSet))
	copy(cp, newSet)
	na.Adjacency[l] = cp
}

// Neighbors returns the neighbor row-keys of rowKey at layer l, or nil
// if the node is absent or does not reach that layer.
func (s *Store) Neighbors(rowKey int64, l int) []int64 {
	n := s.nodes[rowKey]
	if n == nil || l >= len(n.Adjacency) {
		return nil
	}
	return n.Adjacency[l]
}

// Clear empties the store entirely.
func (s *Store) Clear() {
	s.nodes = make(map[int64]*Node)
	s.ClearEntryPoint()
}

// RecomputeEntryPoint scans every remaining node for the one with the
// greatest top-layer, used after erasing the current entry point (spec
// §4.G step 5). If the store is empty it clears the entry point.
func (s *Store) RecomputeEntryPoint() {
	if len(s.nodes) == 0 {
		s.ClearEntryPoint()
		return
	}
	var best *Node
	for _, n := range s.nodes {
		if best == nil || n.TopLayer > best.TopLayer {
			best = n
		}
	}
	s.SetEntryPoint(best.RowKey, best.TopLayer)
}

// growAdjacency ensures n.Adjacency has entries for layers 0..l.
func growAdjacency(n *Node, l int) {
	for len(n.Adjacency) <= l {
		n.Adjacency = append(n.Adjacency, nil)
	}
}
