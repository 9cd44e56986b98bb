// Package storage persists an index's graph to the host's block-arena
// storage, modeled here on a single bbolt
// file: the arena's integer-indexed array-of-refs becomes bbolt
// buckets, and the atomic root swap a persisted index needs comes from
// bbolt's own ACID Update transaction — build the new generation's
// buckets, flip the root pointer, and drop the previous generation, all
// inside one transaction, so a reader (a concurrent Open) only ever
// observes the old complete root or the new complete root.
package storage

import (
	"encoding/binary"
	"math"
)

// FormatVersion is the only on-disk format version this build accepts.
const FormatVersion uint64 = 1

// Metadata mirrors the root array's slot-0 metadata array.
type Metadata struct {
	FormatVersion  uint64
	EntryPointSet  bool
	EntryPointKey  int64
	EntryLayer     int64
	Dimension      uint64
	M              uint64
	EFConstruction uint64
	EFSearch       uint64
}

func encodeMetadata(m Metadata) []byte {
	buf := make([]byte, 8*7+1)
	binary.BigEndian.PutUint64(buf[0:8], m.FormatVersion)
	entryPoint := uint64(0)
	present := byte(0)
	if m.EntryPointSet {
		present = 1
		entryPoint = uint64(m.EntryPointKey)
	}
	buf[56] = present
	binary.BigEndian.PutUint64(buf[8:16], entryPoint)
	binary.BigEndian.PutUint64(buf[16:24], uint64(m.EntryLayer))
	binary.BigEndian.PutUint64(buf[24:32], m.Dimension)
	binary.BigEndian.PutUint64(buf[32:40], m.M)
	binary.BigEndian.PutUint64(buf[40:48], m.EFConstruction)
	binary.BigEndian.PutUint64(buf[48:56], m.EFSearch)
	return buf
}

func decodeMetadata(buf []byte) (Metadata, error) {
	if len(buf) < 57 {
		return Metadata{}, ErrCorrupt("metadata slot too short")
	}
	m := Metadata{
		FormatVersion:  binary.BigEndian.Uint64(buf[0:8]),
		EntryPointSet:  buf[56] == 1,
		EntryPointKey:  int64(binary.BigEndian.Uint64(buf[8:16])),
		EntryLayer:     int64(binary.BigEndian.Uint64(buf[16:24])),
		Dimension:      binary.BigEndian.Uint64(buf[24:32]),
		M:              binary.BigEndian.Uint64(buf[32:40]),
		EFConstruction: binary.BigEndian.Uint64(buf[40:48]),
		EFSearch:       binary.BigEndian.Uint64(buf[48:56]),
	}
	return m, nil
}

// NodeRecord mirrors one of the root array's per-node slots:
// info, vector, and one connection list per layer 0..top-layer.
type NodeRecord struct {
	RowKey    int64
	TopLayer  int64
	Vector    []float64
	Adjacency [][]int64
}

func encodeNode(n NodeRecord) []byte {
	size := 8 + 8 + 8 + len(n.Vector)*8 + 8
	for _, layer := range n.Adjacency {
		size += 8 + len(layer)*8
	}
	buf := make([]byte, size)
	off := 0
	putInt64 := func(v int64) {
		binary.BigEndian.PutUint64(buf[off:off+8], uint64(v))
		off += 8
	}
	putInt64(n.RowKey)
	putInt64(n.TopLayer)
	putInt64(int64(len(n.Vector)))
	for _, f := range n.Vector {
		binary.BigEndian.PutUint64(buf[off:off+8], math.Float64bits(f))
		off += 8
	}
	putInt64(int64(len(n.Adjacency)))
	for _, layer := range n.Adjacency {
		putInt64(int64(len(layer)))
		for _, rk := range layer {
			putInt64(rk)
		}
	}
	return buf[:off]
}

func decodeNode(buf []byte) (NodeRecord, error) {
	off := 0
	readInt64 := func() (int64, bool) {
		if off+8 > len(buf) {
			return 0, false
		}
		v := int64(binary.BigEndian.Uint64(buf[off : off+8]))
		off += 8
		return v, true
	}

	rowKey, ok := readInt64()
	if !ok {
		return NodeRecord{}, ErrCorrupt("node record truncated reading row-key")
	}
	topLayer, ok := readInt64()
	if !ok {
		return NodeRecord{}, ErrCorrupt("node record truncated reading top-layer")
	}
	dim, ok := readInt64()
	if !ok {
		return NodeRecord{}, ErrCorrupt("node record truncated reading dimension")
	}
	vector := make([]float64, dim)
	for i := range vector {
		if off+8 > len(buf) {
			return NodeRecord{}, ErrCorrupt("node record truncated reading vector")
		}
		vector[i] = math.Float64frombits(binary.BigEndian.Uint64(buf[off : off+8]))
		off += 8
	}
	layerCount, ok := readInt64()
	if !ok {
		return NodeRecord{}, ErrCorrupt("node record truncated reading layer count")
	}
	adjacency := make([][]int64, layerCount)
	for l := range adjacency {
		n, ok := readInt64()
		if !ok {
			return NodeRecord{}, ErrCorrupt("node record truncated reading adjacency length")
		}
		layer := make([]int64, n)
		for i := range layer {
			rk, ok := readInt64()
			if !ok {
				return NodeRecord{}, ErrCorrupt("node record truncated reading adjacency entry")
			}
			layer[i] = rk
		}
		adjacency[l] = layer
	}

	return NodeRecord{RowKey: rowKey, TopLayer: topLayer, Vector: vector, Adjacency: adjacency}, nil
}

// ErrCorrupt is a low-level decode failure, wrapped by the caller into
// hnsw.ErrIndexCorrupt at the package boundary.
type ErrCorrupt string

func (e ErrCorrupt) Error() string { return string(e) }
