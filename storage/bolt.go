package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var (
	rootBucket        = []byte("root")
	rootGenerationKey = []byte("generation")
)

// Store is the block-arena abstraction backing one index: a single
// bbolt file holding every generation's metadata and node buckets, plus
// a root pointer naming the live generation.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if absent) the bbolt file at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create directory %s: %w", dir, err)
		}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: init root bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt file.
func (s *Store) Close() error { return s.db.Close() }

func metaBucketName(gen uint64) []byte {
	return []byte(fmt.Sprintf("meta:%d", gen))
}

func nodesBucketName(gen uint64) []byte {
	return []byte(fmt.Sprintf("nodes:%d", gen))
}

func rowKeyBytes(rowKey int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(rowKey))
	return buf
}

// Save performs the atomic root swap: within one bbolt
// transaction it builds a fresh generation's metadata and per-node
// buckets from meta/nodes, advances the root pointer, and drops the
// previous generation's buckets. A reader opening concurrently (a
// separate transaction) only ever sees the whole old generation or the
// whole new one.
func (s *Store) Save(meta Metadata, nodes []NodeRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(rootBucket)

		var oldGen uint64
		if b := root.Get(rootGenerationKey); b != nil {
			oldGen = binary.BigEndian.Uint64(b)
		}
		newGen := oldGen + 1

		metaBucket, err := tx.CreateBucket(metaBucketName(newGen))
		if err != nil {
			return fmt.Errorf("storage: create metadata bucket: %w", err)
		}
		if err := metaBucket.Put([]byte("metadata"), encodeMetadata(meta)); err != nil {
			return fmt.Errorf("storage: write metadata: %w", err)
		}

		nodesBucket, err := tx.CreateBucket(nodesBucketName(newGen))
		if err != nil {
			return fmt.Errorf("storage: create nodes bucket: %w", err)
		}
		for _, n := range nodes {
			if err := nodesBucket.Put(rowKeyBytes(n.RowKey), encodeNode(n)); err != nil {
				return fmt.Errorf("storage: write node %d: %w", n.RowKey, err)
			}
		}

		genBuf := make([]byte, 8)
		binary.BigEndian.PutUint64(genBuf, newGen)
		if err := root.Put(rootGenerationKey, genBuf); err != nil {
			return fmt.Errorf("storage: advance root pointer: %w", err)
		}

		if oldGen > 0 {
			if err := tx.DeleteBucket(metaBucketName(oldGen)); err != nil && err != bbolt.ErrBucketNotFound {
				return fmt.Errorf("storage: drop old metadata bucket: %w", err)
			}
			if err := tx.DeleteBucket(nodesBucketName(oldGen)); err != nil && err != bbolt.ErrBucketNotFound {
				return fmt.Errorf("storage: drop old nodes bucket: %w", err)
			}
		}
		return nil
	})
}

// Load reads the live generation's metadata and node records.
func (s *Store) Load() (Metadata, []NodeRecord, error) {
	var meta Metadata
	var nodes []NodeRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket(rootBucket)
		genBytes := root.Get(rootGenerationKey)
		if genBytes == nil {
			return ErrCorrupt("no root generation recorded")
		}
		gen := binary.BigEndian.Uint64(genBytes)

		metaBucket := tx.Bucket(metaBucketName(gen))
		if metaBucket == nil {
			return ErrCorrupt("metadata bucket missing for current generation")
		}
		raw := metaBucket.Get([]byte("metadata"))
		if raw == nil {
			return ErrCorrupt("metadata slot missing")
		}
		decoded, err := decodeMetadata(raw)
		if err != nil {
			return err
		}
		if decoded.FormatVersion != FormatVersion {
			return ErrCorrupt(fmt.Sprintf("unsupported format version %d", decoded.FormatVersion))
		}
		meta = decoded

		nodesBucket := tx.Bucket(nodesBucketName(gen))
		if nodesBucket == nil {
			return ErrCorrupt("nodes bucket missing for current generation")
		}
		return nodesBucket.ForEach(func(k, v []byte) error {
			rec, err := decodeNode(v)
			if err != nil {
				return err
			}
			nodes = append(nodes, rec)
			return nil
		})
	})
	if err != nil {
		return Metadata{}, nil, err
	}
	return meta, nodes, nil
}
