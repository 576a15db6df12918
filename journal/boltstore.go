package journal

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var (
	bucketBuilds       = []byte("builds")
	bucketBuildsByTime = []byte("builds_by_time")
)

// BoltStore persists build records in bbolt. Records are stored as JSON
// keyed by id, with a creation-time index for ordered listing.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("journal: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketBuilds, bucketBuildsByTime} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// timeKey orders records by creation time, then id.
func timeKey(r *Record) []byte {
	k := make([]byte, 8+len(r.ID))
	binary.BigEndian.PutUint64(k, uint64(r.CreatedAt.UnixNano()))
	copy(k[8:], r.ID)
	return k
}

// Put stores a new record. Returns ErrDuplicate if the id already exists.
func (s *BoltStore) Put(r *Record) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("%w: record", ErrNilParam)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("journal: encode record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBuilds)
		if b.Get([]byte(r.ID)) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicate, r.ID)
		}
		if err := b.Put([]byte(r.ID), data); err != nil {
			return fmt.Errorf("journal: put record: %w", err)
		}
		if err := tx.Bucket(bucketBuildsByTime).Put(timeKey(r), []byte(r.ID)); err != nil {
			return fmt.Errorf("journal: put time index: %w", err)
		}
		return nil
	})
}

// Get retrieves a record by id.
func (s *BoltStore) Get(id string) (*Record, error) {
	var r Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketBuilds).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("journal: decode record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns all records, oldest first.
func (s *BoltStore) List() ([]*Record, error) {
	var records []*Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		builds := tx.Bucket(bucketBuilds)
		return tx.Bucket(bucketBuildsByTime).ForEach(func(_, id []byte) error {
			data := builds.Get(id)
			if data == nil {
				return nil // stale index entry
			}
			var r Record
			if err := json.Unmarshal(data, &r); err != nil {
				return fmt.Errorf("decode record %s: %w", id, err)
			}
			records = append(records, &r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	return records, nil
}

// MarkSubmitted sets the submitted hash of a successful, unsubmitted record.
func (s *BoltStore) MarkSubmitted(id, txHash string, at time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBuilds)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		var r Record
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("journal: decode record: %w", err)
		}
		if err := r.Submittable(); err != nil {
			return fmt.Errorf("%w: %s", err, id)
		}
		at = at.UTC()
		r.SubmittedTxHash = txHash
		r.SubmittedAt = &at

		updated, err := json.Marshal(&r)
		if err != nil {
			return fmt.Errorf("journal: encode record: %w", err)
		}
		if err := b.Put([]byte(id), updated); err != nil {
			return fmt.Errorf("journal: update record: %w", err)
		}
		return nil
	})
}
