package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"bundler/internal/domain"
)

var (
	bucketUnits = []byte("units")
	bucketMeta  = []byte("meta")
)

// BoltStore caches parsed units on disk, keyed by source path.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketUnits, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type unitRecord struct {
	ID             string   `json:"id"`
	Package        string   `json:"package"`
	Body           []byte   `json:"body"`
	ForeignImports []byte   `json:"foreign_imports"`
	LocalImports   []string `json:"local_imports"`
	ModTime        int64    `json:"mod_time"`
	Size           int64    `json:"size"`
}

// GetUnit returns the cached unit for path when modTime and size still match.
func (s *BoltStore) GetUnit(path string, modTime, size int64) (*domain.Unit, bool, error) {
	var unit *domain.Unit
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketUnits).Get([]byte(path))
		if data == nil {
			return nil
		}
		var rec unitRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("corrupt cache entry for %s: %w", path, err)
		}
		if rec.ModTime != modTime || rec.Size != size {
			return nil
		}
		unit = &domain.Unit{
			ID:             domain.ModuleID(rec.ID),
			Package:        rec.Package,
			Path:           path,
			Body:           rec.Body,
			ForeignImports: rec.ForeignImports,
		}
		for _, imp := range rec.LocalImports {
			unit.LocalImports = append(unit.LocalImports, domain.ModuleID(imp))
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return unit, unit != nil, nil
}

// PutUnit stores unit under its path. Only the parse result is kept; callers
// store units before sibling references are appended.
func (s *BoltStore) PutUnit(unit *domain.Unit, modTime, size int64) error {
	rec := unitRecord{
		ID:             string(unit.ID),
		Package:        unit.Package,
		Body:           unit.Body,
		ForeignImports: unit.ForeignImports,
		ModTime:        modTime,
		Size:           size,
	}
	for _, imp := range unit.LocalImports {
		rec.LocalImports = append(rec.LocalImports, string(imp))
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUnits).Put([]byte(unit.Path), data)
	})
}

// CountUnits returns the number of cached units.
func (s *BoltStore) CountUnits() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketUnits).Stats().KeyN
		return nil
	})
	return n, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
