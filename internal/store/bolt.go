package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	merrors "github.com/PentesterFlow/AppAtlas/internal/errors"
	"github.com/PentesterFlow/AppAtlas/pkg/catalog"
)

var bucketCatalogs = []byte("catalogs")

// BoltStore keeps labeled catalog snapshots in a BoltDB file, so prior
// scans stay available for comparison.
type BoltStore struct {
	db   *bolt.DB
	path string
}

// NewBoltStore opens (or creates) a snapshot database.
func NewBoltStore(path string) (*BoltStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, merrors.NewPersistence(path, "open", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 5 * time.Second,
	})
	if err != nil {
		return nil, merrors.NewPersistence(path, "open", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCatalogs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, merrors.NewPersistence(path, "open", err)
	}

	return &BoltStore{db: db, path: path}, nil
}

// Save stores a catalog snapshot under a label, overwriting any previous
// snapshot with the same label.
func (s *BoltStore) Save(label string, cat *catalog.Catalog) error {
	data, err := json.Marshal(cat)
	if err != nil {
		return merrors.NewPersistence(s.path, "save", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCatalogs).Put([]byte(label), data)
	})
	if err != nil {
		return merrors.NewPersistence(s.path, "save", err)
	}

	return nil
}

// Load returns the snapshot stored under a label.
func (s *BoltStore) Load(label string) (*catalog.Catalog, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketCatalogs).Get([]byte(label)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, merrors.NewPersistence(s.path, "load", err)
	}

	if data == nil {
		return nil, merrors.NewNotFound(label, "load")
	}

	var cat catalog.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, merrors.NewDecode(label, err)
	}

	return &cat, nil
}

// Labels returns the stored snapshot labels, sorted.
func (s *BoltStore) Labels() ([]string, error) {
	var labels []string

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCatalogs).ForEach(func(k, _ []byte) error {
			labels = append(labels, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, merrors.NewPersistence(s.path, "list", err)
	}

	sort.Strings(labels)
	return labels, nil
}

// Delete removes a snapshot by label. Deleting a missing label is not an
// error.
func (s *BoltStore) Delete(label string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCatalogs).Delete([]byte(label))
	})
	if err != nil {
		return merrors.NewPersistence(s.path, "delete", err)
	}
	return nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
