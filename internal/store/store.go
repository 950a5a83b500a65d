// Package store persists catalogs: a JSON file store for the durable
// artifact of one scan and a bolt-backed snapshot store for history.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	merrors "github.com/PentesterFlow/AppAtlas/internal/errors"
	"github.com/PentesterFlow/AppAtlas/pkg/catalog"
)

// FileStore persists catalogs as JSON documents.
type FileStore struct {
	pretty bool
}

// NewFileStore creates a file-based catalog store.
func NewFileStore(pretty bool) *FileStore {
	return &FileStore{pretty: pretty}
}

// Save writes a catalog to path. The directory is created if needed.
func (s *FileStore) Save(cat *catalog.Catalog, path string) error {
	var (
		data []byte
		err  error
	)
	if s.pretty {
		data, err = json.MarshalIndent(cat, "", "  ")
	} else {
		data, err = json.Marshal(cat)
	}
	if err != nil {
		return merrors.NewPersistence(path, "save", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return merrors.NewPersistence(path, "save", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return merrors.NewPersistence(path, "save", err)
	}

	return nil
}

// Load reads a catalog from path. A missing file yields a NotFound error,
// a malformed document a Decode error; never a partially-populated
// catalog.
func (s *FileStore) Load(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merrors.NewNotFound(path, "load")
		}
		return nil, merrors.NewPersistence(path, "load", err)
	}

	var cat catalog.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, merrors.NewDecode(path, err)
	}

	return &cat, nil
}

// MemoryStore holds catalogs in memory, keyed by label. Used in tests and
// by embedders that manage persistence themselves.
type MemoryStore struct {
	catalogs map[string]*catalog.Catalog
}

// NewMemoryStore creates an in-memory catalog store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{catalogs: make(map[string]*catalog.Catalog)}
}

// Save stores a catalog under a label.
func (s *MemoryStore) Save(label string, cat *catalog.Catalog) error {
	s.catalogs[label] = cat
	return nil
}

// Load returns the catalog stored under a label.
func (s *MemoryStore) Load(label string) (*catalog.Catalog, error) {
	cat, ok := s.catalogs[label]
	if !ok {
		return nil, merrors.NewNotFound(label, "load")
	}
	return cat, nil
}

// Labels returns the stored labels.
func (s *MemoryStore) Labels() []string {
	labels := make([]string, 0, len(s.catalogs))
	for label := range s.catalogs {
		labels = append(labels, label)
	}
	return labels
}
