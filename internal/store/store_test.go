package store

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	merrors "github.com/PentesterFlow/AppAtlas/internal/errors"
	"github.com/PentesterFlow/AppAtlas/pkg/catalog"
)

func sampleCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Metadata: catalog.Metadata{
			GeneratedAt:        1700000000,
			TotalEntries:       1,
			RiskDistribution:   map[string]int{"HIGH": 1},
			SourceDistribution: map[string]int{"dynamic": 1},
			MethodDistribution: map[string]int{"POST": 1},
		},
		Entries: []*catalog.Entry{
			{
				Signature:    "api.example.com/v1/login",
				Host:         "api.example.com",
				Path:         "/v1/login",
				Method:       "POST",
				Parameters:   []catalog.Parameter{},
				Sources:      []string{"dynamic"},
				OriginalURLs: []string{"https://api.example.com/v1/login"},
				RiskLevel:    "HIGH",
				FirstSeen:    1700000000,
				LastSeen:     1700000000,
				Frequency:    1,
			},
		},
		Domains:      []string{"api.example.com"},
		Endpoints:    []string{},
		Secrets:      []string{},
		Permissions:  []string{},
		Certificates: []map[string]interface{}{},
	}
}

// =============================================================================
// FileStore Tests
// =============================================================================

func TestFileStore_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "catalog.json")
	fs := NewFileStore(true)
	want := sampleCatalog()

	if err := fs.Save(want, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("roundtrip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestFileStore_CompactOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	fs := NewFileStore(false)

	if err := fs.Save(sampleCatalog(), path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.ContainsRune(data, '\n') {
		t.Error("compact output should not contain newlines")
	}
}

func TestFileStore_LoadMissing(t *testing.T) {
	fs := NewFileStore(true)

	_, err := fs.Load(filepath.Join(t.TempDir(), "missing.json"))
	if !merrors.IsNotFound(err) {
		t.Errorf("error = %v, want not-found", err)
	}
}

func TestFileStore_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileStore(true)
	_, err := fs.Load(path)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if merrors.GetErrorType(err) != merrors.Decode {
		t.Errorf("error type = %v, want decode", merrors.GetErrorType(err))
	}
}

// =============================================================================
// BoltStore Tests
// =============================================================================

func TestBoltStore_Roundtrip(t *testing.T) {
	bs, err := NewBoltStore(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("NewBoltStore() error = %v", err)
	}
	defer bs.Close()

	want := sampleCatalog()
	if err := bs.Save("scan-1", want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := bs.Load("scan-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("roundtrip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestBoltStore_LoadMissing(t *testing.T) {
	bs, err := NewBoltStore(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer bs.Close()

	if _, err := bs.Load("nope"); !merrors.IsNotFound(err) {
		t.Errorf("error = %v, want not-found", err)
	}
}

func TestBoltStore_LabelsSorted(t *testing.T) {
	bs, err := NewBoltStore(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer bs.Close()

	for _, label := range []string{"scan-3", "scan-1", "scan-2"} {
		if err := bs.Save(label, sampleCatalog()); err != nil {
			t.Fatal(err)
		}
	}

	labels, err := bs.Labels()
	if err != nil {
		t.Fatalf("Labels() error = %v", err)
	}
	if !reflect.DeepEqual(labels, []string{"scan-1", "scan-2", "scan-3"}) {
		t.Errorf("labels = %v", labels)
	}
}

func TestBoltStore_Delete(t *testing.T) {
	bs, err := NewBoltStore(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer bs.Close()

	if err := bs.Save("scan-1", sampleCatalog()); err != nil {
		t.Fatal(err)
	}
	if err := bs.Delete("scan-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := bs.Load("scan-1"); !merrors.IsNotFound(err) {
		t.Errorf("error after delete = %v, want not-found", err)
	}

	// Deleting an absent label is not an error.
	if err := bs.Delete("scan-1"); err != nil {
		t.Errorf("Delete() of missing label error = %v", err)
	}
}

func TestBoltStore_SaveOverwrites(t *testing.T) {
	bs, err := NewBoltStore(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer bs.Close()

	first := sampleCatalog()
	if err := bs.Save("scan-1", first); err != nil {
		t.Fatal(err)
	}

	second := sampleCatalog()
	second.Metadata.TotalEntries = 0
	second.Entries = []*catalog.Entry{}
	if err := bs.Save("scan-1", second); err != nil {
		t.Fatal(err)
	}

	got, err := bs.Load("scan-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata.TotalEntries != 0 || len(got.Entries) != 0 {
		t.Errorf("overwrite not applied: %+v", got.Metadata)
	}
}

// =============================================================================
// MemoryStore Tests
// =============================================================================

func TestMemoryStore(t *testing.T) {
	ms := NewMemoryStore()

	if _, err := ms.Load("scan-1"); !merrors.IsNotFound(err) {
		t.Errorf("error = %v, want not-found", err)
	}

	want := sampleCatalog()
	if err := ms.Save("scan-1", want); err != nil {
		t.Fatal(err)
	}

	got, err := ms.Load("scan-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Error("memory store should return the stored catalog")
	}
	if labels := ms.Labels(); len(labels) != 1 || labels[0] != "scan-1" {
		t.Errorf("labels = %v", labels)
	}
}
