package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/PentesterFlow/AppAtlas/internal/store"
)

func writeFlows(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "flows.json")
	content := `[{"method":"GET","url":"https://api.example.com/v1/items","response_status":200}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.Execute()
}

// =============================================================================
// Flag Wiring Tests
// =============================================================================

func TestMergeDefaultOutputSurvivesRegistration(t *testing.T) {
	// Building the command tree must leave each command's flag variable at
	// its own default; merge's output path must not be clobbered by a later
	// registration binding a different default.
	newRootCmd()
	if mergeOutput != "catalog.json" {
		t.Errorf("merge output default = %q, want %q", mergeOutput, "catalog.json")
	}
	if diffOutput != "" {
		t.Errorf("diff output default = %q, want empty", diffOutput)
	}
}

func TestMergeWritesDefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	flows := writeFlows(t, dir)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	if err := execute(t, "merge", "--dynamic", flows); err != nil {
		t.Fatalf("merge without -o failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "catalog.json")); err != nil {
		t.Errorf("default catalog.json not written: %v", err)
	}
}

func TestSnapshotsRequiresDB(t *testing.T) {
	if err := execute(t, "snapshots"); err == nil {
		t.Error("snapshots without --db should fail")
	}
}

// =============================================================================
// Config File Wiring Tests
// =============================================================================

func TestMergeConfigOutputAndSnapshots(t *testing.T) {
	dir := t.TempDir()
	flows := writeFlows(t, dir)
	outPath := filepath.Join(dir, "from_config.json")
	dbPath := filepath.Join(dir, "snaps.db")

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf(`
output:
  file_path: %s
snapshots:
  enabled: true
  db_path: %s
  label: nightly
`, outPath, dbPath)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "merge", "-c", cfgPath, "--dynamic", flows); err != nil {
		t.Fatalf("merge with config failed: %v", err)
	}

	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("config output.file_path not honored: %v", err)
	}

	snapshots, err := store.NewBoltStore(dbPath)
	if err != nil {
		t.Fatalf("config snapshot database not created: %v", err)
	}
	defer snapshots.Close()

	if _, err := snapshots.Load("nightly"); err != nil {
		t.Errorf("config snapshot label not stored: %v", err)
	}
}

func TestMergeOutputFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	flows := writeFlows(t, dir)
	cfgOut := filepath.Join(dir, "from_config.json")
	flagOut := filepath.Join(dir, "from_flag.json")

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf("output:\n  file_path: %s\n", cfgOut)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "merge", "-c", cfgPath, "--dynamic", flows, "-o", flagOut); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	if _, err := os.Stat(flagOut); err != nil {
		t.Errorf("explicit -o not honored: %v", err)
	}
	if _, err := os.Stat(cfgOut); err == nil {
		t.Error("config output path written despite explicit -o")
	}
}
