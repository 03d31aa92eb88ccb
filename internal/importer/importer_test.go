package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestImportDirDryRun verifies a dry run counts workouts and sets without
// needing a database connection.
func TestImportDirDryRun(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "export.csv"), []byte(sampleExport), 0o644); err != nil {
		t.Fatal(err)
	}

	imp := New(nil, nil, discardLog(), true)
	stats, err := imp.ImportDir(context.Background(), dir, 1)
	if err != nil {
		t.Fatalf("ImportDir: %v", err)
	}

	if stats.FilesScanned != 1 || stats.FilesImported != 1 {
		t.Errorf("scanned=%d imported=%d, want 1/1", stats.FilesScanned, stats.FilesImported)
	}
	if stats.Workouts != 2 {
		t.Errorf("workouts = %d, want 2", stats.Workouts)
	}
	if stats.Sets == 0 {
		t.Error("expected sets to be counted")
	}
}

// TestImportDirIgnoresNonCSV verifies only .csv files are considered.
func TestImportDirIgnoresNonCSV(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an export"), 0o644); err != nil {
		t.Fatal(err)
	}

	imp := New(nil, nil, discardLog(), true)
	stats, err := imp.ImportDir(context.Background(), dir, 1)
	if err != nil {
		t.Fatalf("ImportDir: %v", err)
	}
	if stats.FilesScanned != 0 {
		t.Errorf("scanned = %d, want 0", stats.FilesScanned)
	}
}

// TestStateDBRoundTrip verifies files marked imported are reported as such,
// and that a changed hash counts as a new file.
func TestStateDBRoundTrip(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	ok, err := state.IsImported("export.csv", 100, "abc")
	if err != nil {
		t.Fatalf("IsImported: %v", err)
	}
	if ok {
		t.Error("unseen file reported as imported")
	}

	if err := state.MarkImported("export.csv", 100, "abc"); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}

	ok, err = state.IsImported("export.csv", 100, "abc")
	if err != nil {
		t.Fatalf("IsImported: %v", err)
	}
	if !ok {
		t.Error("marked file not reported as imported")
	}

	ok, err = state.IsImported("export.csv", 100, "different")
	if err != nil {
		t.Fatalf("IsImported: %v", err)
	}
	if ok {
		t.Error("changed hash should not count as imported")
	}
}

// TestHashFile verifies hashing is stable and content-sensitive.
func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.csv")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	h1, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	h2, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if h1 != h2 {
		t.Error("hash not stable across reads")
	}

	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}
	h3, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if h3 == h1 {
		t.Error("hash unchanged after content change")
	}
}
