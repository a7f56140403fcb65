package files

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestPathsAreRootedAtBase(t *testing.T) {
	tmp := t.TempDir()

	mgr, err := NewManager(tmp)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	date := time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)
	cases := map[string]string{
		mgr.MonthPath(date): filepath.Join(tmp, "export", "2025", "2025-11.md"),
		mgr.LogsPath():      filepath.Join(tmp, "logs.json"),
		mgr.ConfigPath():    filepath.Join(tmp, "config.yaml"),
		mgr.DatabasePath():  filepath.Join(tmp, "worklog.db"),
		mgr.LogDir():        filepath.Join(tmp, "logs"),
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("path = %q, want %q", got, want)
		}
	}
}

func TestWriteFileAtomicCreatesAndReplaces(t *testing.T) {
	mgr := NewManagerWithFs(afero.NewMemMapFs(), "/data")
	path := mgr.MonthPath(time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC))

	if err := mgr.WriteFileAtomic(path, []byte("first\n")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	if err := mgr.WriteFileAtomic(path, []byte("second\n")); err != nil {
		t.Fatalf("WriteFileAtomic second: %v", err)
	}

	got, err := mgr.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "second\n" {
		t.Fatalf("contents = %q, want %q", got, "second\n")
	}

	entries, err := afero.ReadDir(mgr.Fs(), filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("directory has %d files, want only the target", len(entries))
	}
}

func TestReadFileMissingReportsNotExist(t *testing.T) {
	mgr := NewManagerWithFs(afero.NewMemMapFs(), "/data")
	if _, err := mgr.ReadFile(mgr.LogsPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ReadFile error = %v, want os.ErrNotExist", err)
	}
	ok, err := mgr.Exists(mgr.LogsPath())
	if err != nil || ok {
		t.Fatalf("Exists = %v, %v; want false, nil", ok, err)
	}
}

func TestEnsureBaseCreatesDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "home")
	mgr, err := NewManager(base)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := mgr.EnsureBase(); err != nil {
		t.Fatalf("EnsureBase: %v", err)
	}
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		t.Fatalf("expected directory %q: %v", base, err)
	}
}
