package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644

	logsFileName     = "logs.json"
	configFileName   = "config.yaml"
	databaseFileName = "worklog.db"
	logDirName       = "logs"
	exportDirName    = "export"
)

// Manager centralizes where worklog data lives and how files are written.
type Manager struct {
	fs       afero.Fs
	basePath string
}

// NewManager constructs a Manager on the OS filesystem rooted at basePath.
// If basePath is empty, it falls back to ResolveBasePath.
func NewManager(basePath string) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	return &Manager{fs: afero.NewOsFs(), basePath: abs}, nil
}

// NewManagerWithFs roots a Manager at basePath on fs. Tests use an
// in-memory filesystem.
func NewManagerWithFs(fs afero.Fs, basePath string) *Manager {
	return &Manager{fs: fs, basePath: filepath.Clean(basePath)}
}

// Fs exposes the underlying filesystem.
func (m *Manager) Fs() afero.Fs {
	return m.fs
}

// BasePath returns the root directory storing all data.
func (m *Manager) BasePath() string {
	return m.basePath
}

// LogsPath is the JSON log store.
func (m *Manager) LogsPath() string {
	return filepath.Join(m.basePath, logsFileName)
}

// ConfigPath is the YAML settings file.
func (m *Manager) ConfigPath() string {
	return filepath.Join(m.basePath, configFileName)
}

// DatabasePath is the SQLite log store.
func (m *Manager) DatabasePath() string {
	return filepath.Join(m.basePath, databaseFileName)
}

// LogDir holds the application's own diagnostic logs.
func (m *Manager) LogDir() string {
	return filepath.Join(m.basePath, logDirName)
}

// MonthPath resolves the Markdown export file for the supplied time.
func (m *Manager) MonthPath(t time.Time) string {
	yearDir := filepath.Join(m.basePath, exportDirName, fmt.Sprintf("%04d", t.Year()))
	return filepath.Join(yearDir, fmt.Sprintf("%04d-%02d.md", t.Year(), t.Month()))
}

// EnsureBase creates the base directory if needed.
func (m *Manager) EnsureBase() error {
	if m == nil {
		return errors.New("files.Manager is nil")
	}
	if err := m.fs.MkdirAll(m.basePath, dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	return nil
}

// Exists reports whether path exists.
func (m *Manager) Exists(path string) (bool, error) {
	return afero.Exists(m.fs, path)
}

// ReadFile returns the contents of path. A missing file reports os.ErrNotExist.
func (m *Manager) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(m.fs, path)
}

// WriteFileAtomic replaces path by writing a temp file in the same
// directory and renaming it over the target.
func (m *Manager) WriteFileAtomic(path string, data []byte) error {
	if m == nil {
		return errors.New("files.Manager is nil")
	}
	dir := filepath.Dir(path)
	if err := m.fs.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	temp, err := afero.TempFile(m.fs, dir, "worklog-*")
	if err != nil {
		return err
	}
	defer m.fs.Remove(temp.Name())

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	mode := os.FileMode(filePermissions)
	if info, err := m.fs.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := m.fs.Chmod(temp.Name(), mode); err != nil {
		return err
	}
	return m.fs.Rename(temp.Name(), path)
}
