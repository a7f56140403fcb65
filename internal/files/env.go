package files

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName is the data folder created under the user's home directory.
	DefaultDirName = ".worklog"
	// HomeEnv overrides the data directory.
	HomeEnv = "WORKLOG_HOME"
)

var errEmptyHome = errors.New("home directory is empty")

// ResolveBasePath returns the worklog data directory: $WORKLOG_HOME when set,
// otherwise ~/.worklog. A leading ~ in the override expands to the home directory.
func ResolveBasePath() (string, error) {
	return resolveBase(os.LookupEnv, os.UserHomeDir)
}

func resolveBase(lookup func(string) (string, bool), home func() (string, error)) (string, error) {
	if override, ok := lookup(HomeEnv); ok {
		if override = strings.TrimSpace(override); override != "" {
			return expandHome(override, home)
		}
	}
	dir, err := home()
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", errEmptyHome
	}
	return filepath.Join(dir, DefaultDirName), nil
}

func expandHome(path string, home func() (string, error)) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return filepath.Clean(path), nil
	}
	dir, err := home()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, strings.TrimPrefix(path, "~")), nil
}
