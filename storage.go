package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultLockTimeout is the default timeout for acquiring fetch locks.
const DefaultLockTimeout = 30 * time.Second

// storageInterface defines operations for local filesystem management.
// Implemented by *storage for production and mock storages for tests.
type storageInterface interface {
	// dir returns the absolute assets directory.
	dir() string

	// modelPath returns the absolute destination path for a model file.
	modelPath(m Model) string

	// lockPath returns the path of the advisory lock file for a model.
	lockPath(m Model) string

	// ensureDir creates a directory and all parents if they don't exist.
	// Succeeds silently if the directory is already present.
	ensureDir(path string) error

	// createDest opens the destination file for writing, truncating any
	// existing file at that path.
	createDest(m Model) (*os.File, error)

	// statModel stats a model file. Returns ErrNotFetched if absent.
	statModel(m Model) (os.FileInfo, error)

	// removeModel deletes a model file. Returns ErrNotFetched if absent.
	removeModel(m Model) error
}

// storage handles all local filesystem operations.
// Implements storageInterface.
type storage struct {
	// baseDir is the absolute assets directory.
	baseDir string

	// appName is the application name, used for the env var prefix and the
	// platform default directory.
	appName string

	// lockTimeout is the maximum duration to wait for lock acquisition.
	lockTimeout time.Duration
}

// Ensure storage implements storageInterface.
var _ storageInterface = (*storage)(nil)

// envVarName constructs an environment variable name from the app name.
// Example: envVarName("forma") returns "FORMA_MODELS_DIR".
func envVarName(appName string) string {
	return strings.ToUpper(appName) + "_MODELS_DIR"
}

// newStorage creates a new storage instance for the given configuration.
// The assets directory is resolved to an absolute path and created.
func newStorage(cfg Config) (*storage, error) {
	var baseDir string

	// Priority: env var > Config.AssetsDir > platform default
	if envDir := os.Getenv(envVarName(cfg.AppName)); envDir != "" {
		baseDir = envDir
	} else if cfg.AssetsDir != "" {
		baseDir = cfg.AssetsDir
	} else {
		defaultDir, err := getDefaultDataDir(cfg.AppName)
		if err != nil {
			return nil, fmt.Errorf("failed to get default assets dir: %w", err)
		}
		baseDir = defaultDir
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving assets dir: %v", ErrStorageError, err)
	}

	s := &storage{baseDir: abs, appName: cfg.AppName, lockTimeout: DefaultLockTimeout}

	if err := s.ensureDir(abs); err != nil {
		return nil, err
	}

	return s, nil
}

// dir returns the absolute assets directory.
func (s *storage) dir() string {
	return s.baseDir
}

// modelPath returns the absolute destination path for a model file.
func (s *storage) modelPath(m Model) string {
	return filepath.Join(s.baseDir, m.FileName)
}

// lockPath returns the path of the advisory lock file for a model.
func (s *storage) lockPath(m Model) string {
	return filepath.Join(s.baseDir, "."+m.FileName+".lock")
}

// ensureDir creates a directory and all parent directories if they don't exist.
func (s *storage) ensureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %v", ErrStorageError, path, err)
	}
	return nil
}

// createDest opens the destination file for writing. Any existing file at
// that path is truncated; there is no confirmation prompt.
func (s *storage) createDest(m Model) (*os.File, error) {
	f, err := os.OpenFile(s.modelPath(m), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s for writing: %v", ErrStorageError, s.modelPath(m), err)
	}
	return f, nil
}

// statModel stats a model file. Returns ErrNotFetched if absent.
func (s *storage) statModel(m Model) (os.FileInfo, error) {
	info, err := os.Stat(s.modelPath(m))
	if os.IsNotExist(err) {
		return nil, ErrNotFetched
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}
	return info, nil
}

// removeModel deletes a model file. Returns ErrNotFetched if absent.
func (s *storage) removeModel(m Model) error {
	err := os.Remove(s.modelPath(m))
	if os.IsNotExist(err) {
		return ErrNotFetched
	}
	if err != nil {
		return fmt.Errorf("%w: failed to remove model file: %v", ErrStorageError, err)
	}
	return nil
}
