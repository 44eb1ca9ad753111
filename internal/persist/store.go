// Package persist saves pins and settings across restarts and re-pins
// previously pinned applications on startup.
package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	pinerr "github.com/mj1618/pinit/internal/errors"
	"github.com/mj1618/pinit/internal/logging"
	"github.com/mj1618/pinit/internal/model"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

const (
	stateFileMode   = 0o600
	stateDirMode    = 0o700
	tempFilePattern = ".pinned-*.toml.tmp"
)

// Store reads and writes the state document.
type Store struct {
	path string
	mu   sync.Mutex
	log  *logrus.Entry
}

func NewStore(path string) *Store {
	return &Store{
		path: filepath.Clean(path),
		log:  logging.NewLogger("persist"),
	}
}

// Path returns the location of the state document.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state document. A missing file yields defaults and no
// error. An unreadable or malformed file yields defaults together with a
// CONFIG_INVALID error that callers are expected to log and move past.
func (s *Store) Load() (model.SavedState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := model.NewSavedState()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return state, nil
		}
		return state, pinerr.ConfigInvalid("cannot read "+s.path, err)
	}

	if err := toml.Unmarshal(data, &state); err != nil {
		return model.NewSavedState(), pinerr.ConfigInvalid("malformed state file "+s.path, err)
	}
	state.Normalize()

	s.log.WithFields(logrus.Fields{"path": s.path, "pins": len(state.Pins)}).Debug("Loaded state")
	return state, nil
}

// Save replaces the state document atomically.
func (s *Store) Save(state model.SavedState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.Normalize()

	if err := os.MkdirAll(filepath.Dir(s.path), stateDirMode); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := toml.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp state file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	cleanup = false

	s.log.WithFields(logrus.Fields{"path": s.path, "pins": len(state.Pins)}).Debug("Saved state")
	return nil
}
