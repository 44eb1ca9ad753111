package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "pinit"

// HomeEnv relocates every directory under one root, which keeps portable
// installs and tests away from the real user profile.
const HomeEnv = "PINIT_HOME"

func base(sub, xdgDir string) string {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Join(home, sub)
	}
	return filepath.Join(xdgDir, appName)
}

// ConfigDir holds config.toml.
func ConfigDir() string {
	return base("config", xdg.ConfigHome)
}

// DataDir holds the pinned-window state document.
func DataDir() string {
	return base("data", xdg.DataHome)
}

// StateDir holds logs.
func StateDir() string {
	return base("state", xdg.StateHome)
}

// DefaultStatePath is where pins and settings are persisted.
func DefaultStatePath() string {
	return filepath.Join(DataDir(), "pinned.toml")
}

// LogDir is where daily log files are written.
func LogDir() string {
	return filepath.Join(StateDir(), "logs")
}
