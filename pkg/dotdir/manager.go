// Package dotdir locates the .chatrelay/ directory that holds config.toml.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the chatrelay directory.
	dirName = ".chatrelay"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the absolute path to the .chatrelay/ directory to use.
// Order of precedence is as follows:
//  1. Provided override, created if missing
//  2. Local ./.chatrelay/ dir
//  3. Home ~/.chatrelay/ dir
//
// An empty path with a nil error means no directory was found.
func (m *Manager) Target(overrideDir string) (string, error) {
	if overrideDir != "" {
		if err := os.MkdirAll(overrideDir, 0o755); err != nil {
			return "", fmt.Errorf("creating config directory %s: %w", overrideDir, err)
		}
		return filepath.Abs(overrideDir)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	if dir := filepath.Join(cwd, dirName); isDir(dir) {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// No home (e.g. minimal containers) simply means no home config.
		return "", nil
	}
	if dir := filepath.Join(home, dirName); isDir(dir) {
		return dir, nil
	}

	return "", nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
