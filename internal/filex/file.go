// Package filex contains filesystem helpers for client-side state.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureConfigDir returns the per-user directory for the given application
// name, creating it if needed.
func EnsureConfigDir(appName string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}

	dir := filepath.Join(base, appName)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
