package model

import (
	"os"
	"path/filepath"
)

// defaultCacheDir picks a per-user cache location, falling back to a
// relative directory when the home directory cannot be resolved.
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".perturbia-cache"
	}
	return filepath.Join(home, ".perturbia", "cache")
}
