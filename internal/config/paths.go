package config

import (
	"os"
	"path/filepath"
)

// DefaultFile is the config file name looked up when --config is not given.
const DefaultFile = "astroblog.yaml"

// FindFile walks up from the working directory looking for name, stopping at
// the repository root (a directory containing .git). It returns name
// unchanged when nothing is found, which Load treats as "use defaults".
func FindFile(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	wd, err := os.Getwd()
	if err != nil {
		return name
	}

	dir := wd
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return name
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return name
		}
		dir = parent
	}
}
