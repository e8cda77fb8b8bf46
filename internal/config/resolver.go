package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalFileName is the configuration file looked up in the working directory.
const LocalFileName = "clawslist-mcp.yaml"

// SearchPaths returns the implicit configuration locations in lookup order.
func SearchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "clawslist", "mcp.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "clawslist", "mcp.yaml"))
	}
	return append(paths, LocalFileName)
}

// ResolvePath picks the configuration file to load. An explicit path must
// exist. Otherwise the first existing SearchPaths entry wins, and "" means
// none exists.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		return explicit, nil
	}

	for _, p := range SearchPaths() {
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config: %w", err)
		}
	}
	return "", nil
}
