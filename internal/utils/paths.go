// Package utils holds small helpers shared by the CLI and config loaders.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath resolves p against baseDir. Absolute paths are returned
// unchanged, a leading "~/" is expanded to the user's home directory and an
// empty path stays empty.
func ResolvePath(p, baseDir string) string {
	switch {
	case p == "":
		return ""
	case p == "~" || strings.HasPrefix(p, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
		return p
	case filepath.IsAbs(p):
		return p
	default:
		return filepath.Join(baseDir, p)
	}
}
