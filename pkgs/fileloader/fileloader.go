// Package fileloader implements parser.Loader against the local
// filesystem: the one concrete "include PATH" resolver shipped with
// cartconf, as opposed to the parser's abstract Loader seam.
package fileloader

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader resolves "include PATH" relative to the including file's own
// directory (or the working directory, for the root document), and
// reports the included file's base name as its resolvedName -- the form
// the specification's "_name_map_file"/"_short_name_map_file" bookkeeping
// expects, not the full resolved path.
type Loader struct{}

// New returns a filesystem-backed Loader.
func New() Loader { return Loader{} }

func (Loader) Load(includingFile, path string) (resolvedName, content string, err error) {
	resolved := path
	if !filepath.IsAbs(resolved) && includingFile != "" {
		resolved = filepath.Join(filepath.Dir(includingFile), path)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", "", fmt.Errorf("include %q: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", "", fmt.Errorf("include %q: not a regular file", path)
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		return "", "", fmt.Errorf("include %q: %w", path, err)
	}
	return filepath.Base(resolved), string(raw), nil
}
