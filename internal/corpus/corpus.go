// Package corpus supplies source documents to the retrieval index. Two
// document kinds are understood: the tabular fault record set (CSV rows
// rendered as readable sentences) and free-form procedural text (markdown
// split on heading boundaries). Sources that cannot be read produce an
// error to the index, which logs and continues; a missing corpus is never
// fatal.
package corpus

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Basiic0110/Obdly/internal/index"
)

// Discover scans dir for corpus sources matching the given glob patterns
// and returns a source per recognized file. CSV files become fault-table
// sources, markdown files become procedure sources; other matches are
// ignored. A missing directory yields no sources.
func Discover(dir string, patterns []string) []index.Source {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil
	}

	var sources []index.Source
	fsys := os.DirFS(dir)
	seen := map[string]bool{}
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern))
		if err != nil {
			continue
		}
		for _, rel := range matches {
			if seen[rel] {
				continue
			}
			seen[rel] = true
			full := filepath.Join(dir, filepath.FromSlash(rel))
			if info, err := fs.Stat(fsys, rel); err != nil || info.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(rel)) {
			case ".csv":
				sources = append(sources, NewFaultCSVSource(full))
			case ".md", ".markdown":
				sources = append(sources, NewMarkdownSource(full))
			}
		}
	}
	return sources
}
