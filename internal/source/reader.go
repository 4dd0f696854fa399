// Package source reads a directory of source documents into an ordered,
// content-addressed in-memory set.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is one source document prior to caching. ID is the path relative
// to the source root, forward-slash normalized.
type Document struct {
	ID      string
	Content []byte
}

// ReadDir reads every regular file under dir and returns the documents sorted
// by ID ascending. Filesystem enumeration order is platform-dependent, so the
// sort is what downstream code relies on, never the walk order.
//
// Dot-files and dot-directories are skipped.
func ReadDir(dir string) ([]Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot stat source directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path is not a directory: %s", dir)
	}

	var out []Document
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
		out = append(out, Document{
			ID:      filepath.ToSlash(rel),
			Content: b,
		})
		return nil
	}
	if err := filepath.WalkDir(dir, walkFn); err != nil {
		return nil, fmt.Errorf("cannot scan source directory %s: %w", dir, err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
