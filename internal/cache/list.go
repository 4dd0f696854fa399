package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Info identifies one cache-shaped directory under a cache root.
type Info struct {
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
}

// List enumerates cache-shaped directories (those containing a manifest file)
// directly under root, sorted by name.
//
// Enumeration is deliberately cheap: it parses each manifest for its document
// count but never opens the index or payloads, and a directory whose manifest
// does not parse is still listed rather than failing the whole enumeration.
// A nonexistent root yields an empty list.
func List(root string) ([]Info, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("%w: cannot read cache root %s: %w", ErrIO, root, err)
	}

	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(root, e.Name(), manifestFile)
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		info := Info{Name: e.Name()}
		var m Manifest
		if err := json.Unmarshal(b, &m); err == nil {
			info.DocumentCount = m.DocumentCount
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
