package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Open loads and validates the cache at dir, returning a read-only handle.
//
// Error kinds are kept strictly separate: a missing directory or manifest is
// ErrCacheMissing, a manifest that exists but cannot be read is ErrIO, and a
// readable manifest that is not a valid cache description is ErrCacheInvalid.
// A permission failure is never masked as a missing cache.
//
// Version gate: a manifest whose build_config.version is newer than
// BuildConfigVersion still loads, as long as it satisfies the structural
// checks below. The output schemas are version-independent, so accepting is
// total; a newer cache is never silently truncated.
//
// Open performs no mutation of the cache directory.
func Open(dir string) (*Handle, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCacheMissing, dir)
		}
		return nil, fmt.Errorf("%w: cannot stat %s: %w", ErrIO, dir, err)
	}

	manifest, err := readManifest(dir)
	if err != nil {
		return nil, err
	}
	if err := validateManifest(manifest); err != nil {
		return nil, err
	}

	idx, err := readIndex(dir)
	if err != nil {
		return nil, err
	}
	if err := validateIndex(manifest, idx); err != nil {
		return nil, err
	}

	return &Handle{Dir: dir, Manifest: *manifest, Index: *idx}, nil
}

func readManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, manifestFile)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no manifest in %s", ErrCacheMissing, dir)
		}
		return nil, fmt.Errorf("%w: cannot read manifest %s: %w", ErrIO, path, err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: malformed manifest %s: %w", ErrCacheInvalid, path, err)
	}
	return &m, nil
}

func validateManifest(m *Manifest) error {
	if m.DocumentCount != len(m.Documents) {
		return fmt.Errorf("%w: document_count %d does not match %d manifest entries",
			ErrCacheInvalid, m.DocumentCount, len(m.Documents))
	}
	seen := make(map[string]struct{}, len(m.Documents))
	for _, d := range m.Documents {
		if d.ID == "" {
			return fmt.Errorf("%w: manifest entry with empty id", ErrCacheInvalid)
		}
		if d.File == "" {
			return fmt.Errorf("%w: manifest entry %s has no payload file", ErrCacheInvalid, d.ID)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("%w: duplicate document id %s", ErrCacheInvalid, d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}

func readIndex(dir string) (*Index, error) {
	path := filepath.Join(dir, indexFile)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// A manifest implies a complete cache; a manifest without an
			// index is a broken cache, not a missing one.
			return nil, fmt.Errorf("%w: manifest present but index missing in %s", ErrCacheInvalid, dir)
		}
		return nil, fmt.Errorf("%w: cannot read index %s: %w", ErrIO, path, err)
	}
	var idx Index
	if err := json.Unmarshal(b, &idx); err != nil {
		return nil, fmt.Errorf("%w: malformed index %s: %w", ErrCacheInvalid, path, err)
	}
	return &idx, nil
}

// validateIndex checks that index entries pair 1:1 with manifest entries.
func validateIndex(m *Manifest, idx *Index) error {
	if len(idx.Documents) != len(m.Documents) {
		return fmt.Errorf("%w: index has %d entries, manifest has %d",
			ErrCacheInvalid, len(idx.Documents), len(m.Documents))
	}
	byID := make(map[string]struct{}, len(m.Documents))
	for _, d := range m.Documents {
		byID[d.ID] = struct{}{}
	}
	for _, e := range idx.Documents {
		if _, ok := byID[e.ID]; !ok {
			return fmt.Errorf("%w: index entry %s not in manifest", ErrCacheInvalid, e.ID)
		}
	}
	return nil
}
