package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DocumentSummary is the optional per-document detail in an inspect report.
type DocumentSummary struct {
	ID        string `json:"id"`
	WordCount int    `json:"word_count"`
}

// Report is the inspect output. Every field is derived from the manifest
// alone, so repeated inspections of an unmodified cache are identical
// field-for-field; nothing here varies run to run.
type Report struct {
	CacheVersion  string            `json:"cache_version"`
	DocumentCount int               `json:"document_count"`
	Valid         bool              `json:"valid"`
	Detail        string            `json:"detail,omitempty"`
	Documents     []DocumentSummary `json:"documents,omitempty"`
}

// InspectOptions controls the level of detail in a Report.
type InspectOptions struct {
	Documents bool
}

// Inspect reports structural metadata about the cache at dir without
// resolving queries.
//
// A corrupt-but-present cache is not a hard error: the report carries
// valid:false plus whatever metadata could be salvaged. Only an entirely
// absent directory or manifest fails, with ErrCacheMissing, and an unreadable
// manifest fails with ErrIO.
func Inspect(dir string, opts InspectOptions) (*Report, error) {
	h, err := Open(dir)
	if err != nil {
		if errors.Is(err, ErrCacheInvalid) {
			return salvageReport(dir), nil
		}
		return nil, err
	}

	r := &Report{
		CacheVersion:  h.Manifest.CacheVersion,
		DocumentCount: h.Manifest.DocumentCount,
		Valid:         true,
	}
	if opts.Documents {
		r.Documents = make([]DocumentSummary, 0, len(h.Manifest.Documents))
		for _, d := range h.Manifest.Documents {
			r.Documents = append(r.Documents, DocumentSummary{ID: d.ID, WordCount: d.WordCount})
		}
	}
	return r, nil
}

// salvageReport re-reads an invalid manifest loosely and keeps whatever
// fields parsed. The detail string is derived from structure only, so the
// report stays stable across repeated calls.
func salvageReport(dir string) *Report {
	r := &Report{Valid: false, Detail: "manifest is not a valid cache description"}

	b, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return r
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return r
	}
	r.CacheVersion = m.CacheVersion
	r.DocumentCount = m.DocumentCount
	if m.DocumentCount != len(m.Documents) {
		r.Detail = fmt.Sprintf("document_count %d does not match %d manifest entries",
			m.DocumentCount, len(m.Documents))
	} else if validateManifest(&m) == nil {
		// Manifest itself is sound, so Open must have rejected the index.
		r.Detail = "index is missing or invalid"
	}
	return r
}
