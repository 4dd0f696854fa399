// Package cache implements the on-disk cache format: building it from source
// documents, loading and validating it, and reporting on it.
//
// A cache directory contains manifest.json, index.json, and one payload file
// per document. The manifest is written last at build time, so a directory
// containing a manifest is always a complete cache.
package cache

// CacheVersion is the schema-format version written into new manifests. It is
// independent of the software release version.
const CacheVersion = "v0"

// BuildConfigVersion is the build_config format version this implementation
// writes and fully understands. Caches carrying a newer version still load;
// see Open.
const BuildConfigVersion = "0"

const (
	manifestFile = "manifest.json"
	indexFile    = "index.json"
)

// BuildConfig records the configuration that produced a cache. Version is a
// string so that future formats remain representable.
type BuildConfig struct {
	Version   string `json:"version"`
	Tokenizer string `json:"tokenizer,omitempty"`
}

// DocumentEntry is one document row in the manifest.
type DocumentEntry struct {
	ID          string `json:"id"`
	File        string `json:"file"`
	ContentHash string `json:"content_hash"`
	SizeBytes   int64  `json:"size_bytes"`
	WordCount   int    `json:"word_count"`
}

// Manifest is the single source of truth for a built cache. created_at is the
// only field permitted to differ between two builds of identical sources.
type Manifest struct {
	CacheVersion  string          `json:"cache_version"`
	BuildConfig   BuildConfig     `json:"build_config"`
	DocumentCount int             `json:"document_count"`
	Documents     []DocumentEntry `json:"documents"`
	CreatedAt     string          `json:"created_at"`
}

// IndexEntry holds the precomputed term statistics for one document. Terms is
// a map so its JSON serialization is key-sorted and therefore byte-stable.
type IndexEntry struct {
	ID        string         `json:"id"`
	WordCount int            `json:"word_count"`
	SizeBytes int64          `json:"size_bytes"`
	Terms     map[string]int `json:"terms"`
}

// Index is the derived artifact stored alongside the manifest. It is a pure
// function of document ids and contents; two builds of the same sources
// produce byte-identical index files regardless of build location.
type Index struct {
	IndexVersion int          `json:"index_version"`
	Documents    []IndexEntry `json:"documents"`
}

// Handle is an opened, validated read-only view over a cache. It is owned by
// the operation that opened it and discarded when the operation completes;
// nothing caches handles across calls.
type Handle struct {
	Dir      string
	Manifest Manifest
	Index    Index
}
