package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/contextops/context-cli/internal/source"
)

// BuildOptions controls cache building.
type BuildOptions struct {
	SourceDir string
	CacheDir  string
	Force     bool
}

// derived holds the per-document values computed during a build. Slots are
// filled by index position so parallel computation cannot perturb output
// order.
type derived struct {
	entry DocumentEntry
	index IndexEntry
}

// Build reads the source documents and writes a complete cache to
// opts.CacheDir.
//
// Everything in the cache except created_at is a pure function of document
// ids and contents: payload names and content hashes derive from the
// documents, never from enumeration order, absolute paths, or the clock. The
// cache is staged in a temp directory next to the target and renamed into
// place, with the manifest written last, so an observer never sees a manifest
// referencing missing files.
func Build(ctx context.Context, opts BuildOptions) (*Manifest, error) {
	if opts.SourceDir == "" {
		return nil, fmt.Errorf("source directory is required")
	}
	if opts.CacheDir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}

	if _, err := os.Stat(filepath.Join(opts.CacheDir, manifestFile)); err == nil && !opts.Force {
		return nil, fmt.Errorf("%w: %s (use --force to overwrite)", ErrCacheExists, opts.CacheDir)
	}

	docs, err := source.ReadDir(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	parent := filepath.Dir(opts.CacheDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("%w: cannot create cache parent %s: %w", ErrIO, parent, err)
	}

	// Concurrent builders targeting the same directory are out of contract;
	// the lock turns that mistake into a clean error instead of a corrupt
	// cache.
	lock := flock.New(opts.CacheDir + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot acquire build lock: %w", ErrIO, err)
	}
	if !locked {
		return nil, fmt.Errorf("another build is in progress for %s", opts.CacheDir)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(opts.CacheDir + ".lock")
	}()

	slots := make([]derived, len(docs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			slots[i] = deriveDocument(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]DocumentEntry, 0, len(docs))
	idx := Index{IndexVersion: 1, Documents: make([]IndexEntry, 0, len(docs))}
	for _, s := range slots {
		entries = append(entries, s.entry)
		idx.Documents = append(idx.Documents, s.index)
	}

	manifest := &Manifest{
		CacheVersion: CacheVersion,
		BuildConfig: BuildConfig{
			Version:   BuildConfigVersion,
			Tokenizer: source.TokenizerID,
		},
		DocumentCount: len(entries),
		Documents:     entries,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	staged, err := os.MkdirTemp(parent, ".context-build-*")
	if err != nil {
		return nil, fmt.Errorf("%w: cannot create staging directory: %w", ErrIO, err)
	}
	defer os.RemoveAll(staged)

	if err := writeCache(staged, manifest, idx, docs); err != nil {
		return nil, err
	}
	if err := publish(staged, opts.CacheDir); err != nil {
		return nil, fmt.Errorf("%w: cannot install cache %s: %w", ErrIO, opts.CacheDir, err)
	}
	return manifest, nil
}

// deriveDocument computes the manifest entry and index entry for one document.
func deriveDocument(doc source.Document) derived {
	tokens := source.Tokenize(string(doc.Content))
	terms := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		terms[tok]++
	}
	size := int64(len(doc.Content))
	return derived{
		entry: DocumentEntry{
			ID:          doc.ID,
			File:        payloadName(doc.ID),
			ContentHash: fmt.Sprintf("%016x", xxhash.Sum64(doc.Content)),
			SizeBytes:   size,
			WordCount:   len(tokens),
		},
		index: IndexEntry{
			ID:        doc.ID,
			WordCount: len(tokens),
			SizeBytes: size,
			Terms:     terms,
		},
	}
}

// payloadName derives the payload file name for a document id. Hashing keeps
// names filesystem-safe and collision-free for distinct ids.
func payloadName(id string) string {
	return fmt.Sprintf("%016x.txt", xxhash.Sum64String(id))
}

// writeCache writes payloads, then the index, then the manifest, in that
// order. The manifest going last is the crash-consistency contract.
func writeCache(dir string, manifest *Manifest, idx Index, docs []source.Document) error {
	for i, doc := range docs {
		path := filepath.Join(dir, manifest.Documents[i].File)
		if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
			return fmt.Errorf("%w: cannot write payload %s: %w", ErrIO, path, err)
		}
	}

	ib, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, indexFile), append(ib, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: cannot write index: %w", ErrIO, err)
	}

	mb, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), append(mb, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: cannot write manifest: %w", ErrIO, err)
	}
	return nil
}

// publish moves the staged cache into place, replacing destDir if it exists.
// A backup rename makes the replacement recoverable if the final rename fails.
func publish(srcDir, destDir string) error {
	backup := destDir + ".bak"
	_ = os.RemoveAll(backup)
	if _, err := os.Stat(destDir); err == nil {
		if err := os.Rename(destDir, backup); err != nil {
			return err
		}
	}
	if err := os.Rename(srcDir, destDir); err != nil {
		if _, stErr := os.Stat(backup); stErr == nil {
			_ = os.Rename(backup, destDir)
		}
		return err
	}
	_ = os.RemoveAll(backup)
	return nil
}
