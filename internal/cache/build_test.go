package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contextops/context-cli/internal/source"
)

func sourceDoc(id, content string) source.Document {
	return source.Document{ID: id, Content: []byte(content)}
}

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

var testSources = map[string]string{
	"a.md":       "hello world hello",
	"b.md":       "deployment guide for deployment",
	"sub/c.md":   "security notes",
	"empty.md":   "",
	"numbers.md": "v2 rollout v2 v2",
}

func TestBuild_WritesCompleteCache(t *testing.T) {
	sources := writeSources(t, testSources)
	cacheDir := filepath.Join(t.TempDir(), "cache")

	manifest, err := Build(context.Background(), BuildOptions{SourceDir: sources, CacheDir: cacheDir})
	require.NoError(t, err)

	require.Equal(t, CacheVersion, manifest.CacheVersion)
	require.Equal(t, BuildConfigVersion, manifest.BuildConfig.Version)
	require.Equal(t, len(testSources), manifest.DocumentCount)
	require.Len(t, manifest.Documents, len(testSources))

	// Entries sorted by id.
	for i := 1; i < len(manifest.Documents); i++ {
		require.Less(t, manifest.Documents[i-1].ID, manifest.Documents[i].ID)
	}

	// Every referenced payload exists with the recorded size.
	for _, d := range manifest.Documents {
		st, err := os.Stat(filepath.Join(cacheDir, d.File))
		require.NoError(t, err, "payload for %s", d.ID)
		require.Equal(t, d.SizeBytes, st.Size())
	}

	// The written cache opens and validates.
	h, err := Open(cacheDir)
	require.NoError(t, err)
	require.Len(t, h.Index.Documents, len(testSources))
}

func TestBuild_Deterministic(t *testing.T) {
	sources := writeSources(t, testSources)
	base := t.TempDir()
	cache1 := filepath.Join(base, "one")
	cache2 := filepath.Join(base, "nested", "two")

	m1, err := Build(context.Background(), BuildOptions{SourceDir: sources, CacheDir: cache1})
	require.NoError(t, err)
	m2, err := Build(context.Background(), BuildOptions{SourceDir: sources, CacheDir: cache2})
	require.NoError(t, err)

	// Everything except created_at must be equal.
	require.Equal(t, m1.CacheVersion, m2.CacheVersion)
	require.Equal(t, m1.BuildConfig, m2.BuildConfig)
	require.Equal(t, m1.DocumentCount, m2.DocumentCount)
	require.Equal(t, m1.Documents, m2.Documents)

	// Index files must be byte-identical despite different target paths.
	i1, err := os.ReadFile(filepath.Join(cache1, "index.json"))
	require.NoError(t, err)
	i2, err := os.ReadFile(filepath.Join(cache2, "index.json"))
	require.NoError(t, err)
	require.Equal(t, i1, i2, "index.json differs between builds")

	// Payload files must be byte-identical.
	for _, d := range m1.Documents {
		p1, err := os.ReadFile(filepath.Join(cache1, d.File))
		require.NoError(t, err)
		p2, err := os.ReadFile(filepath.Join(cache2, d.File))
		require.NoError(t, err)
		require.Equal(t, p1, p2, "payload %s differs", d.ID)
	}
}

func TestBuild_ExistingCacheNeedsForce(t *testing.T) {
	sources := writeSources(t, testSources)
	cacheDir := filepath.Join(t.TempDir(), "cache")

	_, err := Build(context.Background(), BuildOptions{SourceDir: sources, CacheDir: cacheDir})
	require.NoError(t, err)

	_, err = Build(context.Background(), BuildOptions{SourceDir: sources, CacheDir: cacheDir})
	require.ErrorIs(t, err, ErrCacheExists)

	_, err = Build(context.Background(), BuildOptions{SourceDir: sources, CacheDir: cacheDir, Force: true})
	require.NoError(t, err)

	h, err := Open(cacheDir)
	require.NoError(t, err)
	require.Equal(t, len(testSources), h.Manifest.DocumentCount)
}

func TestBuild_MissingSources(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	_, err := Build(context.Background(), BuildOptions{
		SourceDir: filepath.Join(t.TempDir(), "nope"),
		CacheDir:  cacheDir,
	})
	require.ErrorIs(t, err, ErrIO)

	// A failed build must not leave a partial cache behind.
	_, statErr := os.Stat(cacheDir)
	require.True(t, os.IsNotExist(statErr))
}

func TestBuild_PayloadNamesDeriveFromID(t *testing.T) {
	require.Equal(t, payloadName("a.md"), payloadName("a.md"))
	require.NotEqual(t, payloadName("a.md"), payloadName("b.md"))
	require.NotEqual(t, payloadName("a/b.md"), payloadName("a_b.md"))
}

func TestDeriveDocument_TermCounts(t *testing.T) {
	d := deriveDocument(sourceDoc("b.md", "deployment guide for deployment"))
	require.Equal(t, 4, d.index.WordCount)
	require.Equal(t, 2, d.index.Terms["deployment"])
	require.Equal(t, 1, d.index.Terms["guide"])
	require.Equal(t, d.entry.WordCount, d.index.WordCount)
	require.NotEmpty(t, d.entry.ContentHash)
}
