package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestList_EnumeratesCacheShapedDirs(t *testing.T) {
	root := t.TempDir()
	sources := writeSources(t, map[string]string{"a.md": "hello"})

	for _, name := range []string{"zeta", "alpha"} {
		if _, err := Build(context.Background(), BuildOptions{
			SourceDir: sources,
			CacheDir:  filepath.Join(root, name),
		}); err != nil {
			t.Fatalf("Build %s: %v", name, err)
		}
	}
	// Not cache-shaped: a plain directory and a plain file.
	if err := os.MkdirAll(filepath.Join(root, "not-a-cache"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	infos, err := List(root)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 caches, got %d: %v", len(infos), infos)
	}
	if infos[0].Name != "alpha" || infos[1].Name != "zeta" {
		t.Fatalf("expected name-sorted entries, got %v", infos)
	}
	if infos[0].DocumentCount != 1 {
		t.Fatalf("document_count: %d", infos[0].DocumentCount)
	}
}

func TestList_MissingRootIsEmpty(t *testing.T) {
	infos, err := List(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("expected empty list, got %v", infos)
	}
}

func TestList_BadManifestStillListed(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "broken")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), []byte("not valid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	infos, err := List(root)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "broken" {
		t.Fatalf("broken cache should still list: %v", infos)
	}
	if infos[0].DocumentCount != 0 {
		t.Fatalf("unparsable manifest should report 0 documents, got %d", infos[0].DocumentCount)
	}
}
