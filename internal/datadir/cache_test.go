package datadir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheList(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"C3.SG2", "c3.eng", "maps"} {
		path := filepath.Join(root, name)
		if name == "maps" {
			if err := os.Mkdir(path, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c := NewCache(root)
	names, err := c.List(".")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(names) != 2 || names[0] != "C3.SG2" || names[1] != "c3.eng" {
		t.Errorf("List() = %v", names)
	}

	// New files are not seen until the cache is invalidated.
	if err := os.WriteFile(filepath.Join(root, "new.map"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	names, _ = c.List(".")
	if len(names) != 2 || c.Hits() != 1 {
		t.Errorf("List() after add = %v, hits %d", names, c.Hits())
	}

	c.Invalidate()
	names, _ = c.List(".")
	if len(names) != 3 {
		t.Errorf("List() after Invalidate = %v", names)
	}
}

func TestCacheLookup(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "C3.SG2"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewCache(root)

	path, ok := c.Lookup(".", "c3.sg2")
	if !ok || path != filepath.Join(root, "C3.SG2") {
		t.Errorf("Lookup() = %q, %v", path, ok)
	}
	if _, ok := c.Lookup(".", "missing.sg2"); ok {
		t.Error("Lookup(missing) found a file")
	}
	if _, ok := c.Lookup("nope", "x"); ok {
		t.Error("Lookup in missing dir found a file")
	}

	c.SetRoot(t.TempDir())
	if _, ok := c.Lookup(".", "c3.sg2"); ok {
		t.Error("Lookup() after SetRoot used the old root")
	}
}

func TestCacheListReturnsCopy(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "c3.eng"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewCache(root)
	names, err := c.List(".")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	names[0] = "changed"

	again, err := c.List(".")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if again[0] != "c3.eng" {
		t.Errorf("cached listing was modified through the returned slice: %v", again)
	}
	again[0] = "changed too"
	if third, _ := c.List("."); third[0] != "c3.eng" {
		t.Errorf("cache hit returned the cached slice itself: %v", third)
	}
}

func TestCacheDropsListingReadAcrossRootChange(t *testing.T) {
	oldRoot, newRoot := t.TempDir(), t.TempDir()
	if err := os.WriteFile(filepath.Join(oldRoot, "old.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(newRoot, "new.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		change func(c *Cache)
	}{
		{"set root", func(c *Cache) { c.SetRoot(newRoot) }},
		{"invalidate", func(c *Cache) { c.Invalidate() }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCache(oldRoot)
			changed := false
			c.readDir = func(path string) ([]os.DirEntry, error) {
				entries, err := os.ReadDir(path)
				if !changed {
					changed = true
					tc.change(c)
				}
				return entries, err
			}

			names, err := c.List(".")
			if err != nil {
				t.Fatalf("List() failed: %v", err)
			}
			if len(names) != 1 || names[0] != "old.txt" {
				t.Errorf("List() = %v, expected the listing that was read", names)
			}

			// The stale listing must not have been stored.
			hits := c.Hits()
			if _, err := c.List("."); err != nil {
				t.Fatalf("List() failed: %v", err)
			}
			if c.Hits() != hits {
				t.Error("a listing read before the change was served from the cache")
			}
		})
	}
}
