package datadir

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Cache memoizes directory listings below the data root. Listings are
// dropped whenever the window is shown again, since files may have been
// added while the game was in the background.
type Cache struct {
	mu      sync.Mutex
	root    string
	entries map[string][]string
	hits    int
	// gen changes on every SetRoot and Invalidate, so a listing read
	// before the change is not stored after it.
	gen     uint64
	readDir func(string) ([]os.DirEntry, error)
}

// NewCache creates a listing cache rooted at root.
func NewCache(root string) *Cache {
	return &Cache{root: root, entries: make(map[string][]string), readDir: os.ReadDir}
}

// Root returns the data root.
func (c *Cache) Root() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}

// SetRoot changes the data root and drops all listings.
func (c *Cache) SetRoot(root string) {
	c.mu.Lock()
	c.root = root
	c.entries = make(map[string][]string)
	c.gen++
	c.mu.Unlock()
}

// List returns the sorted file names in dir, relative to the root. The
// caller owns the returned slice.
func (c *Cache) List(dir string) ([]string, error) {
	key := filepath.Clean(dir)

	c.mu.Lock()
	if names, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return slices.Clone(names), nil
	}
	root, gen := c.root, c.gen
	c.mu.Unlock()

	entries, err := c.readDir(filepath.Join(root, key))
	if err != nil {
		return nil, fmt.Errorf("datadir: cannot list %s: %w", key, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	c.mu.Lock()
	if c.gen == gen {
		c.entries[key] = names
	}
	c.mu.Unlock()
	return slices.Clone(names), nil
}

// Lookup finds name in dir ignoring case, as the original game files ship
// with inconsistent capitalization.
func (c *Cache) Lookup(dir, name string) (string, bool) {
	names, err := c.List(dir)
	if err != nil {
		return "", false
	}
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return filepath.Join(c.Root(), filepath.Clean(dir), n), true
		}
	}
	return "", false
}

// Invalidate drops all cached listings.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string][]string)
	c.gen++
	c.mu.Unlock()
}

// Hits returns how many listings were served from memory.
func (c *Cache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}
