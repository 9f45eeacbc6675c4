package scan

import "sync"

type blobKey struct {
	hash   string
	folder string
	name   string
}

// Cache memoizes work shared across commits within a single scan run.
//
// treeMemo records every tree that was fully expanded; a tree found there
// never contributes files again, even when the identical hash reappears
// at a later point in history (a revert, for instance). seenBlobs records
// every (content, location) pair already reported, so an unchanged file
// reached through differing parent trees is reported once.
//
// A single mutex guards both tables: memo lookups gate recursive work and
// seen-blob insertion must be an atomic check-and-set, so walkers sharing
// one Cache stay correct even when run concurrently.
type Cache struct {
	mu        sync.Mutex
	treeMemo  map[string][]DataFile
	seenBlobs map[blobKey]struct{}
}

// NewCache returns an empty cache scoped to one scan run.
func NewCache() *Cache {
	return &Cache{
		treeMemo:  map[string][]DataFile{},
		seenBlobs: map[blobKey]struct{}{},
	}
}

// visitedTree reports whether the tree was already fully expanded.
func (c *Cache) visitedTree(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.treeMemo[id]
	return ok
}

// memoizeTree records the files found under the tree, empty results
// included, so a later identical tree hash short-circuits instantly.
func (c *Cache) memoizeTree(id string, files []DataFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.treeMemo[id] = files
}

// markSeen records a (blob, folder, name) triple and reports whether it
// was new.
func (c *Cache) markSeen(key blobKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seenBlobs[key]; ok {
		return false
	}
	c.seenBlobs[key] = struct{}{}
	return true
}
