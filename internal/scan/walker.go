package scan

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/LFKoning/git-scan/internal/git"
)

// ErrMalformedTree indicates a tree entry line that does not match the
// "<mode> <type> <id> <name>" shape.
var ErrMalformedTree = errors.New("malformed tree object")

// Walker recursively descends tree objects collecting data files. One
// Walker and its Cache serve a whole scan run, so subtrees shared between
// commits are expanded once.
type Walker struct {
	store git.Store
	exts  ExtensionSet
	cache *Cache
}

// NewWalker returns a Walker reading trees from store and matching blob
// names against exts.
func NewWalker(store git.Store, exts ExtensionSet, cache *Cache) *Walker {
	return &Walker{store: store, exts: exts, cache: cache}
}

// Walk returns the data files under the tree with the given id. folder is
// the tree's path relative to the repository root ("" for the root tree).
//
// A tree already expanded during this run contributes nothing, even when
// the identical hash reappears at another point in history; see Cache.
func (w *Walker) Walk(treeID, folder string) ([]DataFile, error) {
	slog.Debug("processing tree", slog.String("tree", treeID), slog.String("folder", folder))
	if w.cache.visitedTree(treeID) {
		return nil, nil
	}
	content, err := w.store.ReadObject(treeID)
	if err != nil {
		return nil, err
	}

	var files []DataFile
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, err := parseTreeEntry(line)
		if err != nil {
			return nil, fmt.Errorf("tree %s: %w", treeID, err)
		}
		switch entry.objType {
		case git.TypeTree:
			sub, err := w.Walk(entry.id, path.Join(folder, entry.name))
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
		case git.TypeBlob:
			if !w.exts.Match(entry.name) {
				continue
			}
			key := blobKey{hash: entry.id, folder: folder, name: entry.name}
			if w.cache.markSeen(key) {
				files = append(files, DataFile{Name: entry.name, Folder: folder, Hash: entry.id})
			}
		default:
			// Submodules appear as "commit" entries; their objects live in
			// another repository's store.
		}
	}

	slog.Debug("found data files", slog.String("tree", treeID), slog.Int("count", len(files)))
	w.cache.memoizeTree(treeID, files)
	return files, nil
}

type treeEntry struct {
	mode    string
	objType git.ObjectType
	id      string
	name    string
}

// parseTreeEntry splits a "<mode> <type> <id>\t<name>" line. cat-file
// separates the name with a tab, which also keeps names containing spaces
// intact; space-separated input is accepted as a fallback, taking
// everything after the third field as the raw name.
func parseTreeEntry(line string) (treeEntry, error) {
	head, name, hasTab := strings.Cut(line, "\t")
	if !hasTab {
		if parts := strings.SplitN(line, " ", 4); len(parts) == 4 {
			head = strings.Join(parts[:3], " ")
			name = parts[3]
		}
	}
	fields := strings.Fields(head)
	if len(fields) != 3 || name == "" {
		return treeEntry{}, fmt.Errorf("%w: unexpected entry line %q", ErrMalformedTree, line)
	}
	return treeEntry{
		mode:    fields[0],
		objType: git.ObjectType(fields[1]),
		id:      fields[2],
		name:    name,
	}, nil
}
