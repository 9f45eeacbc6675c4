// Package scan implements the repository history scan: commit parsing,
// recursive tree descent with memoization, and chronological assembly of
// the commit → data files inventory.
package scan

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/LFKoning/git-scan/internal/git"
)

// CommitFiles pairs a commit with the data files first reported under it.
type CommitFiles struct {
	Commit Commit
	Files  []DataFile
}

// Result is the commit → data files inventory, in chronological commit
// order.
type Result []CommitFiles

// FileCount returns the total number of data files in the result.
func (r Result) FileCount() int {
	total := 0
	for _, cf := range r {
		total += len(cf.Files)
	}
	return total
}

// Scanner walks every commit in a repository's history looking for data
// files.
type Scanner struct {
	store git.Store
	exts  ExtensionSet
}

// New returns a Scanner over store. When exts is empty the default
// extension set is used.
func New(store git.Store, exts ExtensionSet) *Scanner {
	if len(exts) == 0 {
		exts = NewExtensionSet(DefaultExtensions...)
	}
	return &Scanner{store: store, exts: exts}
}

// Run scans the full history once. Any store read failure or malformed
// commit aborts the scan with no partial result: an incomplete object
// enumeration would produce a misleadingly incomplete inventory.
func (s *Scanner) Run() (Result, error) {
	slog.Info("listing objects in the repository")
	objects, err := s.store.ListObjects()
	if err != nil {
		return nil, err
	}

	hashes := objects[git.TypeCommit]
	slog.Info("processing commit objects", slog.Int("commits", len(hashes)))
	commits := make([]Commit, 0, len(hashes))
	for _, hash := range hashes {
		slog.Debug("processing commit", slog.String("commit", hash))
		raw, err := s.store.ReadObject(hash)
		if err != nil {
			return nil, err
		}
		commit, err := ParseCommit(hash, raw)
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)
	}
	// Ties keep enumeration order.
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].When.Before(commits[j].When)
	})

	walker := NewWalker(s.store, s.exts, NewCache())
	var result Result
	for _, commit := range commits {
		files, err := walker.Walk(commit.TreeHash, "")
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", commit.Hash, err)
		}
		if len(files) > 0 {
			result = append(result, CommitFiles{Commit: commit, Files: files})
		}
	}
	slog.Info("finished scanning", slog.Int("data_files", result.FileCount()))
	return result, nil
}
