package git

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

type goGitStore struct {
	path string
	repo *gitlib.Repository
}

// OpenGoGit opens the repository at repoPath without shelling out to git.
func OpenGoGit(repoPath string) (Store, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &goGitStore{path: repoRoot(repo, abs), repo: repo}, nil
}

// repoRoot resolves the top-level directory of the opened repository.
// DetectDotGit can open a repository sitting above the path the caller
// gave us, so the caller's argument is only a last resort.
func repoRoot(repo *gitlib.Repository, fallback string) string {
	if wt, err := repo.Worktree(); err == nil {
		return wt.Filesystem.Root()
	}
	// Bare repositories have no worktree; the storage directory is the
	// root.
	if st, ok := repo.Storer.(*filesystem.Storage); ok {
		return st.Filesystem().Root()
	}
	return fallback
}

func (s *goGitStore) RepoPath() string {
	return s.path
}

func (s *goGitStore) ListObjects() (map[ObjectType][]string, error) {
	iter, err := s.repo.Storer.IterEncodedObjects(plumbing.AnyObject)
	if err != nil {
		return nil, &StoreError{Op: "list objects", Err: err}
	}
	defer iter.Close()

	objects := map[ObjectType][]string{}
	seen := map[string]struct{}{}
	err = iter.ForEach(func(obj plumbing.EncodedObject) error {
		// Loose and packed storage can both hold an object.
		id := obj.Hash().String()
		if _, ok := seen[id]; ok {
			return nil
		}
		seen[id] = struct{}{}
		typ := ObjectType(obj.Type().String())
		objects[typ] = append(objects[typ], id)
		return nil
	})
	if err != nil {
		return nil, &StoreError{Op: "list objects", Err: err}
	}
	return objects, nil
}

func (s *goGitStore) ReadObject(id string) (string, error) {
	id = strings.TrimSpace(id)
	if !plumbing.IsHash(id) {
		return "", &StoreError{Op: "read object", ID: id, Err: fmt.Errorf("not an object id")}
	}
	obj, err := s.repo.Storer.EncodedObject(plumbing.AnyObject, plumbing.NewHash(id))
	if err != nil {
		return "", &StoreError{Op: "read object", ID: id, Err: err}
	}
	if obj.Type() == plumbing.TreeObject {
		tree, err := object.DecodeTree(s.repo.Storer, obj)
		if err != nil {
			return "", &StoreError{Op: "read object", ID: id, Err: err}
		}
		return formatTree(tree), nil
	}
	// Commits, tags and blobs are already stored in their printable form.
	r, err := obj.Reader()
	if err != nil {
		return "", &StoreError{Op: "read object", ID: id, Err: err}
	}
	defer r.Close()
	content, err := io.ReadAll(r)
	if err != nil {
		return "", &StoreError{Op: "read object", ID: id, Err: err}
	}
	return string(content), nil
}

// formatTree renders tree entries the way `git cat-file -p` prints them:
// "<mode> <type> <id>\t<name>", one entry per line.
func formatTree(tree *object.Tree) string {
	var b strings.Builder
	for _, entry := range tree.Entries {
		fmt.Fprintf(&b, "%06o %s %s\t%s\n",
			uint32(entry.Mode), entryType(entry.Mode), entry.Hash.String(), entry.Name)
	}
	return b.String()
}

func entryType(mode filemode.FileMode) ObjectType {
	switch mode {
	case filemode.Dir:
		return TypeTree
	case filemode.Submodule:
		// Gitlinks point at commits in another repository.
		return TypeCommit
	default:
		return TypeBlob
	}
}
