package git

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestOpenGoGitResolvesRootFromSubdir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if _, err := gitlib.PlainInit(root, false); err != nil {
		t.Fatalf("init repository: %v", err)
	}
	sub := filepath.Join(root, "nested", "deep")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	store, err := OpenGoGit(sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.RepoPath(); filepath.Clean(got) != filepath.Clean(root) {
		t.Fatalf("RepoPath() = %q, want repository root %q", got, root)
	}
}

func TestOpenGoGitBareRepositoryRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := gitlib.PlainInit(dir, true); err != nil {
		t.Fatalf("init repository: %v", err)
	}

	store, err := OpenGoGit(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.RepoPath(); filepath.Clean(got) != filepath.Clean(dir) {
		t.Fatalf("RepoPath() = %q, want %q", got, dir)
	}
}

func TestFormatTreeMatchesCatFile(t *testing.T) {
	t.Parallel()

	tree := &object.Tree{
		Entries: []object.TreeEntry{
			{
				Name: "docs",
				Mode: filemode.Dir,
				Hash: plumbing.NewHash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
			},
			{
				Name: "sales report.xlsx",
				Mode: filemode.Regular,
				Hash: plumbing.NewHash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
			},
			{
				Name: "vendored",
				Mode: filemode.Submodule,
				Hash: plumbing.NewHash("cccccccccccccccccccccccccccccccccccccccc"),
			},
		},
	}

	got := formatTree(tree)
	want := strings.Join([]string{
		"040000 tree aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\tdocs",
		"100644 blob bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb\tsales report.xlsx",
		"160000 commit cccccccccccccccccccccccccccccccccccccccc\tvendored",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected tree rendering:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestEntryType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode filemode.FileMode
		want ObjectType
	}{
		{mode: filemode.Dir, want: TypeTree},
		{mode: filemode.Regular, want: TypeBlob},
		{mode: filemode.Executable, want: TypeBlob},
		{mode: filemode.Symlink, want: TypeBlob},
		{mode: filemode.Submodule, want: TypeCommit},
	}
	for _, tc := range tests {
		if got := entryType(tc.mode); got != tc.want {
			t.Fatalf("entryType(%v) = %q, want %q", tc.mode, got, tc.want)
		}
	}
}
