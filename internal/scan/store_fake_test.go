package scan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LFKoning/git-scan/internal/git"
)

// memStore is an in-memory git.Store. Enumeration order follows insertion
// order so tests stay deterministic, and reads are counted per object so
// cache behavior can be asserted.
type memStore struct {
	order   []string
	objects map[string]memObject
	reads   map[string]int
	listErr error
}

type memObject struct {
	typ     git.ObjectType
	content string
}

func newMemStore() *memStore {
	return &memStore{
		objects: map[string]memObject{},
		reads:   map[string]int{},
	}
}

func (m *memStore) add(id string, typ git.ObjectType, content string) {
	if _, ok := m.objects[id]; !ok {
		m.order = append(m.order, id)
	}
	m.objects[id] = memObject{typ: typ, content: content}
}

func (m *memStore) RepoPath() string { return "/fake/repo" }

func (m *memStore) ListObjects() (map[git.ObjectType][]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	objects := map[git.ObjectType][]string{}
	for _, id := range m.order {
		obj := m.objects[id]
		objects[obj.typ] = append(objects[obj.typ], id)
	}
	return objects, nil
}

func (m *memStore) ReadObject(id string) (string, error) {
	m.reads[id]++
	obj, ok := m.objects[id]
	if !ok {
		return "", &git.StoreError{Op: "read object", ID: id, Err: errors.New("object not found")}
	}
	return obj.content, nil
}

// commitBody renders commit content the way `git cat-file -p` prints it.
func commitBody(tree string, unix int64, offset string) string {
	return fmt.Sprintf(
		"tree %s\nauthor Ann Author <ann@example.com> %d %s\ncommitter Cam Committer <cam@example.com> %d %s\n\nadd data\n",
		tree, unix, offset, unix, offset,
	)
}

func treeBody(entries ...string) string {
	if len(entries) == 0 {
		return ""
	}
	return strings.Join(entries, "\n") + "\n"
}

func blobEntry(hash, name string) string {
	return fmt.Sprintf("100644 blob %s\t%s", hash, name)
}

func subtreeEntry(hash, name string) string {
	return fmt.Sprintf("040000 tree %s\t%s", hash, name)
}
