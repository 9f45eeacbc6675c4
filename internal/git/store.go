// Package git provides read-only access to a repository's object database.
//
// Two implementations of the Store interface are available: one that
// shells out to the git executable and one built on go-git. Both answer
// the same two queries (enumerate all objects, read one object's decoded
// content) so the scan logic can run against either, or against an
// in-memory fake in tests.
package git

import "fmt"

// ObjectType identifies the kind of an object in the store.
type ObjectType string

const (
	TypeCommit ObjectType = "commit"
	TypeTree   ObjectType = "tree"
	TypeBlob   ObjectType = "blob"
	TypeTag    ObjectType = "tag"
)

// Store abstracts the repository's content-addressed object database.
//
// Implementations do no caching; deduplicating repeated reads is the
// caller's concern.
type Store interface {
	// RepoPath returns the repository root.
	RepoPath() string

	// ListObjects enumerates every object in the store exactly once,
	// grouped by type. Failures are reported as *StoreError.
	ListObjects() (map[ObjectType][]string, error)

	// ReadObject returns the decoded content of a single object, in the
	// form printed by `git cat-file -p`. A missing or unreadable object
	// is reported as *StoreError.
	ReadObject(id string) (string, error)
}

// StoreError reports a failed query against the object store.
type StoreError struct {
	Op  string // failed operation, e.g. "list objects"
	ID  string // object id when the query targeted one
	Err error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
