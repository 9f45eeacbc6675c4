package git

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
)

type cliStore struct {
	path string
}

// OpenCLI opens the repository containing repoPath, querying the object
// store through the git executable.
func OpenCLI(repoPath string) (Store, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	tmp := &cliStore{path: abs}
	root, err := tmp.runGitCommand([]string{"rev-parse", "--show-toplevel"}, "git rev-parse")
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("open repository: git rev-parse returned empty root")
	}
	return &cliStore{path: root}, nil
}

func (s *cliStore) RepoPath() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *cliStore) ListObjects() (map[ObjectType][]string, error) {
	out, err := s.runGitCommand(
		[]string{"cat-file", "--batch-check", "--batch-all-objects"},
		"git cat-file",
	)
	if err != nil {
		return nil, &StoreError{Op: "list objects", Err: err}
	}
	objects, err := parseBatchCheck(strings.NewReader(out))
	if err != nil {
		return nil, &StoreError{Op: "list objects", Err: err}
	}
	return objects, nil
}

func (s *cliStore) ReadObject(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", &StoreError{Op: "read object", Err: fmt.Errorf("object id not specified")}
	}
	out, err := s.runGitCommand([]string{"cat-file", "-p", id}, "git cat-file")
	if err != nil {
		return "", &StoreError{Op: "read object", ID: id, Err: err}
	}
	return out, nil
}

// parseBatchCheck reads `git cat-file --batch-check --batch-all-objects`
// output, one "<id> <type> <size>" line per object. An object stored both
// loose and packed can show up twice; the first occurrence wins.
func parseBatchCheck(r io.Reader) (map[ObjectType][]string, error) {
	objects := map[ObjectType][]string{}
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("unexpected cat-file output line: %q", line)
		}
		id := fields[0]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		typ := ObjectType(fields[1])
		objects[typ] = append(objects[typ], id)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return objects, nil
}

func (s *cliStore) runGitCommand(args []string, context string) (string, error) {
	if s == nil || s.path == "" {
		return "", fmt.Errorf("repository root not set")
	}
	cmdArgs := append([]string{"-C", s.path}, args...)
	cmd := exec.Command("git", cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%s: %v: %s", context, err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("%s: %w", context, err)
	}
	return stdout.String(), nil
}
