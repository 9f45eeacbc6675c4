package scan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMalformedCommit indicates a commit object missing its tree or
	// committer field.
	ErrMalformedCommit = errors.New("malformed commit object")

	// ErrBadOffset indicates a committer timezone offset that is not a
	// signed HHMM string.
	ErrBadOffset = errors.New("unparseable timezone offset")
)

// Commit is the parsed form of a commit object: its hash, the hash of its
// root tree, and the committer timestamp carrying the committer's UTC
// offset. Values are never mutated after construction.
type Commit struct {
	Hash     string
	TreeHash string
	When     time.Time
}

// ParseCommit extracts the root tree and committer timestamp from the
// decoded content of a commit object.
//
// A commit without a tree or committer field fails the parse rather than
// being skipped: feeding an empty tree hash into the walk would produce a
// falsely complete report.
func ParseCommit(id, raw string) (Commit, error) {
	var treeHash, timestamp, offset string
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			// Headers end at the first blank line; the commit message can
			// legally contain lines that look like headers.
			break
		}
		if rest, ok := strings.CutPrefix(line, "tree "); ok {
			if treeHash == "" {
				treeHash = strings.TrimSpace(rest)
			}
			continue
		}
		if strings.HasPrefix(line, "committer ") {
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return Commit{}, fmt.Errorf("%w %s: truncated committer line %q", ErrMalformedCommit, id, line)
			}
			timestamp = fields[len(fields)-2]
			offset = fields[len(fields)-1]
		}
	}
	if treeHash == "" || timestamp == "" {
		return Commit{}, fmt.Errorf("%w %s: missing tree or committer field", ErrMalformedCommit, id)
	}
	zone, err := parseOffset(offset)
	if err != nil {
		return Commit{}, fmt.Errorf("commit %s: %w", id, err)
	}
	sec, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return Commit{}, fmt.Errorf("%w %s: bad committer timestamp %q", ErrMalformedCommit, id, timestamp)
	}
	return Commit{Hash: id, TreeHash: treeHash, When: time.Unix(sec, 0).In(zone)}, nil
}

// parseOffset converts a signed HHMM offset like "+0200" or "-0530" into
// a fixed timezone.
func parseOffset(offset string) (*time.Location, error) {
	if len(offset) != 5 || (offset[0] != '+' && offset[0] != '-') {
		return nil, fmt.Errorf("%w: %q", ErrBadOffset, offset)
	}
	for _, c := range offset[1:] {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("%w: %q", ErrBadOffset, offset)
		}
	}
	hours, _ := strconv.Atoi(offset[1:3])
	minutes, _ := strconv.Atoi(offset[3:5])
	seconds := (hours*60 + minutes) * 60
	if offset[0] == '-' {
		seconds = -seconds
	}
	return time.FixedZone(offset, seconds), nil
}
