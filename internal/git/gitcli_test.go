package git

import (
	"errors"
	"strings"
	"testing"
)

func TestParseBatchCheck(t *testing.T) {
	t.Parallel()

	out := strings.Join([]string{
		"1111111111111111111111111111111111111111 commit 240",
		"2222222222222222222222222222222222222222 tree 71",
		"3333333333333333333333333333333333333333 blob 1024",
		"4444444444444444444444444444444444444444 tag 170",
		"5555555555555555555555555555555555555555 commit 264",
		"",
	}, "\n")

	objects, err := parseBatchCheck(strings.NewReader(out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(objects[TypeCommit]); got != 2 {
		t.Fatalf("expected 2 commits, got %d", got)
	}
	if got := objects[TypeTree]; len(got) != 1 || got[0] != "2222222222222222222222222222222222222222" {
		t.Fatalf("unexpected trees: %v", got)
	}
	if got := len(objects[TypeBlob]); got != 1 {
		t.Fatalf("expected 1 blob, got %d", got)
	}
	if got := len(objects[TypeTag]); got != 1 {
		t.Fatalf("expected 1 tag, got %d", got)
	}
}

func TestParseBatchCheckDeduplicates(t *testing.T) {
	t.Parallel()

	out := strings.Join([]string{
		"1111111111111111111111111111111111111111 commit 240",
		"1111111111111111111111111111111111111111 commit 240",
	}, "\n")

	objects, err := parseBatchCheck(strings.NewReader(out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(objects[TypeCommit]); got != 1 {
		t.Fatalf("expected duplicate listing to collapse to 1 commit, got %d", got)
	}
}

func TestParseBatchCheckMalformedLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{name: "missing_size", in: "1111111111111111111111111111111111111111 commit"},
		{name: "extra_field", in: "1111 commit 240 junk"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := parseBatchCheck(strings.NewReader(tc.in)); err == nil {
				t.Fatalf("expected error for line %q", tc.in)
			}
		})
	}
}

func TestParseBatchCheckEmpty(t *testing.T) {
	t.Parallel()

	objects, err := parseBatchCheck(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objects) != 0 {
		t.Fatalf("expected no objects, got %v", objects)
	}
}

func TestStoreErrorMessage(t *testing.T) {
	t.Parallel()

	cause := errors.New("object not found")
	err := &StoreError{Op: "read object", ID: "abc123", Err: cause}
	if !strings.Contains(err.Error(), "read object abc123") {
		t.Fatalf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected StoreError to unwrap its cause")
	}
}
