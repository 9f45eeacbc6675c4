// Package report serializes scan results for consumption outside the
// tool.
package report

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/LFKoning/git-scan/internal/scan"
)

var csvHeader = []string{"file_path", "file_hash", "commit_hash", "commit_time"}

// WriteCSV writes one row per discovered data file, in chronological
// commit order. Timestamps keep the committer's UTC offset.
func WriteCSV(w io.Writer, result scan.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, cf := range result {
		for _, file := range cf.Files {
			row := []string{
				file.FullPath(),
				file.Hash,
				cf.Commit.Hash,
				cf.Commit.When.Format(time.RFC3339),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
