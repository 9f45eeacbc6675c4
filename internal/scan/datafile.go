package scan

import (
	"path"
	"strings"
)

// DefaultExtensions lists file extensions that commonly carry embedded
// data.
var DefaultExtensions = []string{
	"csv",
	"ipynb",
	"parquet",
	"pbix",
	"pptx",
	"tsv",
	"xls",
	"xlsx",
	"xlsb",
	"xml",
}

// DataFile describes a blob whose name matched a data extension. Values
// are never mutated after construction.
type DataFile struct {
	Name   string // entry name, e.g. "sales.xlsx"
	Folder string // folder path from the repository root, "" at the root
	Hash   string // blob hash
}

// FullPath returns the folder path joined with the file name.
func (f DataFile) FullPath() string {
	return path.Join(f.Folder, f.Name)
}

// ExtensionSet matches file names against a set of extensions. Matching
// is case-sensitive and purely lexical on the text after the last dot:
// "report.xls" matches "xls", while "archive.xml.bak" and "data.CSV" do
// not match "xml" or "csv".
type ExtensionSet map[string]struct{}

// NewExtensionSet builds a set from extension strings, tolerating leading
// dots and surrounding whitespace.
func NewExtensionSet(exts ...string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}

// Match reports whether name's extension is in the set.
func (s ExtensionSet) Match(name string) bool {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || dot == len(name)-1 {
		return false
	}
	_, ok := s[name[dot+1:]]
	return ok
}
