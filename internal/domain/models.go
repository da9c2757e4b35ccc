package domain

import "time"

// RepoRef identifies a GitHub repository. Immutable once parsed.
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the owner/name form of the reference.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// ArchiveEntry describes one file record inside a downloaded archive,
// identified by its slash-separated internal path.
type ArchiveEntry struct {
	Path       string
	IsMarkdown bool
	Excluded   bool // lives under a dependency directory (venv/, node_modules/)
}

// StagedFile records one archive entry written to the destination directory.
// Name is unique (case-insensitively) within a single run.
type StagedFile struct {
	SourcePath string // archive-internal path the bytes came from
	Name       string // final file name, possibly disambiguated
	Path       string // absolute or dest-relative path on disk
}

// FetchResult carries the raw archive buffer and which branch produced it.
type FetchResult struct {
	Body      []byte
	Branch    string
	URL       string
	FromCache bool
	FetchedAt time.Time
}

// CompileResult is the structured outcome of an external compiler run.
type CompileResult struct {
	SavedLine string // the "Saved:" marker line from stdout, if present
	Stdout    string
	Stderr    string
}
