package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Another-Red-Fox/repodoc/internal/domain"
	"github.com/Another-Red-Fox/repodoc/internal/utils"
	"github.com/klauspost/compress/zip"
)

// dependencyDirs are path fragments that mark vendored or generated trees
// whose markdown is never documentation worth staging.
var dependencyDirs = []string{"venv/", "node_modules/"}

// Extractor stages markdown entries of a zip archive into a flat directory.
type Extractor struct {
	logger       *utils.Logger
	showProgress bool
}

// Options contains options for creating an Extractor
type Options struct {
	Logger       *utils.Logger
	ShowProgress bool
}

// Ensure Extractor implements domain.Extractor
var _ domain.Extractor = (*Extractor)(nil)

// New creates a new Extractor
func New(opts Options) *Extractor {
	if opts.Logger == nil {
		opts.Logger = utils.NewDefaultLogger()
	}
	return &Extractor{
		logger:       opts.Logger.WithComponent("extractor"),
		showProgress: opts.ShowProgress,
	}
}

// Classify derives the archive-entry record for an internal path.
func Classify(entryPath string) domain.ArchiveEntry {
	return domain.ArchiveEntry{
		Path:       entryPath,
		IsMarkdown: strings.HasSuffix(strings.ToLower(entryPath), ".md"),
		Excluded:   underDependencyDir(entryPath),
	}
}

func underDependencyDir(entryPath string) bool {
	for _, dir := range dependencyDirs {
		if strings.Contains(entryPath, dir) {
			return true
		}
	}
	return false
}

// Extract parses buf as a zip archive, selects markdown entries outside
// dependency directories, and writes each one into dest using its base
// filename. The second occurrence of a basename (case-insensitively) is
// renamed "<parent>-<basename>"; the table only records the first holder,
// so a later entry whose parent matches an earlier disambiguated name can
// still collide. That matches the historical behavior and is accepted.
//
// Returns domain.ErrNoDocuments, with no filesystem changes, when nothing
// matches. I/O failures abort the run; already-written files are left for
// the caller to clean up.
func (e *Extractor) Extract(ctx context.Context, buf []byte, dest string) ([]domain.StagedFile, error) {
	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, domain.NewExtractError("", fmt.Errorf("%w: %v", domain.ErrCorruptArchive, err))
	}

	var selected []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entry := Classify(f.Name)
		if entry.IsMarkdown && !entry.Excluded {
			selected = append(selected, f)
		}
	}

	if len(selected) == 0 {
		return nil, domain.ErrNoDocuments
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, domain.NewExtractError("", err)
	}

	var bar interface{ Add(int) error }
	if e.showProgress {
		bar = utils.NewProgressBar(len(selected), utils.DescExtracting)
	}

	// Run-scoped collision table: lowercase basename -> first archive path.
	seen := make(map[string]string, len(selected))

	staged := make([]domain.StagedFile, 0, len(selected))
	for _, f := range selected {
		if err := ctx.Err(); err != nil {
			return staged, domain.NewExtractError("", err)
		}

		base := path.Base(f.Name)
		name := base
		lower := strings.ToLower(base)

		if _, ok := seen[lower]; ok {
			parent := path.Base(path.Dir(f.Name))
			if parent == "." || parent == "/" {
				parent = ""
			}
			name = parent + "-" + base
		} else {
			seen[lower] = f.Name
		}

		destPath := filepath.Join(dest, name)
		if err := copyEntry(f, destPath); err != nil {
			return staged, domain.NewExtractError(f.Name, err)
		}

		staged = append(staged, domain.StagedFile{
			SourcePath: f.Name,
			Name:       name,
			Path:       destPath,
		})

		if bar != nil {
			_ = bar.Add(1)
		}

		e.logger.Debug().
			Str("entry", f.Name).
			Str("name", name).
			Msg("Staged markdown file")
	}

	return staged, nil
}

// copyEntry stream-copies one archive entry to destPath. Both handles are
// closed on every exit path.
func copyEntry(f *zip.File, destPath string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
