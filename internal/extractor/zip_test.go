package extractor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Another-Red-Fox/repodoc/internal/domain"
)

// buildZip assembles an in-memory archive from path -> content pairs.
// Entries ending in "/" become directories.
func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		if name[len(name)-1] == '/' {
			_, err := zw.Create(name)
			require.NoError(t, err)
			continue
		}
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func stagedNames(staged []domain.StagedFile) []string {
	names := make([]string, len(staged))
	for i, f := range staged {
		names[i] = f.Name
	}
	return names
}

func TestExtractSingleReadme(t *testing.T) {
	buf := buildZip(t, map[string]string{
		"repo-main/":          "",
		"repo-main/README.md": "# Hello",
		"repo-main/main.go":   "package main",
	})
	dest := filepath.Join(t.TempDir(), "out")

	staged, err := New(Options{}).Extract(context.Background(), buf, dest)
	require.NoError(t, err)

	require.Len(t, staged, 1)
	assert.Equal(t, "README.md", staged[0].Name)
	assert.Equal(t, "repo-main/README.md", staged[0].SourcePath)

	data, err := os.ReadFile(filepath.Join(dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Hello", string(data))
}

func TestExtractCaseInsensitiveSuffix(t *testing.T) {
	buf := buildZip(t, map[string]string{
		"r/README.MD":  "a",
		"r/notes.Md":   "b",
		"r/plain.txt":  "c",
		"r/readme.mdx": "d",
	})
	dest := filepath.Join(t.TempDir(), "out")

	staged, err := New(Options{}).Extract(context.Background(), buf, dest)
	require.NoError(t, err)

	names := stagedNames(staged)
	assert.ElementsMatch(t, []string{"README.MD", "notes.Md"}, names)
}

func TestExtractSkipsDependencyDirs(t *testing.T) {
	buf := buildZip(t, map[string]string{
		"r/README.md":                    "keep",
		"r/node_modules/pkg/README.md":   "skip",
		"r/venv/lib/docs.md":             "skip",
		"r/docs/node_modules/changes.md": "skip",
	})
	dest := filepath.Join(t.TempDir(), "out")

	staged, err := New(Options{}).Extract(context.Background(), buf, dest)
	require.NoError(t, err)

	require.Len(t, staged, 1)
	assert.Equal(t, "README.md", staged[0].Name)
}

func TestExtractCollisionRenaming(t *testing.T) {
	// zip.Writer preserves insertion order only per map iteration, so build
	// the archive explicitly to pin entry order.
	var raw bytes.Buffer
	zw := zip.NewWriter(&raw)
	for _, e := range []struct{ name, body string }{
		{"repo-main/README.md", "root"},
		{"repo-main/docs/README.md", "docs"},
		{"repo-main/api/Readme.md", "api"},
	} {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	dest := filepath.Join(t.TempDir(), "out")
	staged, err := New(Options{}).Extract(context.Background(), raw.Bytes(), dest)
	require.NoError(t, err)

	// First holder keeps its basename; later case-insensitive duplicates
	// are prefixed with their parent directory.
	assert.Equal(t, []string{"README.md", "docs-README.md", "api-Readme.md"}, stagedNames(staged))

	for _, f := range staged {
		_, err := os.Stat(f.Path)
		assert.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "root", string(data))
}

func TestExtractNoDocuments(t *testing.T) {
	buf := buildZip(t, map[string]string{
		"r/main.go":    "package main",
		"r/LICENSE":    "MIT",
		"r/README.rst": "not markdown",
	})
	dest := filepath.Join(t.TempDir(), "out")

	staged, err := New(Options{}).Extract(context.Background(), buf, dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoDocuments)
	assert.Empty(t, staged)

	// No filesystem changes on an empty result.
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractCorruptArchive(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out")

	_, err := New(Options{}).Extract(context.Background(), []byte("definitely not a zip"), dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptArchive)

	var extractErr *domain.ExtractError
	assert.ErrorAs(t, err, &extractErr)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractCancelledContext(t *testing.T) {
	buf := buildZip(t, map[string]string{"r/README.md": "x"})
	dest := filepath.Join(t.TempDir(), "out")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}).Extract(ctx, buf, dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path         string
		wantMarkdown bool
		wantExcluded bool
	}{
		{"repo/README.md", true, false},
		{"repo/README.MD", true, false},
		{"repo/main.go", false, false},
		{"repo/node_modules/x/README.md", true, true},
		{"repo/venv/README.md", true, true},
		// Substring match: any path containing "venv/" is excluded.
		{"repo/convenv/README.md", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			entry := Classify(tt.path)
			assert.Equal(t, tt.wantMarkdown, entry.IsMarkdown, "IsMarkdown")
			assert.Equal(t, tt.wantExcluded, entry.Excluded, "Excluded")
		})
	}
}
