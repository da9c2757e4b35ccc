package compiler

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Another-Red-Fox/repodoc/internal/domain"
)

// writeFakeTool installs an executable shell script standing in for the
// external compiler and returns its path.
func writeFakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "md2pdf")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return path
}

func TestAvailable(t *testing.T) {
	path := writeFakeTool(t, "exit 0")

	assert.True(t, New(Options{Path: path}).Available())
	assert.False(t, New(Options{Path: filepath.Join(t.TempDir(), "missing")}).Available())

	// A directory at the tool path does not count as available.
	dir := t.TempDir()
	assert.False(t, New(Options{Path: dir}).Available())
}

func TestCompileToolNotFound(t *testing.T) {
	comp := New(Options{Path: filepath.Join(t.TempDir(), "missing")})

	_, err := comp.Compile(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestCompileSuccess(t *testing.T) {
	path := writeFakeTool(t, `
echo "Processing $2"
printf 'Saved: /tmp/out.pdf\n'
exit 0`)

	result, err := New(Options{Path: path}).Compile(context.Background(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "Saved: /tmp/out.pdf", result.SavedLine)
	assert.Contains(t, result.Stdout, "Processing")
}

func TestCompilePassesAbsoluteDirAndCompileVerb(t *testing.T) {
	path := writeFakeTool(t, `echo "args: $1 $2"`)
	dir := t.TempDir()

	result, err := New(Options{Path: path}).Compile(context.Background(), dir)
	require.NoError(t, err)

	absDir, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "args: compile "+absDir)
}

func TestCompileRunsFromToolDirectory(t *testing.T) {
	path := writeFakeTool(t, "pwd")

	result, err := New(Options{Path: path}).Compile(context.Background(), t.TempDir())
	require.NoError(t, err)

	toolDir, err := filepath.EvalSymlinks(filepath.Dir(path))
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(strings.TrimSpace(result.Stdout))
	require.NoError(t, err)
	assert.Equal(t, toolDir, got)
}

func TestCompileNonZeroExit(t *testing.T) {
	path := writeFakeTool(t, `
echo "partial output"
echo "render failed" >&2
exit 3`)

	_, err := New(Options{Path: path}).Compile(context.Background(), t.TempDir())
	require.Error(t, err)

	var compileErr *domain.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, 3, compileErr.ExitCode)
	assert.Contains(t, compileErr.Stdout, "partial output")
	assert.Contains(t, compileErr.Stderr, "render failed")
}

func TestFindSavedLine(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   string
	}{
		{
			name:   "plain line",
			stdout: "working...\nSaved: /tmp/out.pdf\ndone\n",
			want:   "Saved: /tmp/out.pdf",
		},
		{
			name:   "colored line",
			stdout: "\x1b[32mSaved:\x1b[0m /tmp/out.pdf\n",
			want:   "Saved: /tmp/out.pdf",
		},
		{
			name:   "surrounding whitespace trimmed",
			stdout: "   Saved: /tmp/out.pdf   \n",
			want:   "Saved: /tmp/out.pdf",
		},
		{
			name:   "marker absent",
			stdout: "all done\n",
			want:   "",
		},
		{
			name:   "empty stdout",
			stdout: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindSavedLine(tt.stdout))
		})
	}
}
