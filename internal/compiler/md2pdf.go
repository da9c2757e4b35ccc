// Package compiler adapts the external md2pdf executable into a structured
// result. The tool boundary is exit-code based: zero means success, with a
// "Saved:" stdout line as the only structured signal.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Another-Red-Fox/repodoc/internal/domain"
	"github.com/Another-Red-Fox/repodoc/internal/utils"
)

// SavedMarker is the substring identifying the output-location line in the
// tool's stdout.
const SavedMarker = "Saved:"

// MD2PDF invokes the md2pdf executable against a staged directory.
type MD2PDF struct {
	path   string
	logger *utils.Logger
}

// Options contains options for creating an MD2PDF compiler
type Options struct {
	Path   string
	Logger *utils.Logger
}

// Ensure MD2PDF implements domain.Compiler
var _ domain.Compiler = (*MD2PDF)(nil)

// New creates a new MD2PDF compiler adapter
func New(opts Options) *MD2PDF {
	if opts.Logger == nil {
		opts.Logger = utils.NewDefaultLogger()
	}
	return &MD2PDF{
		path:   utils.ExpandPath(opts.Path),
		logger: opts.Logger.WithComponent("compiler"),
	}
}

// Path returns the resolved executable path.
func (m *MD2PDF) Path() string {
	return m.path
}

// Available reports whether the executable exists.
func (m *MD2PDF) Available() bool {
	info, err := os.Stat(m.path)
	return err == nil && !info.IsDir()
}

// Compile runs "<tool> compile <abs-dir>" with the working directory set to
// the tool's own parent directory so it can locate its supporting resources.
// Blocking, single-shot, no retry and no timeout.
func (m *MD2PDF) Compile(ctx context.Context, dir string) (*domain.CompileResult, error) {
	if !m.Available() {
		return nil, fmt.Errorf("%w: %s", domain.ErrToolNotFound, m.path)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, m.path, "compile", absDir)
	cmd.Dir = filepath.Dir(m.path)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	m.logger.Debug().Str("tool", m.path).Str("dir", absDir).Msg("Running compiler")

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &domain.CompileError{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}
		}
		return nil, err
	}

	return &domain.CompileResult{
		SavedLine: FindSavedLine(stdout.String()),
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
	}, nil
}

// FindSavedLine scans tool stdout for the SavedMarker line after scrubbing
// terminal escape sequences. Returns the trimmed line, or "" when absent.
func FindSavedLine(stdout string) string {
	clean := utils.StripANSI(stdout)
	for _, line := range strings.Split(clean, "\n") {
		if strings.Contains(line, SavedMarker) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
