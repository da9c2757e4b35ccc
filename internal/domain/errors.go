package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrInvalidURL indicates the input does not look like a GitHub repository URL
	ErrInvalidURL = errors.New("invalid repository URL")

	// ErrNotFound indicates neither branch reference produced an archive
	ErrNotFound = errors.New("repository archive not found")

	// ErrArchiveTooLarge indicates the archive exceeds the configured size cap
	ErrArchiveTooLarge = errors.New("archive exceeds size limit")

	// ErrCorruptArchive indicates the downloaded buffer is not a valid zip archive
	ErrCorruptArchive = errors.New("not a valid zip archive")

	// ErrNoDocuments indicates the archive contains no markdown entries.
	// This is a recognized outcome rather than a failure.
	ErrNoDocuments = errors.New("no markdown files found")

	// ErrToolNotFound indicates the external compiler executable is missing
	ErrToolNotFound = errors.New("compiler executable not found")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrTimeout indicates a timeout occurred
	ErrTimeout = errors.New("timeout")

	// ErrRateLimited indicates rate limiting was encountered
	ErrRateLimited = errors.New("rate limited")
)

// FetchError represents an error during archive download
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// ExtractError represents an error while staging archive entries
type ExtractError struct {
	Entry string // archive-internal path, empty when the archive itself failed
	Err   error
}

func (e *ExtractError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("extract error for %s: %v", e.Entry, e.Err)
	}
	return fmt.Sprintf("extract error: %v", e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// NewExtractError creates a new ExtractError
func NewExtractError(entry string, err error) *ExtractError {
	return &ExtractError{Entry: entry, Err: err}
}

// CompileError represents a non-zero exit from the external compiler.
// Stdout and Stderr carry the captured streams verbatim for display.
type CompileError struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiler exited with code %d", e.ExitCode)
}

// RetryableError indicates an error that can be retried
type RetryableError struct {
	Err        error
	RetryAfter int // Seconds to wait before retry, 0 if unknown
}

func (e *RetryableError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("retryable error (retry after %ds): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.StatusCode {
		case 429, 502, 503, 504:
			return true
		}
	}

	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}
