package domain

import (
	"context"
	"time"
)

// Fetcher downloads a repository snapshot as an in-memory archive buffer.
type Fetcher interface {
	// Fetch retrieves the branch archive for ref, trying the primary
	// branch reference and falling back to the secondary one on 404.
	Fetch(ctx context.Context, ref RepoRef) (*FetchResult, error)
	// Close releases resources
	Close() error
}

// Extractor stages matching archive entries into a destination directory.
type Extractor interface {
	// Extract parses buf as a zip archive and writes each selected entry
	// to dest, returning the ordered staged file records.
	Extract(ctx context.Context, buf []byte, dest string) ([]StagedFile, error)
}

// Compiler invokes the external document compiler against a staged directory.
type Compiler interface {
	// Compile runs the tool and interprets its exit status and output.
	Compile(ctx context.Context, dir string) (*CompileResult, error)
	// Available reports whether the tool executable exists.
	Available() bool
}

// Cache defines the interface for archive caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}
