package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyPrefix constants for different cache entry types
const (
	PrefixArchive = "archive"
)

// GenerateKey generates a cache key from a URL.
// The key is a SHA256 hash of the URL.
func GenerateKey(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(hash[:])
}

// ArchiveKey generates a cache key for a repository archive URL
func ArchiveKey(url string) string {
	return PrefixArchive + ":" + GenerateKey(url)
}
