package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxFilenameLength is the maximum length for a sanitized filename
const MaxFilenameLength = 200

// FallbackFilename is substituted when sanitization leaves nothing usable
const FallbackFilename = "output"

// unsafeCharsRegex matches characters disallowed on common filesystems,
// including control characters
var unsafeCharsRegex = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SanitizeFilename maps an arbitrary string to a safe, bounded filesystem
// name. It never fails: the result is non-empty, free of unsafe characters,
// and at most MaxFilenameLength bytes.
func SanitizeFilename(name string) string {
	clean := unsafeCharsRegex.ReplaceAllString(name, "")
	clean = strings.Trim(clean, ". ")
	if clean == "" {
		clean = FallbackFilename
	}
	if len(clean) > MaxFilenameLength {
		clean = clean[:MaxFilenameLength]
	}
	return clean
}

// EnsureDir ensures the parent directory of path exists
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}
