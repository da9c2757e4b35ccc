package repo

import (
	"fmt"
	"regexp"

	"github.com/Another-Red-Fox/repodoc/internal/domain"
)

// repoURLRegex matches GitHub repository URLs. Owner is word characters and
// hyphens; repository additionally allows periods. Trailing path segments
// are ignored.
var repoURLRegex = regexp.MustCompile(`^https?://github\.com/([\w-]+)/([\w.-]+)`)

// Parse validates rawURL and extracts the repository reference. It performs
// no network access; any input not matching the GitHub repository shape
// returns domain.ErrInvalidURL.
func Parse(rawURL string) (*domain.RepoRef, error) {
	matches := repoURLRegex.FindStringSubmatch(rawURL)
	if matches == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidURL, rawURL)
	}
	return &domain.RepoRef{
		Owner: matches[1],
		Name:  matches[2],
	}, nil
}

// ArchiveURL builds the zip snapshot URL for a branch reference.
func ArchiveURL(ref domain.RepoRef, branch string) string {
	return fmt.Sprintf("https://github.com/%s/%s/archive/refs/heads/%s.zip",
		ref.Owner, ref.Name, branch)
}
