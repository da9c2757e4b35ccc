package tui

import (
	"strings"

	"github.com/charmbracelet/huh"
)

// PromptURL asks the user for a GitHub repository URL.
func PromptURL() (string, error) {
	var url string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter a GitHub repository URL").
				Placeholder("https://github.com/owner/repo").
				Value(&url),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return "", err
	}

	return strings.TrimSpace(url), nil
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(title string) (bool, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}
