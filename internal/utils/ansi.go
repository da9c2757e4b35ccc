package utils

import "regexp"

// ansiEscapeRegex matches SGR color/formatting escape sequences
var ansiEscapeRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes terminal color and formatting escape sequences from s.
// Pure string transform; used before scanning external tool output.
func StripANSI(s string) string {
	return ansiEscapeRegex.ReplaceAllString(s, "")
}
