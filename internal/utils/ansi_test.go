package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Saved: /tmp/out.pdf", "Saved: /tmp/out.pdf"},
		{"color codes removed", "\x1b[32mSaved:\x1b[0m /tmp/out.pdf", "Saved: /tmp/out.pdf"},
		{"bold and reset", "\x1b[1mbold\x1b[0m", "bold"},
		{"multi-parameter sequence", "\x1b[38;5;208mtext\x1b[0m", "text"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripANSI(tt.input))
		})
	}
}
