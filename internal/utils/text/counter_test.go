package text_test

import (
	"testing"

	"credible-backend/internal/utils/text"
)

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"accented", "héllo", 5},
		{"mixed", "hello世界", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.CountRunes(tt.input); got != tt.want {
				t.Errorf("CountRunes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \t\n", 0},
		{"single word", "cats", 1},
		{"simple sentence", "Cats are nice.", 3},
		{"repeated separators", "one   two\t\tthree", 3},
		{"ten words", "a b c d e f g h i j", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.CountWords(tt.input); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
