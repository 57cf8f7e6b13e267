package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"ftbragg", "ftbrag", 1},
		{"abcdefghijklmn", "abcdefghijklxy", 2},
		{"a", "b", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "levenshtein(%q, %q)", tt.a, tt.b)
		assert.Equal(t, tt.want, levenshtein(tt.b, tt.a), "levenshtein(%q, %q)", tt.b, tt.a)
	}
}
