package markup

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestEscapeForMarkdown(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"TECH & GADGETS", "TECH & GADGETS"},
		{"v1.2 (beta)!", "v1\\.2 \\(beta\\)\\!"},
		{"a_b*c", "a\\_b\\*c"},
		{`back\slash`, `back\\slash`},
		{"#news-today", "\\#news\\-today"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeForMarkdown(tt.in), tt.in)
	}
}

func TestLink(t *testing.T) {
	assert.Equal(t, `[Ad 1](https://placehold.co/640x360?text=Ad+1)`, Link("Ad 1", "https://placehold.co/640x360?text=Ad+1"))
	assert.Equal(t, `[a\.b](http://x/(y\))`, Link("a.b", "http://x/(y)"))
	assert.Equal(t, `*SPORTS 360*`, Bold("SPORTS 360"))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"abcdef", 4, "abc…"},
		{"हैदराबाद समाचार", 5, "हैदर…"},
		{"anything", 0, ""},
	}

	for _, tt := range tests {
		got := Truncate(tt.in, tt.n)
		assert.Equal(t, tt.want, got, tt.in)
		assert.True(t, utf8.ValidString(got), tt.in)
	}
}
