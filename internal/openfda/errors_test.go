package openfda

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet([]byte("short"), 10))
	assert.Equal(t, "abc...", snippet([]byte("abcdef"), 3))

	// "é" is two bytes; a cut inside it backs up to the rune start.
	got := snippet([]byte("aé tablet"), 2)
	assert.Equal(t, "a...", got)
	assert.True(t, utf8.ValidString(got))

	got = snippet([]byte("日本語"), 4)
	assert.Equal(t, "日...", got)
}
