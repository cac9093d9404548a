package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestChunkRunes(t *testing.T) {
	assert.Equal(t, []string{"سلام"}, ChunkRunes("سلام", 10))
	assert.Equal(t, []string{""}, ChunkRunes("", 10))

	// prefers newline boundaries
	assert.Equal(t, []string{"ab\n", "cdef"}, ChunkRunes("ab\ncdef", 4))

	// hard split when no newline fits
	assert.Equal(t, []string{"abc", "def", "g"}, ChunkRunes("abcdefg", 3))
}

func TestChunkRunes_LongReport(t *testing.T) {
	line := strings.Repeat("قند", 30) + "\n"
	report := strings.Repeat(line, 100)

	chunks := ChunkRunes(report, 4000)

	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 4000)
		assert.True(t, strings.HasSuffix(c, "\n"))
	}
	assert.Equal(t, report, strings.Join(chunks, ""))
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `a\_b \*c\* \[d\] \`+"`e", EscapeMarkdown("a_b *c* [d] `e"))
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "120", NormalizeDigits("۱۲۰"))
	assert.Equal(t, "345", NormalizeDigits("٣٤٥"))
	assert.Equal(t, "9 mg", NormalizeDigits("۹ mg"))
	assert.Equal(t, "abc", NormalizeDigits("abc"))
}
