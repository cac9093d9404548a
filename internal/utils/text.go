package utils

import (
	"strings"
)

// ChunkRunes splits s into pieces of at most size runes. Splits prefer the
// last newline inside a piece so report lines stay whole.
func ChunkRunes(s string, size int) []string {
	if size <= 0 || s == "" {
		return []string{s}
	}

	runes := []rune(s)
	var chunks []string
	for len(runes) > size {
		cut := size
		for i := size - 1; i > 0; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

var digitNormalizer = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// NormalizeDigits rewrites Persian and Arabic-Indic digits as ASCII digits
func NormalizeDigits(s string) string {
	return digitNormalizer.Replace(s)
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"`", "\\`",
)

// EscapeMarkdown escapes the characters Telegram's legacy Markdown treats as markup
func EscapeMarkdown(s string) string {
	return strings.ToValidUTF8(markdownEscaper.Replace(s), "")
}
