// Package textutil provides shared text processing helpers: tokenization,
// sentence and paragraph splitting, and word counting.
package textutil

import (
	"strings"
	"unicode"
)

// Tokenize splits text into lowercase word tokens. Punctuation is treated as
// whitespace, so "fox," and "fox" produce the same token.
func Tokenize(text string) []string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	return strings.Fields(mapped)
}

// SplitSentences splits text on sentence-ending punctuation and returns the
// non-empty trimmed sentences.
func SplitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// SplitParagraphs splits text on blank lines and returns the non-empty
// trimmed paragraphs.
func SplitParagraphs(text string) []string {
	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		current = append(current, trimmed)
	}
	flush()
	return paragraphs
}

// CountWords returns the number of whitespace-separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// AvgSentenceLen returns the mean sentence length in words, or 0 for text
// with no sentences.
func AvgSentenceLen(text string) float64 {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return 0
	}
	total := 0
	for _, s := range sentences {
		total += CountWords(s)
	}
	return float64(total) / float64(len(sentences))
}
