package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	sentenceBoundary  = regexp.MustCompile(`[.!?]+`)
	paragraphBoundary = regexp.MustCompile(`\n\s*\n`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
	archaicConnective = regexp.MustCompile(`(?i)\b(hereinafter|whereas|whereby|hereof|thereof)\b`)
)

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// splitSentences cuts on sentence punctuation and keeps trimmed fragments
// longer than minChars characters.
func splitSentences(text string, minChars int) []string {
	parts := sentenceBoundary.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) > minChars {
			out = append(out, part)
		}
	}
	return out
}

func splitParagraphs(text string, minChars int) []string {
	parts := paragraphBoundary.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) > minChars {
			out = append(out, part)
		}
	}
	return out
}

// joinSentences renders sentences as "a. b." in the given order.
func joinSentences(sentences []string) string {
	return strings.Join(sentences, ". ") + "."
}

// ImproveReadability drops archaic connectives, collapses whitespace and
// guarantees a closing period.
func ImproveReadability(text string) string {
	text = archaicConnective.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	return text
}
