package lsa

import (
	"regexp"
	"strings"
	"unicode"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}]+)*`)

type sentence struct {
	text  string
	words []string
}

// splitSentences cuts after runs of terminal punctuation followed by
// whitespace, and at blank lines.
func splitSentences(text string) []sentence {
	var out []sentence
	var current strings.Builder
	runes := []rune(strings.ReplaceAll(text, "\r\n", "\n"))

	flush := func() {
		raw := strings.Join(strings.Fields(current.String()), " ")
		current.Reset()
		if raw == "" {
			return
		}
		words := tokenizeWords(raw)
		if len(words) == 0 {
			return
		}
		out = append(out, sentence{text: raw, words: words})
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)

		switch {
		case r == '.' || r == '!' || r == '?':
			for i+1 < len(runes) && strings.ContainsRune(".!?\"')”’", runes[i+1]) {
				i++
				current.WriteRune(runes[i])
			}
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				flush()
			}
		case r == '\n' && i+1 < len(runes) && isBlankLineAhead(runes[i+1:]):
			flush()
		}
	}
	flush()
	return out
}

func isBlankLineAhead(rest []rune) bool {
	for _, r := range rest {
		if r == '\n' {
			return true
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return false
}

func tokenizeWords(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}
