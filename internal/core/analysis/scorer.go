package analysis

import "strings"

var (
	highImportanceTerms   = []string{"agreement", "party", "shall", "must", "required", "obligation", "rights", "liability"}
	mediumImportanceTerms = []string{"may", "payment", "termination", "confidential", "breach", "damages"}
	lowImportanceTerms    = []string{"including", "such", "other", "any", "all", "each"}
)

const (
	highImportanceWeight   = 3
	mediumImportanceWeight = 2
	lowImportanceWeight    = -1
)

// ScoreSentence rates how much legal weight a sentence carries. Each keyword
// counts once regardless of how often it occurs.
func ScoreSentence(sentence string) int {
	lower := strings.ToLower(sentence)
	score := 0
	score += highImportanceWeight * countPresent(lower, highImportanceTerms)
	score += mediumImportanceWeight * countPresent(lower, mediumImportanceTerms)
	score += lowImportanceWeight * countPresent(lower, lowImportanceTerms)

	words := WordCount(sentence)
	switch {
	case words >= 10 && words <= 30:
		score += 2
	case words < 5:
		score -= 2
	}
	return score
}

func countPresent(text string, keywords []string) int {
	n := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			n++
		}
	}
	return n
}
