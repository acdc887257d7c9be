// Package analysis holds the rule-based legal text analysis: document type
// detection, sentence scoring, tiered summarization, clause tagging and
// clause explanation. Everything here is pure and safe for concurrent use.
package analysis

import (
	"regexp"
	"strings"
)

// Rule pairs a predicate with the value returned when it matches.
type Rule[T any] struct {
	Match   func(text string) bool
	Payload T
}

// RuleTable is an ordered catalogue where the first matching rule wins.
type RuleTable[T any] []Rule[T]

func (t RuleTable[T]) First(text string) (T, bool) {
	for _, rule := range t {
		if rule.Match(text) {
			return rule.Payload, true
		}
	}
	var zero T
	return zero, false
}

// containsAny matches when any keyword is a substring of the already lowercased text.
func containsAny(keywords ...string) func(string) bool {
	return func(text string) bool {
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				return true
			}
		}
		return false
	}
}

// patternTable builds a table whose payload is the pattern that matched.
func patternTable(patterns ...string) RuleTable[*regexp.Regexp] {
	table := make(RuleTable[*regexp.Regexp], 0, len(patterns))
	for _, p := range patterns {
		re := regexp.MustCompile(`(?i)` + p)
		table = append(table, Rule[*regexp.Regexp]{Match: re.MatchString, Payload: re})
	}
	return table
}
