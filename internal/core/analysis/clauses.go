package analysis

import (
	"regexp"

	"github.com/kirillkom/legalease/internal/core/domain"
)

const (
	// MaxKeyClauses bounds the clause list; checked between categories.
	MaxKeyClauses = 8

	minParagraphChars  = 50
	minSentenceChars   = 20
	sentencesPerClause = 2
)

type ClauseCategory struct {
	Name        string
	Patterns    RuleTable[*regexp.Regexp]
	Description string
}

var clauseCatalogue = []ClauseCategory{
	{
		Name: "Termination",
		Patterns: patternTable(
			`terminat[ei].*?(?:agreement|contract)`,
			`end.*?(?:agreement|contract)`,
			`expir[ye].*?(?:agreement|contract)`,
			`dissolution.*?(?:agreement|contract)`,
		),
		Description: "Specifies conditions under which the agreement can be ended",
	},
	{
		Name: "Confidentiality",
		Patterns: patternTable(
			`confidential.*?information`,
			`non-disclosure`,
			`proprietary.*?information`,
			`trade.*?secret`,
			`disclose.*?information`,
		),
		Description: "Protects sensitive information from being shared",
	},
	{
		Name: "Payment Terms",
		Patterns: patternTable(
			`payment.*?(?:due|terms|schedule)`,
			`invoice.*?(?:payment|terms)`,
			`compensation.*?(?:amount|terms)`,
			`fee.*?(?:payment|schedule)`,
			`remuneration`,
		),
		Description: "Outlines payment obligations and schedules",
	},
	{
		Name: "Liability",
		Patterns: patternTable(
			`liability.*?(?:limited|excluded|damages)`,
			`damages.*?(?:liable|responsible)`,
			`indemnif[yi].*?(?:party|damages)`,
			`responsible.*?(?:damages|loss)`,
		),
		Description: "Defines responsibility for damages or losses",
	},
	{
		Name: "Governing Law",
		Patterns: patternTable(
			`governing.*?law`,
			`jurisdiction.*?(?:court|law)`,
			`laws.*?of.*?(?:state|country)`,
			`legal.*?system`,
		),
		Description: "Specifies which laws and courts have authority",
	},
	{
		Name: "Intellectual Property",
		Patterns: patternTable(
			`intellectual.*?property`,
			`copyright.*?(?:ownership|rights)`,
			`patent.*?(?:rights|ownership)`,
			`trademark.*?(?:rights|ownership)`,
			`proprietary.*?rights`,
		),
		Description: "Addresses ownership of ideas and creative works",
	},
	{
		Name: "Force Majeure",
		Patterns: patternTable(
			`force majeure`,
			`act of god`,
			`unforeseeable circumstances`,
		),
		Description: "Excuses performance when extraordinary circumstances beyond anyone's control occur",
	},
	{
		Name: "Dispute Resolution",
		Patterns: patternTable(
			`dispute`,
			`arbitration`,
			`mediation`,
			`resolution`,
			`court`,
		),
		Description: "Establishes the process for resolving disagreements between the parties",
	},
}

// ClauseCategories returns the catalogue in evaluation order.
func ClauseCategories() []ClauseCategory {
	out := make([]ClauseCategory, len(clauseCatalogue))
	copy(out, clauseCatalogue)
	return out
}

// ClassifyClauses tags at most one paragraph per category. The cap is only
// checked once a category has finished scanning.
func ClassifyClauses(text string) []domain.DetectedClause {
	paragraphs := splitParagraphs(text, minParagraphChars)
	clauses := make([]domain.DetectedClause, 0, MaxKeyClauses)

	for _, category := range clauseCatalogue {
		if clause, ok := category.detect(paragraphs); ok {
			clauses = append(clauses, clause)
		}
		if len(clauses) >= MaxKeyClauses {
			break
		}
	}
	return clauses
}

func (c ClauseCategory) detect(paragraphs []string) (domain.DetectedClause, bool) {
	for _, paragraph := range paragraphs {
		pattern, ok := c.Patterns.First(paragraph)
		if !ok {
			continue
		}

		var relevant []string
		for _, sentence := range splitSentences(paragraph, minSentenceChars) {
			if pattern.MatchString(sentence) {
				relevant = append(relevant, sentence)
			}
		}
		if len(relevant) == 0 {
			continue
		}
		if len(relevant) > sentencesPerClause {
			relevant = relevant[:sentencesPerClause]
		}
		return domain.DetectedClause{
			Type:        c.Name,
			Content:     joinSentences(relevant),
			Explanation: c.Description,
		}, true
	}
	return domain.DetectedClause{}, false
}
