package analysis

import (
	"errors"
	"strings"

	"github.com/kirillkom/legalease/internal/core/domain"
)

const (
	clauseEchoLimit = 300

	genericStructureNote = "This clause establishes terms and conditions that parties must follow."

	// Disclaimer closes every clause explanation.
	Disclaimer = "Disclaimer: This explanation is for informational purposes only. For binding legal advice specific to your situation, consult with a qualified attorney."
)

type keywordNote struct {
	match func(string) bool
	note  string
}

var structureNotes = []keywordNote{
	{containsAny("shall", "must", "required", "obligation", "duty"), "This clause creates binding obligations - someone must do something."},
	{containsAny("may", "can", "permitted", "allowed"), "This clause grants permissions - someone is allowed to do something."},
	{containsAny("shall not", "cannot", "prohibited", "forbidden"), "This clause contains prohibitions - someone is forbidden from doing something."},
	{containsAny("if", "when", "unless", "provided that"), "This clause is conditional - it only applies under certain circumstances."},
	{containsAny("within", "days", "months", "years", "immediately"), "This clause has time-sensitive elements - specific deadlines or time periods apply."},
}

var implicationNotes = []keywordNote{
	{containsAny("payment", "fee", "cost", "expense", "penalty"), "This may have financial implications - money may need to be paid or penalties may apply."},
	{containsAny("within", "days", "deadline", "immediately"), "This has time-sensitive requirements - failing to meet deadlines could have consequences."},
	{containsAny("perform", "deliver", "complete", "fulfill"), "This requires specific actions to be taken - failure to perform could result in breach of contract."},
	{containsAny("liability", "damages", "loss", "harm"), "This involves risk allocation - it determines who bears responsibility for potential problems."},
	{containsAny("confidential", "secret", "proprietary", "disclose"), "This affects information sharing - unauthorized disclosure could have legal consequences."},
}

var interpretations = RuleTable[string]{
	{
		Match:   containsAny("terminat", "end", "expir", "dissolution"),
		Payload: "Termination Clause: This defines when and how the agreement can be ended. It typically specifies notice periods, conditions that trigger termination, and what happens to obligations after termination.",
	},
	{
		Match:   containsAny("confidential", "non-disclosure", "proprietary", "trade secret"),
		Payload: "Confidentiality Clause: This protects sensitive information by legally requiring parties to keep certain information secret and not share it with unauthorized parties.",
	},
	{
		Match:   containsAny("indemnif", "hold harmless", "defend"),
		Payload: "Indemnification Clause: This means one party agrees to protect and compensate the other party for certain types of losses, damages, or legal claims.",
	},
	{
		Match:   containsAny("liability", "damages", "responsible", "liable"),
		Payload: "Liability Clause: This defines who is responsible for damages, losses, or injuries, and may limit or exclude certain types of liability.",
	},
	{
		Match:   containsAny("governing law", "jurisdiction", "laws of"),
		Payload: "Governing Law Clause: This specifies which state's or country's laws will be used to interpret the agreement and which courts will handle disputes.",
	},
	{
		Match:   containsAny("force majeure", "act of god", "unforeseeable"),
		Payload: "Force Majeure Clause: This excuses performance when extraordinary circumstances beyond anyone's control (like natural disasters or wars) make it impossible to fulfill obligations.",
	},
	{
		Match:   containsAny("assign", "transfer", "delegate"),
		Payload: "Assignment Clause: This controls whether and how the rights and obligations under the agreement can be transferred to another party.",
	},
	{
		Match:   containsAny("severab", "invalid", "unenforceable"),
		Payload: "Severability Clause: This ensures that if one part of the agreement is found to be invalid or unenforceable, the rest of the agreement remains in effect.",
	},
	{
		Match:   containsAny("amend", "modify", "change"),
		Payload: "Amendment Clause: This specifies how changes to the agreement can be made, typically requiring written consent from all parties.",
	},
	{
		Match:   containsAny("dispute", "arbitration", "mediation", "litigation"),
		Payload: "Dispute Resolution Clause: This establishes the process for resolving disagreements, which may include negotiation, mediation, arbitration, or court proceedings.",
	},
}

// ExplainClause renders a plain-language reading of one clause. Blank input
// fails with domain.ErrEmptyClause.
func ExplainClause(clause string) (string, error) {
	if strings.TrimSpace(clause) == "" {
		return "", domain.WrapError(domain.ErrEmptyClause, "explain clause", errors.New("clause text is blank"))
	}
	lower := strings.ToLower(clause)

	var b strings.Builder
	if specific, ok := interpretations.First(lower); ok {
		b.WriteString(specific)
		b.WriteString("\n\n")
	}
	b.WriteString(describeStructure(lower))

	if impact := collectNotes(lower, implicationNotes); impact != "" {
		b.WriteString("\n\nPractical Impact: ")
		b.WriteString(impact)
	}

	b.WriteString("\n\nSpecific Clause Content: \"")
	b.WriteString(truncateRunes(clause, clauseEchoLimit))
	b.WriteString("\"\n\n")
	b.WriteString(Disclaimer)
	return b.String(), nil
}

func describeStructure(lower string) string {
	if notes := collectNotes(lower, structureNotes); notes != "" {
		return notes
	}
	return genericStructureNote
}

func collectNotes(lower string, catalogue []keywordNote) string {
	var notes []string
	for _, entry := range catalogue {
		if entry.match(lower) {
			notes = append(notes, entry.note)
		}
	}
	return strings.Join(notes, " ")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
