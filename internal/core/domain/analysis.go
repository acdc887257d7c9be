package domain

// SummaryTier records which summarization strategy produced a result.
type SummaryTier string

const (
	TierStatistical SummaryTier = "statistical"
	TierHeuristic   SummaryTier = "heuristic"
	TierGeneric     SummaryTier = "generic"
)

type DetectedClause struct {
	Type        string `json:"type"`
	Content     string `json:"content"`
	Explanation string `json:"explanation"`
}

type SummaryResult struct {
	Summary    string           `json:"summary"`
	KeyClauses []DetectedClause `json:"key_clauses"`
	Tier       SummaryTier      `json:"tier"`
}
