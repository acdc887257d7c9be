package analysis

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/kirillkom/legalease/internal/core/domain"
	"github.com/kirillkom/legalease/internal/core/ports"
)

// SummarizerConfig is fixed at construction; Summarizer keeps its own copy.
type SummarizerConfig struct {
	MinSentences      int
	MaxSentences      int
	WordsPerSentence  int
	FallbackSentences int
}

// DefaultSummarizerConfig returns three to eight sentences, one per hundred words.
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		MinSentences:      3,
		MaxSentences:      8,
		WordsPerSentence:  100,
		FallbackSentences: 5,
	}
}

func (c SummarizerConfig) normalize() SummarizerConfig {
	out := c
	def := DefaultSummarizerConfig()

	if out.MinSentences <= 0 {
		out.MinSentences = def.MinSentences
	}
	if out.MaxSentences <= 0 {
		out.MaxSentences = def.MaxSentences
	}
	if out.MaxSentences < out.MinSentences {
		out.MaxSentences = out.MinSentences
	}
	if out.WordsPerSentence <= 0 {
		out.WordsPerSentence = def.WordsPerSentence
	}
	if out.FallbackSentences <= 0 {
		out.FallbackSentences = def.FallbackSentences
	}
	return out
}

var errNoQualifyingSentences = errors.New("no sentence long enough to summarize")

// Summarizer degrades through three tiers: the injected statistical ranker,
// keyword scoring, then a generic word-count statement.
type Summarizer struct {
	cfg         SummarizerConfig
	statistical ports.StatisticalSummarizer
}

// NewSummarizer accepts a nil ranker, in which case every call starts at the
// heuristic tier.
func NewSummarizer(cfg SummarizerConfig, statistical ports.StatisticalSummarizer) *Summarizer {
	return &Summarizer{
		cfg:         cfg.normalize(),
		statistical: statistical,
	}
}

func (s *Summarizer) Config() SummarizerConfig {
	return s.cfg
}

// TargetSentences scales the statistical summary length with document size.
func (s *Summarizer) TargetSentences(text string) int {
	n := WordCount(text) / s.cfg.WordsPerSentence
	return max(s.cfg.MinSentences, min(s.cfg.MaxSentences, n))
}

// Summarize fails only for blank input (domain.ErrEmptyInput).
func (s *Summarizer) Summarize(text string) (domain.SummaryResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.SummaryResult{}, domain.WrapError(domain.ErrEmptyInput, "summarize", errors.New("text is blank"))
	}

	summary, tier, err := s.extract(text)
	if err != nil {
		slog.Warn("summary_degraded_to_generic", "error", err)
		return GenericSummary(text), nil
	}

	summary = ImproveReadability(contextualize(summary, ClassifyDocument(text)))
	return domain.SummaryResult{
		Summary:    summary,
		KeyClauses: ClassifyClauses(text),
		Tier:       tier,
	}, nil
}

func (s *Summarizer) extract(text string) (string, domain.SummaryTier, error) {
	summary, statErr := s.statisticalSummary(text)
	if statErr == nil {
		return summary, domain.TierStatistical, nil
	}
	slog.Debug("statistical_summary_failed", "error", statErr)

	summary, heurErr := s.heuristicSummary(text)
	if heurErr == nil {
		return summary, domain.TierHeuristic, nil
	}
	return "", domain.TierGeneric, fmt.Errorf("statistical: %w; heuristic: %w", statErr, heurErr)
}

func (s *Summarizer) statisticalSummary(text string) (summary string, err error) {
	if s.statistical == nil {
		return "", domain.WrapError(domain.ErrBackendUnavailable, "statistical summary", errors.New("no ranker configured"))
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("statistical summary panicked: %v", r)
		}
	}()

	sentences, err := s.statistical.Summarize(text, s.TargetSentences(text))
	if err != nil {
		return "", err
	}
	if len(sentences) == 0 {
		return "", errNoQualifyingSentences
	}
	return strings.Join(sentences, " "), nil
}

type scoredSentence struct {
	text  string
	score int
}

func (s *Summarizer) heuristicSummary(text string) (string, error) {
	sentences := splitSentences(text, minSentenceChars)
	if len(sentences) == 0 {
		return "", errNoQualifyingSentences
	}

	scored := make([]scoredSentence, 0, len(sentences))
	for _, sentence := range sentences {
		scored = append(scored, scoredSentence{text: sentence, score: ScoreSentence(sentence)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	top := make([]string, 0, s.cfg.FallbackSentences)
	for i := 0; i < len(scored) && i < s.cfg.FallbackSentences; i++ {
		top = append(top, scored[i].text)
	}
	return joinSentences(top), nil
}

func contextualize(summary, documentType string) string {
	if documentType == GenericDocumentType {
		return summary
	}
	return fmt.Sprintf("This %s contains the following key provisions: %s", documentType, summary)
}

// GenericSummary is the last-resort result: a word-count statement and no clauses.
func GenericSummary(text string) domain.SummaryResult {
	return domain.SummaryResult{
		Summary: fmt.Sprintf(
			"This legal document contains %d words and appears to cover standard legal provisions. "+
				"The document includes various clauses and terms that would benefit from professional legal review.",
			WordCount(text),
		),
		KeyClauses: []domain.DetectedClause{},
		Tier:       domain.TierGeneric,
	}
}
