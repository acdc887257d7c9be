package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kirillkom/legalease/internal/bootstrap"
	"github.com/kirillkom/legalease/internal/core/analysis"
	"github.com/kirillkom/legalease/internal/core/domain"
)

type analyzeReport struct {
	File         string                  `json:"file"`
	DocumentType string                  `json:"document_type"`
	WordCount    int                     `json:"word_count"`
	Summary      string                  `json:"summary"`
	Tier         domain.SummaryTier      `json:"tier"`
	KeyClauses   []domain.DetectedClause `json:"key_clauses"`
}

func newAnalyzeCommand(opts *options) *cobra.Command {
	var asText bool

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Summarize a txt, pdf, docx or image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := bootstrap.NewEngine(opts.serviceConfig(), nil)

			path := args[0]
			text, err := engine.Extractor.ExtractFile(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("extract %s: %w", path, err)
			}
			result, err := engine.Summarizer.Summarize(text)
			if err != nil {
				return fmt.Errorf("summarize %s: %w", path, err)
			}

			report := analyzeReport{
				File:         path,
				DocumentType: analysis.ClassifyDocument(text),
				WordCount:    analysis.WordCount(text),
				Summary:      result.Summary,
				Tier:         result.Tier,
				KeyClauses:   result.KeyClauses,
			}
			if asText {
				return writeReportText(cmd.OutOrStdout(), report)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().BoolVar(&asText, "text", false, "print a readable report instead of JSON")
	return cmd
}

func writeReportText(w io.Writer, r analyzeReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %d words, %s summary)\n\n", r.File, r.DocumentType, r.WordCount, r.Tier)
	fmt.Fprintf(&b, "%s\n", r.Summary)
	if len(r.KeyClauses) > 0 {
		b.WriteString("\nKey clauses:\n")
		for _, c := range r.KeyClauses {
			fmt.Fprintf(&b, "\n[%s] %s\n  %s\n", c.Type, c.Content, c.Explanation)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
