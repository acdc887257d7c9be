package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/legalease/internal/core/domain"
)

const (
	documentsSheet = "Documents"
	clausesSheet   = "Key Clauses"

	// Excel rejects cells longer than 32767 characters.
	maxCellChars = 32000
)

var (
	documentHeaders = []string{"ID", "Filename", "Type", "Size (bytes)", "Uploaded", "Status", "Summary Tier", "Processing Time (s)", "Key Clauses", "Summary"}
	clauseHeaders   = []string{"Document ID", "Filename", "Clause Type", "Content", "Explanation"}
)

// Renderer builds the history workbook: one row per document and one row per
// key clause.
type Renderer struct {
	logger *slog.Logger
}

func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

func (r *Renderer) RenderDocuments(ctx context.Context, docs []domain.Document) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	// NewFile starts with "Sheet1"; rename it rather than leaving it empty.
	if err := f.SetSheetName(f.GetSheetName(0), documentsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(clausesSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	if err := writeRow(f, documentsSheet, 1, toAny(documentHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, clausesSheet, 1, toAny(clauseHeaders)); err != nil {
		return nil, err
	}

	docRow, clauseRow := 2, 2
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := writeRow(f, documentsSheet, docRow, []any{
			doc.ID,
			doc.Filename,
			string(doc.FileType),
			doc.FileSize,
			doc.UploadedAt.UTC().Format("2006-01-02 15:04:05"),
			string(doc.Status),
			string(doc.SummaryTier),
			doc.ProcessingTime,
			len(doc.KeyClauses),
			truncate(doc.Summary),
		})
		if err != nil {
			return nil, err
		}
		docRow++

		for _, clause := range doc.KeyClauses {
			err := writeRow(f, clausesSheet, clauseRow, []any{
				doc.ID,
				doc.Filename,
				clause.ClauseType,
				truncate(clause.Content),
				truncate(clause.Explanation),
			})
			if err != nil {
				return nil, err
			}
			clauseRow++
		}
	}

	_ = f.SetColWidth(documentsSheet, "A", "A", 38)
	_ = f.SetColWidth(documentsSheet, "B", "B", 28)
	_ = f.SetColWidth(documentsSheet, "C", "I", 14)
	_ = f.SetColWidth(documentsSheet, "J", "J", 80)
	_ = f.SetColWidth(clausesSheet, "A", "A", 38)
	_ = f.SetColWidth(clausesSheet, "B", "C", 24)
	_ = f.SetColWidth(clausesSheet, "D", "E", 60)

	if idx, err := f.GetSheetIndex(documentsSheet); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	r.logger.Info("history_export_rendered",
		"documents", len(docs),
		"clauses", clauseRow-2,
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxCellChars {
		return s
	}
	return string(r[:maxCellChars]) + "..."
}
