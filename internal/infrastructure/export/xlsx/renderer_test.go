package xlsx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/legalease/internal/core/domain"
)

func TestRenderDocuments(t *testing.T) {
	docs := []domain.Document{
		{
			ID:          "doc-1",
			Filename:    "lease.pdf",
			FileType:    domain.KindPDF,
			FileSize:    2048,
			Status:      domain.StatusReady,
			SummaryTier: domain.TierStatistical,
			UploadedAt:  time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC),
			Summary:     "This Lease Agreement contains the following key provisions: rent.",
			KeyClauses: []domain.KeyClause{
				{ClauseType: "Payment Terms", Content: "Rent is due monthly.", Explanation: "Money."},
				{ClauseType: "Termination", Content: "Either party may terminate.", Explanation: "Ending."},
			},
		},
		{ID: "doc-2", Filename: "notes.txt", FileType: domain.KindText, Status: domain.StatusQueued},
	}

	out, err := NewRenderer(nil).RenderDocuments(context.Background(), docs)
	if err != nil {
		t.Fatalf("RenderDocuments() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	docRows, err := f.GetRows(documentsSheet)
	if err != nil {
		t.Fatalf("read documents sheet: %v", err)
	}
	if len(docRows) != 3 {
		t.Fatalf("expected header + 2 document rows, got %d", len(docRows))
	}
	if docRows[0][0] != "ID" || docRows[1][1] != "lease.pdf" || docRows[1][4] != "2025-04-02 09:30:00" || docRows[1][8] != "2" {
		t.Fatalf("unexpected document row: %v", docRows[1])
	}

	clauseRows, err := f.GetRows(clausesSheet)
	if err != nil {
		t.Fatalf("read clauses sheet: %v", err)
	}
	if len(clauseRows) != 3 || clauseRows[2][2] != "Termination" || clauseRows[1][0] != "doc-1" {
		t.Fatalf("unexpected clause rows: %v", clauseRows)
	}

	if f.GetSheetName(0) != documentsSheet {
		t.Fatalf("expected first sheet to be %q, got %q", documentsSheet, f.GetSheetName(0))
	}
}

func TestRenderDocumentsEmpty(t *testing.T) {
	out, err := NewRenderer(nil).RenderDocuments(context.Background(), nil)
	if err != nil {
		t.Fatalf("RenderDocuments() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(clausesSheet)
	if err != nil {
		t.Fatalf("read clauses sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the header row, got %d", len(rows))
	}
}

func TestTruncate(t *testing.T) {
	long := make([]rune, maxCellChars+10)
	for i := range long {
		long[i] = 'a'
	}
	if got := []rune(truncate(string(long))); len(got) != maxCellChars+3 {
		t.Fatalf("expected truncated length %d, got %d", maxCellChars+3, len(got))
	}
	if truncate("short") != "short" {
		t.Fatalf("short strings should be untouched")
	}
}
