package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/legalease/internal/core/domain"
)

func TestExplainLogsSuccess(t *testing.T) {
	logs := &logsFake{}
	uc := NewExplainClauseUseCase(logs)

	explanation, err := uc.Explain(context.Background(), "Either party may terminate this Agreement upon notice.", "192.168.1.5")
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if !strings.Contains(explanation, "Disclaimer:") {
		t.Fatalf("explanation should end with the disclaimer: %q", explanation)
	}
	if len(logs.entries) != 1 || logs.entries[0].Action != domain.ActionExplain || logs.entries[0].IPAddress != "192.168.1.5" {
		t.Fatalf("expected explain log with ip, got %+v", logs.entries)
	}
}

func TestExplainBlankClause(t *testing.T) {
	logs := &logsFake{}
	_, err := NewExplainClauseUseCase(logs).Explain(context.Background(), "   ", "")
	if !errors.Is(err, domain.ErrEmptyClause) {
		t.Fatalf("expected ErrEmptyClause, got %v", err)
	}
	if len(logs.entries) != 0 {
		t.Fatalf("blank clauses must not be logged")
	}
}
