package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/legalease/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

var docColumns = []string{
	"id", "filename", "file_type", "file_size", "storage_path", "original_text",
	"summary", "summary_tier", "status", "error_message", "upload_date", "processing_time",
}

var clauseColumns = []string{"id", "document_id", "clause_type", "content", "explanation"}

func TestCreateInsertsDocumentAndClauses(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	uploaded := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	doc := &domain.Document{
		ID:             "doc-1",
		Filename:       "lease.txt",
		FileType:       domain.KindText,
		FileSize:       42,
		OriginalText:   "text",
		Summary:        "summary",
		SummaryTier:    domain.TierStatistical,
		Status:         domain.StatusReady,
		UploadedAt:     uploaded,
		ProcessingTime: 0.25,
		KeyClauses: []domain.KeyClause{
			{DocumentID: "doc-1", ClauseType: "Termination", Content: "Either party may terminate.", Explanation: "Ends it."},
			{DocumentID: "doc-1", ClauseType: "Payment Terms", Content: "Pay monthly.", Explanation: "Money."},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO documents").
		WithArgs("doc-1", "lease.txt", "txt", int64(42), "", "text", "summary", "statistical", "ready", "", uploaded, 0.25, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO key_clauses").
		WithArgs("doc-1", "Termination", "Either party may terminate.", "Ends it.").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO key_clauses").
		WithArgs("doc-1", "Payment Terms", "Pay monthly.", "Money.").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, file_type, file_size").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDLoadsKeyClauses(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	uploaded := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	mock.ExpectQuery("SELECT id, filename, file_type, file_size").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows(docColumns).
			AddRow("doc-1", "nda.pdf", "pdf", int64(100), "", "text", "sum", "heuristic", "ready", "", uploaded, 1.5))
	mock.ExpectQuery("FROM key_clauses").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows(clauseColumns).
			AddRow(int64(7), "doc-1", "Confidentiality", "Keep it secret.", "Protects info."))

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.FileType != domain.KindPDF || doc.SummaryTier != domain.TierHeuristic || doc.Status != domain.StatusReady {
		t.Fatalf("unexpected typed fields: %+v", doc)
	}
	if !doc.UploadedAt.Equal(uploaded) || doc.ProcessingTime != 1.5 {
		t.Fatalf("unexpected timing fields: %+v", doc)
	}
	if len(doc.KeyClauses) != 1 || doc.KeyClauses[0].ID != 7 || doc.KeyClauses[0].ClauseType != "Confidentiality" {
		t.Fatalf("unexpected clauses: %+v", doc.KeyClauses)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveAnalysisReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", "text", "sum", "generic", 2.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SaveAnalysis(context.Background(), "missing", "text", domain.SummaryResult{
		Summary: "sum",
		Tier:    domain.TierGeneric,
	}, 2*time.Second)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveAnalysisReplacesClauses(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", "text", "sum", "statistical", 0.5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM key_clauses").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO key_clauses").
		WithArgs("doc-1", "Governing Law", "Laws of Delaware.", "Which law applies.").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.SaveAnalysis(context.Background(), "doc-1", "text", domain.SummaryResult{
		Summary: "sum",
		Tier:    domain.TierStatistical,
		KeyClauses: []domain.DetectedClause{
			{Type: "Governing Law", Content: "Laws of Delaware.", Explanation: "Which law applies."},
		},
	}, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListPastLastPageIsEmpty(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	page, err := repo.List(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 12 || page.Page != 3 || len(page.Items) != 0 || page.Items == nil {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Pages() != 2 {
		t.Fatalf("expected 2 pages, got %d", page.Pages())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListUsesOffset(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	uploaded := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("ORDER BY upload_date DESC").
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows(docColumns).
			AddRow("doc-11", "a.txt", "txt", int64(1), "", "", "", "", "queued", "", uploaded, 0.0).
			AddRow("doc-12", "b.txt", "txt", int64(1), "", "", "", "", "queued", "", uploaded, 0.0))

	page, err := repo.List(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].ID != "doc-11" {
		t.Fatalf("unexpected items: %+v", page.Items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListAllGroupsClauses(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	uploaded := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	mock.ExpectQuery("FROM documents").
		WillReturnRows(sqlmock.NewRows(docColumns).
			AddRow("b", "b.txt", "txt", int64(1), "", "", "", "", "ready", "", uploaded, 0.0).
			AddRow("a", "a.txt", "txt", int64(1), "", "", "", "", "ready", "", uploaded, 0.0))
	mock.ExpectQuery("FROM key_clauses").
		WillReturnRows(sqlmock.NewRows(clauseColumns).
			AddRow(int64(1), "a", "Termination", "x", "y").
			AddRow(int64(2), "a", "Liability", "x", "y"))

	docs, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(docs) != 2 || len(docs[0].KeyClauses) != 0 || len(docs[1].KeyClauses) != 2 {
		t.Fatalf("unexpected grouping: %+v", docs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
