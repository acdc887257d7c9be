package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/legalease/internal/core/domain"
)

const documentColumns = `id, filename, file_type, file_size, storage_path, original_text, summary, summary_tier, status, error_message, upload_date, processing_time`

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	return EnsureSchema(ctx, r.db)
}

// Create stores the document and any key clauses it already carries.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
INSERT INTO documents (`+documentColumns+`, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`,
		doc.ID, doc.Filename, string(doc.FileType), doc.FileSize, doc.StoragePath, doc.OriginalText,
		doc.Summary, string(doc.SummaryTier), string(doc.Status), doc.Error, doc.UploadedAt,
		doc.ProcessingTime, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	if err := insertKeyClauses(ctx, tx, doc.ID, doc.KeyClauses); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	clauses, err := r.keyClauses(ctx, `WHERE document_id = $1`, id)
	if err != nil {
		return nil, err
	}
	doc.KeyClauses = clauses[id]
	if doc.KeyClauses == nil {
		doc.KeyClauses = []domain.KeyClause{}
	}
	return &doc, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return requireAffected(result, "update document status", id)
}

// SaveAnalysis replaces the stored text, summary and key clauses of a document.
func (r *DocumentRepository) SaveAnalysis(
	ctx context.Context,
	id, text string,
	analysis domain.SummaryResult,
	processingTime time.Duration,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin analysis tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `
UPDATE documents
SET original_text = $2, summary = $3, summary_tier = $4, processing_time = $5, updated_at = $6
WHERE id = $1
`, id, text, analysis.Summary, string(analysis.Tier), processingTime.Seconds(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	if err := requireAffected(result, "save analysis", id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM key_clauses WHERE document_id = $1`, id); err != nil {
		return fmt.Errorf("clear key clauses: %w", err)
	}
	if err := insertKeyClauses(ctx, tx, id, domain.KeyClausesFrom(id, analysis.KeyClauses)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit analysis tx: %w", err)
	}
	return nil
}

// List pages documents newest first. Key clauses are not loaded.
func (r *DocumentRepository) List(ctx context.Context, page, perPage int) (domain.Page[domain.Document], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	out := domain.Page[domain.Document]{
		Items:   []domain.Document{},
		Page:    page,
		PerPage: perPage,
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&out.Total); err != nil {
		return domain.Page[domain.Document]{}, fmt.Errorf("count documents: %w", err)
	}
	if (page-1)*perPage >= out.Total {
		return out, nil
	}

	docs, err := r.queryDocuments(ctx, `
SELECT `+documentColumns+`
FROM documents
ORDER BY upload_date DESC, id DESC
LIMIT $1 OFFSET $2
`, perPage, (page-1)*perPage)
	if err != nil {
		return domain.Page[domain.Document]{}, err
	}
	out.Items = docs
	return out, nil
}

// ListAll returns every document with its key clauses, newest first.
func (r *DocumentRepository) ListAll(ctx context.Context) ([]domain.Document, error) {
	docs, err := r.queryDocuments(ctx, `
SELECT `+documentColumns+`
FROM documents
ORDER BY upload_date DESC, id DESC
`)
	if err != nil {
		return nil, err
	}

	clauses, err := r.keyClauses(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].KeyClauses = clauses[docs[i].ID]
	}
	return docs, nil
}

func (r *DocumentRepository) queryDocuments(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (r *DocumentRepository) keyClauses(ctx context.Context, where string, args ...any) (map[string][]domain.KeyClause, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_id, clause_type, content, explanation
FROM key_clauses
`+where+`
ORDER BY document_id, id
`, args...)
	if err != nil {
		return nil, fmt.Errorf("list key clauses: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.KeyClause)
	for rows.Next() {
		var clause domain.KeyClause
		if err := rows.Scan(&clause.ID, &clause.DocumentID, &clause.ClauseType, &clause.Content, &clause.Explanation); err != nil {
			return nil, fmt.Errorf("scan key clause: %w", err)
		}
		out[clause.DocumentID] = append(out[clause.DocumentID], clause)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate key clauses: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (domain.Document, error) {
	var doc domain.Document
	var fileType, tier, status string
	err := row.Scan(
		&doc.ID, &doc.Filename, &fileType, &doc.FileSize, &doc.StoragePath, &doc.OriginalText,
		&doc.Summary, &tier, &status, &doc.Error, &doc.UploadedAt, &doc.ProcessingTime,
	)
	if err != nil {
		return domain.Document{}, err
	}
	doc.FileType = domain.DocumentKind(fileType)
	doc.SummaryTier = domain.SummaryTier(tier)
	doc.Status = domain.DocumentStatus(status)
	return doc, nil
}

func insertKeyClauses(ctx context.Context, tx *sql.Tx, documentID string, clauses []domain.KeyClause) error {
	for _, clause := range clauses {
		_, err := tx.ExecContext(ctx, `
INSERT INTO key_clauses (document_id, clause_type, content, explanation)
VALUES ($1,$2,$3,$4)
`, documentID, clause.ClauseType, clause.Content, clause.Explanation)
		if err != nil {
			return fmt.Errorf("insert key clause: %w", err)
		}
	}
	return nil
}

func requireAffected(result sql.Result, operation, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}
