package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kirillkom/legalease/internal/core/domain"
)

type ProcessingLogRepository struct {
	db *sql.DB
}

func NewProcessingLogRepository(db *sql.DB) *ProcessingLogRepository {
	return &ProcessingLogRepository{db: db}
}

func (r *ProcessingLogRepository) AppendLog(ctx context.Context, entry domain.ProcessingLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO processing_logs (document_id, action, status, error_message, ip_address, timestamp)
VALUES (NULLIF($1, ''),$2,$3,$4,$5,$6)
`, entry.DocumentID, string(entry.Action), string(entry.Status), entry.ErrorMessage, entry.IPAddress, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("append processing log: %w", err)
	}
	return nil
}

// ListLogs returns the most recent entries, optionally for one document.
func (r *ProcessingLogRepository) ListLogs(ctx context.Context, documentID string, limit int) ([]domain.ProcessingLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
SELECT id, COALESCE(document_id, ''), action, status, error_message, ip_address, timestamp
FROM processing_logs
`
	args := []any{limit}
	if documentID != "" {
		query += "WHERE document_id = $2\n"
		args = append(args, documentID)
	}
	query += "ORDER BY timestamp DESC, id DESC\nLIMIT $1"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list processing logs: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ProcessingLog, 0)
	for rows.Next() {
		var entry domain.ProcessingLog
		var action, status string
		if err := rows.Scan(&entry.ID, &entry.DocumentID, &action, &status, &entry.ErrorMessage, &entry.IPAddress, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan processing log: %w", err)
		}
		entry.Action = domain.LogAction(action)
		entry.Status = domain.LogStatus(status)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processing logs: %w", err)
	}
	return out, nil
}
