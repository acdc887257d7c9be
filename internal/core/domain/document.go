package domain

import (
	"path/filepath"
	"strings"
	"time"
)

type DocumentStatus string

const (
	StatusQueued     DocumentStatus = "queued"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// DocumentKind selects the extraction backend.
type DocumentKind string

const (
	KindText  DocumentKind = "txt"
	KindPDF   DocumentKind = "pdf"
	KindDOCX  DocumentKind = "docx"
	KindImage DocumentKind = "image"
)

type Document struct {
	ID             string         `json:"id"`
	Filename       string         `json:"filename"`
	FileType       DocumentKind   `json:"file_type"`
	FileSize       int64          `json:"file_size"`
	StoragePath    string         `json:"storage_path,omitempty"`
	OriginalText   string         `json:"original_text,omitempty"`
	Summary        string         `json:"summary,omitempty"`
	SummaryTier    SummaryTier    `json:"summary_tier,omitempty"`
	Status         DocumentStatus `json:"status"`
	Error          string         `json:"error,omitempty"`
	UploadedAt     time.Time      `json:"upload_date"`
	ProcessingTime float64        `json:"processing_time"`
	KeyClauses     []KeyClause    `json:"key_clauses,omitempty"`
}

// KeyClause is the persisted form of a DetectedClause.
type KeyClause struct {
	ID          int64  `json:"id,omitempty"`
	DocumentID  string `json:"document_id"`
	ClauseType  string `json:"clause_type"`
	Content     string `json:"content"`
	Explanation string `json:"explanation"`
}

func KeyClausesFrom(documentID string, clauses []DetectedClause) []KeyClause {
	out := make([]KeyClause, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, KeyClause{
			DocumentID:  documentID,
			ClauseType:  c.Type,
			Content:     c.Content,
			Explanation: c.Explanation,
		})
	}
	return out
}

// Page is one slice of a newest-first listing.
type Page[T any] struct {
	Items   []T `json:"items"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

func (p Page[T]) Pages() int {
	if p.PerPage <= 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// Upload is a received source document before extraction.
type Upload struct {
	Filename string
	Kind     DocumentKind
	Body     []byte
	ClientIP string
}

// KindFromFilename maps an allowed upload extension to its kind.
func KindFromFilename(name string) (DocumentKind, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch DocumentKind(ext) {
	case KindText, KindPDF, KindDOCX:
		return DocumentKind(ext), true
	default:
		return "", false
	}
}
