package ports

import (
	"context"

	"github.com/kirillkom/legalease/internal/core/domain"
)

// DocumentAnalyzer runs the full extraction and summarization pipeline inline.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, upload domain.Upload) (*domain.Document, error)
}

// DocumentIngestor stores an upload and queues it for the worker.
type DocumentIngestor interface {
	Enqueue(ctx context.Context, upload domain.Upload) (*domain.Document, error)
}

// ClauseExplainer is the inbound contract for on-demand clause explanations.
type ClauseExplainer interface {
	Explain(ctx context.Context, clause, clientIP string) (string, error)
}

// DocumentHistory is the inbound read model over analyzed documents.
type DocumentHistory interface {
	List(ctx context.Context, page int) (domain.Page[domain.Document], error)
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ExportXLSX(ctx context.Context) ([]byte, error)
	Logs(ctx context.Context, documentID string) ([]domain.ProcessingLog, error)
}

// DocumentProcessor is the inbound contract for asynchronous document analysis.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}
