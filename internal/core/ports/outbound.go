package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/legalease/internal/core/domain"
)

// DocumentRepository persists analyzed documents and their key clauses.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveAnalysis(ctx context.Context, id, text string, result domain.SummaryResult, processingTime time.Duration) error
	List(ctx context.Context, page, perPage int) (domain.Page[domain.Document], error)
	ListAll(ctx context.Context) ([]domain.Document, error)
}

// ProcessingLogRepository appends audit rows.
type ProcessingLogRepository interface {
	AppendLog(ctx context.Context, entry domain.ProcessingLog) error
}

// ProcessingLogReader lists audit rows, newest first.
type ProcessingLogReader interface {
	ListLogs(ctx context.Context, documentID string, limit int) ([]domain.ProcessingLog, error)
}

// ObjectStorage stores source documents awaiting asynchronous analysis.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes analysis requests.
type MessageQueue interface {
	PublishAnalysisRequested(ctx context.Context, documentID string) error
	SubscribeAnalysisRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor turns raw document bytes of a given kind into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, source []byte, kind domain.DocumentKind) (string, error)
}

// DocumentBackend parses one binary document format.
type DocumentBackend interface {
	ExtractText(ctx context.Context, source []byte) (string, error)
}

// OCREngine recognizes text in an RGB PNG image.
type OCREngine interface {
	Recognize(ctx context.Context, png []byte) (string, error)
}

// StatisticalSummarizer ranks sentences and returns the chosen ones in
// emitted order.
type StatisticalSummarizer interface {
	Summarize(text string, sentences int) ([]string, error)
}

// DocumentSummarizer produces a tiered summary with key clauses.
type DocumentSummarizer interface {
	Summarize(text string) (domain.SummaryResult, error)
}

// AnalysisCache memoizes summaries by document text.
type AnalysisCache interface {
	Get(text string) (domain.SummaryResult, bool)
	Set(text string, result domain.SummaryResult)
}

// AnalysisObserver receives pipeline outcomes, typically for metrics.
type AnalysisObserver interface {
	ObserveAnalysis(tier domain.SummaryTier, clauses int, elapsed time.Duration)
	ObserveFailure(stage string)
}

// SpreadsheetRenderer renders document history as a workbook.
type SpreadsheetRenderer interface {
	RenderDocuments(ctx context.Context, docs []domain.Document) ([]byte, error)
}
