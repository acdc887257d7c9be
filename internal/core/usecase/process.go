package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kirillkom/legalease/internal/core/domain"
	"github.com/kirillkom/legalease/internal/core/ports"
)

// ProcessDocumentUseCase completes documents queued by IngestDocumentUseCase.
type ProcessDocumentUseCase struct {
	repo     ports.DocumentRepository
	storage  ports.ObjectStorage
	pipeline analysisPipeline
	audit    auditor
	now      func() time.Time
	queueLag func(time.Duration)
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	logs ports.ProcessingLogRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	summarizer ports.DocumentSummarizer,
	cache ports.AnalysisCache,
	observer ports.AnalysisObserver,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:    repo,
		storage: storage,
		pipeline: analysisPipeline{
			extractor:  extractor,
			summarizer: summarizer,
			cache:      cache,
			observer:   observer,
		},
		audit: auditor{logs: logs, now: time.Now},
		now:   time.Now,
	}
}

// WithQueueLagObserver reports how long each document waited between upload
// and the start of processing.
func (uc *ProcessDocumentUseCase) WithQueueLagObserver(observe func(time.Duration)) *ProcessDocumentUseCase {
	uc.queueLag = observe
	return uc
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	start := uc.now()
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	text, result, err := uc.processPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	elapsed := uc.now().Sub(start)
	if err := uc.repo.SaveAnalysis(ctx, documentID, text, result, elapsed); err != nil {
		err = fmt.Errorf("save analysis: %w", err)
		uc.audit.failure(ctx, domain.ActionSummarize, documentID, "", err)
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}

	uc.pipeline.observe(result, elapsed)
	uc.audit.success(ctx, domain.ActionSummarize, documentID, "")
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) (string, domain.SummaryResult, error) {
	doc, err := uc.loadDocument(ctx, documentID)
	if err != nil {
		return "", domain.SummaryResult{}, err
	}
	if uc.queueLag != nil && !doc.UploadedAt.IsZero() {
		uc.queueLag(uc.now().Sub(doc.UploadedAt))
	}

	source, err := uc.loadSource(ctx, doc)
	if err != nil {
		return "", domain.SummaryResult{}, err
	}

	text, err := uc.pipeline.extract(ctx, source, doc.FileType)
	if err != nil {
		uc.audit.failure(ctx, domain.ActionExtractText, documentID, "", err)
		return "", domain.SummaryResult{}, err
	}

	result, err := uc.pipeline.summarize(text)
	if err != nil {
		uc.audit.failure(ctx, domain.ActionSummarize, documentID, "", err)
		return "", domain.SummaryResult{}, err
	}
	return text, result, nil
}

func (uc *ProcessDocumentUseCase) loadDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *ProcessDocumentUseCase) loadSource(ctx context.Context, doc *domain.Document) ([]byte, error) {
	rc, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open stored source: %w", err)
	}
	defer rc.Close()

	source, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read stored source: %w", err)
	}
	return source, nil
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
