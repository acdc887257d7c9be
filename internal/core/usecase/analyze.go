package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/legalease/internal/core/domain"
	"github.com/kirillkom/legalease/internal/core/ports"
)

// AnalyzeDocumentUseCase runs extraction and summarization inline and stores
// the finished document.
type AnalyzeDocumentUseCase struct {
	repo     ports.DocumentRepository
	pipeline analysisPipeline
	audit    auditor
	now      func() time.Time
}

func NewAnalyzeDocumentUseCase(
	repo ports.DocumentRepository,
	logs ports.ProcessingLogRepository,
	extractor ports.TextExtractor,
	summarizer ports.DocumentSummarizer,
	cache ports.AnalysisCache,
	observer ports.AnalysisObserver,
) *AnalyzeDocumentUseCase {
	now := time.Now
	return &AnalyzeDocumentUseCase{
		repo: repo,
		pipeline: analysisPipeline{
			extractor:  extractor,
			summarizer: summarizer,
			cache:      cache,
			observer:   observer,
		},
		audit: auditor{logs: logs, now: now},
		now:   now,
	}
}

func (uc *AnalyzeDocumentUseCase) Analyze(ctx context.Context, upload domain.Upload) (*domain.Document, error) {
	start := uc.now()

	kind, err := resolveKind(upload)
	if err != nil {
		return nil, err
	}
	// Camera captures are not uploads in the audit trail.
	if kind != domain.KindImage {
		uc.audit.success(ctx, domain.ActionUpload, "", upload.ClientIP)
	}

	text, err := uc.pipeline.extract(ctx, upload.Body, kind)
	if err != nil {
		uc.audit.failure(ctx, domain.ActionExtractText, "", upload.ClientIP, err)
		return nil, err
	}

	result, err := uc.pipeline.summarize(text)
	if err != nil {
		uc.audit.failure(ctx, domain.ActionSummarize, "", upload.ClientIP, err)
		return nil, err
	}

	elapsed := uc.now().Sub(start)
	id := uuid.NewString()
	doc := &domain.Document{
		ID:             id,
		Filename:       upload.Filename,
		FileType:       kind,
		FileSize:       int64(len(upload.Body)),
		OriginalText:   text,
		Summary:        result.Summary,
		SummaryTier:    result.Tier,
		Status:         domain.StatusReady,
		UploadedAt:     start.UTC(),
		ProcessingTime: elapsed.Seconds(),
		KeyClauses:     domain.KeyClausesFrom(id, result.KeyClauses),
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		uc.audit.failure(ctx, domain.ActionSummarize, "", upload.ClientIP, err)
		return nil, fmt.Errorf("create document: %w", err)
	}

	uc.pipeline.observe(result, elapsed)
	uc.audit.success(ctx, domain.ActionSummarize, doc.ID, upload.ClientIP)
	return doc, nil
}
