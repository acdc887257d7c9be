package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/legalease/internal/core/domain"
	"github.com/kirillkom/legalease/internal/core/ports"
)

// analysisPipeline is the extract+summarize core shared by the inline and
// queued paths.
type analysisPipeline struct {
	extractor  ports.TextExtractor
	summarizer ports.DocumentSummarizer
	cache      ports.AnalysisCache
	observer   ports.AnalysisObserver
}

func (p analysisPipeline) extract(ctx context.Context, source []byte, kind domain.DocumentKind) (string, error) {
	text, err := p.extractor.Extract(ctx, source, kind)
	if err != nil {
		p.fail("extract")
		return "", fmt.Errorf("extract text: %w", err)
	}
	return text, nil
}

func (p analysisPipeline) summarize(text string) (domain.SummaryResult, error) {
	if p.cache != nil {
		if cached, ok := p.cache.Get(text); ok {
			slog.Debug("analysis_cache_hit", "tier", cached.Tier)
			return cached, nil
		}
	}

	result, err := p.summarizer.Summarize(text)
	if err != nil {
		p.fail("summarize")
		return domain.SummaryResult{}, fmt.Errorf("summarize: %w", err)
	}
	if p.cache != nil && result.Tier != domain.TierGeneric {
		p.cache.Set(text, result)
	}
	return result, nil
}

func (p analysisPipeline) observe(result domain.SummaryResult, elapsed time.Duration) {
	if p.observer != nil {
		p.observer.ObserveAnalysis(result.Tier, len(result.KeyClauses), elapsed)
	}
}

func (p analysisPipeline) fail(stage string) {
	if p.observer != nil {
		p.observer.ObserveFailure(stage)
	}
}

// auditor writes processing log rows. Failures are logged, never returned.
type auditor struct {
	logs ports.ProcessingLogRepository
	now  func() time.Time
}

func (a auditor) record(ctx context.Context, entry domain.ProcessingLog) {
	if a.logs == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = a.now().UTC()
	}
	if err := a.logs.AppendLog(ctx, entry); err != nil {
		slog.Warn("processing_log_write_failed",
			"action", entry.Action,
			"document_id", entry.DocumentID,
			"error", err,
		)
	}
}

func (a auditor) success(ctx context.Context, action domain.LogAction, documentID, clientIP string) {
	a.record(ctx, domain.ProcessingLog{
		DocumentID: documentID,
		Action:     action,
		Status:     domain.LogSuccess,
		IPAddress:  clientIP,
	})
}

func (a auditor) failure(ctx context.Context, action domain.LogAction, documentID, clientIP string, cause error) {
	a.record(ctx, domain.ProcessingLog{
		DocumentID:   documentID,
		Action:       action,
		Status:       domain.LogError,
		ErrorMessage: cause.Error(),
		IPAddress:    clientIP,
	})
}

// resolveKind fills a missing kind from the filename and rejects unknown kinds.
func resolveKind(upload domain.Upload) (domain.DocumentKind, error) {
	kind := upload.Kind
	if kind == "" {
		var ok bool
		kind, ok = domain.KindFromFilename(upload.Filename)
		if !ok {
			return "", domain.WrapError(domain.ErrUnsupportedFileType, "resolve kind", fmt.Errorf("filename %q", upload.Filename))
		}
	}
	switch kind {
	case domain.KindText, domain.KindPDF, domain.KindDOCX, domain.KindImage:
		return kind, nil
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFileType, "resolve kind", fmt.Errorf("kind %q", kind))
	}
}
