package usecase

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/legalease/internal/core/domain"
	"github.com/kirillkom/legalease/internal/core/ports"
)

// IngestDocumentUseCase stores an upload and hands it to the worker queue.
type IngestDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
	audit   auditor
	now     func() time.Time
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	logs ports.ProcessingLogRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
		audit:   auditor{logs: logs, now: time.Now},
		now:     time.Now,
	}
}

func (uc *IngestDocumentUseCase) Enqueue(ctx context.Context, upload domain.Upload) (*domain.Document, error) {
	kind, err := resolveKind(upload)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(upload.Filename))

	if err := uc.storage.Save(ctx, storageKey, bytes.NewReader(upload.Body)); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:          id,
		Filename:    upload.Filename,
		FileType:    kind,
		FileSize:    int64(len(upload.Body)),
		StoragePath: storageKey,
		Status:      domain.StatusQueued,
		UploadedAt:  uc.now().UTC(),
		KeyClauses:  []domain.KeyClause{},
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}
	uc.audit.success(ctx, domain.ActionUpload, doc.ID, upload.ClientIP)

	if err := uc.queue.PublishAnalysisRequested(ctx, doc.ID); err != nil {
		err = fmt.Errorf("publish analysis request: %w", err)
		if markErr := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusFailed, err.Error()); markErr != nil {
			return nil, fmt.Errorf("%w; mark failed status: %v", err, markErr)
		}
		return nil, err
	}

	return doc, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.bin"
	}
	return base
}
