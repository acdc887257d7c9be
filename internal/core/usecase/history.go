package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/legalease/internal/core/domain"
	"github.com/kirillkom/legalease/internal/core/ports"
)

const (
	DefaultHistoryPageSize = 10
	documentLogLimit       = 100
)

type HistoryUseCase struct {
	repo     ports.DocumentRepository
	logs     ports.ProcessingLogReader
	renderer ports.SpreadsheetRenderer
	perPage  int
}

func NewHistoryUseCase(
	repo ports.DocumentRepository,
	logs ports.ProcessingLogReader,
	renderer ports.SpreadsheetRenderer,
	perPage int,
) *HistoryUseCase {
	if perPage <= 0 {
		perPage = DefaultHistoryPageSize
	}
	return &HistoryUseCase{
		repo:     repo,
		logs:     logs,
		renderer: renderer,
		perPage:  perPage,
	}
}

// List returns one newest-first page. Pages past the end are empty, not errors.
func (uc *HistoryUseCase) List(ctx context.Context, page int) (domain.Page[domain.Document], error) {
	if page < 1 {
		page = 1
	}
	result, err := uc.repo.List(ctx, page, uc.perPage)
	if err != nil {
		return domain.Page[domain.Document]{}, fmt.Errorf("list documents: %w", err)
	}
	if result.Items == nil {
		result.Items = []domain.Document{}
	}
	return result, nil
}

func (uc *HistoryUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get document", fmt.Errorf("document id is required"))
	}
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (uc *HistoryUseCase) ExportXLSX(ctx context.Context) ([]byte, error) {
	if uc.renderer == nil {
		return nil, domain.WrapError(domain.ErrBackendUnavailable, "export history", fmt.Errorf("no spreadsheet renderer configured"))
	}
	docs, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents for export: %w", err)
	}
	out, err := uc.renderer.RenderDocuments(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}
	return out, nil
}

// Logs returns the audit trail of an existing document.
func (uc *HistoryUseCase) Logs(ctx context.Context, documentID string) ([]domain.ProcessingLog, error) {
	if _, err := uc.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	if uc.logs == nil {
		return []domain.ProcessingLog{}, nil
	}
	entries, err := uc.logs.ListLogs(ctx, strings.TrimSpace(documentID), documentLogLimit)
	if err != nil {
		return nil, fmt.Errorf("list processing logs: %w", err)
	}
	return entries, nil
}
