package usecase

import (
	"context"
	"time"

	"github.com/kirillkom/legalease/internal/core/analysis"
	"github.com/kirillkom/legalease/internal/core/domain"
	"github.com/kirillkom/legalease/internal/core/ports"
)

type ExplainClauseUseCase struct {
	audit auditor
}

func NewExplainClauseUseCase(logs ports.ProcessingLogRepository) *ExplainClauseUseCase {
	return &ExplainClauseUseCase{audit: auditor{logs: logs, now: time.Now}}
}

// Explain rejects blank clauses with domain.ErrEmptyClause without writing a
// log row.
func (uc *ExplainClauseUseCase) Explain(ctx context.Context, clause, clientIP string) (string, error) {
	explanation, err := analysis.ExplainClause(clause)
	if err != nil {
		if !domain.IsKind(err, domain.ErrEmptyClause) {
			uc.audit.failure(ctx, domain.ActionExplain, "", clientIP, err)
		}
		return "", err
	}
	uc.audit.success(ctx, domain.ActionExplain, "", clientIP)
	return explanation, nil
}
