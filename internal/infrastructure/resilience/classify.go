package resilience

import (
	"context"
	"errors"

	"github.com/kirillkom/legalease/internal/core/domain"
)

// callerFaults are failures caused by the submitted document, not the backend.
// They never count against a breaker.
var callerFaults = []error{
	domain.ErrInvalidInput,
	domain.ErrFileTooLarge,
	domain.ErrDocumentNotFound,
	domain.ErrUnsupportedFileType,
	domain.ErrCorruptDocument,
	domain.ErrNoTextFound,
	domain.ErrUnsupportedEncoding,
	domain.ErrEmptyInput,
	domain.ErrEmptyClause,
}

// ClassifyDomainError retries only domain.ErrTemporary and trips breakers on
// backend faults.
func ClassifyDomainError(err error) ErrorClassification {
	switch {
	case err == nil:
		return ErrorClassification{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorClassification{}
	case domain.IsKind(err, domain.ErrTemporary):
		return ErrorClassification{Retryable: true, RecordFailure: true}
	}
	for _, kind := range callerFaults {
		if domain.IsKind(err, kind) {
			return ErrorClassification{}
		}
	}
	return ErrorClassification{RecordFailure: true}
}
