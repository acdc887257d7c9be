package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrFileTooLarge     = errors.New("file too large")
	ErrTemporary        = errors.New("temporary failure")
)

// Extraction and analysis failure kinds.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrBackendUnavailable  = errors.New("extraction backend unavailable")
	ErrCorruptDocument     = errors.New("corrupt document")
	ErrNoTextFound         = errors.New("no text found")
	ErrUnsupportedEncoding = errors.New("unsupported text encoding")
	ErrEmptyInput          = errors.New("empty input")
	ErrEmptyClause         = errors.New("empty clause")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
