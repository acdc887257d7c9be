package plaintext

import (
	"context"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/kirillkom/legalease/internal/core/domain"
)

// Extractor decodes plain text files as UTF-8, falling back to Latin-1.
// Content is returned untouched otherwise.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) ExtractText(_ context.Context, raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", domain.WrapError(domain.ErrUnsupportedEncoding, "decode text", fmt.Errorf("neither utf-8 nor latin-1: %w", err))
	}
	return string(decoded), nil
}
