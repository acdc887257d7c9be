package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	pdfreader "github.com/ledongthuc/pdf"

	"github.com/kirillkom/legalease/internal/core/domain"
)

// Extractor concatenates the plain text of every page in page order.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) ExtractText(ctx context.Context, raw []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", domain.WrapError(domain.ErrCorruptDocument, "parse pdf", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdfreader.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "open pdf", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", domain.WrapError(domain.ErrCorruptDocument, "read pdf page", fmt.Errorf("page %d: %w", i, err))
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}
