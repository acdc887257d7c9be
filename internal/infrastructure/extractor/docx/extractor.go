package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/legalease/internal/core/domain"
)

const documentPart = "word/document.xml"

// Extractor reads paragraph text from the main part of a .docx package.
// Every paragraph, including those inside tables, is emitted on its own line.
type Extractor struct {
	maxPartBytes int64
}

func NewExtractor() *Extractor {
	return &Extractor{maxPartBytes: 64 << 20}
}

func (e *Extractor) ExtractText(ctx context.Context, raw []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "open docx", err)
	}

	var part *zip.File
	for _, f := range archive.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "open docx", fmt.Errorf("missing %s", documentPart))
	}

	rc, err := part.Open()
	if err != nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "open docx part", err)
	}
	defer rc.Close()

	text, err := paragraphs(ctx, io.LimitReader(rc, e.maxPartBytes))
	if err != nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "parse docx", err)
	}
	return text, nil
}

func paragraphs(ctx context.Context, r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var out, paragraph strings.Builder
	inParagraph, inText := false, false

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				paragraph.Reset()
			case "t":
				inText = true
			case "tab":
				if inParagraph {
					paragraph.WriteByte('\t')
				}
			case "br", "cr":
				if inParagraph {
					paragraph.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteString(paragraph.String())
				out.WriteByte('\n')
				inParagraph = false
			}
		case xml.CharData:
			if inParagraph && inText {
				paragraph.Write(t)
			}
		}
	}
	return out.String(), nil
}
