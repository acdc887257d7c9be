package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"regexp"
	"strings"

	"github.com/kirillkom/legalease/internal/core/domain"
	"github.com/kirillkom/legalease/internal/core/ports"
)

var (
	blankLines = regexp.MustCompile(`\n\s*\n`)
	spaceRuns  = regexp.MustCompile(`\s+`)
)

// ImageExtractor turns a raw or base64 (optionally data-URL) image into text.
type ImageExtractor struct {
	engine ports.OCREngine
}

func NewImageExtractor(engine ports.OCREngine) *ImageExtractor {
	return &ImageExtractor{engine: engine}
}

func (e *ImageExtractor) ExtractText(ctx context.Context, source []byte) (string, error) {
	if e.engine == nil {
		return "", domain.WrapError(domain.ErrBackendUnavailable, "ocr image", errors.New("no ocr engine configured"))
	}

	img, err := decodeImage(source)
	if err != nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "decode image", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, flatten(img)); err != nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "encode image", err)
	}

	raw, err := e.engine.Recognize(ctx, buf.Bytes())
	if err != nil {
		return "", err
	}

	text := CleanText(raw)
	if text == "" {
		return "", domain.WrapError(domain.ErrNoTextFound, "ocr image", errors.New("no text recognized"))
	}
	return text, nil
}

// CleanText collapses blank-line runs, then all whitespace, into single spaces.
func CleanText(raw string) string {
	text := blankLines.ReplaceAllString(raw, "\n\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func decodeImage(source []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(source)); err == nil {
		return img, nil
	}

	payload := strings.TrimSpace(string(source))
	if strings.HasPrefix(payload, "data:image") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, errors.New("malformed data url")
		}
		payload = payload[comma+1:]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, errors.New("image is neither a supported format nor base64")
		}
	}

	img, _, err := image.Decode(bytes.NewReader(decoded))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// flatten composites the image onto white so alpha does not reach the OCR engine.
func flatten(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Over)
	return dst
}
