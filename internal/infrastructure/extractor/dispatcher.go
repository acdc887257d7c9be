// Package extractor routes a source document to the backend for its kind.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirillkom/legalease/internal/core/domain"
	"github.com/kirillkom/legalease/internal/core/ports"
)

// Backends holds one extractor per kind. A nil entry reports
// domain.ErrBackendUnavailable for that kind.
type Backends struct {
	Text  ports.DocumentBackend
	PDF   ports.DocumentBackend
	DOCX  ports.DocumentBackend
	Image ports.DocumentBackend
}

type Dispatcher struct {
	backends Backends
}

func New(backends Backends) *Dispatcher {
	return &Dispatcher{backends: backends}
}

func (d *Dispatcher) backend(kind domain.DocumentKind) (ports.DocumentBackend, error) {
	var backend ports.DocumentBackend
	switch kind {
	case domain.KindText:
		backend = d.backends.Text
	case domain.KindPDF:
		backend = d.backends.PDF
	case domain.KindDOCX:
		backend = d.backends.DOCX
	case domain.KindImage:
		backend = d.backends.Image
	default:
		return nil, domain.WrapError(domain.ErrUnsupportedFileType, "extract", fmt.Errorf("kind %q", kind))
	}
	if backend == nil {
		return nil, domain.WrapError(domain.ErrBackendUnavailable, "extract", fmt.Errorf("no backend for %s", kind))
	}
	return backend, nil
}

// Extract returns the backend's text unmodified. Whitespace-only output is
// reported as domain.ErrNoTextFound.
func (d *Dispatcher) Extract(ctx context.Context, source []byte, kind domain.DocumentKind) (string, error) {
	backend, err := d.backend(kind)
	if err != nil {
		return "", err
	}

	text, err := backend.ExtractText(ctx, source)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrNoTextFound, "extract", errors.New("document has no readable text"))
	}
	return text, nil
}

// ExtractImage runs a camera capture (raw image, base64 or data URL) through OCR.
func (d *Dispatcher) ExtractImage(ctx context.Context, payload []byte) (string, error) {
	return d.Extract(ctx, payload, domain.KindImage)
}

// ExtractFile reads a document from disk, choosing the backend by extension.
func (d *Dispatcher) ExtractFile(ctx context.Context, path string) (string, error) {
	kind, ok := KindFromPath(path)
	if !ok {
		return "", domain.WrapError(domain.ErrUnsupportedFileType, "extract file", fmt.Errorf("extension %q", filepath.Ext(path)))
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return d.Extract(ctx, source, kind)
}

// KindFromPath extends domain.KindFromFilename with common image extensions.
func KindFromPath(path string) (domain.DocumentKind, bool) {
	if kind, ok := domain.KindFromFilename(path); ok {
		return kind, true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return domain.KindImage, true
	}
	return "", false
}
