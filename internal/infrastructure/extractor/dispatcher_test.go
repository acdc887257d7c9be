package extractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/legalease/internal/core/domain"
)

type fakeBackend struct {
	text  string
	err   error
	calls int
}

func (f *fakeBackend) ExtractText(context.Context, []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestExtractRoutesByKind(t *testing.T) {
	pdf := &fakeBackend{text: "  pdf body\n"}
	docx := &fakeBackend{text: "docx body"}
	d := New(Backends{Text: &fakeBackend{text: "txt"}, PDF: pdf, DOCX: docx})

	text, err := d.Extract(context.Background(), []byte("x"), domain.KindPDF)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "  pdf body\n" {
		t.Fatalf("text should be returned unmodified, got %q", text)
	}
	if pdf.calls != 1 || docx.calls != 0 {
		t.Fatalf("unexpected routing: pdf=%d docx=%d", pdf.calls, docx.calls)
	}
}

func TestExtractUnknownKind(t *testing.T) {
	_, err := New(Backends{}).Extract(context.Background(), []byte("x"), domain.DocumentKind("xlsx"))
	if !errors.Is(err, domain.ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
}

func TestExtractMissingBackend(t *testing.T) {
	_, err := New(Backends{Text: &fakeBackend{text: "x"}}).Extract(context.Background(), []byte("x"), domain.KindImage)
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestExtractBlankText(t *testing.T) {
	d := New(Backends{Text: &fakeBackend{text: " \n\t"}})
	_, err := d.Extract(context.Background(), []byte("x"), domain.KindText)
	if !errors.Is(err, domain.ErrNoTextFound) {
		t.Fatalf("expected ErrNoTextFound, got %v", err)
	}
}

func TestExtractPropagatesBackendError(t *testing.T) {
	backendErr := domain.WrapError(domain.ErrCorruptDocument, "pdf", errors.New("bad xref"))
	d := New(Backends{PDF: &fakeBackend{err: backendErr}})
	_, err := d.Extract(context.Background(), []byte("x"), domain.KindPDF)
	if !errors.Is(err, domain.ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lease.TXT")
	if err := os.WriteFile(path, []byte("The tenant shall pay rent."), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	text := &fakeBackend{text: "The tenant shall pay rent."}

	got, err := New(Backends{Text: text}).ExtractFile(context.Background(), path)
	if err != nil {
		t.Fatalf("extract file: %v", err)
	}
	if got != "The tenant shall pay rent." || text.calls != 1 {
		t.Fatalf("unexpected result %q (calls=%d)", got, text.calls)
	}

	_, err = New(Backends{}).ExtractFile(context.Background(), filepath.Join(dir, "sheet.xlsx"))
	if !errors.Is(err, domain.ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
}

func TestKindFromPath(t *testing.T) {
	cases := map[string]domain.DocumentKind{
		"a.pdf":     domain.KindPDF,
		"b.DOCX":    domain.KindDOCX,
		"c.txt":     domain.KindText,
		"scan.jpeg": domain.KindImage,
		"photo.PNG": domain.KindImage,
	}
	for path, want := range cases {
		got, ok := KindFromPath(path)
		if !ok || got != want {
			t.Fatalf("KindFromPath(%q) = %q, %v; want %q", path, got, ok, want)
		}
	}
	if _, ok := KindFromPath("notes.md"); ok {
		t.Fatalf("markdown should not be accepted")
	}
}

func TestExtractImageUsesImageBackend(t *testing.T) {
	image := &fakeBackend{text: "scanned clause"}
	got, err := New(Backends{Image: image}).ExtractImage(context.Background(), []byte("data:image/png;base64,AAAA"))
	if err != nil {
		t.Fatalf("extract image: %v", err)
	}
	if got != "scanned clause" || image.calls != 1 {
		t.Fatalf("unexpected result %q (calls=%d)", got, image.calls)
	}
}
