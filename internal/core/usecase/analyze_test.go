package usecase

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/legalease/internal/core/domain"
)

func fixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	repo := &repoFake{}
	logs := &logsFake{}
	extractor := &extractorFake{text: "The tenant shall pay rent monthly."}
	observer := &observerFake{}
	uc := NewAnalyzeDocumentUseCase(repo, logs, extractor, &summarizerFake{result: sampleResult()}, nil, observer)
	uc.now = fixedClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), 1500*time.Millisecond)

	doc, err := uc.Analyze(context.Background(), domain.Upload{
		Filename: "lease.txt",
		Body:     []byte("The tenant shall pay rent monthly."),
		ClientIP: "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if doc.ID == "" || repo.created == nil || repo.created.ID != doc.ID {
		t.Fatalf("expected created document with id, got %+v", repo.created)
	}
	if extractor.gotKind != domain.KindText {
		t.Fatalf("expected kind inferred from filename, got %q", extractor.gotKind)
	}
	if doc.Status != domain.StatusReady || doc.SummaryTier != domain.TierHeuristic {
		t.Fatalf("unexpected status/tier: %s/%s", doc.Status, doc.SummaryTier)
	}
	if doc.ProcessingTime != 1.5 {
		t.Fatalf("expected processing time 1.5s, got %v", doc.ProcessingTime)
	}
	if len(doc.KeyClauses) != 1 || doc.KeyClauses[0].DocumentID != doc.ID || doc.KeyClauses[0].ClauseType != "Payment Terms" {
		t.Fatalf("unexpected key clauses: %+v", doc.KeyClauses)
	}
	if doc.FileSize != int64(len("The tenant shall pay rent monthly.")) {
		t.Fatalf("unexpected file size %d", doc.FileSize)
	}

	want := []string{"upload/success", "summarize/success"}
	if got := logs.actions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected logs %v, got %v", want, got)
	}
	if logs.entries[1].DocumentID != doc.ID || logs.entries[1].IPAddress != "10.0.0.1" {
		t.Fatalf("summarize log should carry document id and ip: %+v", logs.entries[1])
	}
	if len(observer.tiers) != 1 || observer.tiers[0] != domain.TierHeuristic || observer.clauses[0] != 1 {
		t.Fatalf("unexpected observations: %+v", observer)
	}
}

func TestAnalyzeCameraCaptureSkipsUploadLog(t *testing.T) {
	logs := &logsFake{}
	extractor := &extractorFake{text: "Scanned clause text."}
	uc := NewAnalyzeDocumentUseCase(&repoFake{}, logs, extractor, &summarizerFake{result: sampleResult()}, nil, nil)

	doc, err := uc.Analyze(context.Background(), domain.Upload{
		Filename: "camera_capture.jpg",
		Kind:     domain.KindImage,
		Body:     []byte("data:image/jpeg;base64,AAAA"),
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if doc.FileType != domain.KindImage || extractor.gotKind != domain.KindImage {
		t.Fatalf("expected image kind, got %q/%q", doc.FileType, extractor.gotKind)
	}
	if got := logs.actions(); !reflect.DeepEqual(got, []string{"summarize/success"}) {
		t.Fatalf("unexpected logs %v", got)
	}
}

func TestAnalyzeUnsupportedType(t *testing.T) {
	extractor := &extractorFake{text: "unused"}
	uc := NewAnalyzeDocumentUseCase(&repoFake{}, &logsFake{}, extractor, &summarizerFake{}, nil, nil)

	_, err := uc.Analyze(context.Background(), domain.Upload{Filename: "sheet.xlsx", Body: []byte("x")})
	if !errors.Is(err, domain.ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
	if extractor.gotKind != "" {
		t.Fatalf("extractor must not run for unsupported types")
	}
}

func TestAnalyzeExtractionFailure(t *testing.T) {
	repo := &repoFake{}
	logs := &logsFake{}
	observer := &observerFake{}
	extractErr := domain.WrapError(domain.ErrCorruptDocument, "pdf", errors.New("bad xref"))
	uc := NewAnalyzeDocumentUseCase(repo, logs, &extractorFake{err: extractErr}, &summarizerFake{}, nil, observer)

	_, err := uc.Analyze(context.Background(), domain.Upload{Filename: "contract.pdf", Body: []byte("%PDF")})
	if !errors.Is(err, domain.ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
	if repo.created != nil {
		t.Fatalf("no document should be stored on extraction failure")
	}
	want := []string{"upload/success", "extract_text/error"}
	if got := logs.actions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected logs %v, got %v", want, got)
	}
	if !strings.Contains(logs.entries[1].ErrorMessage, "bad xref") {
		t.Fatalf("error message should be recorded, got %q", logs.entries[1].ErrorMessage)
	}
	if !reflect.DeepEqual(observer.failures, []string{"extract"}) {
		t.Fatalf("expected extract failure observation, got %v", observer.failures)
	}
}

func TestAnalyzeUsesCache(t *testing.T) {
	cache := &cacheFake{}
	summarizer := &summarizerFake{result: sampleResult()}
	uc := NewAnalyzeDocumentUseCase(&repoFake{}, &logsFake{}, &extractorFake{text: "same text"}, summarizer, cache, nil)

	for i := 0; i < 2; i++ {
		if _, err := uc.Analyze(context.Background(), domain.Upload{Filename: "a.txt", Body: []byte("same text")}); err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
	}
	if summarizer.calls != 1 {
		t.Fatalf("expected summarizer to run once, got %d", summarizer.calls)
	}
}

func TestAnalyzeDoesNotCacheGenericTier(t *testing.T) {
	cache := &cacheFake{}
	summarizer := &summarizerFake{result: domain.SummaryResult{Summary: "generic", Tier: domain.TierGeneric}}
	uc := NewAnalyzeDocumentUseCase(&repoFake{}, &logsFake{}, &extractorFake{text: "tiny"}, summarizer, cache, nil)

	if _, err := uc.Analyze(context.Background(), domain.Upload{Filename: "a.txt", Body: []byte("tiny")}); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(cache.items) != 0 {
		t.Fatalf("generic results should not be cached")
	}
}

func TestAnalyzeLogWriteFailureDoesNotFailRequest(t *testing.T) {
	logs := &logsFake{err: errors.New("db down")}
	uc := NewAnalyzeDocumentUseCase(&repoFake{}, logs, &extractorFake{text: "text"}, &summarizerFake{result: sampleResult()}, nil, nil)

	if _, err := uc.Analyze(context.Background(), domain.Upload{Filename: "a.txt", Body: []byte("text")}); err != nil {
		t.Fatalf("audit failures must not fail analysis, got %v", err)
	}
}

func TestAnalyzeRepositoryFailure(t *testing.T) {
	logs := &logsFake{}
	repo := &repoFake{createErr: errors.New("insert failed")}
	uc := NewAnalyzeDocumentUseCase(repo, logs, &extractorFake{text: "text"}, &summarizerFake{result: sampleResult()}, nil, nil)

	_, err := uc.Analyze(context.Background(), domain.Upload{Filename: "a.txt", Body: []byte("text")})
	if err == nil || !strings.Contains(err.Error(), "create document") {
		t.Fatalf("expected create error, got %v", err)
	}
	want := []string{"upload/success", "summarize/error"}
	if got := logs.actions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected logs %v, got %v", want, got)
	}
}
