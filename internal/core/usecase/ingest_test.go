package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/legalease/internal/core/domain"
)

func TestIngestEnqueueSuccess(t *testing.T) {
	repo := &repoFake{}
	logs := &logsFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(repo, logs, storage, queue)

	doc, err := uc.Enqueue(context.Background(), domain.Upload{
		Filename: "lease 1.txt",
		Body:     []byte("hello"),
		ClientIP: "127.0.0.1",
	})
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatalf("expected document id")
	}
	if doc.Status != domain.StatusQueued || doc.FileType != domain.KindText {
		t.Fatalf("unexpected status/kind %s/%s", doc.Status, doc.FileType)
	}
	if repo.created == nil || repo.created.StoragePath != storage.savedKey {
		t.Fatalf("expected repo.Create with storage path, got %+v", repo.created)
	}
	if queue.documentID != doc.ID {
		t.Fatalf("expected queued doc id %s, got %s", doc.ID, queue.documentID)
	}
	if !strings.HasSuffix(storage.savedKey, "_lease_1.txt") {
		t.Fatalf("expected sanitized key suffix, got %s", storage.savedKey)
	}
	if storage.savedBody != "hello" {
		t.Fatalf("expected saved body hello, got %s", storage.savedBody)
	}
	if len(logs.entries) != 1 || logs.entries[0].Action != domain.ActionUpload || logs.entries[0].DocumentID != doc.ID {
		t.Fatalf("expected one upload log, got %+v", logs.entries)
	}
}

func TestIngestEnqueueQueueErrorMarksFailed(t *testing.T) {
	repo := &repoFake{}
	uc := NewIngestDocumentUseCase(repo, &logsFake{}, &storageFake{}, &queueFake{err: errors.New("queue down")})

	_, err := uc.Enqueue(context.Background(), domain.Upload{Filename: "lease.txt", Body: []byte("hello")})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "publish analysis request") {
		t.Fatalf("expected publish error, got %v", err)
	}
	if repo.created == nil {
		t.Fatalf("expected document to be created before publish")
	}
	if len(repo.statusCalls) != 1 || repo.statusCalls[0].status != domain.StatusFailed {
		t.Fatalf("expected failed status after publish error, got %+v", repo.statusCalls)
	}
	if !strings.Contains(repo.statusCalls[0].errMsg, "queue down") {
		t.Fatalf("expected publish cause in status error, got %q", repo.statusCalls[0].errMsg)
	}
}

func TestIngestEnqueueQueueErrorReportsMarkFailure(t *testing.T) {
	repo := &repoFake{failErr: errors.New("db down")}
	uc := NewIngestDocumentUseCase(repo, &logsFake{}, &storageFake{}, &queueFake{err: errors.New("queue down")})

	_, err := uc.Enqueue(context.Background(), domain.Upload{Filename: "lease.txt", Body: []byte("hello")})
	if err == nil || !strings.Contains(err.Error(), "mark failed status: db down") {
		t.Fatalf("expected mark failure in error, got %v", err)
	}
}

func TestIngestEnqueueRejectsUnsupportedType(t *testing.T) {
	storage := &storageFake{}
	uc := NewIngestDocumentUseCase(&repoFake{}, &logsFake{}, storage, &queueFake{})

	_, err := uc.Enqueue(context.Background(), domain.Upload{Filename: "run.exe", Body: []byte("MZ")})
	if !errors.Is(err, domain.ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
	if storage.savedKey != "" {
		t.Fatalf("nothing should be stored for rejected uploads")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report 1.txt":         "report_1.txt",
		"../../etc/passwd":     "passwd",
		"договор.pdf":          "_______.pdf",
		"":                     "document.bin",
		"a/b/NDA (final).docx": "NDA__final_.docx",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
