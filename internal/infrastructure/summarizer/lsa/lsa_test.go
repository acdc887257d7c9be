package lsa

import (
	"strings"
	"testing"

	"github.com/kirillkom/legalease/internal/core/domain"
)

const contract = "The supplier shall deliver the goods to the buyer by March. " +
	"The buyer shall pay the supplier within thirty days of delivery. " +
	"Late payment accrues interest at two percent per month. " +
	"Either party may terminate the agreement after a material breach. " +
	"The weather in spring is usually pleasant."

func TestSummarizeReturnsRequestedCountInDocumentOrder(t *testing.T) {
	s := New()
	got, err := s.Summarize(contract, 3)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %q", len(got), got)
	}

	last := -1
	for _, sentence := range got {
		idx := strings.Index(contract, sentence)
		if idx < 0 {
			t.Fatalf("sentence %q not found in source", sentence)
		}
		if idx <= last {
			t.Fatalf("sentences not in document order: %q", got)
		}
		last = idx
	}
}

func TestSummarizeReturnsEverySentenceWhenCountExceedsInput(t *testing.T) {
	s := New()
	got, err := s.Summarize("Payment is due on delivery. Goods remain the property of the seller.", 5)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both sentences, got %q", got)
	}
}

func TestSummarizeFailsWithoutContentWords(t *testing.T) {
	s := New()
	if _, err := s.Summarize("It is what it is. And so on.", 3); err == nil {
		t.Fatalf("expected error for stop-word-only text")
	}
	if _, err := s.Summarize("   ", 3); err == nil {
		t.Fatalf("expected error for blank text")
	}
}

func TestNewWithOptionsRejectsUnsupportedLanguage(t *testing.T) {
	_, err := NewWithOptions(Options{Language: "klingon"})
	if !domain.IsKind(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First sentence here. Second one?\n\nHeading without period\n\nThird (really)! v1.2 stays")
	texts := make([]string, 0, len(got))
	for _, s := range got {
		texts = append(texts, s.text)
	}
	want := []string{"First sentence here.", "Second one?", "Heading without period", "Third (really)!", "v1.2 stays"}
	if strings.Join(texts, "|") != strings.Join(want, "|") {
		t.Fatalf("splitSentences() = %q, want %q", texts, want)
	}
}
