package plaintext

import (
	"context"
	"testing"
)

func TestExtractTextReturnsUTF8Verbatim(t *testing.T) {
	raw := "  Clause 1.\r\n\n\tThe Tenant § pays rent.  \n"
	got, err := NewExtractor().ExtractText(context.Background(), []byte(raw))
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if got != raw {
		t.Fatalf("expected verbatim content, got %q", got)
	}
}

func TestExtractTextFallsBackToLatin1(t *testing.T) {
	// "Café déjà" in ISO-8859-1.
	raw := []byte{'C', 'a', 'f', 0xe9, ' ', 'd', 0xe9, 'j', 0xe0}
	got, err := NewExtractor().ExtractText(context.Background(), raw)
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if got != "Café déjà" {
		t.Fatalf("unexpected latin-1 decoding %q", got)
	}
}
