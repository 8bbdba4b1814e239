package pdf

import (
	"errors"
	"testing"
)

func TestExtractRejectsUnreadableInput(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{
			name: "empty input",
			raw:  []byte{},
		},
		{
			name: "plain text masquerading as pdf",
			raw:  []byte("this is not a pdf at all, just text"),
		},
		{
			name: "truncated header",
			raw:  []byte("%PDF-1.7\n"),
		},
		{
			name: "header with garbage body",
			raw:  append([]byte("%PDF-1.4\n"), []byte("garbage garbage garbage xref trailer nonsense")...),
		},
	}

	ex := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := ex.Extract(tt.raw)
			if err == nil {
				t.Fatalf("expected error for %s, got %d pages", tt.name, len(pages))
			}
			if !errors.Is(err, ErrInvalidPDF) && !errors.Is(err, ErrNoText) {
				t.Errorf("expected ErrInvalidPDF or ErrNoText, got: %v", err)
			}
			if pages != nil {
				t.Errorf("expected nil pages on failure, got %d", len(pages))
			}
		})
	}
}
