package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrInvalidPDF marks files the parser cannot open at all.
	ErrInvalidPDF = errors.New("invalid or unreadable pdf")
	// ErrNoText marks PDFs that opened fine but yielded no extractable
	// text on any page (scans, image-only exports).
	ErrNoText = errors.New("no extractable text in pdf")
)

// TextExtractor turns raw PDF bytes into per-page plain text.
type TextExtractor interface {
	Extract(raw []byte) ([]entity.PageText, error)
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads every page, skipping pages that fail individually
// (image-only or damaged pages). It fails only when the file itself is
// unreadable or no page produced text.
func (Extractor) Extract(raw []byte) (pages []entity.PageText, err error) {
	// The underlying parser panics on some malformed xref tables, so a
	// broken upload must not take the request down with it.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: %v", ErrInvalidPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	total := reader.NumPage()
	pages = make([]entity.PageText, 0, total)

	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			// Image-only or problematic page, skip it.
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pages = append(pages, entity.PageText{Page: i, Text: text})
	}

	if len(pages) == 0 {
		return nil, ErrNoText
	}
	return pages, nil
}
