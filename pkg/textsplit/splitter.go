package textsplit

import (
	"fmt"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"

	"github.com/tmc/langchaingo/textsplitter"
)

// Separators mirror the recursive-character defaults used for prose:
// prefer paragraph breaks, then lines, then words, then hard cuts.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

type Splitter struct {
	rc textsplitter.RecursiveCharacter
}

func New(chunkSize, chunkOverlap int) *Splitter {
	return &Splitter{
		rc: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(defaultSeparators),
		),
	}
}

// SplitDocument chunks one document's pages. Pages are split
// independently so every chunk keeps its source page; Seq numbers run
// across the whole document. Deterministic for identical input and
// parameters.
func (s *Splitter) SplitDocument(name string, pages []entity.PageText) ([]entity.Chunk, error) {
	var chunks []entity.Chunk
	seq := 0

	for _, pg := range pages {
		parts, err := s.rc.SplitText(pg.Text)
		if err != nil {
			return nil, fmt.Errorf("split %s page %d: %w", name, pg.Page, err)
		}
		for _, part := range parts {
			if part == "" {
				continue
			}
			chunks = append(chunks, entity.Chunk{
				Text:     part,
				Document: name,
				Page:     pg.Page,
				Seq:      seq,
			})
			seq++
		}
	}

	return chunks, nil
}
