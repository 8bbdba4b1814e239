package textsplit

import (
	"strings"
	"testing"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDocumentDeterministic(t *testing.T) {
	pages := []entity.PageText{
		{Page: 1, Text: strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)},
		{Page: 2, Text: "Second page.\n\nWith two paragraphs."},
	}

	s := New(200, 40)
	first, err := s.SplitDocument("fox.pdf", pages)
	require.NoError(t, err)
	second, err := s.SplitDocument("fox.pdf", pages)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical input must produce identical chunks")
}

func TestSplitDocumentKeepsPageAndOrder(t *testing.T) {
	pages := []entity.PageText{
		{Page: 1, Text: strings.Repeat("alpha beta gamma delta epsilon. ", 30)},
		{Page: 3, Text: "short tail page"},
	}

	s := New(150, 30)
	chunks, err := s.SplitDocument("doc.pdf", pages)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	lastPageOneIdx := -1
	for i, c := range chunks {
		assert.Equal(t, "doc.pdf", c.Document)
		assert.Equal(t, i, c.Seq, "Seq must be contiguous across pages")
		assert.NotEmpty(t, c.Text)
		if c.Page == 1 {
			lastPageOneIdx = i
		}
	}

	// Page 1 must produce several chunks at this size, page 3 follows after.
	assert.Greater(t, lastPageOneIdx, 0)
	assert.Equal(t, 3, chunks[len(chunks)-1].Page)
}

func TestSplitDocumentShortPageSingleChunk(t *testing.T) {
	s := New(1000, 200)
	chunks, err := s.SplitDocument("tiny.pdf", []entity.PageText{{Page: 1, Text: "The capital of France is Paris."}})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "The capital of France is Paris.", chunks[0].Text)
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, 0, chunks[0].Seq)
}

func TestSplitDocumentEmptyPages(t *testing.T) {
	s := New(1000, 200)
	chunks, err := s.SplitDocument("empty.pdf", nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
