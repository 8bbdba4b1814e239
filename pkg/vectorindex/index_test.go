package vectorindex

import (
	"testing"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical unit vectors", a: []float32{1, 0, 0}, b: []float32{1, 0, 0}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "scale invariant", a: []float32{2, 0}, b: []float32{9, 0}, want: 1},
		{name: "dimension mismatch", a: []float32{1, 0}, b: []float32{1, 0, 0}, want: 0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestIndexSearchRanksByCosine(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Add(entity.Chunk{Text: "north", Seq: 0}, []float32{0, 1}))
	require.NoError(t, idx.Add(entity.Chunk{Text: "east", Seq: 1}, []float32{1, 0}))
	require.NoError(t, idx.Add(entity.Chunk{Text: "northeast", Seq: 2}, []float32{1, 1}))

	matches := idx.Search([]float32{1, 0}, 2)
	require.Len(t, matches, 2)
	assert.Equal(t, "east", matches[0].Chunk.Text)
	assert.Equal(t, "northeast", matches[1].Chunk.Text)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestIndexSearchTieBreakKeepsInsertionOrder(t *testing.T) {
	idx := NewIndex()
	// Identical vectors: identical scores, order must follow insertion.
	require.NoError(t, idx.Add(entity.Chunk{Text: "first", Seq: 0}, []float32{1, 1}))
	require.NoError(t, idx.Add(entity.Chunk{Text: "second", Seq: 1}, []float32{1, 1}))
	require.NoError(t, idx.Add(entity.Chunk{Text: "third", Seq: 2}, []float32{1, 1}))

	matches := idx.Search([]float32{1, 1}, 3)
	require.Len(t, matches, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{
		matches[0].Chunk.Text, matches[1].Chunk.Text, matches[2].Chunk.Text,
	})
}

func TestIndexSearchTopKBounds(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Add(entity.Chunk{Text: "only"}, []float32{1}))

	assert.Len(t, idx.Search([]float32{1}, 10), 1, "topK larger than index returns everything")
	assert.Nil(t, idx.Search([]float32{1}, 0))
	assert.Nil(t, NewIndex().Search([]float32{1}, 4), "empty index returns nothing")
}

func TestIndexRejectsDimensionMismatch(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Add(entity.Chunk{Text: "a"}, []float32{1, 2, 3}))

	err := idx.Add(entity.Chunk{Text: "b"}, []float32{1, 2})
	assert.Error(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestFromEntriesRoundTrip(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Add(entity.Chunk{Text: "a", Document: "d.pdf", Page: 1, Seq: 0}, []float32{1, 0}))
	require.NoError(t, idx.Add(entity.Chunk{Text: "b", Document: "d.pdf", Page: 2, Seq: 1}, []float32{0, 1}))

	rebuilt, err := FromEntries(idx.Entries())
	require.NoError(t, err)
	assert.Equal(t, idx.Len(), rebuilt.Len())
	assert.Equal(t, idx.Dimensions(), rebuilt.Dimensions())

	orig := idx.Search([]float32{1, 0}, 2)
	again := rebuilt.Search([]float32{1, 0}, 2)
	assert.Equal(t, orig, again)
}

func TestFingerprintOrderInsensitive(t *testing.T) {
	a := Fingerprint([]string{"hashA", "hashB", "hashC"})
	b := Fingerprint([]string{"hashC", "hashA", "hashB"})
	assert.Equal(t, a, b, "fingerprint must not depend on upload order")

	c := Fingerprint([]string{"hashA", "hashB"})
	assert.NotEqual(t, a, c, "different document sets must get different fingerprints")
}

func TestContentHashStable(t *testing.T) {
	raw := []byte("The capital of France is Paris.")
	assert.Equal(t, ContentHash(raw), ContentHash(raw))
	assert.NotEqual(t, ContentHash(raw), ContentHash([]byte("other content")))
	assert.Len(t, ContentHash(raw), 32)
}
