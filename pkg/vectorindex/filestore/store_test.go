package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifest(fp string) vectorindex.Manifest {
	return vectorindex.Manifest{
		Fingerprint: fp,
		Documents:   []vectorindex.DocumentStat{{Name: "doc.pdf", Pages: 1, Chunks: 2}},
	}
}

func TestBuildThenSearchRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	chunks := []entity.Chunk{
		{Text: "The capital of France is Paris.", Document: "doc.pdf", Page: 1, Seq: 0},
		{Text: "Berlin is the capital of Germany.", Document: "doc.pdf", Page: 1, Seq: 1},
	}
	vectors := [][]float32{{1, 0}, {0, 1}}

	require.NoError(t, store.Build(ctx, testManifest("fp1"), chunks, vectors))

	ok, err := store.Has(ctx, "fp1")
	require.NoError(t, err)
	assert.True(t, ok)

	matches, err := store.Search(ctx, "fp1", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "The capital of France is Paris.", matches[0].Chunk.Text)

	manifest, err := store.Manifest(ctx, "fp1")
	require.NoError(t, err)
	assert.Equal(t, "fp1", manifest.Fingerprint)
	assert.Equal(t, 2, manifest.ChunkCount)
	assert.Equal(t, 2, manifest.Dimensions)
	assert.False(t, manifest.CreatedAt.IsZero())
}

func TestSearchSurvivesProcessRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(dir)
	require.NoError(t, err)
	chunks := []entity.Chunk{{Text: "persisted", Document: "d.pdf", Page: 1, Seq: 0}}
	require.NoError(t, first.Build(ctx, testManifest("fp2"), chunks, [][]float32{{0.5, 0.5}}))

	// Fresh store over the same dir simulates a restart: no hot cache.
	second, err := NewStore(dir)
	require.NoError(t, err)

	matches, err := second.Search(ctx, "fp2", []float32{0.5, 0.5}, 4)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "persisted", matches[0].Chunk.Text)
}

func TestMissingFingerprint(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := store.Has(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Search(ctx, "nope", []float32{1}, 4)
	assert.ErrorIs(t, err, vectorindex.ErrNotFound)

	_, err = store.Manifest(ctx, "nope")
	assert.ErrorIs(t, err, vectorindex.ErrNotFound)
}

func TestFailedBuildLeavesNoPartialState(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	// Mismatched chunk/vector counts must abort before anything is written.
	err = store.Build(ctx, testManifest("fp3"),
		[]entity.Chunk{{Text: "a"}, {Text: "b"}},
		[][]float32{{1, 0}},
	)
	require.Error(t, err)

	ok, err := store.Has(ctx, "fp3")
	require.NoError(t, err)
	assert.False(t, ok, "failed build must not commit a blob")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files may survive a failed build")
}

func TestFailedRebuildKeepsPreviousIndex(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	good := []entity.Chunk{{Text: "good", Document: "d.pdf", Page: 1, Seq: 0}}
	require.NoError(t, store.Build(ctx, testManifest("fp4"), good, [][]float32{{1, 0}}))

	// A later broken build for the same fingerprint fails...
	err = store.Build(ctx, testManifest("fp4"),
		[]entity.Chunk{{Text: "bad"}},
		[][]float32{{1, 0, 0}, {0, 1, 0}},
	)
	require.Error(t, err)

	// ...and the original blob still answers queries.
	fresh, err := NewStore(dir)
	require.NoError(t, err)
	matches, err := fresh.Search(ctx, "fp4", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "good", matches[0].Chunk.Text)
}

func TestBuildRejectsEmptyIndex(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	err = store.Build(context.Background(), testManifest("fp5"), nil, nil)
	assert.Error(t, err)
}

func TestBlobPathLayout(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	chunks := []entity.Chunk{{Text: "x", Document: "d.pdf", Page: 1, Seq: 0}}
	require.NoError(t, store.Build(context.Background(), testManifest("cafebabe"), chunks, [][]float32{{1}}))

	_, err = os.Stat(filepath.Join(dir, "index_cafebabe.gob"))
	assert.NoError(t, err, "blob must live at index_<fingerprint>.gob")
}
