package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
)

// ErrNotFound is returned when no index exists for a fingerprint.
var ErrNotFound = errors.New("no index for fingerprint")

// Match is a single similarity hit.
type Match struct {
	Chunk entity.Chunk
	Score float64 // cosine similarity, 1.0 = identical
}

// DocumentStat summarizes one document inside a built index.
type DocumentStat struct {
	Name   string `json:"name"`
	Pages  int    `json:"pages"`
	Chunks int    `json:"chunks"`
}

// Manifest describes a built index without its vectors. Stores keep it
// alongside the index so cache hits can report what was indexed.
type Manifest struct {
	Fingerprint string         `json:"fingerprint"`
	Documents   []DocumentStat `json:"documents"`
	ChunkCount  int            `json:"chunk_count"`
	Dimensions  int            `json:"dimensions"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Store persists indexes keyed by content fingerprint. Build must be
// all-or-nothing: a failed build never replaces an existing good index
// for the same fingerprint.
type Store interface {
	Has(ctx context.Context, fingerprint string) (bool, error)
	Build(ctx context.Context, manifest Manifest, chunks []entity.Chunk, vectors [][]float32) error
	Search(ctx context.Context, fingerprint string, vector []float32, topK int) ([]Match, error)
	Manifest(ctx context.Context, fingerprint string) (*Manifest, error)
}

// Entry pairs a chunk with its embedding. Exported for serialization.
type Entry struct {
	Chunk  entity.Chunk
	Vector []float32
}

// Index is a brute-force cosine similarity index. Entries keep
// insertion order, which doubles as the tie-break for equal scores.
type Index struct {
	mu      sync.RWMutex
	entries []Entry
	dim     int
}

func NewIndex() *Index {
	return &Index{}
}

// FromEntries rebuilds an index from serialized entries.
func FromEntries(entries []Entry) (*Index, error) {
	idx := NewIndex()
	for _, e := range entries {
		if err := idx.Add(e.Chunk, e.Vector); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Add appends one chunk. All vectors must share the dimension of the
// first one added.
func (idx *Index) Add(chunk entity.Chunk, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty vector for chunk %q seq %d", chunk.Document, chunk.Seq)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dim == 0 {
		idx.dim = len(vector)
	} else if len(vector) != idx.dim {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(vector), idx.dim)
	}

	idx.entries = append(idx.entries, Entry{Chunk: chunk, Vector: vector})
	return nil
}

// Search returns the topK entries by cosine similarity, descending.
func (idx *Index) Search(vector []float32, topK int) []Match {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if topK <= 0 || len(idx.entries) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(idx.entries))
	for _, e := range idx.entries {
		matches = append(matches, Match{
			Chunk: e.Chunk,
			Score: CosineSimilarity(vector, e.Vector),
		})
	}

	// Stable keeps insertion order between equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

func (idx *Index) Dimensions() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dim
}

// Entries returns a copy of the stored entries for serialization.
func (idx *Index) Entries() []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]Entry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// CosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched or zero-magnitude inputs score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		magA += av * av
		magB += bv * bv
	}

	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
