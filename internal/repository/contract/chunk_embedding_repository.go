package contract

import (
	"context"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/specification"
)

// ScoredChunk wraps a chunk with its cosine similarity to a query.
type ScoredChunk struct {
	Chunk      entity.Chunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ChunkEmbeddingRepository interface {
	CreateBulk(ctx context.Context, fingerprint string, chunks []entity.Chunk, vectors [][]float32) error
	DeleteByFingerprint(ctx context.Context, fingerprint string) error
	CountByFingerprint(ctx context.Context, fingerprint string) (int64, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Chunk, error)
	// SearchSimilar returns the topK chunks of one index by cosine
	// similarity, descending.
	SearchSimilar(ctx context.Context, fingerprint string, vector []float32, limit int) ([]*ScoredChunk, error)
}
