package rag

import (
	"context"
	"fmt"

	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/embedding"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"
)

// Retriever embeds a question and pulls the closest chunks out of the
// vector store for one fingerprint.
type Retriever struct {
	embeddingProvider embedding.Provider
	store             vectorindex.Store
}

func NewRetriever(embeddingProvider embedding.Provider, store vectorindex.Store) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		store:             store,
	}
}

// HasIndex reports whether the store holds an index for the
// fingerprint, without embedding anything.
func (r *Retriever) HasIndex(ctx context.Context, fingerprint string) (bool, error) {
	return r.store.Has(ctx, fingerprint)
}

// Retrieve returns up to topK matches ordered by similarity. The caller
// decides what an empty index means; ErrNotFound passes through.
func (r *Retriever) Retrieve(ctx context.Context, fingerprint string, query string, topK int) ([]vectorindex.Match, error) {
	queryVector, err := r.embeddingProvider.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	matches, err := r.store.Search(ctx, fingerprint, queryVector, topK)
	if err != nil {
		return nil, err
	}
	return matches, nil
}
