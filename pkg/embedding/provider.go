package embedding

import (
	"context"
	"errors"
)

// ErrUpstream marks failures of the hosted embedding API itself
// (transport errors, non-200 responses). Callers map it to 502.
var ErrUpstream = errors.New("embedding provider unavailable")

// Task types understood by the Gemini embedding API. Document and query
// vectors are asymmetric: chunks are embedded for retrieval storage,
// questions for retrieval lookup.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Provider defines the interface for generating text embeddings.
type Provider interface {
	// EmbedDocuments embeds chunk texts for indexing. The returned
	// vectors match the input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a user question for similarity lookup.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
