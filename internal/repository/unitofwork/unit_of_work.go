package unitofwork

import (
	"context"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/contract"
)

// UnitOfWork scopes repository access to one transaction. Index builds
// ride a single transaction so a failed build leaves no partial rows.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChunkEmbeddingRepository() contract.ChunkEmbeddingRepository
	IndexManifestRepository() contract.IndexManifestRepository
}
