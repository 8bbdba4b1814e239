package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/specification"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/unitofwork"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"
)

// Store keeps indexes in Postgres with pgvector columns. Build runs in
// one transaction, so a failed build rolls back and an existing index
// for the fingerprint stays intact.
type Store struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewStore(uowFactory unitofwork.RepositoryFactory) *Store {
	return &Store{
		uowFactory: uowFactory,
	}
}

func (s *Store) Has(ctx context.Context, fingerprint string) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.IndexManifestRepository().Exists(ctx, fingerprint)
}

func (s *Store) Build(ctx context.Context, manifest vectorindex.Manifest, chunks []entity.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return fmt.Errorf("refusing to build an empty index")
	}

	manifest.ChunkCount = len(chunks)
	manifest.Dimensions = len(vectors[0])
	if manifest.CreatedAt.IsZero() {
		manifest.CreatedAt = time.Now().UTC()
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Rebuild semantics: drop any previous rows for this fingerprint
	// inside the same transaction.
	if err := uow.ChunkEmbeddingRepository().DeleteByFingerprint(ctx, manifest.Fingerprint); err != nil {
		return err
	}
	if err := uow.IndexManifestRepository().DeleteByFingerprint(ctx, manifest.Fingerprint); err != nil {
		return err
	}

	if err := uow.IndexManifestRepository().Create(ctx, &manifest); err != nil {
		return err
	}
	if err := uow.ChunkEmbeddingRepository().CreateBulk(ctx, manifest.Fingerprint, chunks, vectors); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *Store) Search(ctx context.Context, fingerprint string, vector []float32, topK int) ([]vectorindex.Match, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	exists, err := uow.IndexManifestRepository().Exists(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, vectorindex.ErrNotFound
	}

	scored, err := uow.ChunkEmbeddingRepository().SearchSimilar(ctx, fingerprint, vector, topK)
	if err != nil {
		return nil, err
	}

	matches := make([]vectorindex.Match, len(scored))
	for i, sc := range scored {
		matches[i] = vectorindex.Match{
			Chunk: sc.Chunk,
			Score: sc.Similarity,
		}
	}
	return matches, nil
}

func (s *Store) Manifest(ctx context.Context, fingerprint string) (*vectorindex.Manifest, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	manifest, err := uow.IndexManifestRepository().FindOne(ctx, specification.ByFingerprint{Fingerprint: fingerprint})
	if err != nil {
		return nil, err
	}
	if manifest == nil {
		return nil, vectorindex.ErrNotFound
	}
	return manifest, nil
}
