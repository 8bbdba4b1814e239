package implementation

import (
	"context"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/mapper"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/model"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/contract"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Inserts are batched to keep parameter counts under Postgres limits.
const createBatchSize = 200

type ChunkEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkEmbeddingMapper
}

func NewChunkEmbeddingRepository(db *gorm.DB) contract.ChunkEmbeddingRepository {
	return &ChunkEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkEmbeddingMapper(),
	}
}

func (r *ChunkEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChunkEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, fingerprint string, chunks []entity.Chunk, vectors [][]float32) error {
	models := make([]*model.ChunkEmbedding, len(chunks))
	for i := range chunks {
		models[i] = r.mapper.ToModel(fingerprint, chunks[i], vectors[i])
	}
	return r.db.WithContext(ctx).CreateInBatches(models, createBatchSize).Error
}

func (r *ChunkEmbeddingRepositoryImpl) DeleteByFingerprint(ctx context.Context, fingerprint string) error {
	return r.db.WithContext(ctx).Where("fingerprint = ?", fingerprint).Delete(&model.ChunkEmbedding{}).Error
}

func (r *ChunkEmbeddingRepositoryImpl) CountByFingerprint(ctx context.Context, fingerprint string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ChunkEmbedding{}).
		Where("fingerprint = ?", fingerprint).
		Count(&count).Error
	return count, err
}

func (r *ChunkEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Chunk, error) {
	var models []*model.ChunkEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	chunks := make([]entity.Chunk, len(models))
	for i, m := range models {
		chunks[i] = r.mapper.ToEntity(m)
	}
	return chunks, nil
}

func (r *ChunkEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, fingerprint string, vector []float32, limit int) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 4
	}

	// pgvector cosine distance: embedding_value <=> query_vector.
	// Similarity = 1 - distance.
	type result struct {
		model.ChunkEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	err := r.db.WithContext(ctx).
		Table("chunk_embeddings").
		Select("chunk_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("fingerprint = ?", fingerprint).
		Order("similarity DESC").
		Order("seq ASC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredChunk{
			Chunk:      r.mapper.ToEntity(&res.ChunkEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
