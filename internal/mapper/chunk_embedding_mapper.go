package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/model"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"

	"github.com/pgvector/pgvector-go"
)

type ChunkEmbeddingMapper struct{}

func NewChunkEmbeddingMapper() *ChunkEmbeddingMapper {
	return &ChunkEmbeddingMapper{}
}

func (m *ChunkEmbeddingMapper) ToEntity(e *model.ChunkEmbedding) entity.Chunk {
	return entity.Chunk{
		Text:     e.ChunkText,
		Document: e.DocumentName,
		Page:     e.Page,
		Seq:      e.Seq,
	}
}

func (m *ChunkEmbeddingMapper) ToModel(fingerprint string, chunk entity.Chunk, vector []float32) *model.ChunkEmbedding {
	return &model.ChunkEmbedding{
		Fingerprint:    fingerprint,
		ChunkText:      chunk.Text,
		DocumentName:   chunk.Document,
		Page:           chunk.Page,
		Seq:            chunk.Seq,
		EmbeddingValue: pgvector.NewVector(vector),
	}
}

type IndexManifestMapper struct{}

func NewIndexManifestMapper() *IndexManifestMapper {
	return &IndexManifestMapper{}
}

func (m *IndexManifestMapper) ToEntity(e *model.IndexManifest) (*vectorindex.Manifest, error) {
	var docs []vectorindex.DocumentStat
	if len(e.Documents) > 0 {
		if err := json.Unmarshal(e.Documents, &docs); err != nil {
			return nil, fmt.Errorf("decode manifest documents: %w", err)
		}
	}
	return &vectorindex.Manifest{
		Fingerprint: e.Fingerprint,
		Documents:   docs,
		ChunkCount:  e.ChunkCount,
		Dimensions:  e.Dimensions,
		CreatedAt:   e.CreatedAt,
	}, nil
}

func (m *IndexManifestMapper) ToModel(manifest *vectorindex.Manifest) (*model.IndexManifest, error) {
	docs, err := json.Marshal(manifest.Documents)
	if err != nil {
		return nil, fmt.Errorf("encode manifest documents: %w", err)
	}
	return &model.IndexManifest{
		Fingerprint: manifest.Fingerprint,
		Documents:   docs,
		ChunkCount:  manifest.ChunkCount,
		Dimensions:  manifest.Dimensions,
		CreatedAt:   manifest.CreatedAt,
	}, nil
}
