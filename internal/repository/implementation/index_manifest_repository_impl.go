package implementation

import (
	"context"
	"errors"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/mapper"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/model"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/contract"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/specification"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"

	"gorm.io/gorm"
)

type IndexManifestRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IndexManifestMapper
}

func NewIndexManifestRepository(db *gorm.DB) contract.IndexManifestRepository {
	return &IndexManifestRepositoryImpl{
		db:     db,
		mapper: mapper.NewIndexManifestMapper(),
	}
}

func (r *IndexManifestRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *IndexManifestRepositoryImpl) Create(ctx context.Context, manifest *vectorindex.Manifest) error {
	m, err := r.mapper.ToModel(manifest)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *IndexManifestRepositoryImpl) DeleteByFingerprint(ctx context.Context, fingerprint string) error {
	return r.db.WithContext(ctx).Where("fingerprint = ?", fingerprint).Delete(&model.IndexManifest{}).Error
}

func (r *IndexManifestRepositoryImpl) Exists(ctx context.Context, fingerprint string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.IndexManifest{}).
		Where("fingerprint = ?", fingerprint).
		Count(&count).Error
	return count > 0, err
}

func (r *IndexManifestRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*vectorindex.Manifest, error) {
	var m model.IndexManifest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *IndexManifestRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*vectorindex.Manifest, error) {
	var models []*model.IndexManifest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	manifests := make([]*vectorindex.Manifest, len(models))
	for i, m := range models {
		manifest, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, err
		}
		manifests[i] = manifest
	}
	return manifests, nil
}

func (r *IndexManifestRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.IndexManifest{}).Count(&count).Error
	return count, err
}
