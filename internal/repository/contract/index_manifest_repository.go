package contract

import (
	"context"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/specification"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"
)

type IndexManifestRepository interface {
	Create(ctx context.Context, manifest *vectorindex.Manifest) error
	DeleteByFingerprint(ctx context.Context, fingerprint string) error
	Exists(ctx context.Context, fingerprint string) (bool, error)
	// FindOne returns nil without error when no manifest matches.
	FindOne(ctx context.Context, specs ...specification.Specification) (*vectorindex.Manifest, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*vectorindex.Manifest, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
