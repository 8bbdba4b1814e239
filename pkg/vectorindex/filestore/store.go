package filestore

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"

	"github.com/patrickmn/go-cache"
)

// snapshot is the on-disk layout of one index blob.
type snapshot struct {
	Manifest vectorindex.Manifest
	Entries  []vectorindex.Entry
}

// Store persists indexes as gob blobs under a cache directory, one file
// per fingerprint. Writes go through a temp file and rename, so a
// failed build never corrupts or replaces an existing blob. Decoded
// indexes are kept hot in an expiring in-process cache.
type Store struct {
	dir string
	hot *cache.Cache
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index cache dir: %w", err)
	}
	return &Store{
		dir: dir,
		hot: cache.New(30*time.Minute, 10*time.Minute),
	}, nil
}

func (s *Store) path(fingerprint string) string {
	return filepath.Join(s.dir, "index_"+fingerprint+".gob")
}

func (s *Store) Has(_ context.Context, fingerprint string) (bool, error) {
	_, err := os.Stat(s.path(fingerprint))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (s *Store) Build(ctx context.Context, manifest vectorindex.Manifest, chunks []entity.Chunk, vectors [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return fmt.Errorf("refusing to build an empty index")
	}

	idx := vectorindex.NewIndex()
	for i := range chunks {
		if err := idx.Add(chunks[i], vectors[i]); err != nil {
			return err
		}
	}

	manifest.ChunkCount = idx.Len()
	manifest.Dimensions = idx.Dimensions()
	if manifest.CreatedAt.IsZero() {
		manifest.CreatedAt = time.Now().UTC()
	}

	if err := s.write(manifest, idx); err != nil {
		return err
	}

	s.hot.Set(manifest.Fingerprint, idx, cache.DefaultExpiration)
	return nil
}

// write commits the blob atomically: encode into a temp file in the
// same directory, then rename over the final path.
func (s *Store) write(manifest vectorindex.Manifest, idx *vectorindex.Index) error {
	tmp, err := os.CreateTemp(s.dir, "index_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp index file: %w", err)
	}
	tmpName := tmp.Name()

	snap := snapshot{
		Manifest: manifest,
		Entries:  idx.Entries(),
	}

	if err := gob.NewEncoder(tmp).Encode(snap); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp index file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(manifest.Fingerprint)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit index file: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, fingerprint string, vector []float32, topK int) ([]vectorindex.Match, error) {
	idx, err := s.load(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	return idx.Search(vector, topK), nil
}

func (s *Store) Manifest(ctx context.Context, fingerprint string) (*vectorindex.Manifest, error) {
	snap, err := s.read(fingerprint)
	if err != nil {
		return nil, err
	}
	m := snap.Manifest
	return &m, nil
}

func (s *Store) load(_ context.Context, fingerprint string) (*vectorindex.Index, error) {
	if x, found := s.hot.Get(fingerprint); found {
		return x.(*vectorindex.Index), nil
	}

	snap, err := s.read(fingerprint)
	if err != nil {
		return nil, err
	}

	idx, err := vectorindex.FromEntries(snap.Entries)
	if err != nil {
		return nil, fmt.Errorf("rebuild index %s: %w", fingerprint, err)
	}

	s.hot.Set(fingerprint, idx, cache.DefaultExpiration)
	return idx, nil
}

func (s *Store) read(fingerprint string) (*snapshot, error) {
	f, err := os.Open(s.path(fingerprint))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, vectorindex.ErrNotFound
		}
		return nil, err
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode index %s: %w", fingerprint, err)
	}
	return &snap, nil
}
