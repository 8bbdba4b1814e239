package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/config"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/specification"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/unitofwork"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/database"
)

// Deletes indexes older than the cutoff. Fingerprint caches only grow:
// nothing in the request path ever removes an index, so a periodic run
// of this keeps the cache dir (or the pgvector tables) bounded.
func main() {
	olderThan := flag.Int("older-than", 720, "delete indexes older than this many hours")
	dryRun := flag.Bool("dry-run", false, "report what would be deleted without deleting")
	flag.Parse()

	cfg := config.Load()
	cutoff := time.Now().Add(-time.Duration(*olderThan) * time.Hour)

	log.Printf("Starting Index Cleanup (store=%s, cutoff=%s, dry-run=%v)...",
		cfg.Index.Store, cutoff.Format(time.RFC3339), *dryRun)

	var err error
	if cfg.Index.Store == "postgres" {
		err = cleanupPostgres(cfg, cutoff, *dryRun)
	} else {
		err = cleanupFiles(cfg.Index.CacheDir, cutoff, *dryRun)
	}
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}

	log.Println("Cleanup Complete.")
}

func cleanupFiles(dir string, cutoff time.Time, dryRun bool) error {
	matches, err := filepath.Glob(filepath.Join(dir, "index_*.gob"))
	if err != nil {
		return err
	}

	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			log.Printf("Error stating %s: %v", path, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if dryRun {
			log.Printf("Would delete %s (age %s)", path, time.Since(info.ModTime()).Round(time.Hour))
			continue
		}
		if err := os.Remove(path); err != nil {
			log.Printf("Error deleting %s: %v", path, err)
			continue
		}
		removed++
	}

	log.Printf("Deleted %d stale index blobs (%d total in cache)", removed, len(matches))
	return nil
}

func cleanupPostgres(cfg *config.Config, cutoff time.Time, dryRun bool) error {
	db, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		return err
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	manifests, err := uow.IndexManifestRepository().FindAll(ctx, specification.CreatedBefore{Cutoff: cutoff})
	if err != nil {
		return err
	}

	if dryRun {
		for _, m := range manifests {
			log.Printf("Would delete index %s (%d chunks, created %s)",
				m.Fingerprint, m.ChunkCount, m.CreatedAt.Format(time.RFC3339))
		}
		return nil
	}

	for _, m := range manifests {
		if err := uow.ChunkEmbeddingRepository().DeleteByFingerprint(ctx, m.Fingerprint); err != nil {
			return err
		}
		if err := uow.IndexManifestRepository().DeleteByFingerprint(ctx, m.Fingerprint); err != nil {
			return err
		}
		log.Printf("Deleted index %s (%d chunks)", m.Fingerprint, m.ChunkCount)
	}

	log.Printf("Deleted %d stale indexes", len(manifests))
	return uow.Commit()
}
