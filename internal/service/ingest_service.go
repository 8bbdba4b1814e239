package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/dto"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/pkg/logger"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/embedding"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/events"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/pdf"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/textsplit"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/vectorindex"
)

// ErrNoDocuments is returned when an upload carries no files.
var ErrNoDocuments = errors.New("no documents in upload")

// IIngestService turns uploaded PDFs into a searchable index for the
// session: extract, chunk, embed, build - or skip straight to the
// cached index when the same document set was seen before.
type IIngestService interface {
	Ingest(ctx context.Context, sessionId string, files []dto.UploadedFile) (*dto.IngestResponse, error)
}

type ingestService struct {
	sessionService    ISessionService
	extractor         pdf.TextExtractor
	splitter          *textsplit.Splitter
	embeddingProvider embedding.Provider
	indexStore        vectorindex.Store
	publisherService  IPublisherService
	logger            logger.ILogger
}

func NewIngestService(
	sessionService ISessionService,
	extractor pdf.TextExtractor,
	splitter *textsplit.Splitter,
	embeddingProvider embedding.Provider,
	indexStore vectorindex.Store,
	publisherService IPublisherService,
	sysLogger logger.ILogger,
) IIngestService {
	return &ingestService{
		sessionService:    sessionService,
		extractor:         extractor,
		splitter:          splitter,
		embeddingProvider: embeddingProvider,
		indexStore:        indexStore,
		publisherService:  publisherService,
		logger:            sysLogger,
	}
}

type extractedDocument struct {
	document entity.Document
	pages    []entity.PageText
}

func (s *ingestService) Ingest(ctx context.Context, sessionId string, files []dto.UploadedFile) (*dto.IngestResponse, error) {
	if len(files) == 0 {
		return nil, ErrNoDocuments
	}

	unlock := s.sessionService.Lock(sessionId)
	defer unlock()

	session, err := s.sessionService.Load(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	s.progress(ctx, sessionId, events.StageReceived, "", fmt.Sprintf("%d documents", len(files)))

	// Extract every file before touching the index: one bad PDF fails
	// the whole upload with nothing persisted.
	extracted := make([]extractedDocument, 0, len(files))
	hashes := make([]string, 0, len(files))
	for _, f := range files {
		pages, err := s.extractor.Extract(f.Data)
		if err != nil {
			s.progress(ctx, sessionId, events.StageFailed, f.Name, err.Error())
			return nil, fmt.Errorf("extracting %q: %w", f.Name, err)
		}

		doc := entity.Document{
			Id:          uuid.New(),
			Name:        f.Name,
			ContentHash: vectorindex.ContentHash(f.Data),
			Pages:       len(pages),
			SizeBytes:   int64(len(f.Data)),
			UploadedAt:  time.Now(),
		}
		extracted = append(extracted, extractedDocument{document: doc, pages: pages})
		hashes = append(hashes, doc.ContentHash)

		s.progress(ctx, sessionId, events.StageExtracted, f.Name, fmt.Sprintf("%d pages", len(pages)))
	}

	fingerprint := vectorindex.Fingerprint(hashes)

	cacheHit, err := s.indexStore.Has(ctx, fingerprint)
	if err != nil {
		return nil, err
	}

	response := &dto.IngestResponse{
		Fingerprint: fingerprint,
		CacheHit:    cacheHit,
	}

	if cacheHit {
		manifest, err := s.indexStore.Manifest(ctx, fingerprint)
		if err != nil {
			return nil, err
		}
		for _, d := range manifest.Documents {
			response.Documents = append(response.Documents, dto.DocumentReport{
				Name:   d.Name,
				Pages:  d.Pages,
				Chunks: d.Chunks,
			})
		}
		response.ChunkCount = manifest.ChunkCount
		s.progress(ctx, sessionId, events.StageCacheHit, "", fingerprint)
		s.logger.Info("IngestService", "Index cache hit", map[string]interface{}{
			"session_id":  sessionId,
			"fingerprint": fingerprint,
		})
	} else {
		if err := s.buildIndex(ctx, sessionId, fingerprint, extracted, response); err != nil {
			return nil, err
		}
	}

	// A different document set invalidates the running conversation.
	if session.HasIndex() && session.Fingerprint != fingerprint {
		session.ResetConversation()
		response.ConversationReset = true
	}

	documents := make([]entity.Document, len(extracted))
	for i, e := range extracted {
		documents[i] = e.document
	}
	session.Fingerprint = fingerprint
	session.Documents = documents

	if err := s.sessionService.Save(ctx, session); err != nil {
		return nil, err
	}

	return response, nil
}

func (s *ingestService) buildIndex(
	ctx context.Context,
	sessionId string,
	fingerprint string,
	extracted []extractedDocument,
	response *dto.IngestResponse,
) error {
	var chunks []entity.Chunk
	stats := make([]vectorindex.DocumentStat, 0, len(extracted))

	for _, e := range extracted {
		docChunks, err := s.splitter.SplitDocument(e.document.Name, e.pages)
		if err != nil {
			s.progress(ctx, sessionId, events.StageFailed, e.document.Name, err.Error())
			return fmt.Errorf("chunking %q: %w", e.document.Name, err)
		}
		chunks = append(chunks, docChunks...)
		stats = append(stats, vectorindex.DocumentStat{
			Name:   e.document.Name,
			Pages:  e.document.Pages,
			Chunks: len(docChunks),
		})
		s.progress(ctx, sessionId, events.StageChunked, e.document.Name, fmt.Sprintf("%d chunks", len(docChunks)))
	}

	if len(chunks) == 0 {
		return fmt.Errorf("documents produced no chunks: %w", pdf.ErrNoText)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embeddingProvider.EmbedDocuments(ctx, texts)
	if err != nil {
		s.progress(ctx, sessionId, events.StageFailed, "", err.Error())
		return fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	s.progress(ctx, sessionId, events.StageEmbedded, "", fmt.Sprintf("%d chunks", len(chunks)))

	manifest := vectorindex.Manifest{
		Fingerprint: fingerprint,
		Documents:   stats,
	}
	if err := s.indexStore.Build(ctx, manifest, chunks, vectors); err != nil {
		s.progress(ctx, sessionId, events.StageFailed, "", err.Error())
		return fmt.Errorf("building index: %w", err)
	}
	s.progress(ctx, sessionId, events.StageIndexed, "", fingerprint)

	s.logger.Info("IngestService", "Index built", map[string]interface{}{
		"session_id":  sessionId,
		"fingerprint": fingerprint,
		"chunks":      len(chunks),
	})

	for _, st := range stats {
		response.Documents = append(response.Documents, dto.DocumentReport{
			Name:   st.Name,
			Pages:  st.Pages,
			Chunks: st.Chunks,
		})
	}
	response.ChunkCount = len(chunks)
	return nil
}

// progress publishes one stage event; delivery is best-effort and never
// fails the upload.
func (s *ingestService) progress(ctx context.Context, sessionId, stage, document, detail string) {
	evt := events.NewIngestProgress(sessionId, stage, document, detail)
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("IngestService", "Failed to publish progress event", map[string]interface{}{
			"error": err.Error(),
			"stage": stage,
		})
	}
}
