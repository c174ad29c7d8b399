package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driving"
)

// Ensure ingestionService implements IngestionService
var _ driving.IngestionService = (*ingestionService)(nil)

// ingestLockTTL bounds how long a crashed ingestion can block a document.
const ingestLockTTL = 5 * time.Minute

// ingestionService runs the one-time pipeline that turns an uploaded file
// into stored chunk/vector records:
// blob get -> extract -> chunk -> embed -> persist.
type ingestionService struct {
	userStore    driven.UserStore
	fileStore    driven.FileStore
	contentStore driven.ParsedContentStore
	blobStore    driven.BlobStore
	extractor    driven.Extractor
	embedder     driven.EmbeddingService
	chunker      *Chunker
	lock         driven.DistributedLock
	logger       *slog.Logger
}

// NewIngestionService creates a new IngestionService.
func NewIngestionService(
	userStore driven.UserStore,
	fileStore driven.FileStore,
	contentStore driven.ParsedContentStore,
	blobStore driven.BlobStore,
	extractor driven.Extractor,
	embedder driven.EmbeddingService,
	chunker *Chunker,
	lock driven.DistributedLock,
	logger *slog.Logger,
) driving.IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ingestionService{
		userStore:    userStore,
		fileStore:    fileStore,
		contentStore: contentStore,
		blobStore:    blobStore,
		extractor:    extractor,
		embedder:     embedder,
		chunker:      chunker,
		lock:         lock,
		logger:       logger,
	}
}

// Ingest parses a file into chunks and vectors and persists them.
// Idempotent: an existing parsed record is returned unchanged. The
// distributed lock guarantees at most one ingestion per document identity
// at a time; persistence is a single transaction, so a failure anywhere in
// the pipeline leaves no partial state behind.
func (s *ingestionService) Ingest(ctx context.Context, owner, fileID string) (*domain.ParsedDocument, error) {
	user, err := s.userStore.GetByUsername(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("owner %q: %w", owner, domain.ErrNotFound)
	}

	file, err := s.fileStore.Get(ctx, fileID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("file %q: %w", fileID, err)
	}

	// Fast path: already ingested.
	if doc, ok, err := s.existing(ctx, fileID, user.ID); err != nil {
		return nil, err
	} else if ok {
		return doc, nil
	}

	lockName := fmt.Sprintf("ingest:%s:%s", user.ID, fileID)
	acquired, err := s.lock.Acquire(ctx, lockName, ingestLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire ingest lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("file %q: %w", fileID, domain.ErrIngestInProgress)
	}
	defer func() {
		_ = s.lock.Release(context.WithoutCancel(ctx), lockName)
	}()

	// Re-check under the lock: a concurrent ingestion may have finished
	// between the fast path and acquisition.
	if doc, ok, err := s.existing(ctx, fileID, user.ID); err != nil {
		return nil, err
	} else if ok {
		return doc, nil
	}

	doc, err := s.parse(ctx, file, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.contentStore.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("persist parsed content: %w", err)
	}

	stats := doc.Stats()
	s.logger.Info("document ingested",
		"file_id", fileID,
		"user_id", user.ID,
		"chars", stats.CharCount,
		"chunks", stats.ChunkCount,
		"model", doc.EmbeddingModel,
	)

	return doc, nil
}

func (s *ingestionService) existing(ctx context.Context, fileID, userID string) (*domain.ParsedDocument, bool, error) {
	ok, err := s.contentStore.Exists(ctx, fileID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("check parsed content: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	doc, err := s.contentStore.Get(ctx, fileID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("load parsed content: %w", err)
	}
	return doc, true, nil
}

// parse runs extract -> chunk -> embed without touching storage.
func (s *ingestionService) parse(ctx context.Context, file *domain.File, userID string) (*domain.ParsedDocument, error) {
	data, err := s.blobStore.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: blob %q: %v", domain.ErrStorage, file.StorageKey, err)
	}

	doc := &domain.ParsedDocument{
		FileID:         file.ID,
		UserID:         userID,
		EmbeddingModel: s.embedder.Model(),
		CreatedAt:      time.Now().UTC(),
	}

	// An empty upload parses to an empty document: no text, no chunks.
	if len(data) == 0 {
		return doc, nil
	}

	text, err := s.extractor.Extract(ctx, data, file.ContentType)
	if err != nil {
		return nil, err
	}
	doc.RawText = text

	chunks := s.chunker.Split(text)
	if len(chunks) == 0 {
		return doc, nil
	}

	vectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: provider returned %d vectors for %d chunks",
			domain.ErrEmbedding, len(vectors), len(chunks))
	}

	doc.Chunks = make([]domain.ParsedChunk, len(chunks))
	for i, text := range chunks {
		doc.Chunks[i] = domain.ParsedChunk{Index: i, Text: text, Embedding: vectors[i]}
	}

	return doc, nil
}
