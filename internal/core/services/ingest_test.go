package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven/mocks"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driving"
)

type ingestFixture struct {
	users    *mocks.MockUserStore
	files    *mocks.MockFileStore
	content  *mocks.MockParsedContentStore
	blobs    *mocks.MockBlobStore
	extract  *mocks.MockExtractor
	embedder *mocks.MockEmbeddingService
	lock     *mocks.MockDistributedLock
}

func newIngestFixture() *ingestFixture {
	return &ingestFixture{
		users:    mocks.NewMockUserStore(),
		files:    mocks.NewMockFileStore(),
		content:  mocks.NewMockParsedContentStore(),
		blobs:    mocks.NewMockBlobStore(),
		extract:  mocks.NewMockExtractor(),
		embedder: mocks.NewMockEmbeddingService(),
		lock:     mocks.NewMockDistributedLock(),
	}
}

func (f *ingestFixture) service(t *testing.T) driving.IngestionService {
	t.Helper()
	chunker, err := NewChunker(DefaultChunkSize, DefaultOverlap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewIngestionService(f.users, f.files, f.content, f.blobs, f.extract, f.embedder, chunker, f.lock, nil)
}

func (f *ingestFixture) seedFile(t *testing.T, userID, fileID string, data []byte) {
	t.Helper()
	f.users.Seed(&domain.User{ID: userID, Username: "alice", Email: "alice@example.com"})
	f.blobs.Seed("blob-key-"+fileID, data)
	if err := f.files.Save(context.Background(), &domain.File{
		ID:          fileID,
		UserID:      userID,
		Name:        "doc.txt",
		ContentType: "text/plain",
		StorageKey:  "blob-key-" + fileID,
		CreatedAt:   time.Now(),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIngestionService_Ingest(t *testing.T) {
	f := newIngestFixture()
	f.seedFile(t, "user-1", "file-1", []byte("Dogs are mammals. Cats are mammals too."))

	doc, err := f.service(t).Ingest(context.Background(), "alice", "file-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FileID != "file-1" || doc.UserID != "user-1" {
		t.Errorf("document identity wrong: %+v", doc)
	}
	if doc.RawText != "Dogs are mammals. Cats are mammals too." {
		t.Errorf("unexpected raw text %q", doc.RawText)
	}
	if len(doc.Chunks) == 0 {
		t.Fatal("expected chunks for non-empty text")
	}
	// Structural alignment: every chunk carries its own vector.
	for i, c := range doc.Chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		if len(c.Embedding) == 0 {
			t.Errorf("chunk %d missing embedding", i)
		}
	}
	if doc.EmbeddingModel != f.embedder.Model() {
		t.Errorf("expected model %q recorded, got %q", f.embedder.Model(), doc.EmbeddingModel)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("ingested document fails validation: %v", err)
	}

	if stored, err := f.content.Get(context.Background(), "file-1", "user-1"); err != nil {
		t.Errorf("parsed record not persisted: %v", err)
	} else if len(stored.Chunks) != len(doc.Chunks) {
		t.Errorf("stored chunk count %d differs from returned %d", len(stored.Chunks), len(doc.Chunks))
	}

	if f.lock.Held("ingest:user-1:file-1") {
		t.Error("ingest lock not released")
	}
}

func TestIngestionService_Ingest_Idempotent(t *testing.T) {
	f := newIngestFixture()
	f.seedFile(t, "user-1", "file-1", []byte("Some document content."))

	svc := f.service(t)
	first, err := svc.Ingest(context.Background(), "alice", "file-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	embedCalls := f.embedder.EmbedCalls
	second, err := svc.Ingest(context.Background(), "alice", "file-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.embedder.EmbedCalls != embedCalls {
		t.Error("re-ingestion must not embed again")
	}
	if f.content.SaveCalls != 1 {
		t.Errorf("re-ingestion must not persist again, got %d saves", f.content.SaveCalls)
	}
	if second.CreatedAt != first.CreatedAt {
		t.Error("re-ingestion should return the stored record unchanged")
	}
}

func TestIngestionService_Ingest_UnknownOwnerAndFile(t *testing.T) {
	f := newIngestFixture()
	f.seedFile(t, "user-1", "file-1", []byte("content"))

	svc := f.service(t)
	if _, err := svc.Ingest(context.Background(), "ghost", "file-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown owner: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Ingest(context.Background(), "alice", "no-such-file"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown file: expected ErrNotFound, got %v", err)
	}
}

func TestIngestionService_Ingest_LockContention(t *testing.T) {
	f := newIngestFixture()
	f.seedFile(t, "user-1", "file-1", []byte("content"))

	// Someone else holds the document's ingest lock.
	acquired, err := f.lock.Acquire(context.Background(), "ingest:user-1:file-1", time.Minute)
	if err != nil || !acquired {
		t.Fatalf("seeding lock failed: acquired=%v err=%v", acquired, err)
	}

	_, err = f.service(t).Ingest(context.Background(), "alice", "file-1")
	if !errors.Is(err, domain.ErrIngestInProgress) {
		t.Errorf("expected ErrIngestInProgress, got %v", err)
	}
	if f.content.SaveCalls != 0 {
		t.Error("contended ingestion must not persist anything")
	}
}

func TestIngestionService_Ingest_RecheckUnderLock(t *testing.T) {
	f := newIngestFixture()
	f.seedFile(t, "user-1", "file-1", []byte("content"))

	// Simulate a concurrent ingestion finishing between the fast path and
	// lock acquisition: the record appears at Acquire time.
	f.lock.AcquireFn = func(name string, ttl time.Duration) (bool, error) {
		f.content.Seed(&domain.ParsedDocument{
			FileID: "file-1",
			UserID: "user-1",
			Chunks: []domain.ParsedChunk{{Index: 0, Text: "done elsewhere", Embedding: []float32{1}}},
		})
		return true, nil
	}

	doc, err := f.service(t).Ingest(context.Background(), "alice", "file-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Chunks) != 1 || doc.Chunks[0].Text != "done elsewhere" {
		t.Errorf("expected the concurrently stored record, got %+v", doc)
	}
	if f.content.SaveCalls != 0 {
		t.Error("re-check under lock must prevent a second persist")
	}
}

func TestIngestionService_Ingest_EmbeddingFailureLeavesNoState(t *testing.T) {
	f := newIngestFixture()
	f.seedFile(t, "user-1", "file-1", []byte("content that will fail to embed"))
	f.embedder.SetFailNext(true)

	_, err := f.service(t).Ingest(context.Background(), "alice", "file-1")
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding, got %v", err)
	}
	if f.content.SaveCalls != 0 {
		t.Error("failed ingestion must not persist partial state")
	}
	if exists, _ := f.content.Exists(context.Background(), "file-1", "user-1"); exists {
		t.Error("no parsed record should exist after failure")
	}
	if f.lock.Held("ingest:user-1:file-1") {
		t.Error("lock must be released after failure")
	}

	// The failure is transient; a retry succeeds.
	if _, err := f.service(t).Ingest(context.Background(), "alice", "file-1"); err != nil {
		t.Errorf("retry after transient failure should succeed, got %v", err)
	}
}

func TestIngestionService_Ingest_ExtractionFailure(t *testing.T) {
	f := newIngestFixture()
	f.seedFile(t, "user-1", "file-1", []byte("%PDF-garbage"))
	f.extract.ExtractFn = func(data []byte, contentType string) (string, error) {
		return "", domain.ErrExtraction
	}

	_, err := f.service(t).Ingest(context.Background(), "alice", "file-1")
	if !errors.Is(err, domain.ErrExtraction) {
		t.Errorf("expected ErrExtraction, got %v", err)
	}
	if f.content.SaveCalls != 0 {
		t.Error("extraction failure must not persist anything")
	}
}

func TestIngestionService_Ingest_EmptyUpload(t *testing.T) {
	f := newIngestFixture()
	f.seedFile(t, "user-1", "file-1", nil)

	doc, err := f.service(t).Ingest(context.Background(), "alice", "file-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.HasContent() {
		t.Error("empty upload should parse to an empty document")
	}
	if f.extract.ExtractCalls != 0 {
		t.Error("empty payload must not reach the extractor")
	}
	if f.embedder.EmbedCalls != 0 {
		t.Error("empty payload must not reach the embedder")
	}
	// The empty record is still persisted so the state is queryable
	// (and yields ErrNotParsed at query time).
	if exists, _ := f.content.Exists(context.Background(), "file-1", "user-1"); !exists {
		t.Error("empty parsed record should be persisted")
	}
}
