package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven/mocks"
)

type queryFixture struct {
	users    *mocks.MockUserStore
	content  *mocks.MockParsedContentStore
	embedder *mocks.MockEmbeddingService
	llm      *mocks.MockLLMService
	svc      func(t *testing.T) interface {
		Query(ctx context.Context, owner, fileID string, req domain.QueryRequest) (*domain.QueryResult, error)
	}
}

func newQueryFixture() *queryFixture {
	f := &queryFixture{
		users:    mocks.NewMockUserStore(),
		content:  mocks.NewMockParsedContentStore(),
		embedder: mocks.NewMockEmbeddingService(),
		llm:      mocks.NewMockLLMService(),
	}
	f.svc = func(t *testing.T) interface {
		Query(ctx context.Context, owner, fileID string, req domain.QueryRequest) (*domain.QueryResult, error)
	} {
		t.Helper()
		answerer, err := NewAnswerer(context.Background(), f.llm)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return NewQueryService(f.users, f.content, f.embedder, answerer, nil)
	}
	return f
}

func (f *queryFixture) seedUser(id, username string) {
	f.users.Seed(&domain.User{ID: id, Username: username, Email: username + "@example.com"})
}

func (f *queryFixture) seedDoc(fileID, userID string, chunks ...domain.ParsedChunk) {
	f.content.Seed(&domain.ParsedDocument{
		FileID:         fileID,
		UserID:         userID,
		RawText:        "raw",
		Chunks:         chunks,
		EmbeddingModel: f.embedder.Model(),
		CreatedAt:      time.Now(),
	})
}

func TestQueryService_Query(t *testing.T) {
	f := newQueryFixture()
	f.seedUser("user-1", "alice")

	// Two chunks: one about mammals close to the query vector, one far away.
	f.embedder.SetVector("Dogs are mammals that bark.", []float32{1, 0, 0})
	f.embedder.SetVector("Planes fly through the sky.", []float32{0, 1, 0})
	f.embedder.SetVector("Are dogs mammals?", []float32{0.9, 0.1, 0})

	f.seedDoc("file-1", "user-1",
		domain.ParsedChunk{Index: 0, Text: "Dogs are mammals that bark.", Embedding: []float32{1, 0, 0}},
		domain.ParsedChunk{Index: 1, Text: "Planes fly through the sky.", Embedding: []float32{0, 1, 0}},
	)
	f.llm.SetAnswer("Yes, dogs are mammals.")

	result, err := f.svc(t).Query(context.Background(), "alice", "file-1", domain.QueryRequest{
		Query: "Are dogs mammals?",
		TopK:  1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Answer != "Yes, dogs are mammals." {
		t.Errorf("expected model answer, got %q", result.Answer)
	}
	if len(result.SourceChunks) != 1 {
		t.Fatalf("expected 1 source chunk, got %d", len(result.SourceChunks))
	}
	if result.SourceChunks[0].ChunkIndex != 0 {
		t.Errorf("expected mammal chunk retrieved, got index %d", result.SourceChunks[0].ChunkIndex)
	}
	if result.FileID != "file-1" || result.Query != "Are dogs mammals?" {
		t.Errorf("result should echo file and query, got %+v", result)
	}
	if f.llm.GenerateCalls != 1 {
		t.Errorf("expected 1 model call, got %d", f.llm.GenerateCalls)
	}
}

func TestQueryService_Query_EmptyQuery(t *testing.T) {
	f := newQueryFixture()
	f.seedUser("user-1", "alice")

	_, err := f.svc(t).Query(context.Background(), "alice", "file-1", domain.QueryRequest{Query: "   "})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if f.embedder.EmbedQueryCalls != 0 {
		t.Error("invalid query must not be embedded")
	}
}

func TestQueryService_Query_UnknownOwner(t *testing.T) {
	f := newQueryFixture()

	_, err := f.svc(t).Query(context.Background(), "ghost", "file-1", domain.QueryRequest{Query: "anything"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	// Owner resolution precedes all model work.
	if f.embedder.EmbedQueryCalls != 0 {
		t.Error("unknown owner must not cost an embedding call")
	}
	if f.llm.GenerateCalls != 0 {
		t.Error("unknown owner must not cost a generation call")
	}
}

func TestQueryService_Query_UnparsedFile(t *testing.T) {
	f := newQueryFixture()
	f.seedUser("user-1", "alice")

	_, err := f.svc(t).Query(context.Background(), "alice", "missing", domain.QueryRequest{Query: "anything"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("no parsed record: expected ErrNotFound, got %v", err)
	}

	// Parsed record exists but holds no chunks.
	f.seedDoc("empty-file", "user-1")
	_, err = f.svc(t).Query(context.Background(), "alice", "empty-file", domain.QueryRequest{Query: "anything"})
	if !errors.Is(err, domain.ErrNotParsed) {
		t.Errorf("empty chunks: expected ErrNotParsed, got %v", err)
	}
	if f.embedder.EmbedQueryCalls != 0 {
		t.Error("unparsed file must not cost an embedding call")
	}
}

func TestQueryService_Query_ModelMismatch(t *testing.T) {
	f := newQueryFixture()
	f.seedUser("user-1", "alice")
	f.content.Seed(&domain.ParsedDocument{
		FileID:         "file-1",
		UserID:         "user-1",
		Chunks:         []domain.ParsedChunk{{Index: 0, Text: "text", Embedding: []float32{1}}},
		EmbeddingModel: "some-other-model",
	})

	_, err := f.svc(t).Query(context.Background(), "alice", "file-1", domain.QueryRequest{Query: "anything"})
	if !errors.Is(err, domain.ErrEmbeddingModelMismatch) {
		t.Errorf("expected ErrEmbeddingModelMismatch, got %v", err)
	}
}

func TestQueryService_Query_CorruptRecord(t *testing.T) {
	f := newQueryFixture()
	f.seedUser("user-1", "alice")
	f.seedDoc("file-1", "user-1",
		domain.ParsedChunk{Index: 0, Text: "a", Embedding: []float32{1, 0}},
		domain.ParsedChunk{Index: 1, Text: "b", Embedding: []float32{1, 0, 0}},
	)

	_, err := f.svc(t).Query(context.Background(), "alice", "file-1", domain.QueryRequest{Query: "anything"})
	if !errors.Is(err, domain.ErrRankerInputMismatch) {
		t.Errorf("mixed dimensions: expected ErrRankerInputMismatch, got %v", err)
	}
}

func TestQueryService_Query_EmbeddingFailure(t *testing.T) {
	f := newQueryFixture()
	f.seedUser("user-1", "alice")
	f.seedDoc("file-1", "user-1",
		domain.ParsedChunk{Index: 0, Text: "text", Embedding: []float32{1, 0}},
	)
	f.embedder.SetFailNext(true)

	_, err := f.svc(t).Query(context.Background(), "alice", "file-1", domain.QueryRequest{Query: "anything"})
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Errorf("expected ErrEmbedding, got %v", err)
	}
	if f.llm.GenerateCalls != 0 {
		t.Error("embedding failure must not reach the model")
	}
}

func TestQueryService_Query_TopKDefaultsAndClamps(t *testing.T) {
	f := newQueryFixture()
	f.seedUser("user-1", "alice")
	chunks := make([]domain.ParsedChunk, 3)
	for i := range chunks {
		chunks[i] = domain.ParsedChunk{Index: i, Text: "chunk", Embedding: []float32{1, 0}}
	}
	f.seedDoc("file-1", "user-1", chunks...)
	f.embedder.SetVector("question", []float32{1, 0})

	// TopK above the chunk count clamps to the collection size.
	result, err := f.svc(t).Query(context.Background(), "alice", "file-1", domain.QueryRequest{
		Query: "question",
		TopK:  100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.SourceChunks) != 3 {
		t.Errorf("expected all 3 chunks, got %d", len(result.SourceChunks))
	}

	// Equal scores: retrieved order follows ascending chunk index.
	for i, s := range result.SourceChunks {
		if s.ChunkIndex != i {
			t.Errorf("position %d: expected chunk index %d, got %d", i, i, s.ChunkIndex)
		}
	}
}
