package domain

import "testing"

func TestParsedDocument_Validate_Consistent(t *testing.T) {
	doc := &ParsedDocument{
		FileID: "file-1",
		UserID: "user-1",
		Chunks: []ParsedChunk{
			{Index: 0, Text: "first", Embedding: []float32{1, 0, 0}},
			{Index: 1, Text: "second", Embedding: []float32{0, 1, 0}},
		},
	}

	if err := doc.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParsedDocument_Validate_Empty(t *testing.T) {
	doc := &ParsedDocument{FileID: "file-1", UserID: "user-1"}

	if err := doc.Validate(); err != nil {
		t.Errorf("empty document should validate, got %v", err)
	}
	if doc.HasContent() {
		t.Error("empty document should not report content")
	}
}

func TestParsedDocument_Validate_DimensionMismatch(t *testing.T) {
	doc := &ParsedDocument{
		Chunks: []ParsedChunk{
			{Index: 0, Text: "first", Embedding: []float32{1, 0, 0}},
			{Index: 1, Text: "second", Embedding: []float32{0, 1}},
		},
	}

	if err := doc.Validate(); err != ErrRankerInputMismatch {
		t.Errorf("expected ErrRankerInputMismatch, got %v", err)
	}
}

func TestParsedDocument_Validate_MissingEmbedding(t *testing.T) {
	doc := &ParsedDocument{
		Chunks: []ParsedChunk{
			{Index: 0, Text: "first", Embedding: []float32{1, 0}},
			{Index: 1, Text: "second"},
		},
	}

	if err := doc.Validate(); err != ErrRankerInputMismatch {
		t.Errorf("expected ErrRankerInputMismatch, got %v", err)
	}
}

func TestParsedDocument_Validate_IndexGap(t *testing.T) {
	doc := &ParsedDocument{
		Chunks: []ParsedChunk{
			{Index: 0, Text: "first", Embedding: []float32{1}},
			{Index: 2, Text: "third", Embedding: []float32{1}},
		},
	}

	if err := doc.Validate(); err != ErrRankerInputMismatch {
		t.Errorf("expected ErrRankerInputMismatch, got %v", err)
	}
}

func TestParsedDocument_Vectors_PreservesOrder(t *testing.T) {
	doc := &ParsedDocument{
		Chunks: []ParsedChunk{
			{Index: 0, Text: "a", Embedding: []float32{1, 0}},
			{Index: 1, Text: "b", Embedding: []float32{0, 1}},
		},
	}

	vectors := doc.Vectors()
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if vectors[0][0] != 1 || vectors[1][1] != 1 {
		t.Error("vectors out of order")
	}
}

func TestParsedDocument_Stats(t *testing.T) {
	doc := &ParsedDocument{
		RawText: "abcdefghij",
		Chunks: []ParsedChunk{
			{Index: 0, Text: "abcd", Embedding: []float32{1}},
			{Index: 1, Text: "efgh", Embedding: []float32{1}},
		},
	}

	stats := doc.Stats()
	if stats.CharCount != 10 {
		t.Errorf("expected char count 10, got %d", stats.CharCount)
	}
	if stats.ChunkCount != 2 {
		t.Errorf("expected chunk count 2, got %d", stats.ChunkCount)
	}
	if stats.AvgChunkSize != 4 {
		t.Errorf("expected avg chunk size 4, got %f", stats.AvgChunkSize)
	}
}

func TestParsedDocument_Stats_Empty(t *testing.T) {
	doc := &ParsedDocument{}

	stats := doc.Stats()
	if stats.ChunkCount != 0 || stats.AvgChunkSize != 0 {
		t.Errorf("unexpected stats for empty document: %+v", stats)
	}
}
