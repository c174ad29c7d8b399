package domain

import "time"

// File represents an uploaded document's metadata.
// The raw bytes live in the blob store under StorageKey.
type File struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	StorageKey  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// ParsedChunk is one retrieval unit of a parsed document: a contiguous
// segment of the extracted text together with its embedding. Keeping text
// and vector in one record makes the chunk/vector alignment structural
// rather than a convention between two parallel arrays.
type ParsedChunk struct {
	Index     int       `json:"index"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// ParsedDocument is the stored result of ingesting a file: the full
// extracted text plus the ordered chunk records. Identified by
// (FileID, UserID) and immutable once written.
type ParsedDocument struct {
	FileID         string        `json:"file_id"`
	UserID         string        `json:"user_id"`
	RawText        string        `json:"raw_text"`
	Chunks         []ParsedChunk `json:"chunks"`
	EmbeddingModel string        `json:"embedding_model"`
	CreatedAt      time.Time     `json:"created_at"`
}

// HasContent reports whether ingestion produced any retrievable chunks.
// An empty source file parses successfully but yields no chunks.
func (p *ParsedDocument) HasContent() bool {
	return len(p.Chunks) > 0
}

// Validate checks the internal consistency of the chunk records: indices
// must be dense and ascending and every embedding must share one dimension.
// A violation is a data corruption signal, surfaced as
// ErrRankerInputMismatch rather than silently truncated.
func (p *ParsedDocument) Validate() error {
	dim := -1
	for i, c := range p.Chunks {
		if c.Index != i {
			return ErrRankerInputMismatch
		}
		if len(c.Embedding) == 0 {
			return ErrRankerInputMismatch
		}
		if dim == -1 {
			dim = len(c.Embedding)
		} else if len(c.Embedding) != dim {
			return ErrRankerInputMismatch
		}
	}
	return nil
}

// Vectors returns the chunk embeddings in index order.
func (p *ParsedDocument) Vectors() [][]float32 {
	vectors := make([][]float32, len(p.Chunks))
	for i, c := range p.Chunks {
		vectors[i] = c.Embedding
	}
	return vectors
}

// IngestStats summarizes a completed ingestion for API responses.
type IngestStats struct {
	CharCount    int     `json:"char_count"`
	ChunkCount   int     `json:"chunk_count"`
	AvgChunkSize float64 `json:"avg_chunk_size"`
}

// Stats computes ingestion statistics for the parsed document.
func (p *ParsedDocument) Stats() IngestStats {
	stats := IngestStats{
		CharCount:  len(p.RawText),
		ChunkCount: len(p.Chunks),
	}
	if len(p.Chunks) > 0 {
		total := 0
		for _, c := range p.Chunks {
			total += len(c.Text)
		}
		stats.AvgChunkSize = float64(total) / float64(len(p.Chunks))
	}
	return stats
}
