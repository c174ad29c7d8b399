package domain

// DefaultTopK is the number of chunks retrieved when the caller does not
// specify one.
const DefaultTopK = 5

// MaxTopK caps caller-supplied retrieval depth.
const MaxTopK = 50

// QueryRequest is a question asked against one previously ingested document.
type QueryRequest struct {
	Query string `json:"query" example:"what animals are mammals?"`
	TopK  int    `json:"top_k" example:"5"`
}

// Normalize applies retrieval-depth defaults and bounds.
func (r *QueryRequest) Normalize() {
	if r.TopK <= 0 {
		r.TopK = DefaultTopK
	}
	if r.TopK > MaxTopK {
		r.TopK = MaxTopK
	}
}

// SourceChunk is a retrieved chunk cited as grounding for an answer.
// Produced fresh per query, never persisted.
type SourceChunk struct {
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// QueryResult is the outcome of one query pipeline run.
type QueryResult struct {
	Answer       string        `json:"answer"`
	SourceChunks []SourceChunk `json:"source_chunks"`
	FileID       string        `json:"file_id"`
	Query        string        `json:"query"`
}

// RankedIndex references a stored vector by position with its similarity
// score, ordered by descending relevance.
type RankedIndex struct {
	Index int
	Score float64
}
