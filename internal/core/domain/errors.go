package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrNotParsed indicates the document exists but has no parsed content yet
	ErrNotParsed = errors.New("document not parsed")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates text extraction from the raw document failed
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbedding indicates the embedding provider failed for the batch
	ErrEmbedding = errors.New("embedding failed")

	// ErrModelUnavailable indicates the answer-generation model is not
	// configured or not reachable
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrRankerInputMismatch indicates stored chunk records are internally
	// inconsistent (a data corruption signal, never silently truncated)
	ErrRankerInputMismatch = errors.New("ranker input mismatch")

	// ErrEmbeddingModelMismatch indicates the stored vectors were produced by
	// a different embedding model than the one configured
	ErrEmbeddingModelMismatch = errors.New("embedding model mismatch")

	// ErrIngestInProgress indicates another ingestion holds the lock for
	// this document
	ErrIngestInProgress = errors.New("ingestion already in progress")

	// ErrStorage indicates a blob store failure
	ErrStorage = errors.New("storage failure")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates wrong username/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrSessionNotFound indicates the session does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates a backing AI service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ErrorCode maps a domain error to a stable machine-readable code.
// Transport layers return the code alongside a human-readable detail so
// callers never have to parse internal messages.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNotParsed):
		return "not_parsed"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrExtraction):
		return "extraction_failed"
	case errors.Is(err, ErrEmbedding):
		return "embedding_failed"
	case errors.Is(err, ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, ErrRankerInputMismatch):
		return "ranker_input_mismatch"
	case errors.Is(err, ErrEmbeddingModelMismatch):
		return "embedding_model_mismatch"
	case errors.Is(err, ErrIngestInProgress):
		return "ingest_in_progress"
	case errors.Is(err, ErrStorage):
		return "storage_failure"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrTokenInvalid):
		return "token_invalid"
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, ErrInvalidProvider):
		return "invalid_provider"
	case errors.Is(err, ErrServiceUnavailable):
		return "service_unavailable"
	default:
		return "internal"
	}
}
