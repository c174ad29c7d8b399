package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// maxUploadBytes bounds multipart uploads; documents beyond this are not
// reasonable embedding inputs anyway.
const maxUploadBytes = 32 << 20

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"file not found"`
	Code  string `json:"code" example:"not_found"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns readiness, verifying database and cache connectivity
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A backing service is unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable", "service_unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unreachable", "service_unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleRegister godoc
// @Summary      Register a user
// @Description  Create a new user account
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.RegisterRequest  true  "Account details"
// @Success      201      {object}  domain.UserSummary
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      409      {object}  ErrorResponse  "Username already taken"
// @Router       /auth/register [post]
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "invalid_input")
		return
	}

	summary, err := s.authService.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, summary)
}

// handleLogin godoc
// @Summary      User login
// @Description  Authenticate with username and password to receive a JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Login credentials"
// @Success      200      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials"
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "invalid_input")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleLogout godoc
// @Summary      Logout user
// @Description  Invalidate the current session token
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatusResponse
// @Router       /auth/logout [post]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if authCtx := GetAuthContext(r.Context()); authCtx != nil {
		_ = s.authService.Logout(r.Context(), authCtx.SessionID)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// File endpoints

// handleUploadFile godoc
// @Summary      Upload a document
// @Description  Store a document file for later parsing and querying
// @Tags         Files
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        owner  path      string  true  "Owner username"
// @Param        file   formData  file    true  "Document file"
// @Success      201    {object}  domain.File
// @Failure      400    {object}  ErrorResponse  "Missing or invalid file"
// @Failure      404    {object}  ErrorResponse  "Owner not found"
// @Router       /files/{owner} [post]
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body", "invalid_input")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field", "invalid_input")
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file", "invalid_input")
		return
	}

	contentType := header.Header.Get("Content-Type")
	file, err := s.fileService.Upload(r.Context(), owner, header.Filename, contentType, data)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, file)
}

// handleListFiles godoc
// @Summary      List documents
// @Description  List all documents owned by a user, newest first
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Param        owner  path      string  true  "Owner username"
// @Success      200    {array}   domain.File
// @Failure      404    {object}  ErrorResponse  "Owner not found"
// @Router       /files/{owner} [get]
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")

	files, err := s.fileService.List(r.Context(), owner)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if files == nil {
		files = []*domain.File{}
	}

	writeJSON(w, http.StatusOK, files)
}

// handleGetFile godoc
// @Summary      Get document metadata
// @Description  Fetch one document's metadata
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Param        owner   path      string  true  "Owner username"
// @Param        fileID  path      string  true  "File ID"
// @Success      200     {object}  domain.File
// @Failure      404     {object}  ErrorResponse  "Owner or file not found"
// @Router       /files/{owner}/{fileID} [get]
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	fileID := r.PathValue("fileID")

	file, err := s.fileService.Get(r.Context(), owner, fileID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, file)
}

// handleParseFile godoc
// @Summary      Parse a document
// @Description  Run the ingestion pipeline (extract, chunk, embed, persist). Idempotent: repeated calls return the stored record.
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Param        owner   path      string  true  "Owner username"
// @Param        fileID  path      string  true  "File ID"
// @Success      200     {object}  domain.IngestStats
// @Failure      404     {object}  ErrorResponse  "Owner or file not found"
// @Failure      409     {object}  ErrorResponse  "Ingestion already in progress"
// @Failure      502     {object}  ErrorResponse  "Extraction or embedding failed"
// @Router       /files/{owner}/{fileID}/parse [post]
func (s *Server) handleParseFile(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	fileID := r.PathValue("fileID")

	doc, err := s.ingestService.Ingest(r.Context(), owner, fileID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	stats := doc.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"file_id":         doc.FileID,
		"chunk_count":     stats.ChunkCount,
		"char_count":      stats.CharCount,
		"embedding_model": doc.EmbeddingModel,
	})
}

// Query endpoint

// queryBody is the request body for the query endpoint
type queryBody struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// handleQuery godoc
// @Summary      Query a document
// @Description  Answer a question grounded in one parsed document
// @Tags         Query
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        owner    path      string     true  "Owner username"
// @Param        fileID   path      string     true  "File ID"
// @Param        request  body      queryBody  true  "Question and retrieval depth"
// @Success      200      {object}  domain.QueryResult
// @Failure      400      {object}  ErrorResponse  "Empty query"
// @Failure      404      {object}  ErrorResponse  "Owner or parsed document not found"
// @Failure      412      {object}  ErrorResponse  "Document not parsed"
// @Failure      502      {object}  ErrorResponse  "Embedding provider failed"
// @Failure      503      {object}  ErrorResponse  "Model unavailable"
// @Router       /query/{owner}/{fileID} [post]
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	fileID := r.PathValue("fileID")

	var body queryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "invalid_input")
		return
	}

	result, err := s.queryService.Query(r.Context(), owner, fileID, domain.QueryRequest{
		Query: body.Query,
		TopK:  body.TopK,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Helper functions

// statusForError maps domain sentinel errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrIngestInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotParsed):
		return http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrExtraction),
		errors.Is(err, domain.ErrEmbedding):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrModelUnavailable),
		errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		message = "internal error"
	}
	writeError(w, status, message, domain.ErrorCode(err))
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, map[string]string{"error": message, "code": code})
}
