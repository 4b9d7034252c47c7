package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-scorer/internal/cache"
	scorererrors "resume-scorer/internal/errors"
	"resume-scorer/internal/extract"
	"resume-scorer/internal/models"
	"resume-scorer/internal/scorestore"
)

// request bodies are capped at 10MB
const maxRequestBytes = 10 << 20

// Scorer is one scoring pipeline. Both endpoints go through the same handler
// path with a different Scorer behind it.
type Scorer interface {
	Score(ctx context.Context, in models.ScoreInput) (*models.ScoreResult, error)
}

type ResultCache interface {
	Get(ctx context.Context, key string) (*models.ScoreResult, bool, error)
	Set(ctx context.Context, key string, result *models.ScoreResult) error
}

type ScoreStore interface {
	Insert(ctx context.Context, record *models.ScoreRecord) error
	Get(ctx context.Context, id uuid.UUID) (*models.ScoreRecord, error)
}

type Uploader interface {
	Upload(ctx context.Context, file io.Reader, bucket, key, contentType string) (string, error)
}

// APIHandler dispatches scoring requests. Cache, store and uploader are
// optional; a nil value disables that integration.
type APIHandler struct {
	classical Scorer
	llm       Scorer
	cache     ResultCache
	store     ScoreStore
	uploader  Uploader
	s3Bucket  string
	logger    *zap.Logger
}

func NewAPIHandler(classical, llm Scorer, resultCache ResultCache, store ScoreStore, uploader Uploader, s3Bucket string, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		classical: classical,
		llm:       llm,
		cache:     resultCache,
		store:     store,
		uploader:  uploader,
		s3Bucket:  s3Bucket,
		logger:    logger,
	}
}

func (h *APIHandler) HandleClassicalScore(w http.ResponseWriter, r *http.Request) {
	h.handleScore(w, r, "classical", h.classical)
}

func (h *APIHandler) HandleLLMScore(w http.ResponseWriter, r *http.Request) {
	h.handleScore(w, r, "llm", h.llm)
}

func (h *APIHandler) handleScore(w http.ResponseWriter, r *http.Request, engine string, scorer Scorer) {
	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	input, up, err := h.parseScoreRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if up != nil {
		h.archive(r.Context(), up)
	}

	key := cache.Key(engine, input.ResumeText, input.JobDescription)
	if h.cache != nil {
		cached, hit, err := h.cache.Get(r.Context(), key)
		if err != nil {
			h.logger.Warn("cache lookup failed", zap.Error(err))
		} else if hit {
			h.respond(w, http.StatusOK, cached)
			return
		}
	}

	result, err := scorer.Score(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.store != nil {
		h.persist(r.Context(), engine, result)
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), key, result); err != nil {
			h.logger.Warn("cache write failed", zap.Error(err))
		}
	}

	h.respond(w, http.StatusOK, result)
}

func (h *APIHandler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if h.store == nil {
		h.respond(w, http.StatusNotFound, errorResponse{Error: "score history is not enabled"})
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid score id format"})
		return
	}

	record, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, scorestore.ErrNotFound) {
			h.respond(w, http.StatusNotFound, errorResponse{Error: "score not found"})
			return
		}
		h.logger.Error("failed to retrieve score", zap.String("id", id.String()), zap.Error(err))
		h.respond(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	h.respond(w, http.StatusOK, record)
}

func (h *APIHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// upload is a resume file held for best-effort archival.
type upload struct {
	data        []byte
	filename    string
	contentType string
}

func (h *APIHandler) parseScoreRequest(r *http.Request) (models.ScoreInput, *upload, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return h.parseMultipart(r)
	}

	var input models.ScoreInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return models.ScoreInput{}, nil, fmt.Errorf("%w: invalid request body: %w", scorererrors.ErrInvalidInput, err)
	}

	input.ResumeText = extract.Clean(input.ResumeText)
	input.JobDescription = extract.Clean(input.JobDescription)

	return input, nil, nil
}

func (h *APIHandler) parseMultipart(r *http.Request) (models.ScoreInput, *upload, error) {
	file, header, err := r.FormFile("resume")
	if err != nil {
		return models.ScoreInput{}, nil, fmt.Errorf("%w: missing resume file: %w", scorererrors.ErrInvalidInput, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.ScoreInput{}, nil, fmt.Errorf("%w: reading resume file: %w", scorererrors.ErrExtraction, err)
	}

	resumeText, contentType, err := resumeTextFromUpload(data, header.Filename)
	if err != nil {
		return models.ScoreInput{}, nil, err
	}

	jdText := r.FormValue("jd")
	if jdText == "" {
		if jdFile, _, err := r.FormFile("jd"); err == nil {
			defer jdFile.Close()
			jdData, err := io.ReadAll(jdFile)
			if err != nil {
				return models.ScoreInput{}, nil, fmt.Errorf("%w: reading job description file: %v", scorererrors.ErrExtraction, err)
			}
			jdText = string(jdData)
		}
	}

	input := models.ScoreInput{
		ResumeText:     extract.Clean(resumeText),
		JobDescription: extract.Clean(jdText),
	}

	up := &upload{data: data, filename: header.Filename, contentType: contentType}
	return input, up, nil
}

func resumeTextFromUpload(data []byte, filename string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		text, err := extract.PDFText(data)
		if err != nil {
			return "", "", err
		}
		return text, "application/pdf", nil
	case ".txt", "":
		return string(data), "text/plain", nil
	default:
		return "", "", fmt.Errorf("%w: unsupported file type %q, only .pdf and .txt are accepted", scorererrors.ErrInvalidInput, ext)
	}
}

// archive stores the raw upload in object storage. Failures are logged and
// never fail the request.
func (h *APIHandler) archive(ctx context.Context, up *upload) {
	if h.uploader == nil || h.s3Bucket == "" {
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		h.logger.Warn("failed to generate archive key", zap.Error(err))
		return
	}

	key := id.String() + filepath.Ext(up.filename)
	if _, err := h.uploader.Upload(ctx, bytes.NewReader(up.data), h.s3Bucket, key, up.contentType); err != nil {
		h.logger.Warn("resume archival failed", zap.String("key", key), zap.Error(err))
		return
	}

	h.logger.Debug("resume archived", zap.String("key", key))
}

func (h *APIHandler) persist(ctx context.Context, engine string, result *models.ScoreResult) {
	id, err := uuid.NewV7()
	if err != nil {
		h.logger.Warn("failed to generate score id", zap.Error(err))
		return
	}

	record := &models.ScoreRecord{
		ID:           id,
		Engine:       engine,
		Score:        result.Score,
		MatchedTerms: result.MatchedTerms,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.store.Insert(ctx, record); err != nil {
		h.logger.Warn("failed to persist score", zap.Error(err))
		return
	}

	if result.Metadata == nil {
		result.Metadata = make(map[string]any)
	}
	result.Metadata["score_id"] = id.String()
}

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	var maxBytesErr *http.MaxBytesError

	switch {
	// checked before the input/extraction classes, which wrap it on the parse
	// paths
	case errors.As(err, &maxBytesErr):
		h.respond(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
	case errors.Is(err, scorererrors.ErrInvalidInput):
		h.respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, scorererrors.ErrExtraction):
		h.respond(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, scorererrors.ErrProviderUnavailable):
		w.Header().Set("Retry-After", "30")
		h.respond(w, http.StatusServiceUnavailable, errorResponse{
			Error:     "scoring provider is temporarily unavailable, retry later",
			Retryable: true,
		})
	case errors.Is(err, scorererrors.ErrProviderResponse):
		h.respond(w, http.StatusBadGateway, errorResponse{Error: "scoring provider returned an unusable response"})
	default:
		h.logger.Error("internal failure", zap.Error(err))
		h.respond(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *APIHandler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
