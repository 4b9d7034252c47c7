package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	scorererrors "resume-scorer/internal/errors"
	"resume-scorer/internal/models"
	"resume-scorer/mocks"
)

func testResult(engine string) *models.ScoreResult {
	return &models.ScoreResult{
		Score:        78.5,
		MatchedTerms: []string{"go", "postgresql"},
		Metadata: map[string]any{
			"engine": engine,
		},
	}
}

func jsonRequest(t *testing.T, path string, input models.ScoreInput) *http.Request {
	t.Helper()

	body, err := json.Marshal(input)
	assert.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandleClassicalScore_JSONSuccess(t *testing.T) {
	mockScorer := new(mocks.MockScorer)
	mockScorer.On("Score", mock.Anything, mock.Anything).Return(testResult("classical"), nil)

	handler := NewAPIHandler(mockScorer, nil, nil, nil, nil, "", zap.NewNop())

	req := jsonRequest(t, "/old/ats", models.ScoreInput{
		ResumeText:     "Go developer with PostgreSQL experience",
		JobDescription: "Looking for a Go developer",
	})
	rr := httptest.NewRecorder()

	handler.HandleClassicalScore(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var result models.ScoreResult
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 78.5, result.Score)
	assert.Equal(t, []string{"go", "postgresql"}, result.MatchedTerms)
	mockScorer.AssertExpectations(t)
}

func TestHandleClassicalScore_MultipartSuccess(t *testing.T) {
	mockScorer := new(mocks.MockScorer)
	mockScorer.On("Score", mock.Anything, mock.MatchedBy(func(in models.ScoreInput) bool {
		return in.ResumeText == "Go developer" && in.JobDescription == "Go role"
	})).Return(testResult("classical"), nil)

	mockUploader := new(mocks.MockUploader)
	mockUploader.On("Upload", mock.Anything, mock.Anything, "resumes", mock.Anything, "text/plain").
		Return("https://resumes.s3.amazonaws.com/key.txt", nil)

	handler := NewAPIHandler(mockScorer, nil, nil, nil, mockUploader, "resumes", zap.NewNop())

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("resume", "resume.txt")
	part.Write([]byte("Go   developer"))
	writer.WriteField("jd", "Go role")
	writer.Close()

	req := httptest.NewRequest("POST", "/old/ats", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()

	handler.HandleClassicalScore(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockScorer.AssertExpectations(t)
	mockUploader.AssertExpectations(t)
}

func TestHandleScore_InvalidInput(t *testing.T) {
	mockScorer := new(mocks.MockScorer)
	mockScorer.On("Score", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: job description is empty", scorererrors.ErrInvalidInput))

	handler := NewAPIHandler(mockScorer, mockScorer, nil, nil, nil, "", zap.NewNop())

	for _, path := range []string{"/old/ats", "/new/ats"} {
		req := jsonRequest(t, path, models.ScoreInput{ResumeText: "text", JobDescription: ""})
		rr := httptest.NewRecorder()

		if path == "/old/ats" {
			handler.HandleClassicalScore(rr, req)
		} else {
			handler.HandleLLMScore(rr, req)
		}

		assert.Equal(t, http.StatusBadRequest, rr.Code, "path %s", path)

		var resp map[string]any
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Contains(t, resp["error"], "job description")
	}
}

func TestHandleScore_MalformedJSONBody(t *testing.T) {
	handler := NewAPIHandler(new(mocks.MockScorer), nil, nil, nil, nil, "", zap.NewNop())

	req := httptest.NewRequest("POST", "/old/ats", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.HandleClassicalScore(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleScore_UnsupportedFileType(t *testing.T) {
	handler := NewAPIHandler(new(mocks.MockScorer), nil, nil, nil, nil, "", zap.NewNop())

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("resume", "resume.docx")
	part.Write([]byte("binary"))
	writer.WriteField("jd", "Go role")
	writer.Close()

	req := httptest.NewRequest("POST", "/old/ats", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()

	handler.HandleClassicalScore(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleScore_BodyTooLarge(t *testing.T) {
	mockScorer := new(mocks.MockScorer)
	handler := NewAPIHandler(mockScorer, nil, nil, nil, nil, "", zap.NewNop())

	// over the 10MB cap
	oversized := fmt.Sprintf(`{"resume_text": %q, "job_description": "jd"}`,
		strings.Repeat("a", 11<<20))

	req := httptest.NewRequest("POST", "/old/ats", strings.NewReader(oversized))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.HandleClassicalScore(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	mockScorer.AssertNotCalled(t, "Score", mock.Anything, mock.Anything)
}

func TestHandleScore_PersistWithNilMetadata(t *testing.T) {
	mockScorer := new(mocks.MockScorer)
	mockScorer.On("Score", mock.Anything, mock.Anything).Return(&models.ScoreResult{
		Score:        42.0,
		MatchedTerms: []string{"go"},
	}, nil)

	mockStore := new(mocks.MockScoreStore)
	mockStore.On("Insert", mock.Anything, mock.Anything).Return(nil)

	handler := NewAPIHandler(mockScorer, nil, nil, mockStore, nil, "", zap.NewNop())

	req := jsonRequest(t, "/old/ats", models.ScoreInput{ResumeText: "r", JobDescription: "j"})
	rr := httptest.NewRecorder()

	handler.HandleClassicalScore(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.ScoreResult
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Metadata["score_id"])
}

func TestHandleLLMScore_ProviderUnavailable(t *testing.T) {
	mockScorer := new(mocks.MockScorer)
	mockScorer.On("Score", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: rate limited", scorererrors.ErrProviderUnavailable))

	handler := NewAPIHandler(nil, mockScorer, nil, nil, nil, "", zap.NewNop())

	req := jsonRequest(t, "/new/ats", models.ScoreInput{ResumeText: "r", JobDescription: "j"})
	rr := httptest.NewRecorder()

	handler.HandleLLMScore(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "30", rr.Header().Get("Retry-After"))

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["retryable"])
}

func TestHandleLLMScore_MalformedProviderResponse(t *testing.T) {
	mockScorer := new(mocks.MockScorer)
	mockScorer.On("Score", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: unexpected end of JSON input", scorererrors.ErrProviderResponse))

	handler := NewAPIHandler(nil, mockScorer, nil, nil, nil, "", zap.NewNop())

	req := jsonRequest(t, "/new/ats", models.ScoreInput{ResumeText: "r", JobDescription: "j"})
	rr := httptest.NewRecorder()

	handler.HandleLLMScore(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestBothEndpointsShareResponseShape(t *testing.T) {
	classical := new(mocks.MockScorer)
	classical.On("Score", mock.Anything, mock.Anything).Return(testResult("classical"), nil)

	llm := new(mocks.MockScorer)
	llm.On("Score", mock.Anything, mock.Anything).Return(testResult("llm"), nil)

	handler := NewAPIHandler(classical, llm, nil, nil, nil, "", zap.NewNop())

	input := models.ScoreInput{ResumeText: "resume", JobDescription: "jd"}

	for _, tc := range []struct {
		path  string
		serve func(http.ResponseWriter, *http.Request)
	}{
		{"/old/ats", handler.HandleClassicalScore},
		{"/new/ats", handler.HandleLLMScore},
	} {
		rr := httptest.NewRecorder()
		tc.serve(rr, jsonRequest(t, tc.path, input))

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp map[string]any
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Contains(t, resp, "score", "path %s", tc.path)
		assert.Contains(t, resp, "matched_terms", "path %s", tc.path)
		assert.Contains(t, resp, "metadata", "path %s", tc.path)
	}
}

func TestHandleScore_CacheHitSkipsScorer(t *testing.T) {
	mockScorer := new(mocks.MockScorer)

	mockCache := new(mocks.MockResultCache)
	mockCache.On("Get", mock.Anything, mock.Anything).Return(testResult("classical"), true, nil)

	handler := NewAPIHandler(mockScorer, nil, mockCache, nil, nil, "", zap.NewNop())

	req := jsonRequest(t, "/old/ats", models.ScoreInput{ResumeText: "r", JobDescription: "j"})
	rr := httptest.NewRecorder()

	handler.HandleClassicalScore(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockScorer.AssertNotCalled(t, "Score", mock.Anything, mock.Anything)
	mockCache.AssertExpectations(t)
}

func TestHandleScore_PersistsRecord(t *testing.T) {
	mockScorer := new(mocks.MockScorer)
	mockScorer.On("Score", mock.Anything, mock.Anything).Return(testResult("classical"), nil)

	mockStore := new(mocks.MockScoreStore)
	mockStore.On("Insert", mock.Anything, mock.MatchedBy(func(rec *models.ScoreRecord) bool {
		return rec.Engine == "classical" && rec.Score == 78.5
	})).Return(nil)

	handler := NewAPIHandler(mockScorer, nil, nil, mockStore, nil, "", zap.NewNop())

	req := jsonRequest(t, "/old/ats", models.ScoreInput{ResumeText: "r", JobDescription: "j"})
	rr := httptest.NewRecorder()

	handler.HandleClassicalScore(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.ScoreResult
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Metadata["score_id"])
	mockStore.AssertExpectations(t)
}

func TestHandleGetScore_NotFound(t *testing.T) {
	mockStore := new(mocks.MockScoreStore)
	handler := NewAPIHandler(nil, nil, nil, mockStore, nil, "", zap.NewNop())

	router := NewRouter(handler)

	req := httptest.NewRequest("GET", "/scores/not-a-uuid", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthz(t *testing.T) {
	handler := NewAPIHandler(nil, nil, nil, nil, nil, "", zap.NewNop())
	router := NewRouter(handler)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
