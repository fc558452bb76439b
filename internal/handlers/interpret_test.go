package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/oneirolabs/dream-backend/internal/analyzer"
	"github.com/oneirolabs/dream-backend/internal/lexicon"
	"github.com/oneirolabs/dream-backend/internal/logger"
	"github.com/oneirolabs/dream-backend/internal/services"
	"github.com/oneirolabs/dream-backend/internal/types"
)

type fakeModelService struct {
	response   *types.AnalysisResponse
	err        error
	status     types.ModelStatus
	cleared    int
	gotText    string
	gotUserID  string
	gotUseML   bool
	reloaded   bool
	initCalled bool
}

func (f *fakeModelService) Initialize(context.Context, bool) { f.initCalled = true }

func (f *fakeModelService) Analyze(_ context.Context, dreamText, userID string, useML bool) (*types.AnalysisResponse, error) {
	f.gotText = dreamText
	f.gotUserID = userID
	f.gotUseML = useML
	return f.response, f.err
}

func (f *fakeModelService) Status() types.ModelStatus { return f.status }

func (f *fakeModelService) BestAvailableName() string { return analyzer.NameBasic }

func (f *fakeModelService) ClearCache() int { return f.cleared }

func (f *fakeModelService) Reload(context.Context) { f.reloaded = true }

type savedAnalysis struct {
	userID    string
	dreamText string
	response  *types.AnalysisResponse
}

type fakeDreamService struct {
	saved []savedAnalysis
}

func (f *fakeDreamService) SaveAnalysis(_ context.Context, userID, dreamText string, response *types.AnalysisResponse) error {
	f.saved = append(f.saved, savedAnalysis{userID, dreamText, response})
	return nil
}

func (f *fakeDreamService) History(context.Context, string, int, int) (*services.HistoryPage, error) {
	return &services.HistoryPage{}, nil
}

func (f *fakeDreamService) Stats(context.Context) (*services.DreamStats, error) {
	return &services.DreamStats{}, nil
}

func handlerLexicon() *lexicon.Lexicon {
	return lexicon.New(map[string]string{
		"water":  "Symbolizes emotions, the unconscious, or life force.",
		"flying": "Usually symbolizes freedom, ambition, or escape from reality.",
	})
}

func newInterpretRouter(model services.ModelService, dream services.DreamService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewInterpretHandler(logger.NewNop(), model, dream, analyzer.NewBasic(handlerLexicon()))
	router := gin.New()
	router.POST("/api/interpret", handler.Interpret)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestInterpretRejectsInvalidJSON(t *testing.T) {
	router := newInterpretRouter(&fakeModelService{}, &fakeDreamService{})
	w := postJSON(t, router, "/api/interpret", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid JSON data") {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestInterpretRejectsEmptyDream(t *testing.T) {
	router := newInterpretRouter(&fakeModelService{}, &fakeDreamService{})
	w := postJSON(t, router, "/api/interpret", `{"dream_text": "   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Dream description cannot be empty") {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestInterpretReturnsBackendResponseAndSavesHistory(t *testing.T) {
	model := &fakeModelService{response: &types.AnalysisResponse{
		DreamSummary:             "A dream about water",
		Interpretations:          []types.Interpretation{{Keyword: "water", Interpretation: "emotions"}},
		PsychologicalPerspective: "perspective",
		ModelUsed:                analyzer.NameEnhanced,
	}}
	dream := &fakeDreamService{}
	router := newInterpretRouter(model, dream)

	w := postJSON(t, router, "/api/interpret", `{"dream_text": "Deep Water"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var got types.AnalysisResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ModelUsed != analyzer.NameEnhanced || got.DreamSummary != "A dream about water" {
		t.Fatalf("response %+v", got)
	}

	if model.gotUserID != "anonymous" || !model.gotUseML {
		t.Fatalf("orchestrator called with user=%q use_ml=%v", model.gotUserID, model.gotUseML)
	}
	if len(dream.saved) != 1 {
		t.Fatalf("SaveAnalysis called %d times", len(dream.saved))
	}
	if dream.saved[0].dreamText != "deep water" {
		t.Fatalf("history text %q, want lowercased", dream.saved[0].dreamText)
	}
}

func TestInterpretFallsBackToBasicMatching(t *testing.T) {
	// A nil orchestrator response means no ML backend handled the request.
	model := &fakeModelService{}
	dream := &fakeDreamService{}
	router := newInterpretRouter(model, dream)

	w := postJSON(t, router, "/api/interpret", `{"dream_text": "I was FLYING over water", "use_ml": false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if model.gotUseML {
		t.Fatal("use_ml flag not forwarded")
	}

	var got types.AnalysisResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ModelUsed != analyzer.NameBasic {
		t.Fatalf("ModelUsed=%q", got.ModelUsed)
	}
	keywords := make(map[string]bool)
	for _, interp := range got.Interpretations {
		keywords[interp.Keyword] = true
	}
	if !keywords["water"] || !keywords["flying"] {
		t.Fatalf("interpretations %v", got.Interpretations)
	}
	if got.DreamSummary == "" || got.PsychologicalPerspective == "" || got.ProcessingTime == "" {
		t.Fatalf("incomplete fallback response %+v", got)
	}
}

func TestInterpretFallbackWithNoMatchesReturnsGeneric(t *testing.T) {
	router := newInterpretRouter(&fakeModelService{}, &fakeDreamService{})
	w := postJSON(t, router, "/api/interpret", `{"dream_text": "qwfp zzyzx"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var got types.AnalysisResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Interpretations) != 1 || got.Interpretations[0].Keyword != "General" {
		t.Fatalf("interpretations %v", got.Interpretations)
	}
}

func TestInterpretSurfacesBackendErrors(t *testing.T) {
	model := &fakeModelService{err: &services.BackendError{
		Message: "An error occurred during dream analysis",
		Details: "weights corrupted",
	}}
	dream := &fakeDreamService{}
	router := newInterpretRouter(model, dream)

	w := postJSON(t, router, "/api/interpret", `{"dream_text": "deep water"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "weights corrupted") {
		t.Fatalf("body=%s", w.Body.String())
	}
	if len(dream.saved) != 0 {
		t.Fatal("failed analyses must not be saved to history")
	}
}

func TestModelStatusEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	model := &fakeModelService{status: types.ModelStatus{
		Models: map[string]types.BackendStatus{
			analyzer.NameBasic: {Available: true, Status: "loaded"},
		},
		DefaultModel: analyzer.NameBasic,
		CacheEntries: 2,
	}}
	handler := NewModelHandler(logger.NewNop(), model)
	router := gin.New()
	router.GET("/api/model-status", handler.Status)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/model-status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var got types.ModelStatus
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.DefaultModel != analyzer.NameBasic || got.CacheEntries != 2 {
		t.Fatalf("status %+v", got)
	}
}

func TestClearCacheEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewModelHandler(logger.NewNop(), &fakeModelService{cleared: 7})
	router := gin.New()
	router.POST("/api/clear-cache", handler.ClearCache)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/clear-cache", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Cleared 7 entries from cache") {
		t.Fatalf("body=%s", w.Body.String())
	}
}
