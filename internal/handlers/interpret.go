package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oneirolabs/dream-backend/internal/analyzer"
	"github.com/oneirolabs/dream-backend/internal/logger"
	"github.com/oneirolabs/dream-backend/internal/services"
	"github.com/oneirolabs/dream-backend/internal/types"
)

type InterpretHandler struct {
	log          *logger.Logger
	modelService services.ModelService
	dreamService services.DreamService
	basic        *analyzer.Basic
}

func NewInterpretHandler(log *logger.Logger, modelService services.ModelService, dreamService services.DreamService, basic *analyzer.Basic) *InterpretHandler {
	return &InterpretHandler{
		log:          log.With("handler", "InterpretHandler"),
		modelService: modelService,
		dreamService: dreamService,
		basic:        basic,
	}
}

// Interpret analyzes a dream. The orchestrator picks the backend; when it
// signals fallback (nil response), the handler runs basic keyword matching
// itself so the endpoint works with zero ML backends loaded.
func (ih *InterpretHandler) Interpret(c *gin.Context) {
	var req struct {
		DreamText string `json:"dream_text"`
		UserID    string `json:"user_id"`
		UseML     *bool  `json:"use_ml"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid JSON data", "")
		return
	}
	dreamText := strings.TrimSpace(req.DreamText)
	if dreamText == "" {
		RespondError(c, http.StatusBadRequest, "Dream description cannot be empty", "")
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}
	useML := true
	if req.UseML != nil {
		useML = *req.UseML
	}

	start := time.Now()
	ctx := c.Request.Context()

	response, err := ih.modelService.Analyze(ctx, dreamText, userID, useML)
	if err != nil {
		var backendErr *services.BackendError
		if errors.As(err, &backendErr) {
			RespondError(c, http.StatusInternalServerError, backendErr.Message, backendErr.Details)
			return
		}
		RespondError(c, http.StatusInternalServerError, "An internal server error occurred", err.Error())
		return
	}

	if response == nil {
		response = ih.analyzeBasic(c, dreamText, start)
	}

	if err := ih.dreamService.SaveAnalysis(ctx, userID, strings.ToLower(dreamText), response); err != nil {
		ih.log.Error("Failed to save dream to history", "error", err)
	}

	c.JSON(http.StatusOK, response)
}

func (ih *InterpretHandler) analyzeBasic(c *gin.Context, dreamText string, start time.Time) *types.AnalysisResponse {
	ctx := c.Request.Context()
	normalized := strings.ToLower(dreamText)

	results, _ := ih.basic.Analyze(ctx, normalized)
	if len(results) == 0 {
		results = []types.Interpretation{analyzer.GenericInterpretation()}
	}
	summary, _ := ih.basic.Summarize(ctx, normalized)
	perspective, _ := ih.basic.Perspective(ctx, normalized, results)

	return &types.AnalysisResponse{
		DreamSummary:             summary,
		Interpretations:          results,
		PsychologicalPerspective: perspective,
		ModelUsed:                ih.basic.Name(),
		ProcessingTime:           fmt.Sprintf("%.2fs", time.Since(start).Seconds()),
	}
}
