package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oneirolabs/dream-backend/internal/logger"
	"github.com/oneirolabs/dream-backend/internal/services"
)

type DreamHandler struct {
	log          *logger.Logger
	dreamService services.DreamService
	modelService services.ModelService
}

func NewDreamHandler(log *logger.Logger, dreamService services.DreamService, modelService services.ModelService) *DreamHandler {
	return &DreamHandler{
		log:          log.With("handler", "DreamHandler"),
		dreamService: dreamService,
		modelService: modelService,
	}
}

func (dh *DreamHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	userID := c.Query("user_id")

	history, err := dh.dreamService.History(c.Request.Context(), userID, page, perPage)
	if err != nil {
		dh.log.Error("Failed to retrieve dream history", "error", err)
		RespondError(c, http.StatusInternalServerError, "Failed to retrieve dream history", "")
		return
	}
	c.JSON(http.StatusOK, history)
}

func (dh *DreamHandler) Stats(c *gin.Context) {
	stats, err := dh.dreamService.Stats(c.Request.Context())
	if err != nil {
		dh.log.Error("Failed to generate dream stats", "error", err)
		RespondError(c, http.StatusInternalServerError, "Failed to generate statistics", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_dreams":    stats.TotalDreams,
		"common_keywords": stats.CommonKeywords,
		"last_week_count": stats.LastWeekCount,
		"model_stats":     dh.modelService.Status(),
	})
}
