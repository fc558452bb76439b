package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oneirolabs/dream-backend/internal/logger"
	"github.com/oneirolabs/dream-backend/internal/services"
)

// ModelHandler exposes the orchestrator's introspection and maintenance
// operations.
type ModelHandler struct {
	log          *logger.Logger
	modelService services.ModelService
}

func NewModelHandler(log *logger.Logger, modelService services.ModelService) *ModelHandler {
	return &ModelHandler{
		log:          log.With("handler", "ModelHandler"),
		modelService: modelService,
	}
}

func (mh *ModelHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, mh.modelService.Status())
}

func (mh *ModelHandler) ClearCache(c *gin.Context) {
	count := mh.modelService.ClearCache()
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Cleared %d entries from cache", count),
		"count":   count,
	})
}

// ReloadModels re-runs synchronous initialization and blocks until every
// backend has finished loading.
func (mh *ModelHandler) ReloadModels(c *gin.Context) {
	mh.modelService.Reload(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Models reloaded successfully"})
}
