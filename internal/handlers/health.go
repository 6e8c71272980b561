package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teampulse/teampulse/internal/workers"
)

type HealthHandler struct {
	workerManager *workers.WorkerManager
}

func NewHealthHandler(workerManager *workers.WorkerManager) *HealthHandler {
	return &HealthHandler{
		workerManager: workerManager,
	}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"workers": h.workerManager.GetWorkerStatus(),
	})
}
