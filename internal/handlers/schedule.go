package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teampulse/teampulse/internal/services"
)

// ScheduleHandler serves the call-window calculator for the outbound
// calling workflow
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

// GetCallWindows handles GET /api/call-windows?timezone=...&days=...
func (h *ScheduleHandler) GetCallWindows(c *gin.Context) {
	timezone := c.DefaultQuery("timezone", "UTC")

	days := 5
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 30 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 30"})
			return
		}
		days = parsed
	}

	windows, err := h.scheduleService.Windows(time.Now(), timezone, days)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"timezone": timezone, "windows": windows})
}
