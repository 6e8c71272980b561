package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teampulse/teampulse/internal/models"
	"github.com/teampulse/teampulse/internal/services"
)

// DashboardHandler serves the monthly statistics API the dashboard UI
// renders from
type DashboardHandler struct {
	teamService         *services.TeamService
	monthlyStatsService *services.MonthlyStatsService
	aggregationService  *services.AggregationService
	exportService       *services.ExportService
}

func NewDashboardHandler(
	teamService *services.TeamService,
	monthlyStatsService *services.MonthlyStatsService,
	aggregationService *services.AggregationService,
	exportService *services.ExportService,
) *DashboardHandler {
	return &DashboardHandler{
		teamService:         teamService,
		monthlyStatsService: monthlyStatsService,
		aggregationService:  aggregationService,
		exportService:       exportService,
	}
}

// ListMonths handles GET /api/teams/:id/months
func (h *DashboardHandler) ListMonths(c *gin.Context) {
	teamID := c.Param("id")
	if _, err := h.teamService.GetTeamByID(teamID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
		return
	}

	months, err := h.monthlyStatsService.ListMonths(teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list months"})
		return
	}

	formatted := make([]string, 0, len(months))
	for _, month := range months {
		formatted = append(formatted, month.Format("2006-01"))
	}

	c.JSON(http.StatusOK, gin.H{"months": formatted})
}

// GetMonth handles GET /api/teams/:id/stats/:month
func (h *DashboardHandler) GetMonth(c *gin.Context) {
	record, ok := h.lookupRecord(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, record)
}

// ExportMonth handles GET /api/teams/:id/stats/:month/export
func (h *DashboardHandler) ExportMonth(c *gin.Context) {
	record, ok := h.lookupRecord(c)
	if !ok {
		return
	}

	buf, err := h.exportService.MonthlyReport(record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	filename := fmt.Sprintf("contributions-%s.xlsx", record.MonthStart.Format("2006-01"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// GetContributor handles GET /api/teams/:id/stats/:month/contributors/:contributor_id
func (h *DashboardHandler) GetContributor(c *gin.Context) {
	record, ok := h.lookupRecord(c)
	if !ok {
		return
	}

	contributor, exists := record.Stats.Contributors[c.Param("contributor_id")]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "no activity for contributor this month"})
		return
	}

	c.JSON(http.StatusOK, contributor)
}

// UpdateContributorUsage handles
// PUT /api/teams/:id/stats/:month/contributors/:contributor_id/usage.
// The external usage feed is the only writer of tabs and premium request
// counters; scores are recomputed since both are scoring inputs.
func (h *DashboardHandler) UpdateContributorUsage(c *gin.Context) {
	teamID := c.Param("id")
	monthStart, err := parseMonth(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be formatted YYYY-MM"})
		return
	}
	if _, err := h.teamService.GetTeamByID(teamID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
		return
	}

	var req struct {
		Login           string `json:"login"`
		Tabs            int    `json:"tabs"`
		PremiumRequests int    `json:"premium_requests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	unlock := h.monthlyStatsService.LockMonth(teamID, monthStart)
	defer unlock()

	record, err := h.monthlyStatsService.GetOrCreate(teamID, monthStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load record"})
		return
	}

	if err := h.aggregationService.SetContributorUsage(record, c.Param("contributor_id"), req.Login, req.Tabs, req.PremiumRequests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update usage"})
		return
	}

	if err := h.monthlyStatsService.Save(record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save record"})
		return
	}

	c.JSON(http.StatusOK, record.Stats.Contributors[c.Param("contributor_id")])
}

// lookupRecord resolves the team and month path params to a stored record
func (h *DashboardHandler) lookupRecord(c *gin.Context) (*models.MonthlyRecord, bool) {
	teamID := c.Param("id")
	monthStart, err := parseMonth(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be formatted YYYY-MM"})
		return nil, false
	}

	if _, err := h.teamService.GetTeamByID(teamID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
		return nil, false
	}

	rec, err := h.monthlyStatsService.GetByTeamAndMonth(teamID, monthStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load record"})
		return nil, false
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no statistics for this month"})
		return nil, false
	}

	return rec, true
}

// parseMonth parses a YYYY-MM path segment into a month start
func parseMonth(value string) (time.Time, error) {
	return time.Parse("2006-01", value)
}
