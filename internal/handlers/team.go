package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teampulse/teampulse/internal/services"
)

type TeamHandler struct {
	teamService *services.TeamService
	jobService  *services.JobService
}

func NewTeamHandler(teamService *services.TeamService, jobService *services.JobService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		jobService:  jobService,
	}
}

// ListTeams handles GET /api/teams
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamService.GetAllTeams()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list teams"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// CreateTeam handles POST /api/teams
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
		Slug string `json:"slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	team, err := h.teamService.CreateTeam(req.Name, req.Slug)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, team)
}

// GetTeam handles GET /api/teams/:id
func (h *TeamHandler) GetTeam(c *gin.Context) {
	team, err := h.teamService.GetTeamByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
		return
	}

	repos, err := h.teamService.GetTeamRepositories(team.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load repositories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"team": team, "repositories": repos})
}

// DeleteTeam handles DELETE /api/teams/:id
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	if err := h.teamService.DeleteTeam(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// AttachRepository handles POST /api/teams/:id/repositories
func (h *TeamHandler) AttachRepository(c *gin.Context) {
	var req struct {
		Owner string `json:"owner" binding:"required"`
		Name  string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner and name are required"})
		return
	}

	teamRepo, err := h.teamService.AttachRepository(c.Request.Context(), c.Param("id"), req.Owner, req.Name)
	if err == services.ErrTeamNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, teamRepo)
}

// SyncTeam handles POST /api/teams/:id/sync
func (h *TeamHandler) SyncTeam(c *gin.Context) {
	teamID := c.Param("id")
	if _, err := h.teamService.GetTeamByID(teamID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
		return
	}

	teamRepos, err := h.teamService.GetTeamRepositories(teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load repositories"})
		return
	}

	jobs, err := h.jobService.EnqueueTeamSync(teamID, teamRepos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue sync"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"jobs": jobs})
}

// ListJobs handles GET /api/teams/:id/jobs
func (h *TeamHandler) ListJobs(c *gin.Context) {
	jobs, err := h.jobService.GetJobsByTeamID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}
