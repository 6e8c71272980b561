package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teampulse/teampulse/internal/models"
	"github.com/teampulse/teampulse/internal/repositories"
)

// LeadHandler captures sales leads from the booking flow. Delivery to the
// CRM happens out of band via the leadsync command.
type LeadHandler struct {
	leadRepo *repositories.LeadRepository
}

func NewLeadHandler(leadRepo *repositories.LeadRepository) *LeadHandler {
	return &LeadHandler{
		leadRepo: leadRepo,
	}
}

// CreateLead handles POST /api/leads
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req struct {
		Name   string `json:"name" binding:"required"`
		Email  string `json:"email" binding:"required"`
		Phone  string `json:"phone"`
		Source string `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
		return
	}

	lead := models.NewLead(req.Name, req.Email, req.Phone, req.Source)
	if err := h.leadRepo.Create(lead); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save lead"})
		return
	}

	c.JSON(http.StatusCreated, lead)
}
