package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teampulse/teampulse/internal/services"
	"github.com/teampulse/teampulse/pkg/logger"
)

// BookingHandler proxies booking requests to the browser automation service
type BookingHandler struct {
	bookingService *services.BookingService
}

func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// CreateBooking handles POST /api/booking
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req services.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking request"})
		return
	}
	if req.Email == "" || req.SlotStart == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and slot_start are required"})
		return
	}

	status, body, err := h.bookingService.Book(c.Request.Context(), &req)
	if err != nil {
		logger.WithError(err).Error("Booking forwarding failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "booking service unavailable"})
		return
	}

	// Best effort: the automation service's verdict is passed through
	c.Data(status, "application/json", body)
}
