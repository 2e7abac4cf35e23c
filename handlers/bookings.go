package handlers

import (
	"context"
	"net/http"
	"strings"

	"hotelbook/models"
	"hotelbook/utils"

	"github.com/gin-gonic/gin"
)

// BookingAPI is the part of the booking service the booking and profile
// views use.
type BookingAPI interface {
	BookingByReference(ctx context.Context, reference string) (*models.Booking, error)
	Account(ctx context.Context) (*models.User, error)
	MyBookings(ctx context.Context) ([]models.Booking, error)
}

type BookingHandler struct {
	api BookingAPI
}

func NewBookingHandler(api BookingAPI) *BookingHandler {
	return &BookingHandler{api: api}
}

// FindBookingHandler looks a booking up by its reference. No login needed.
func (h *BookingHandler) FindBookingHandler(c *gin.Context) {
	reference := strings.TrimSpace(c.Query("reference"))
	if reference == "" {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Message: "Please enter a booking confirmation code"})
		return
	}
	booking, err := h.api.BookingByReference(c.Request.Context(), reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// ProfileHandler shows the account and its bookings.
func (h *BookingHandler) ProfileHandler(c *gin.Context) {
	user, err := h.api.Account(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	bookings, err := h.api.MyBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "bookings": bookings})
}
