package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"hotelbook/models"
	"hotelbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxImageSize bounds an uploaded room image.
const maxImageSize = 10 << 20

// AdminAPI is the part of the booking service the admin views use.
type AdminAPI interface {
	AllRooms(ctx context.Context) ([]models.Room, error)
	Room(ctx context.Context, id int64) (*models.Room, error)
	AllBookings(ctx context.Context) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, update models.BookingUpdate) (*models.Response, error)
	AddRoom(ctx context.Context, form models.RoomForm) (*models.Response, error)
	UpdateRoom(ctx context.Context, form models.RoomForm) (*models.Response, error)
	DeleteRoom(ctx context.Context, id int64) error
}

type AdminHandler struct {
	api AdminAPI
}

func NewAdminHandler(api AdminAPI) *AdminHandler {
	return &AdminHandler{api: api}
}

// DashboardHandler lists every room and booking.
func (h *AdminHandler) DashboardHandler(c *gin.Context) {
	rooms, err := h.api.AllRooms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	bookings, err := h.api.AllBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms, "bookings": bookings})
}

func (h *AdminHandler) EditRoomHandler(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	room, err := h.api.Room(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

func (h *AdminHandler) AddRoomHandler(c *gin.Context) {
	form, err := readRoomForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Message: "Invalid room form", Details: err.Error()})
		return
	}
	if form.Type == "" || form.PricePerNight <= 0 || form.Capacity <= 0 {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Message: "Please fill all input"})
		return
	}
	resp, err := h.api.AddRoom(c.Request.Context(), form)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("room added", zap.String("type", form.Type))
	c.JSON(http.StatusOK, gin.H{"message": resp.Message})
}

func (h *AdminHandler) UpdateRoomHandler(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	form, err := readRoomForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Message: "Invalid room form", Details: err.Error()})
		return
	}
	form.ID = id
	resp, err := h.api.UpdateRoom(c.Request.Context(), form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": resp.Message})
}

func (h *AdminHandler) DeleteRoomHandler(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	if err := h.api.DeleteRoom(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("room deleted", zap.Int64("roomId", id))
	c.JSON(http.StatusOK, redirectBody{Message: "Room deleted", Redirect: "/admin"})
}

func (h *AdminHandler) UpdateBookingHandler(c *gin.Context) {
	var update models.BookingUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Message: "Invalid booking update", Details: err.Error()})
		return
	}
	if err := utils.ValidateStruct(update, "Please select a booking"); err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.api.UpdateBooking(c.Request.Context(), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": resp.Message})
}

// readRoomForm reads the multipart room fields. Absent numbers stay zero.
func readRoomForm(c *gin.Context) (models.RoomForm, error) {
	var form models.RoomForm
	var err error
	if form.RoomNumber, err = formInt(c, "roomNumber"); err != nil {
		return form, err
	}
	if form.Capacity, err = formInt(c, "capacity"); err != nil {
		return form, err
	}
	if v := c.PostForm("pricePerNight"); v != "" {
		if form.PricePerNight, err = strconv.ParseFloat(v, 64); err != nil {
			return form, fmt.Errorf("pricePerNight: %w", err)
		}
	}
	form.Type = c.PostForm("type")
	form.Description = c.PostForm("description")

	header, err := c.FormFile("imageFile")
	if err == http.ErrMissingFile || err == http.ErrNotMultipart {
		return form, nil
	}
	if err != nil {
		return form, err
	}
	if header.Size > maxImageSize {
		return form, fmt.Errorf("image larger than %d bytes", maxImageSize)
	}
	f, err := header.Open()
	if err != nil {
		return form, err
	}
	defer f.Close()
	if form.Image, err = io.ReadAll(f); err != nil {
		return form, err
	}
	form.ImageName = header.Filename
	return form, nil
}

func formInt(c *gin.Context, field string) (int, error) {
	v := c.PostForm(field)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return n, nil
}
