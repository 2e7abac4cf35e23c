package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hotelbook/models"
	"hotelbook/services/search"
	"hotelbook/utils"

	"github.com/gin-gonic/gin"
)

// RoomAPI is the part of the booking service the room views use.
type RoomAPI interface {
	search.RoomCatalog
	AllRooms(ctx context.Context) ([]models.Room, error)
	Room(ctx context.Context, id int64) (*models.Room, error)
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Response, error)
}

type RoomHandler struct {
	api         RoomAPI
	noticeDelay time.Duration
}

func NewRoomHandler(api RoomAPI, noticeDelay time.Duration) *RoomHandler {
	return &RoomHandler{api: api, noticeDelay: noticeDelay}
}

// HomeHandler serves the landing view with the room type vocabulary.
func (h *RoomHandler) HomeHandler(c *gin.Context) {
	s := search.New(h.api, nil, search.NewNotice(h.noticeDelay), getLogger(c))
	c.JSON(http.StatusOK, gin.H{"view": "home", "roomTypes": s.RoomTypes(c.Request.Context())})
}

// SearchHandler runs an availability search. Each request is its own search
// surface.
func (h *RoomHandler) SearchHandler(c *gin.Context) {
	checkIn, errIn := search.ParseDate(c.Query("checkIn"))
	checkOut, errOut := search.ParseDate(c.Query("checkOut"))
	if errIn != nil || errOut != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Message: search.MissingFieldsMessage})
		return
	}

	var rooms []models.Room
	s := search.New(h.api, func(found []models.Room) { rooms = found }, search.NewNotice(h.noticeDelay), getLogger(c))
	err := s.Run(c.Request.Context(), search.Criteria{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		RoomType: c.Query("roomType"),
	})
	switch {
	case errors.Is(err, search.ErrNotAvailable):
		c.JSON(http.StatusOK, gin.H{"rooms": []models.Room{}, "message": search.NotAvailableMessage})
	case err != nil:
		respondError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"rooms": rooms})
	}
}

// RoomsHandler lists all rooms, optionally narrowed to one type.
func (h *RoomHandler) RoomsHandler(c *gin.Context) {
	rooms, err := h.api.AllRooms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if roomType := c.Query("type"); roomType != "" {
		filtered := make([]models.Room, 0, len(rooms))
		for _, r := range rooms {
			if strings.EqualFold(r.Type, roomType) {
				filtered = append(filtered, r)
			}
		}
		rooms = filtered
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (h *RoomHandler) RoomDetailsHandler(c *gin.Context) {
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

type bookRoomBody struct {
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
}

// BookRoomHandler books the room for the given dates.
func (h *RoomHandler) BookRoomHandler(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	var body bookRoomBody
	_ = c.ShouldBindJSON(&body)

	req := models.BookingRequest{RoomID: id, CheckInDate: body.CheckInDate, CheckOutDate: body.CheckOutDate}
	if err := utils.ValidateStruct(req, "Please select check-in and check-out dates"); err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.api.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          resp.Message,
		"bookingReference": bookingReference(resp),
		"booking":          resp.Booking,
	})
}

func bookingReference(resp *models.Response) string {
	if resp.BookingReference != "" {
		return resp.BookingReference
	}
	if resp.Booking != nil {
		return resp.Booking.BookingReference
	}
	return ""
}

func roomID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Message: "Invalid room id"})
		return 0, false
	}
	return id, true
}
