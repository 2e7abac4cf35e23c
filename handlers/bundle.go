package handlers

import (
	"hotelbook/services/navigation"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the web shell's endpoint handlers into one struct.
type HandlerBundle struct {
	// Session backs the route guards.
	Session navigation.Predicates

	// Auth endpoints
	LoginPageHandler gin.HandlerFunc
	LoginHandler     gin.HandlerFunc
	RegisterHandler  gin.HandlerFunc
	LogoutHandler    gin.HandlerFunc

	// Room endpoints
	HomeHandler        gin.HandlerFunc
	SearchHandler      gin.HandlerFunc
	RoomsHandler       gin.HandlerFunc
	RoomDetailsHandler gin.HandlerFunc
	BookRoomHandler    gin.HandlerFunc

	// Booking endpoints
	FindBookingHandler gin.HandlerFunc
	ProfileHandler     gin.HandlerFunc

	// Payment endpoints
	PaymentStartHandler   gin.HandlerFunc
	PaymentOutcomeHandler gin.HandlerFunc
	PaymentSuccessHandler gin.HandlerFunc
	PaymentFailedHandler  gin.HandlerFunc

	// Admin endpoints
	AdminDashboardHandler gin.HandlerFunc
	EditRoomHandler       gin.HandlerFunc
	AddRoomHandler        gin.HandlerFunc
	UpdateRoomHandler     gin.HandlerFunc
	DeleteRoomHandler     gin.HandlerFunc
	UpdateBookingHandler  gin.HandlerFunc
}
