package routes

import (
	"net/http"
	"time"

	"hotelbook/handlers"
	"hotelbook/middleware"
	"hotelbook/services/navigation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers the views anyone may open.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET(navigation.LoginPath, hb.LoginPageHandler)
	r.POST(navigation.LoginPath, hb.LoginHandler)
	r.POST(navigation.RegisterPath, hb.RegisterHandler)
	r.POST("/logout", hb.LogoutHandler)

	r.GET(navigation.HomePath, hb.HomeHandler)
	r.GET(navigation.HomePath+"/search", hb.SearchHandler)
	r.GET(navigation.RoomsPath, hb.RoomsHandler)
	r.GET(navigation.FindBookingPath, hb.FindBookingHandler)
}

// RegisterCustomerRoutes registers the views that need a logged-in user.
func RegisterCustomerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	customer := r.Group("")
	customer.Use(middleware.RequireAuthenticated(hb.Session))
	{
		customer.GET(navigation.RoomDetailsPath, hb.RoomDetailsHandler)
		customer.POST(navigation.RoomDetailsPath, hb.BookRoomHandler)
		customer.GET(navigation.ProfilePath, hb.ProfileHandler)

		customer.GET(navigation.PaymentPath, hb.PaymentStartHandler)
		customer.POST(navigation.PaymentPath+"/outcome", hb.PaymentOutcomeHandler)
		customer.GET(navigation.PaymentSuccessPath, hb.PaymentSuccessHandler)
		customer.GET(navigation.PaymentFailedPath, hb.PaymentFailedHandler)
	}
}

// RegisterAdminRoutes registers the administration views.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group(navigation.AdminPath)
	adminGroup.Use(middleware.RequireAdmin(hb.Session))
	{
		adminGroup.GET("", hb.AdminDashboardHandler)
		adminGroup.POST("/add-room", hb.AddRoomHandler)
		adminGroup.PUT("/bookings", hb.UpdateBookingHandler)
		adminGroup.GET("/edit-room/:id", hb.EditRoomHandler)
		adminGroup.PUT("/edit-room/:id", hb.UpdateRoomHandler)
		adminGroup.DELETE("/edit-room/:id", hb.DeleteRoomHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Location", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterPublicRoutes(r, hb)
	RegisterCustomerRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
