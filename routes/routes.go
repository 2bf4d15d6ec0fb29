package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"staybook-backend/controllers"
	"staybook-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	ac *controllers.AuthController,
	hc *controllers.HotelController,
	avc *controllers.AvailabilityController,
	bc *controllers.BookingController,
	lc *controllers.LoyaltyController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.Register)
			auth.POST("/login", ac.Login)
		}

		hotels := api.Group("/hotels")
		{
			hotels.GET("", hc.GetHotels)
			hotels.GET("/:id", hc.GetHotelByID)
			hotels.GET("/:id/availability", avc.CheckAvailability)
		}

		// Booking creation and lookup allow anonymous guests; the identity,
		// when present, selects the validation policy and ownership.
		bookings := api.Group("/bookings", middleware.OptionalAuth())
		{
			bookings.POST("", bc.CreateBooking)
			bookings.GET("", bc.GetBookings)
			bookings.GET("/:id", bc.GetBooking)
			bookings.POST("/:id/payment", bc.ProcessPayment)
			bookings.POST("/:id/cancel", bc.CancelBooking)
		}

		loyalty := api.Group("/loyalty", middleware.RequireAuth())
		{
			loyalty.GET("/account", lc.GetAccount)
			loyalty.GET("/transactions", lc.GetTransactions)
		}
	}

	return r
}
