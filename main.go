package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"staybook-backend/config"
	"staybook-backend/controllers"
	"staybook-backend/gateway"
	"staybook-backend/routes"
	"staybook-backend/services"
	"staybook-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied.")

	// External collaborators
	paymentGateway := gateway.NewMockGateway(200 * time.Millisecond)
	invalidator := utils.NewCacheInvalidator(os.Getenv("CACHE_INVALIDATE_URL"))

	// Services
	availabilityService := services.NewAvailabilityService(db)
	loyaltyService := services.NewLoyaltyService(db)
	refundService := services.NewRefundService(db, paymentGateway)
	bookingService := services.NewBookingService(db, loyaltyService, refundService, paymentGateway, invalidator)

	// Controllers
	authController := controllers.NewAuthController(db)
	hotelController := controllers.NewHotelController(db)
	availabilityController := controllers.NewAvailabilityController(availabilityService)
	bookingController := controllers.NewBookingController(bookingService)
	loyaltyController := controllers.NewLoyaltyController(loyaltyService)

	router := routes.SetupRouter(authController, hotelController, availabilityController, bookingController, loyaltyController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
