package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/np-nandanpatil/vehicle-breakdown-assistance/internal/database"
	"github.com/np-nandanpatil/vehicle-breakdown-assistance/internal/handlers"
	"github.com/np-nandanpatil/vehicle-breakdown-assistance/internal/middleware"
	"github.com/np-nandanpatil/vehicle-breakdown-assistance/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// WebSocket hub, fed by the Redis booking-updates channel so updates
	// reach clients connected to any instance
	hub := services.NewHub()
	go hub.Run()
	go forwardBookingUpdates(hub)

	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	r.Static("/uploads", "./uploads")

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// Public catalog and booking tracking
		api.GET("/services", handlers.GetServices(db))
		api.GET("/services/:id", handlers.GetService(db))
		api.GET("/bookings/:reference", handlers.GetBookingByReference(db))

		// Live booking updates
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
				users.POST("/profile/image", handlers.UploadProfileImage(db))
			}

			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(db))
				bookings.GET("/user/bookings", handlers.GetUserBookings(db))
				bookings.PATCH("/:id/status",
					middleware.RequirePermission("bookings:update-status"),
					handlers.UpdateBookingStatus(db, hub))
				bookings.POST("/:id/rate", handlers.RateBooking(db))
			}

			catalog := protected.Group("/services")
			{
				catalog.POST("", middleware.RequirePermission("services:create"), handlers.CreateService(db))
				catalog.PUT("/:id", middleware.RequirePermission("services:update"), handlers.UpdateService(db))
				catalog.DELETE("/:id", middleware.RequirePermission("services:delete"), handlers.DeleteService(db))
			}

			admin := protected.Group("/admin")
			{
				admin.GET("/stats", middleware.RequirePermission("admin:stats"), handlers.GetStats(db))
				admin.GET("/bookings", middleware.RequirePermission("admin:list-bookings"), handlers.GetAllBookings(db))
				admin.PATCH("/bookings/:id/assign", middleware.RequirePermission("admin:assign-operator"), handlers.AssignOperator(db, hub))
				admin.GET("/users", middleware.RequirePermission("admin:list-users"), handlers.GetUsers(db))
				admin.PATCH("/users/:id/toggle", middleware.RequirePermission("admin:toggle-user"), handlers.ToggleUserStatus(db))
				admin.GET("/analytics/revenue", middleware.RequirePermission("admin:revenue-analytics"), handlers.GetRevenueAnalytics(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// forwardBookingUpdates bridges the Redis pub/sub channel into the local hub
func forwardBookingUpdates(hub *services.Hub) {
	pubsub := services.SubscribeBookingUpdates(context.Background())
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var update services.BookingUpdate
		if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
			log.Printf("Error unmarshaling booking update: %v", err)
			continue
		}
		hub.BroadcastBookingUpdate(update)
	}
}
