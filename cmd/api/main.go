package main

import (
	"log"
	"os"
	"time"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/database"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/handlers"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/ledger"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/middleware"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/services"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/settlement"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	// Initialize database with better error handling
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	notifier := services.NewNotifier(hub)

	// Engine wiring: ledger store, reconciler, settlement processor
	store := ledger.NewStore(db)
	reconciler := ledger.NewReconciler(db, store)
	processor := settlement.NewProcessor(db)

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve static files
	r.Static("/uploads", "/app/uploads")

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Vehicle routes
			vehicles := protected.Group("/vehicles")
			{
				vehicles.POST("", handlers.CreateVehicle(db))
				vehicles.GET("", handlers.GetVehicles(db))
				vehicles.GET("/:id", handlers.GetVehicle(db))
				vehicles.GET("/:id/slab", handlers.GetVehicleSlab(db))
				vehicles.POST("/:id/documents", handlers.UploadVehicleDocument(db))
			}
			protected.GET("/slabs", handlers.GetSlabTable())

			// Driver routes
			drivers := protected.Group("/drivers")
			{
				drivers.POST("", handlers.CreateDriver(db))
				drivers.GET("", handlers.GetDrivers(db))
				drivers.PUT("/:id", handlers.UpdateDriver(db))
			}

			// Trip routes
			trips := protected.Group("/trips")
			{
				trips.POST("", handlers.CreateTrip(db, reconciler, processor, notifier))
				trips.GET("", handlers.GetTrips(db))
				trips.DELETE("/:id", handlers.DeleteTrip(db, reconciler, processor, notifier))
				trips.GET("/:id/rent-status", handlers.GetRentStatus(reconciler, notifier))
			}

			// Substitute driver routes
			substitutes := protected.Group("/substitutes")
			{
				substitutes.POST("", handlers.CreateSubstituteDriver(db, processor, notifier))
				substitutes.GET("", handlers.GetSubstituteDrivers(db))
				substitutes.DELETE("/:id", handlers.DeleteSubstituteDriver(db, processor, notifier))
			}

			// Rent ledger routes
			rentLedger := protected.Group("/ledger")
			{
				rentLedger.GET("", handlers.GetRentLedger(store))
				rentLedger.PATCH("/:id/paid", handlers.MarkRentPaid(store, notifier))
				rentLedger.POST("/repair", handlers.RepairLedger(reconciler, notifier))
			}

			// Settlement routes
			settlements := protected.Group("/settlements")
			{
				settlements.GET("", handlers.GetSettlements(db))
				settlements.GET("/vehicle/:vehicleId/status", handlers.GetWeekStatus(processor))
				settlements.POST("/vehicle/:vehicleId/process", handlers.ProcessSettlement(processor, notifier))
				settlements.POST("/process-all", handlers.ProcessAllSettlements(processor, notifier))
				settlements.PATCH("/:id/paid", handlers.MarkSettlementPaid(processor, notifier))
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
