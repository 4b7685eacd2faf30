package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"ecothreads/internal/adapters/http/middleware"
	"ecothreads/internal/adapters/http/routes"
	"ecothreads/internal/adapters/persistence/models"
	"ecothreads/internal/adapters/persistence/repositories"
	"ecothreads/internal/config"
	"ecothreads/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "ecothreads/docs" // Swagger docs
)

// @title EcoThreads API
// @version 1.0
// @description Clothing reuse marketplace API: list items, exchange them for items or eco points, or donate them.

// @contact.name API Support
// @contact.email support@ecothreads.io

// @host api.ecothreads.io
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}
	log.Println("Database migration completed")

	// Seed development data
	if err := config.SeedDatabase(db, cfg); err != nil {
		log.Printf("Warning: failed to seed database: %v", err)
	}

	// Scheduled maintenance jobs
	cronService := services.NewCronService(repositories.NewRefreshTokenRepository(db))
	if err := cronService.Start(); err != nil {
		log.Fatalf("Failed to start cron jobs: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "EcoThreads API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
