package routes

import (
	"ecothreads/internal/adapters/http/handlers"
	"ecothreads/internal/adapters/http/middleware"
	"ecothreads/internal/adapters/persistence/repositories"
	"ecothreads/internal/config"
	"ecothreads/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	exchangeRepo := repositories.NewExchangeRepository(db)
	pointTxRepo := repositories.NewPointTransactionRepository(db)
	donationRepo := repositories.NewDonationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	itemService := services.NewItemService(itemRepo)
	userService := services.NewUserService(userRepo, itemService)
	pointsService := services.NewPointsService(db, pointTxRepo)
	exchangeService := services.NewExchangeService(db, exchangeRepo, itemService, pointsService)
	donationService := services.NewDonationService(db, donationRepo, itemService, pointsService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService, itemService)
	itemHandler := handlers.NewItemHandler(itemService)
	exchangeHandler := handlers.NewExchangeHandler(exchangeService)
	donationHandler := handlers.NewDonationHandler(donationService)
	pointsHandler := handlers.NewPointsHandler(pointsService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Check)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public, tighter rate limit)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, userHandler, cfg)

	// User routes
	userRoutes := apiV1.Group("/users")
	setupUserRoutes(userRoutes, userHandler, cfg)

	// Item routes (catalog reads are public)
	itemRoutes := apiV1.Group("/items")
	setupItemRoutes(itemRoutes, itemHandler, cfg)

	// Exchange routes
	exchangeRoutes := apiV1.Group("/exchanges")
	exchangeRoutes.Use(middleware.AuthMiddleware(cfg))
	setupExchangeRoutes(exchangeRoutes, exchangeHandler)

	// Donation routes
	donationRoutes := apiV1.Group("/donations")
	donationRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDonationRoutes(donationRoutes, donationHandler)

	// Point routes
	pointRoutes := apiV1.Group("/points")
	pointRoutes.Use(middleware.AuthMiddleware(cfg))
	setupPointRoutes(pointRoutes, pointsHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, userHandler *handlers.UserHandler, cfg *config.Config) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), userHandler.GetProfile)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user profile routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler, cfg *config.Config) {
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.GetProfile)
	router.Patch("/me", middleware.AuthMiddleware(cfg), handler.UpdateProfile)
	router.Get("/my-items", middleware.AuthMiddleware(cfg), handler.GetMyItems)
	// Public profile (fixed paths above must register first)
	router.Get("/:id", handler.GetPublicProfile)
}

// setupItemRoutes configures clothing item routes
func setupItemRoutes(router fiber.Router, handler *handlers.ItemHandler, cfg *config.Config) {
	// Catalog reads work without a login
	router.Get("/", middleware.OptionalAuth(cfg), handler.Browse)
	router.Get("/:id", handler.Get)

	router.Post("/", middleware.AuthMiddleware(cfg), handler.Create)
	router.Put("/:id", middleware.AuthMiddleware(cfg), handler.Update)
	router.Delete("/:id", middleware.AuthMiddleware(cfg), handler.Delete)
}

// setupExchangeRoutes configures exchange request routes
func setupExchangeRoutes(router fiber.Router, handler *handlers.ExchangeHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Post("/:id/accept", handler.Accept)
	router.Post("/:id/reject", handler.Reject)
}

// setupDonationRoutes configures donation routes
func setupDonationRoutes(router fiber.Router, handler *handlers.DonationHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
}

// setupPointRoutes configures eco point routes
func setupPointRoutes(router fiber.Router, handler *handlers.PointsHandler) {
	router.Get("/", handler.Balance)
	router.Get("/balance", handler.Balance)
	router.Get("/transactions", handler.Transactions)
}
