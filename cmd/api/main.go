package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mystickies/store-api/internal/cache"
	"github.com/mystickies/store-api/internal/config"
	"github.com/mystickies/store-api/internal/database"
	"github.com/mystickies/store-api/internal/handler"
	"github.com/mystickies/store-api/internal/middleware"
	"github.com/mystickies/store-api/internal/notify"
	"github.com/mystickies/store-api/internal/repository"
	"github.com/mystickies/store-api/internal/service"
	"github.com/mystickies/store-api/internal/utils"
)

// main is the application entrypoint for the store API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting store api")

	// 2a. Initialize JWT signing. Fails closed when the secret is missing.
	if err := utils.InitJWT(cfg.JWTSecret); err != nil {
		fmt.Fprintf(os.Stderr, "jwt initialization failed: %v\n", err)
		os.Exit(1)
	}

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize catalog cache
	catalogCache := cache.NewCatalogCache(redisClient)

	// 4. Initialize notification collaborators. Both are optional: the store
	// works without them, orders just go unannounced.
	var emailNotifier notify.EmailNotifier = notify.NoopEmailNotifier{}
	if cfg.SMTP.Enabled() {
		emailNotifier = notify.NewSMTPNotifier(cfg.SMTP)
		log.Info().Str("host", cfg.SMTP.Host).Msg("order emails enabled")
	}

	var whatsappNotifier notify.WhatsAppNotifier = notify.NoopWhatsAppNotifier{}
	if cfg.WhatsApp.Enabled() {
		bridge, err := notify.NewNATSWhatsAppBridge(cfg.WhatsApp)
		if err != nil {
			log.Warn().Err(err).Msg("whatsapp bridge initialization failed - order messages will be disabled")
		} else {
			defer bridge.Close()
			whatsappNotifier = bridge
			log.Info().Str("subject", cfg.WhatsApp.Subject).Msg("whatsapp bridge enabled")
		}
	}

	// 4a. Initialize image storage
	var imageStore service.ImageStore = service.NoopImageStore{}
	if cfg.Media.Enabled() {
		imageStore = service.NewMediaService(&cfg.Media)
		log.Info().Str("bucket", cfg.Media.Bucket).Msg("media offloading enabled")
	}

	// 5. Initialize repositories
	categoryRepo := repository.NewCategoryRepository(db)
	subCategoryRepo := repository.NewSubCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	// 6. Initialize services
	categorySvc := service.NewCategoryService(categoryRepo, catalogCache, imageStore)
	subCategorySvc := service.NewSubCategoryService(subCategoryRepo, categoryRepo, catalogCache, imageStore)
	productSvc := service.NewProductService(productRepo, categoryRepo, subCategoryRepo, catalogCache, imageStore)
	orderSvc := service.NewOrderService(orderRepo, productRepo, emailNotifier, whatsappNotifier)
	settingsSvc := service.NewSettingsService(settingsRepo, catalogCache)
	authSvc := service.NewAuthService(adminRepo)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:      handler.NewHealthHandler(db, redisClient),
		Category:    handler.NewCategoryHandler(categorySvc),
		SubCategory: handler.NewSubCategoryHandler(subCategorySvc),
		Product:     handler.NewProductHandler(productSvc),
		Order:       handler.NewOrderHandler(orderSvc),
		Settings:    handler.NewSettingsHandler(settingsSvc),
		Auth:        handler.NewAuthHandler(authSvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health      *handler.HealthHandler
	Category    *handler.CategoryHandler
	SubCategory *handler.SubCategoryHandler
	Product     *handler.ProductHandler
	Order       *handler.OrderHandler
	Settings    *handler.SettingsHandler
	Auth        *handler.AuthHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	api := router.Group("/api")

	router.GET("/", handlers.Health.GetHealth)
	api.GET("", handlers.Health.GetHealth)
	api.GET("/health", handlers.Health.GetHealth)

	// Public storefront routes
	api.GET("/categories", handlers.Category.List)
	api.GET("/categories/:id", handlers.Category.Get)
	api.GET("/subcategories", handlers.SubCategory.List)
	api.GET("/subcategories/:id", handlers.SubCategory.Get)
	api.GET("/products", handlers.Product.List)
	api.GET("/products/:id", handlers.Product.Get)
	api.GET("/settings", handlers.Settings.Get)
	api.POST("/orders", handlers.Order.Create)

	// Auth routes
	api.POST("/auth/register", handlers.Auth.Register)
	api.POST("/auth/login", handlers.Auth.Login)

	// Admin routes
	admin := api.Group("")
	admin.Use(jwtMiddleware.Handle())
	{
		admin.GET("/auth/me", handlers.Auth.Me)

		// Category management
		admin.POST("/categories", handlers.Category.Create)
		admin.PUT("/categories/:id", handlers.Category.Update)
		admin.DELETE("/categories/:id", handlers.Category.Delete)

		// Sub-category management
		admin.POST("/subcategories", handlers.SubCategory.Create)
		admin.PUT("/subcategories/:id", handlers.SubCategory.Update)
		admin.POST("/subcategories/:id/move", handlers.SubCategory.Move)
		admin.DELETE("/subcategories/:id", handlers.SubCategory.Delete)

		// Product management. The admin listing shares the public handler but
		// sees inactive products since the token identity is set.
		admin.GET("/admin/products", handlers.Product.List)
		admin.POST("/products", handlers.Product.Create)
		admin.PUT("/products/batch", handlers.Product.BatchUpdate)
		admin.PUT("/products/:id", handlers.Product.Update)
		admin.POST("/products/:id/move", handlers.Product.Move)
		admin.DELETE("/products/:id", handlers.Product.Delete)

		// Order management
		admin.GET("/orders", handlers.Order.List)
		admin.GET("/orders/:id", handlers.Order.Get)
		admin.PUT("/orders/:id", handlers.Order.Update)
		admin.DELETE("/orders/:id", handlers.Order.Delete)

		// Settings
		admin.PUT("/settings", handlers.Settings.Update)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
