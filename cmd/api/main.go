package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/addressbook/addressbook-backend/internal/config"
	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/dafibh/addressbook/addressbook-backend/internal/handler"
	"github.com/dafibh/addressbook/addressbook-backend/internal/middleware"
	"github.com/dafibh/addressbook/addressbook-backend/internal/repository/postgres"
	"github.com/dafibh/addressbook/addressbook-backend/internal/repository/sqlite"
	"github.com/dafibh/addressbook/addressbook-backend/internal/repository/storage"
	"github.com/dafibh/addressbook/addressbook-backend/internal/service"
	"github.com/dafibh/addressbook/addressbook-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Address Book API
// @version 1.0
// @description Contacts address book with Auth0 authentication and keyset pagination.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the Auth0 access token.
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Connect to database and initialize repositories
	contactRepo, userRepo, closeDB := openRepositories(ctx, cfg)
	defer closeDB()

	// Image storage
	imageRepo, err := openImageStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image storage")
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub()

	// Initialize services
	imageService := service.NewImageService(imageRepo)
	contactService := service.NewContactService(contactRepo, imageService)
	contactService.SetEventPublisher(hub)
	userService := service.NewUserService(userRepo, contactService)

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, userService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create websocket token validator")
	}

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Initialize handlers
	contactHandler := handler.NewContactHandler(contactService)
	userHandler := handler.NewUserHandler(userService)
	imageHandler := handler.NewImageHandler(imageService)
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Uploaded images are capped by the image service; leave room for form fields
	e.Use(echomiddleware.BodyLimit("6M"))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, contactHandler, userHandler, imageHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openRepositories connects to PostgreSQL when DATABASE_URL is a postgres URL
// and to a SQLite file otherwise
func openRepositories(ctx context.Context, cfg *config.Config) (domain.ContactRepository, domain.UserRepository, func()) {
	if cfg.UsePostgres() {
		pool, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		return postgres.NewContactRepository(pool), postgres.NewUserRepository(pool), pool.Close
	}

	db, err := sqlite.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabaseURL).Msg("Failed to open database")
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}
	return sqlite.NewContactRepository(db), sqlite.NewUserRepository(db), closeDB
}

// openImageStorage selects S3 when a bucket is configured and the upload directory otherwise
func openImageStorage(ctx context.Context, cfg *config.Config) (storage.ImageRepository, error) {
	if cfg.S3.Enabled() {
		repo, err := storage.NewS3ImageRepository(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Storing images in S3")
		return repo, nil
	}

	repo, err := storage.NewLocalImageRepository(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	log.Info().Str("dir", cfg.UploadDir).Msg("Storing images on disk")
	return repo, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("auth0_id", middleware.GetAuth0ID(c)).
				Msg("request")

			return nil
		}
	}
}
