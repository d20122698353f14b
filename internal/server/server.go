// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ripple/internal/cache"
	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	followRepo  repository.FollowRepository
	postRepo    repository.PostRepository
	hashTagRepo repository.HashTagRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	tokenRepo   repository.TokenRepository

	userService    *service.UserService
	tokenService   *service.TokenService
	profileService *service.ProfileService
	followService  *service.FollowService
	postService    *service.PostService
	hashTagService *service.HashTagService
	commentService *service.CommentService
	likeService    *service.LikeService
	mediaService   *service.MediaService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Use this in tests or when a bootstrap layer establishes
// DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("ripple-api"),
		userRepo:       repository.NewUserRepository(db),
		profileRepo:    repository.NewProfileRepository(db),
		followRepo:     repository.NewFollowRepository(db),
		postRepo:       repository.NewPostRepository(db),
		hashTagRepo:    repository.NewHashTagRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		likeRepo:       repository.NewLikeRepository(db),
		tokenRepo:      repository.NewTokenRepository(db),
	}

	server.userService = service.NewUserService(server.userRepo, server.profileRepo)
	server.tokenService = service.NewTokenService(
		server.tokenRepo, server.userRepo,
		cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	server.profileService = service.NewProfileService(server.profileRepo, server.followRepo, server.postRepo, server.userRepo)
	server.followService = service.NewFollowService(server.followRepo, server.userRepo)
	server.postService = service.NewPostService(server.postRepo, server.profileRepo, server.hashTagRepo)
	server.hashTagService = service.NewHashTagService(server.hashTagRepo)
	server.commentService = service.NewCommentService(server.commentRepo, server.postRepo)
	server.likeService = service.NewLikeService(server.likeRepo, server.postRepo)
	server.mediaService = service.NewMediaService(cfg.MediaRoot, service.DefaultMaxUploadSizeMB)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry spans per request
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. the
	// limiter) so browser clients still receive CORS headers on errors.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Media files (uploaded images)
	mediaRoot := s.config.MediaRoot
	if mediaRoot == "" {
		mediaRoot = service.DefaultMediaRoot
	}
	app.Static("/media", mediaRoot)

	// Account and session routes
	user := api.Group("/user")
	user.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	user.Post("/token", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "token"), s.ObtainToken)
	user.Post("/token/refresh", s.RefreshToken)
	user.Post("/token/verify", s.VerifyToken)
	user.Post("/logout", s.AuthRequired(), s.Logout)
	user.Post("/logout_all", s.AuthRequired(), s.LogoutAll)

	user.Get("/me", s.AuthRequired(), s.GetMe)
	user.Put("/me", s.AuthRequired(), s.UpdateMe)
	user.Patch("/me", s.AuthRequired(), s.UpdateMe)

	// Profile routes: reads are open, writes require authentication.
	profiles := user.Group("/user_profiles")
	profiles.Get("/", s.ListProfiles)
	profiles.Post("/", s.AuthRequired(), s.CreateProfile)
	profiles.Post("/:id/upload-image", s.AuthRequired(), s.UploadProfileImage)
	profiles.Get("/:id", s.GetProfile)
	profiles.Put("/:id", s.AuthRequired(), s.UpdateProfile)
	profiles.Patch("/:id", s.AuthRequired(), s.UpdateProfile)
	profiles.Delete("/:id", s.AuthRequired(), s.DeleteProfile)

	// Follow routes
	follows := user.Group("/user_profile_follows")
	follows.Get("/", s.ListFollows)
	follows.Post("/", s.AuthRequired(), s.CreateFollow)
	follows.Get("/:id", s.GetFollow)
	follows.Delete("/:id", s.AuthRequired(), s.DeleteFollow)

	// Content routes
	social := api.Group("/social")

	hashTags := social.Group("/hash_tags")
	hashTags.Get("/", s.ListHashTags)
	hashTags.Post("/", s.AuthRequired(), s.CreateHashTag)
	hashTags.Get("/:id", s.GetHashTag)
	hashTags.Put("/:id", s.AuthRequired(), s.UpdateHashTag)
	hashTags.Patch("/:id", s.AuthRequired(), s.UpdateHashTag)
	hashTags.Delete("/:id", s.AuthRequired(), s.DeleteHashTag)

	posts := social.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Post("/", s.AuthRequired(), s.CreatePost)
	posts.Post("/:id/upload-image", s.AuthRequired(), s.UploadPostImage)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.AuthRequired(), s.UpdatePost)
	posts.Patch("/:id", s.AuthRequired(), s.UpdatePost)
	posts.Delete("/:id", s.AuthRequired(), s.DeletePost)

	comments := social.Group("/comments")
	comments.Get("/", s.ListComments)
	comments.Post("/", s.AuthRequired(), s.CreateComment)
	comments.Get("/:id", s.GetComment)
	comments.Put("/:id", s.AuthRequired(), s.UpdateComment)
	comments.Patch("/:id", s.AuthRequired(), s.UpdateComment)
	comments.Delete("/:id", s.AuthRequired(), s.DeleteComment)

	likes := social.Group("/likes")
	likes.Get("/", s.ListLikes)
	likes.Post("/", s.AuthRequired(), s.CreateLike)
	likes.Get("/:id", s.GetLike)
	likes.Delete("/:id", s.AuthRequired(), s.DeleteLike)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is an optional acceleration layer; readiness only requires
	// the database.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. The blacklist is
// consulted on every request, so revocation takes effect immediately.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		claims, err := s.tokenService.Verify(c.Context(), parts[1], models.TokenTypeAccess)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}

		// Store user ID in context
		c.Locals("userID", claims.UserID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, claims.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// optionalUserID extracts the caller from the Authorization header but
// does not enforce it. Anonymous callers get the zero id.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0
	}
	claims, err := s.tokenService.Verify(c.Context(), parts[1], models.TokenTypeAccess)
	if err != nil {
		return 0
	}
	return claims.UserID
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Ripple API",
		BodyLimit: 12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
