package app

import (
	"log"
	"time"

	"github.com/argeoalecha/hayahai-web-sub001/internal/config"
	"github.com/argeoalecha/hayahai-web-sub001/internal/middleware"
	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
	"github.com/argeoalecha/hayahai-web-sub001/internal/repository"
	"github.com/argeoalecha/hayahai-web-sub001/internal/service"
	"github.com/argeoalecha/hayahai-web-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	// Set Gin mode
	if cfg.ServerPort == "5000" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware(cfg.ClientURL))

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}

	// Auto migrate
	if err := db.AutoMigrate(&model.User{}, &model.Post{}, &model.Comment{}, &model.AuditLog{}); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	// Initialize Redis with retry logic
	redisClient := initRedisWithRetry(cfg)

	// Initialize RabbitMQ with retry logic
	rabbitMQ := initRabbitMQWithRetry(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db, redisClient)
	auditRepo := repository.NewAuditRepository(db)

	// Initialize services
	auditService := service.NewAuditService(auditRepo, rabbitMQ)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	postService := service.NewPostService(postRepo)
	commentService := service.NewCommentService(commentRepo, postRepo, auditService)
	moderationService := service.NewModerationService(commentRepo, auditService)

	// Initialize audit worker if RabbitMQ is available
	if rabbitMQ != nil {
		auditWorker := service.NewAuditWorker(auditRepo, rabbitMQ)
		if err := auditWorker.Start(); err != nil {
			log.Printf("Warning: Failed to start audit worker: %v", err)
		} else {
			log.Println("Audit worker started successfully")
		}
	} else {
		log.Println("Audit worker not started - RabbitMQ connection failed. Audit events will be written directly.")
	}

	// Initialize handlers
	authHandler := NewAuthHandler(authService)
	postHandler := NewPostHandler(postService)
	commentHandler := NewCommentHandler(commentService)
	moderationHandler := NewModerationHandler(moderationService, commentService)
	auditHandler := NewAuditHandler(auditService)

	// Per-operation-class rate limiters
	var readLimit, writeLimit, moderateLimit gin.HandlerFunc
	if cfg.RateLimitEnabled {
		readLimit = middleware.NewRateLimiter(cfg.ReadRateRPS, cfg.ReadRateBurst).Middleware()
		writeLimit = middleware.NewRateLimiter(cfg.WriteRateRPS, cfg.WriteRateBurst).Middleware()
		moderateLimit = middleware.NewRateLimiter(cfg.ModerateRateRPS, cfg.ModerateRateBurst).Middleware()
		log.Printf("Rate limiting enabled: read %.0f rps, write %.0f rps, moderate %.0f rps",
			cfg.ReadRateRPS, cfg.WriteRateRPS, cfg.ModerateRateRPS)
	} else {
		noop := func(c *gin.Context) { c.Next() }
		readLimit, writeLimit, moderateLimit = noop, noop, noop
	}

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", writeLimit, authHandler.Register)
			auth.POST("/login", writeLimit, authHandler.Login)

			// Protected routes
			auth.GET("/me", middleware.RequireAuth(cfg.JWTSecret), authHandler.GetMe)
		}

		// Post routes (public read surface)
		posts := api.Group("/posts")
		posts.Use(middleware.OptionalAuth(cfg.JWTSecret))
		{
			posts.GET("/slug/:slug", readLimit, postHandler.GetPostBySlug)

			// Comment routes scoped to a post
			// (more specific routes must be registered before wildcard routes)
			posts.GET("/:id/comments/count", readLimit, commentHandler.GetCommentCount)
			posts.GET("/:id/comments", readLimit, commentHandler.ListComments)
			posts.POST("/:id/comments", writeLimit, commentHandler.CreateComment)
		}

		// Comment routes
		comments := api.Group("/comments")
		comments.Use(middleware.OptionalAuth(cfg.JWTSecret))
		{
			comments.GET("/:id", readLimit, commentHandler.GetComment)
		}

		// Admin routes (moderator-class roles only)
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(cfg.JWTSecret))
		admin.Use(middleware.RequireModerator())
		{
			admin.POST("/comments/batch", moderateLimit, moderationHandler.BatchModerate)
			admin.GET("/posts/:id/comments", moderateLimit, moderationHandler.ListQueue)

			admin.GET("/audit", moderateLimit, auditHandler.ListRecent)
			admin.GET("/comments/:id/audit", moderateLimit, auditHandler.GetCommentTrail)

			admin.POST("/posts", moderateLimit, postHandler.CreatePost)
			admin.PUT("/posts/:id/published", moderateLimit, postHandler.SetPublished)
			admin.DELETE("/posts/:id", moderateLimit, postHandler.DeletePost)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = "host=" + cfg.PostgresHost +
			" port=" + cfg.PostgresPort +
			" user=" + cfg.PostgresUser +
			" password=" + cfg.PostgresPassword +
			" dbname=" + cfg.PostgresDB +
			" sslmode=" + cfg.PostgresSSLMode
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// initRedisWithRetry attempts to connect to Redis with exponential backoff retry
func initRedisWithRetry(cfg *config.Config) *util.RedisClient {
	maxRetries := 10
	initialDelay := 2 * time.Second
	maxDelay := 30 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		redisClient, err := util.NewRedisClient(cfg)
		if err == nil {
			log.Printf("Redis connected successfully on attempt %d", attempt)
			return redisClient
		}

		if attempt < maxRetries {
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			log.Printf("Failed to connect to Redis (attempt %d/%d): %v. Retrying in %v...", attempt, maxRetries, err, delay)
			time.Sleep(delay)
		} else {
			log.Printf("Warning: Failed to connect to Redis after %d attempts: %v. Caching will be disabled.", maxRetries, err)
			log.Println("Note: Application will continue without Redis caching")
		}
	}

	return nil
}

// initRabbitMQWithRetry attempts to connect to RabbitMQ with exponential backoff retry
func initRabbitMQWithRetry(cfg *config.Config) *util.RabbitMQClient {
	maxRetries := 10
	initialDelay := 2 * time.Second
	maxDelay := 30 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		rabbitMQ, err := util.NewRabbitMQClient(cfg)
		if err == nil {
			log.Printf("RabbitMQ connected successfully on attempt %d", attempt)
			return rabbitMQ
		}

		if attempt < maxRetries {
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			log.Printf("Failed to connect to RabbitMQ (attempt %d/%d): %v. Retrying in %v...", attempt, maxRetries, err, delay)
			time.Sleep(delay)
		} else {
			log.Printf("Warning: Failed to connect to RabbitMQ after %d attempts: %v. Audit events will be written directly.", maxRetries, err)
		}
	}

	return nil
}

func corsMiddleware(clientURL string) gin.HandlerFunc {
	// Allowed origins (whitelist)
	allowedOrigins := []string{
		clientURL, // Default from config
		"http://localhost:3000",
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is in whitelist
		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin {
				allowed = true
				break
			}
		}

		// If origin is allowed, set it; otherwise, use default
		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", clientURL)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
