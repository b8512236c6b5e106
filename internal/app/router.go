package app

import (
	"log"
	"net/http"
	"time"

	"cineconnect/internal/config"
	"cineconnect/internal/middleware"
	"cineconnect/internal/model"
	"cineconnect/internal/repository"
	"cineconnect/internal/service"
	"cineconnect/internal/tmdb"
	"cineconnect/internal/util"
	"cineconnect/internal/websocket"

	_ "cineconnect/docs"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
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

	// Request metrics
	r.Use(middleware.Prometheus())

	// Rate limiting middleware (if enabled)
	if cfg.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		r.Use(rateLimiter.Middleware())
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&model.User{},
		&model.Film{},
		&model.Friendship{},
		&model.Message{},
		&model.Review{},
		&model.ReviewLike{},
		&model.ReviewComment{},
		&model.WatchlistItem{},
	); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	// Initialize Redis with retry logic
	redisClient := initRedisWithRetry(cfg)

	// Initialize RabbitMQ with retry logic
	rabbitMQ := initRabbitMQWithRetry(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	filmRepo := repository.NewFilmRepository(db, redisClient)
	friendshipRepo := repository.NewFriendshipRepository(db, redisClient)
	messageRepo := repository.NewMessageRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()

	var presence *websocket.RedisPresence
	if redisClient != nil {
		presence = websocket.NewRedisPresence(redisClient)
		presence.Attach(wsHub)
	}

	go wsHub.Run()
	log.Println("WebSocket hub started")

	// Initialize activity worker if RabbitMQ is available
	if rabbitMQ != nil {
		activityWorker := service.NewActivityWorker(rabbitMQ, wsHub)
		if err := activityWorker.Start(); err != nil {
			log.Printf("Warning: Failed to start activity worker: %v", err)
		} else {
			log.Println("Activity worker started successfully")
		}
	} else {
		log.Println("Activity worker not started - RabbitMQ connection failed. Events fall back to direct delivery.")
	}

	// Initialize TMDb client
	tmdbClient := tmdb.New(cfg.TMDBAPIKey, cfg.TMDBBaseURL)
	if cfg.TMDBAPIKey == "" {
		log.Println("Warning: TMDB_API_KEY is not set, catalog lookups will fail")
	}

	// Initialize Cloudinary client
	var cloudinaryClient *util.CloudinaryClient
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		var err error
		cloudinaryClient, err = util.NewCloudinaryClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v. Image uploads will be disabled.", err)
		} else {
			log.Println("Cloudinary initialized successfully")
		}
	} else {
		log.Println("Cloudinary credentials not configured. Image uploads will be disabled.")
	}

	// Initialize services
	activityPublisher := service.NewActivityPublisher(rabbitMQ, wsHub)
	authService := service.NewAuthService(userRepo, redisClient, cfg)
	userService := service.NewUserService(userRepo, cloudinaryClient)
	filmService := service.NewFilmService(filmRepo, tmdbClient, redisClient)
	friendshipService := service.NewFriendshipService(friendshipRepo, userRepo, activityPublisher)
	messageService := service.NewMessageService(messageRepo, userRepo)
	reviewService := service.NewReviewService(reviewRepo, filmRepo, userRepo)
	watchlistService := service.NewWatchlistService(watchlistRepo, filmRepo)

	// Initialize handlers
	authHandler := NewAuthHandler(authService, cfg)
	userHandler := NewUserHandler(userService)
	filmHandler := NewFilmHandler(filmService)
	friendshipHandler := NewFriendshipHandler(friendshipService)
	messageHandler := NewMessageHandler(messageService, wsHub)
	reviewHandler := NewReviewHandler(reviewService)
	watchlistHandler := NewWatchlistHandler(watchlistService)

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)

			// Protected routes
			auth.GET("/me", authHandler.AuthMiddleware(), authHandler.GetMe)
		}

		// User routes
		users := api.Group("/users")
		users.Use(authHandler.AuthMiddleware())
		{
			users.GET("/search", userHandler.SearchUsers)
			users.PUT("/me/avatar", userHandler.UpdateAvatar)
			users.GET("/:id", userHandler.GetUser)
			users.GET("/:id/reviews", reviewHandler.ListByUser)
		}

		// Film routes
		films := api.Group("/films")
		films.Use(authHandler.AuthMiddleware())
		{
			films.GET("/search", filmHandler.Search)
			films.GET("/trending", filmHandler.Trending)
			films.GET("/popular", filmHandler.Popular)
			films.GET("/tmdb/:tmdbID", filmHandler.GetByTmdbID)
			films.GET("/:id", filmHandler.GetFilm)
			films.GET("/:id/reviews", reviewHandler.ListByFilm)
		}

		// Review routes
		reviews := api.Group("/reviews")
		reviews.Use(authHandler.AuthMiddleware())
		{
			reviews.POST("", reviewHandler.CreateReview)
			reviews.GET("/:id", reviewHandler.GetReview)
			reviews.PUT("/:id", reviewHandler.UpdateReview)
			reviews.DELETE("/:id", reviewHandler.DeleteReview)

			// Review likes
			reviews.POST("/:id/like", reviewHandler.LikeReview)
			reviews.DELETE("/:id/like", reviewHandler.UnlikeReview)

			// Review comments
			reviews.POST("/:id/comments", reviewHandler.AddComment)
			reviews.GET("/:id/comments", reviewHandler.ListComments)
			reviews.DELETE("/comments/:commentID", reviewHandler.DeleteComment)
		}

		// Friendship routes
		friends := api.Group("/friends")
		friends.Use(authHandler.AuthMiddleware())
		{
			friends.GET("", friendshipHandler.ListFriends)
			friends.POST("/requests", friendshipHandler.SendRequest)
			friends.GET("/requests", friendshipHandler.ListPendingRequests)
			friends.PUT("/requests/:id", friendshipHandler.RespondToRequest)
			friends.GET("/status/:userID", friendshipHandler.GetStatus)
			friends.DELETE("/:id", friendshipHandler.RemoveFriend)
		}

		// Message routes
		messages := api.Group("/messages")
		messages.Use(authHandler.AuthMiddleware())
		{
			messages.POST("", messageHandler.SendMessage)
			messages.GET("/conversations", messageHandler.ListConversations)
			messages.GET("/with/:userID", messageHandler.ListMessages)
			messages.PUT("/read/:senderID", messageHandler.MarkAsRead)
			messages.GET("/unread/count", messageHandler.GetUnreadCount)
		}

		// Watchlist routes
		watchlist := api.Group("/watchlist")
		watchlist.Use(authHandler.AuthMiddleware())
		{
			watchlist.POST("", watchlistHandler.Add)
			watchlist.GET("", watchlistHandler.List)
			watchlist.GET("/:filmID", watchlistHandler.Contains)
			watchlist.DELETE("/:filmID", watchlistHandler.Remove)
		}

		// Presence routes
		if presence != nil {
			api.GET("/presence/online", authHandler.AuthMiddleware(), func(c *gin.Context) {
				userIDs, err := presence.OnlineUserIDs()
				if err != nil {
					util.HandleError(c, err)
					return
				}
				util.SuccessResponse(c, http.StatusOK, "Online users retrieved", gin.H{"user_ids": userIDs})
			})
		}
	}

	// WebSocket route
	r.GET("/ws", func(c *gin.Context) {
		websocket.ServeWS(wsHub, cfg.JWTSecret).ServeHTTP(c.Writer, c.Request)
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API documentation
	r.GET("/api-docs/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/api-docs/doc.json"),
	)))

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
			// Calculate delay with exponential backoff
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			log.Printf("Failed to connect to RabbitMQ (attempt %d/%d): %v. Retrying in %v...", attempt, maxRetries, err, delay)
			time.Sleep(delay)
		} else {
			log.Printf("Warning: Failed to connect to RabbitMQ after %d attempts: %v. Activity events fall back to direct delivery.", maxRetries, err)
		}
	}

	return nil
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
			// Calculate delay with exponential backoff
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
