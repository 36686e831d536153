package main

import (
	"log"
	"net/http"

	"prompthub/config"
	"prompthub/handlers"
	"prompthub/logger"
	"prompthub/middleware"
	"prompthub/repositories"
	"prompthub/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		zapLogger.Fatal("failed to initialize database", zap.Error(err))
	}
	rdb := config.InitRedis(cfg)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	promptRepo := repositories.NewPromptRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	versionRepo := repositories.NewVersionRepository(db)
	purchaseRepo := repositories.NewPurchaseRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	draftRepo := repositories.NewDraftRepository(rdb)
	tokenRepo := repositories.NewTokenRepository(rdb)

	// Trending board pushes through the websocket hub
	hub := handlers.NewTrendingHub(zapLogger)
	trendingService := services.NewTrendingService(promptRepo, hub, zapLogger, cfg.TrendingSize)
	if err := trendingService.Load(); err != nil {
		zapLogger.Warn("failed to seed trending board", zap.Error(err))
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenRepo)
	promptService := services.NewPromptService(
		promptRepo, tagRepo, commentRepo, versionRepo,
		purchaseRepo, activityRepo, trendingService, zapLogger,
	)
	userService := services.NewUserService(userRepo, promptRepo)
	draftService := services.NewDraftService(draftRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	promptHandler := handlers.NewPromptHandler(promptService, authService)
	userHandler := handlers.NewUserHandler(userService)
	draftHandler := handlers.NewDraftHandler(draftService)
	trendingHandler := handlers.NewTrendingHandler(trendingService, hub, zapLogger)

	// Setup router
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Device-ID"}
	router.Use(cors.New(corsConfig))

	prom := ginprometheus.NewPrometheus("prompthub")
	prom.Use(router)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}

		// Public browsing; the viewer is picked up when a token is sent
		public := v1.Group("/")
		public.Use(middleware.OptionalAuthMiddleware())
		{
			public.GET("/prompts", promptHandler.ListPrompts)
			public.GET("/prompts/:id", promptHandler.GetPrompt)
			public.POST("/prompts/:id/copy", promptHandler.CopyPrompt)
			public.GET("/tags", promptHandler.ListTags)
			public.GET("/trending", trendingHandler.GetTrending)
			public.GET("/users/:id", userHandler.GetUser)
			public.GET("/users/:id/prompts", userHandler.ListUserPrompts)
			public.GET("/users/:id/forks", userHandler.ListUserForks)
			public.GET("/preview/:token", draftHandler.TakePreview)
		}

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", userHandler.GetProfile)
			protected.PUT("/profile", userHandler.UpdateProfile)

			protected.POST("/prompts", promptHandler.CreatePrompt)
			protected.PUT("/prompts/:id", promptHandler.UpdatePrompt)
			protected.DELETE("/prompts/:id", userHandler.DeletePrompt)
			protected.POST("/prompts/:id/fork", promptHandler.ForkPrompt)
			protected.POST("/prompts/:id/comments", promptHandler.AddComment)
			protected.GET("/prompts/:id/versions", promptHandler.ListVersions)
			protected.POST("/prompts/:id/purchase", promptHandler.PurchasePrompt)

			protected.GET("/draft", draftHandler.GetDraft)
			protected.PUT("/draft", draftHandler.SaveDraft)
			protected.DELETE("/draft", draftHandler.ClearDraft)
			protected.POST("/preview", draftHandler.SavePreview)
		}
	}

	// Live trending feed
	router.GET("/ws/trending", trendingHandler.ServeWS)

	zapLogger.Info("server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
