package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"casino-miniapp-gateway/internal/config"
	"casino-miniapp-gateway/internal/handlers"
	"casino-miniapp-gateway/internal/logger"
	"casino-miniapp-gateway/internal/metrics"
	"casino-miniapp-gateway/internal/middleware"
	"casino-miniapp-gateway/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New("miniapp-gateway", cfg.Env)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zlog.Sync()

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		zlog.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisService.Close()

	jwtService := services.NewJWTService(cfg)
	telegramService := services.NewTelegramService(cfg.BotToken)
	gameAPI := services.NewGameAPIClient(cfg.GameAPIURL, cfg.BotID)
	navigation := services.NewNavigationService(redisService)
	betFlow := services.NewBetFlow(redisService, gameAPI, zlog)

	wsHandler := handlers.NewWebSocketHandler(redisService, zlog)

	priceFeed := services.NewPriceFeed(wsHandler)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go priceFeed.Run(ctx)

	authHandler := handlers.NewAuthHandler(redisService, jwtService, telegramService, gameAPI, navigation, zlog)
	userHandler := handlers.NewUserHandler(redisService, gameAPI, zlog)
	navHandler := handlers.NewNavigationHandler(redisService, navigation)
	gameHandler := handlers.NewGameHandler(redisService, gameAPI, betFlow, priceFeed, wsHandler, zlog)
	withdrawalHandler := handlers.NewWithdrawalHandler(redisService, gameAPI, zlog)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, x-telegram-auth")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/auth/telegram", authHandler.Authenticate)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisService))
	{
		protected.POST("/register", authHandler.Register)
		protected.POST("/logout", authHandler.Logout)
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.GET("/main", userHandler.GetMainScreen)
		protected.GET("/history", userHandler.GetHistory)
		protected.GET("/bonuses", userHandler.GetBonuses)
		protected.GET("/manager", userHandler.GetManagerContact)
		protected.GET("/locale", userHandler.GetLocale)
		protected.POST("/locale", userHandler.SetLocale)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		navigationGroup := protected.Group("/navigation")
		{
			navigationGroup.GET("", navHandler.State)
			navigationGroup.POST("/navigate", navHandler.NavigateTo)
			navigationGroup.POST("/back", navHandler.GoBack)
		}

		games := protected.Group("/games")
		{
			games.POST("/trade", gameHandler.Trade)
			games.POST("/roulette", gameHandler.Roulette)
			games.POST("/futures", gameHandler.Futures)

			games.GET("/trade/config", gameHandler.GetTradeConfig)
			games.GET("/roulette/config", gameHandler.GetRouletteConfig)
			games.GET("/futures/config", gameHandler.GetFuturesConfig)

			games.GET("/feed", gameHandler.PriceFeed)
			games.GET("/outcome/:game", gameHandler.LastOutcome)
		}

		withdrawals := protected.Group("/withdrawals")
		{
			withdrawals.GET("/confirm", withdrawalHandler.Confirm)
			withdrawals.POST("/submit", withdrawalHandler.Submit)
		}
	}

	metricsServer := metrics.StartServer(cfg.MetricsPort, redisService.Ping)
	defer metricsServer.Close()

	zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
