package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartsplit/smartsplit/internal/auth"
	"github.com/smartsplit/smartsplit/internal/middleware"
	"github.com/smartsplit/smartsplit/internal/service"
	"github.com/smartsplit/smartsplit/internal/storage/sqlite"
	"github.com/smartsplit/smartsplit/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}
	logging.Setup()

	port := getEnv("PORT", "8080")
	dbPath := getEnv("DB_PATH", "./data/smartsplit.db")
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	tokenDuration := getDurationEnv("TOKEN_DURATION", 24*time.Hour)

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	jwtManager := auth.NewJWTManager(jwtSecret, tokenDuration)

	authService := service.NewAuthService(store, jwtManager)
	friendService := service.NewFriendService(store)
	groupService := service.NewGroupService(store)
	expenseService := service.NewExpenseService(store)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/api/auth/login", authService.Login)

	api := router.Group("/api", middleware.RequireAuth(jwtManager))
	{
		api.GET("/me", authService.GetCurrentUser)
		api.PUT("/me", authService.UpdateProfile)

		api.GET("/friends", friendService.ListFriends)
		api.POST("/friends", friendService.AddFriend)
		api.GET("/friends/:id", friendService.GetFriend)

		api.POST("/groups", groupService.CreateGroup)
		api.GET("/groups", groupService.ListGroups)
		api.GET("/groups/:id", groupService.GetGroup)
		api.GET("/groups/:id/balances", groupService.GetGroupBalances)
		api.POST("/groups/:id/settlements", groupService.CreateSettlement)
		api.GET("/groups/:id/settlements", groupService.ListSettlements)

		api.POST("/expenses", expenseService.CreateExpense)
		api.GET("/expenses", expenseService.ListExpenses)
		api.GET("/activity", expenseService.Activity)
	}

	slog.Info("Starting server", "port", port, "db_path", dbPath)
	if err := router.Run(":" + port); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration, using default", "key", key, "value", value)
		return fallback
	}
	return d
}
