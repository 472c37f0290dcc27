package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kiyohan/StarHack/cache"
	"github.com/kiyohan/StarHack/db"
	"github.com/kiyohan/StarHack/handlers"
	"github.com/kiyohan/StarHack/ledger"
	"github.com/kiyohan/StarHack/middleware"
	"github.com/kiyohan/StarHack/models"
	"github.com/kiyohan/StarHack/routes"
	"github.com/kiyohan/StarHack/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	utils.InitLogger()
	defer utils.Logger.Sync()
	utils.InitMetrics()

	utils.Logger.Info("starting_application")

	db.Connect()
	if err := db.DB.AutoMigrate(
		&models.User{},
		&models.TaskStamp{},
		&models.TaskCompletion{},
		&models.Activity{},
		&models.RewardItem{},
		&models.UserReward{},
		&models.JournalEntry{},
		&models.JournalUpvote{},
	); err != nil {
		utils.Logger.Fatal("migration_failed", zap.Error(err))
	}

	if err := cache.InitRedis(utils.Logger); err != nil {
		utils.Logger.Fatal("redis_init_failed", zap.Error(err))
	}
	defer cache.Close()

	seedActivities()
	seedRewards()

	handlers.InitLedger(ledger.NewService(db.DB))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "https://star-hack.vercel.app"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if os.Getenv("ENABLE_CSRF") == "true" {
		r.Use(middleware.CSRFProtection([]byte(getEnv("CSRF_AUTH_KEY", "32-byte-long-auth-key-for-csrf!!"))))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"database":  "connected",
		})
	})

	authLimit := middleware.RateLimitMiddleware(20, time.Minute)
	r.POST("/api/register", authLimit, routes.Register)
	r.POST("/api/login", authLimit, routes.Login)
	r.POST("/api/activities/seed", handlers.SeedActivities)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/profile", routes.Profile)
		api.PUT("/preferences", routes.UpdatePreferences)
		api.GET("/stats", handlers.GetStats)

		api.GET("/activities", handlers.GetActivities)
		api.POST("/tasks/complete", handlers.CompleteTask)
		api.GET("/tasks", handlers.GetTaskHistory)
		api.GET("/tasks/all", middleware.RoleMiddleware(models.RoleAdmin), handlers.GetAllCompletions)

		api.POST("/journal", handlers.CreateJournalEntry)
		api.GET("/journal", handlers.GetJournalEntries)
		api.GET("/journal/community", middleware.CacheMiddleware(2*time.Minute), handlers.GetCommunityFeed)
		api.PUT("/journal/upvote/:id", handlers.UpvoteJournalEntry)

		api.GET("/rewards", handlers.GetRewardCatalog)
		api.POST("/rewards/claim", handlers.ClaimReward)
		api.PUT("/rewards/redeem/:id", handlers.RedeemReward)

		api.GET("/leaderboard", middleware.CacheMiddleware(1*time.Minute), handlers.GetLeaderboard)

		api.POST("/chat", middleware.RateLimitMiddleware(30, time.Minute), handlers.Chat)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	startServer(r)
}

func seedActivities() {
	var count int64
	db.DB.Model(&models.Activity{}).Count(&count)
	if count == 0 {
		activities := handlers.DefaultActivities()
		db.DB.Create(&activities)
		utils.Logger.Info("activities_seeded", zap.Int("count", len(activities)))
	}
}

func seedRewards() {
	var count int64
	db.DB.Model(&models.RewardItem{}).Count(&count)
	if count == 0 {
		rewards := []models.RewardItem{
			{Name: "Zomato Gold Trial (1 Month)", Description: "Enjoy free deliveries and exclusive discounts on Zomato orders.", Cost: 250},
			{Name: "Swiggy One Lite Pass", Description: "Get free deliveries and priority customer support on Swiggy.", Cost: 300},
			{Name: "Spotify Premium (1 Month)", Description: "Ad-free music, offline downloads, and better sound quality.", Cost: 400},
			{Name: "Amazon Pay Gift Card ₹100", Description: "Redeemable across Amazon for shopping, movies, and more.", Cost: 500},
			{Name: "Netflix Mobile Plan (1 Month)", Description: "Stream your favorite shows and movies on Netflix mobile.", Cost: 700},
		}
		db.DB.Create(&rewards)
		utils.Logger.Info("rewards_seeded", zap.Int("count", len(rewards)))
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	utils.Logger.Info("starting_http_server", zap.String("port", port))
	fmt.Printf("Server running on http://localhost:%s\n", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting_down_server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Fatal("server_forced_shutdown", zap.Error(err))
	}

	utils.Logger.Info("server_stopped")
}
