package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	config "github.com/darlington872/lastman55444-sub000/configs"
	"github.com/darlington872/lastman55444-sub000/database"
	"github.com/darlington872/lastman55444-sub000/jobs"
	"github.com/darlington872/lastman55444-sub000/logger"
	"github.com/darlington872/lastman55444-sub000/middleware"
	"github.com/darlington872/lastman55444-sub000/notifications"
	"github.com/darlington872/lastman55444-sub000/routes"
	"github.com/darlington872/lastman55444-sub000/services"
	"github.com/darlington872/lastman55444-sub000/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	envFound, err := config.Load()
	cfg := config.AppConfig
	logger.Init(cfg.Env)
	defer func() { _ = logger.Log.Sync() }()
	if err != nil {
		logger.Log.Fatal("failed to load configuration", zap.Error(err))
	}
	if !envFound {
		logger.Log.Info("no .env file found, using process environment")
	}
	if cfg.JWTSecret == "" {
		logger.Log.Fatal("JWT_SECRET must be set")
	}

	if err := database.ConnectDB(cfg.DatabaseURL); err != nil {
		logger.Log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(database.DB); err != nil {
		logger.Log.Fatal("database migration failed", zap.Error(err))
	}
	if err := database.SeedAdmin(database.DB, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminFullName); err != nil {
		logger.Log.Fatal("admin seed failed", zap.Error(err))
	}
	if err := services.EnsureDefaultSettings(database.DB); err != nil {
		logger.Log.Fatal("settings seed failed", zap.Error(err))
	}
	notifications.InitEmailService()

	go websocket.RunHub()
	services.ActivityPublisher = websocket.NotifyActivity

	c := cron.New()
	if _, err := c.AddFunc(cfg.DigestSchedule, jobs.PendingReviewDigest); err != nil {
		logger.Log.Fatal("invalid digest schedule", zap.String("schedule", cfg.DigestSchedule), zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	var limiter *middleware.RateLimiter
	if redisClient := connectRedis(cfg.RedisURL); redisClient != nil {
		defer redisClient.Close()
		limiter = middleware.NewRateLimiter(redisClient, "numbermart:rate_limit")
	}

	app := routes.NewApp(limiter)

	go func() {
		logger.Log.Info("server starting", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Log.Error("server shutdown failed", zap.Error(err))
	}
}

// connectRedis returns nil when REDIS_URL is unset or unreachable, which
// disables rate limiting.
func connectRedis(redisURL string) *redis.Client {
	if strings.TrimSpace(redisURL) == "" {
		logger.Log.Warn("redis url missing, rate limiting disabled")
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Log.Warn("redis url parse failed, rate limiting disabled", zap.Error(err))
		return nil
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.Warn("redis ping failed, rate limiting disabled", zap.Error(err))
		_ = client.Close()
		return nil
	}
	logger.Log.Info("redis connected")
	return client
}
