package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"hkexpatjobs/internal/api"
	"hkexpatjobs/internal/auth"
	"hkexpatjobs/internal/config"
	"hkexpatjobs/internal/database"
	"hkexpatjobs/internal/storage"
)

func main() {
	cfg := config.MustLoad()
	logger := newLogger(cfg.API)
	slog.SetDefault(logger)

	log.Printf("api bootstrapped with db driver=%s host=%s port=%d db=%s",
		cfg.Database.Driver,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("database migrated")

	privateKey, err := os.ReadFile(cfg.Auth.PrivateKeyPath)
	if err != nil {
		log.Fatalf("read private key: %v", err)
	}
	publicKey, err := os.ReadFile(cfg.Auth.PublicKeyPath)
	if err != nil {
		log.Fatalf("read public key: %v", err)
	}
	authService, err := auth.NewAuthService(privateKey, publicKey, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}

	deps := api.NewDependencies(db, authService, cfg.Auth.RegistrationRoles)
	deps.Storage = storageClient
	deps.ClamdAddr = cfg.Upload.ClamdAddr
	deps.MaxUploadBytes = cfg.Upload.MaxBytes

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
		})
		defer redisClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// 限流是 fail-open 的，Redis 不可用时仅告警。
			logger.Warn("redis unreachable, login limiter will fail open", slog.Any("error", err))
		}
		cancel()

		deps.Limiter = api.NewLoginLimiter(redisClient,
			cfg.Auth.LoginRateLimitPerHour,
			cfg.Auth.LoginLockThreshold,
			cfg.Auth.LoginLockTTL,
			logger,
		)
	} else {
		logger.Info("redis disabled, login limiter off")
	}

	router := api.NewRouter(cfg, logger, deps)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.API.RequestTimeout + 15*time.Second,
		WriteTimeout:      cfg.API.RequestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("api listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newLogger(cfg config.APIConfig) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
