package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/filedrive/filedrive/internal/api"
	"github.com/filedrive/filedrive/internal/auth"
	"github.com/filedrive/filedrive/internal/config"
	"github.com/filedrive/filedrive/internal/database"
	"github.com/filedrive/filedrive/internal/file"
	"github.com/filedrive/filedrive/internal/genai"
	"github.com/filedrive/filedrive/internal/insight"
	"github.com/filedrive/filedrive/internal/storage"
	"github.com/filedrive/filedrive/internal/user"
)

func main() {
	// Optional .env overlay for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		slog.Error("failed to initialize token manager", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewS3Store(ctx, storage.Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		slog.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	generator := genai.NewClient(cfg.GenAIBaseURL, cfg.GenAIModel, cfg.GenAIAPIKey)

	userRepo := user.NewRepository(db.Pool())
	fileRepo := file.NewRepository(db.Pool())
	insightRepo := insight.NewRepository(db.Pool())

	userService := user.NewService(userRepo, cfg.BcryptCost)
	fileService := file.NewService(fileRepo, store, cfg.SignedURLTTL)
	insightService := insight.NewService(insightRepo, fileRepo, store, generator)

	router := api.NewRouter(api.RouterDeps{
		Prefix:         cfg.APIPrefix,
		Version:        cfg.Version,
		DBPinger:       db,
		Tokens:         tokens,
		UserRepo:       userRepo,
		UserService:    userService,
		FileService:    fileService,
		InsightService: insightService,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting file-drive server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
