package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizshield/proctoring-service/internal/anticheat"
	"github.com/quizshield/proctoring-service/internal/cache"
	"github.com/quizshield/proctoring-service/internal/config"
	"github.com/quizshield/proctoring-service/internal/handlers"
	"github.com/quizshield/proctoring-service/internal/repositories/postgres"
	"github.com/quizshield/proctoring-service/internal/services"
	"github.com/quizshield/proctoring-service/internal/utils"
	"github.com/quizshield/proctoring-service/internal/validator"
	"github.com/quizshield/proctoring-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.Environment != "production" {
		logLevel = slog.LevelDebug
	}
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(slogger)
	logger := utils.NewSlogLogger(slogger)

	slog.Info("starting proctoring-service",
		"environment", cfg.Environment,
		"port", cfg.Port)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	repo, err := postgres.NewRepository(db)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized")

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	cacheService := cache.NewRedisCache(redisClient, slogger)
	slog.Info("cache initialized")

	publisher, err := cfg.Events.CreateAlertPublisher(slogger)
	if err != nil {
		slog.Error("failed to create alert publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	scorer := anticheat.NewScorer(cfg.EventAliases)

	serviceManager := services.NewServiceManager(services.ManagerConfig{
		Repo:       repo,
		Cache:      cacheService,
		Publisher:  publisher,
		Scorer:     scorer,
		Logger:     slogger,
		Validator:  validator.New(),
		QueryLimit: cfg.EventQueryLimit,
	})

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, logger)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()
	slog.Info("proctoring-service is ready", "port", cfg.Port)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received shutdown signal", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("shutdown complete")
}
