package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brave-warrior/routecache/internal/application"
	"github.com/brave-warrior/routecache/internal/client"
	"github.com/brave-warrior/routecache/internal/config"
	"github.com/brave-warrior/routecache/internal/database"
	"github.com/brave-warrior/routecache/internal/events"
	"github.com/brave-warrior/routecache/internal/handler"
	"github.com/brave-warrior/routecache/internal/kafka"
	"github.com/brave-warrior/routecache/internal/logger"
	"github.com/brave-warrior/routecache/internal/middleware"
	"github.com/brave-warrior/routecache/internal/parser"
	"github.com/brave-warrior/routecache/internal/repository"
)

const serviceName = "routecache"

func main() {
	// Load configuration
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting routecache",
		zap.String("port", cfg.Port),
		zap.String("db_driver", cfg.DBDriver),
	)

	// Open the cache database and bring its schema to the current version
	db, err := database.Open(cfg.Database(), log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := repository.EnsureSchema(db, repository.SchemaVersion, log); err != nil {
		log.Fatal("failed to prepare cache schema", zap.Error(err))
	}

	routeRepo := repository.NewGormRouteRepository(db)

	directionsClient := client.New(client.Config{
		DirectionsURL:   cfg.DirectionsURL,
		AutocompleteURL: cfg.AutocompleteURL,
		APIKey:          cfg.DirectionsAPIKey,
		Language:        cfg.Language,
		Timeout:         cfg.HTTPTimeout,
	}, log)
	responseParser := parser.New(log, parser.WithStrict(cfg.ParserStrict))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Kafka is optional; without it refreshes are only served over HTTP
	var publisher application.EventPublisher
	if cfg.KafkaEnabled {
		producer := kafka.NewProducer(cfg.KafkaBrokers, log)
		defer func() { _ = producer.Close() }()
		publisher = events.NewRouteEventPublisher(producer, log)
	}

	routeService := application.NewRouteService(routeRepo, directionsClient, responseParser, publisher, log)
	cityService := application.NewCityService(directionsClient, responseParser, log)

	if cfg.KafkaEnabled {
		groupID := cfg.KafkaGroupPrefix + serviceName
		refreshConsumer := events.NewRefreshRequestConsumer(cfg.KafkaBrokers, groupID, routeService, log)
		defer func() { _ = refreshConsumer.Close() }()

		go func() {
			log.Info("starting refresh request consumer", zap.String("group_id", groupID))
			if err := refreshConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("refresh request consumer error", zap.Error(err))
			}
		}()
	}

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())

	handler.NewHealthHandler(db, serviceName).RegisterRoutes(router)
	handler.NewRouteHandler(routeService).RegisterRoutes(&router.RouterGroup)
	handler.NewCityHandler(cityService).RegisterRoutes(&router.RouterGroup)
	handler.NewAdminHandler(routeService).RegisterRoutes(&router.RouterGroup)

	// The write timeout must outlive a refresh, which waits on the upstream call
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down routecache...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("routecache stopped")
}
