package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"emotional-analysis/internal/config"
	"emotional-analysis/internal/domain/entities"
	Irepository "emotional-analysis/internal/domain/interfaces/repository"
	Iservices "emotional-analysis/internal/domain/interfaces/services"
	"emotional-analysis/internal/infra/handlers"
	"emotional-analysis/internal/infra/logger"
	"emotional-analysis/internal/infra/provider"
	"emotional-analysis/internal/infra/realtime"
	"emotional-analysis/internal/infra/repository"
	"emotional-analysis/internal/infra/routes"
	"emotional-analysis/internal/infra/services"
	"emotional-analysis/internal/middleware"
	client "emotional-analysis/internal/pkg"

	"github.com/gorilla/mux"
)

func main() {
	config.LoadEnv()

	ctx := context.Background()
	log := logger.NewLogger(ctx, true)

	mongoClient := client.MongoClient()
	db := mongoClient.Database(config.GetEnvOr("MONGO_DB", "emotional_analysis"))

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	var callRepo Irepository.CallRepository = repository.NewCallRepository(db)
	userRepo := repository.NewMongoRepository[entities.User](db)

	var callSvc Iservices.ICallService = services.NewCallService(callRepo, log)
	var authSvc Iservices.IAuthService = services.NewAuthService(userRepo, log)

	staging, err := services.NewStagingService(log, config.GetEnvOr("AUDIO_DIR", "audio_files"))
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to prepare audio staging: %v", err))
	}
	staging.StartSweeper()
	defer staging.StopSweeper()

	classifyTimeout, err := time.ParseDuration(config.GetEnvOr("CLASSIFY_TIMEOUT", "30s"))
	if err != nil {
		log.Fatal(fmt.Sprintf("Invalid CLASSIFY_TIMEOUT: %v", err))
	}
	classifier := provider.NewSERProvider(
		log,
		config.GetEnvOr("SER_PYTHON", "python"),
		config.GetEnvOr("SER_SCRIPT", "ser_model.py"),
		classifyTimeout,
	)

	registry := realtime.NewRegistry(log)
	coordinator := realtime.NewCoordinator(log, registry, staging, classifier, callSvc)

	allowedOrigin := config.GetEnvOr("ALLOWED_ORIGIN", "*")
	wsHandlers := handlers.NewWSHandlers(log, registry, coordinator, allowedOrigin)
	callHandlers := handlers.NewCallHandlers(log, callSvc)
	cyberHandlers := handlers.NewCyberHandlers(log, callSvc)
	authHandlers := handlers.NewAuthHandlers(log, authSvc)

	routes := routes.NewRoutes(
		router,
		wsHandlers,
		callHandlers,
		cyberHandlers,
		authHandlers,
	)

	routes.Init()

	port := config.GetEnvOr("PORT", "5000")
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}

	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error(fmt.Sprintf("Error disconnecting MongoDB: %v", err))
	}
}
