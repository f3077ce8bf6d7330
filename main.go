package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"

	"guided-session-agent/internal/agent"
	"guided-session-agent/internal/config"
	Iservices "guided-session-agent/internal/domain/interfaces/services"
	"guided-session-agent/internal/infra/handlers"
	"guided-session-agent/internal/infra/logger"
	"guided-session-agent/internal/infra/provider"
	"guided-session-agent/internal/infra/repository"
	"guided-session-agent/internal/infra/routes"
	"guided-session-agent/internal/infra/services"
	"guided-session-agent/internal/middleware"
	client "guided-session-agent/internal/pkg"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	log := logger.NewLogger(ctx, cfg.LogLevel, true)

	mongoClient, err := client.MongoClient(cfg.MongoURI)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
	}
	sessionDB := mongoClient.Database(cfg.MongoDatabase)

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	store := repository.NewMongoStore(sessionDB)

	llmProvider := provider.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	var resolverSvc Iservices.IResolverService = services.NewResolverService(store, log)
	var sessionSvc Iservices.ISessionService = services.NewSessionService(store, log)
	var summarySvc Iservices.ISummaryService = services.NewSummaryService(log, llmProvider)

	timing := agent.DefaultTiming()
	timing.UtteranceTimeout = cfg.UtteranceTimeout

	conversationHandlers := handlers.NewConversationHandlers(log, store)
	agentHandlers := handlers.NewAgentHandlers(log, resolverSvc, sessionSvc, summarySvc, timing)

	routes := routes.NewRoutes(
		router,
		conversationHandlers,
		agentHandlers,
	)

	routes.Init()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", cfg.Port))
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
}
