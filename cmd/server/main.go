package main

import (
	"fmt"
	"log"
	"os"

	"github.com/scancook/backend/config"
	httpDelivery "github.com/scancook/backend/internal/delivery/http"
	"github.com/scancook/backend/internal/infrastructure/fixtures"
	"github.com/scancook/backend/internal/infrastructure/notify"
	"github.com/scancook/backend/internal/infrastructure/recommender"
	"github.com/scancook/backend/internal/infrastructure/session"
	"github.com/scancook/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ScanCook Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Session TTL: %s", cfg.Session.TTL)

	// Initialize infrastructure dependencies
	sessionStore := session.NewMemoryStore(cfg.Session.TTL)
	hub := notify.NewHub()

	recommenderClient := recommender.NewClient(
		cfg.Recommender.WebhookURL,
		cfg.Recommender.UserID,
		cfg.Recommender.Timeout,
		cfg.RateLimit.Recommender,
	)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		recommenderClient.SetDebug(true)
		log.Printf("Recommender client debug mode enabled")
	}
	log.Printf("Recommender webhook: %s (user: %s)", cfg.Recommender.WebhookURL, cfg.Recommender.UserID)

	ranker := usecase.NewRelevanceRanker()
	catalog := fixtures.NewProductCatalog(cfg.Fixtures.SimulatedLatency)
	recipeSource := fixtures.NewRecipeSource(cfg.Fixtures.SimulatedLatency, ranker)
	log.Printf("Fixture latency: %s", cfg.Fixtures.SimulatedLatency)

	// Initialize usecase layer
	stateService := usecase.NewStateService(sessionStore, hub)
	scanService := usecase.NewScanService(catalog, stateService, recommenderClient)
	suggestionService := usecase.NewSuggestionService(recommenderClient, recipeSource, stateService)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(stateService, scanService, suggestionService, hub, cfg.Server.AllowedOrigins)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
