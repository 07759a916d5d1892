package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/lyalam2/Travel-Assistant-GCP-BigQuery/agent"
	"github.com/lyalam2/Travel-Assistant-GCP-BigQuery/aviationstack"
	"github.com/lyalam2/Travel-Assistant-GCP-BigQuery/gemini"
	"github.com/lyalam2/Travel-Assistant-GCP-BigQuery/server"
	"github.com/lyalam2/Travel-Assistant-GCP-BigQuery/warehouse"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Required configuration
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		log.Fatal("GOOGLE_CLOUD_PROJECT environment variable is required")
	}
	aviationKey := os.Getenv("AVIATIONSTACK_API_KEY")
	if aviationKey == "" {
		log.Fatal("AVIATIONSTACK_API_KEY environment variable is required")
	}
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable is required")
	}

	// Optional configuration with defaults
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	llm, err := gemini.NewClient(ctx, geminiKey, os.Getenv("GEMINI_MODEL"))
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}

	bq, err := warehouse.NewClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Failed to initialize BigQuery client: %v", err)
	}
	defer bq.Close()

	var statusOpts []aviationstack.Option
	if baseURL := os.Getenv("AVIATIONSTACK_BASE_URL"); baseURL != "" {
		statusOpts = append(statusOpts, aviationstack.WithBaseURL(baseURL))
	}
	statusClient, err := aviationstack.NewClient(aviationKey, statusOpts...)
	if err != nil {
		log.Fatalf("Failed to initialize AviationStack client: %v", err)
	}

	schema := agent.NewFlightDataSchema(os.Getenv("BQ_FLIGHTS_TABLE"))

	srv := server.New(llm, statusClient, bq, schema, sessionSecret)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Air travel assistant starting on http://localhost:%s", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
