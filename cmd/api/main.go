package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/carebridge/wellness-service/internal/adapters/cache"
	"github.com/carebridge/wellness-service/internal/adapters/handler"
	"github.com/carebridge/wellness-service/internal/adapters/middleware"
	"github.com/carebridge/wellness-service/internal/adapters/prediction"
	"github.com/carebridge/wellness-service/internal/adapters/repository"
	"github.com/carebridge/wellness-service/internal/config"
	"github.com/carebridge/wellness-service/internal/core/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database with retry logic
	db, err := config.ConnectDatabase(cfg.DatabaseURL, 5, 2*time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := config.InitDatabase(db); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Initialize RabbitMQ attention-alert publisher
	alertPublisher, err := repository.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.AlertQueueName)
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ publisher: %v", err)
	}
	defer alertPublisher.Close()

	// Initialize repositories
	residentRepo := repository.NewResidentRepository(db)
	observationRepo := repository.NewObservationRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize model service gateway
	predictionClient := prediction.NewClient(cfg.ModelServiceURL, cfg.ModelServiceTimeout)

	// Initialize services
	predictionService := services.NewPredictionService(observationRepo, residentRepo, predictionClient, nil)
	residentService := services.NewResidentService(residentRepo, observationRepo, reportRepo, nil)
	observationService := services.NewObservationService(observationRepo, residentRepo, workerRepo, predictionService, alertPublisher, nil)
	workerService := services.NewWorkerService(workerRepo, residentRepo, reportRepo, nil)
	wellnessService := services.NewWellnessService(residentRepo, observationRepo, reportRepo, predictionService, nil)

	// Summary cache shared between the resident and observation handlers
	summaryCache := cache.NewSummaryCache(cfg.SummaryCacheTTL)
	defer summaryCache.Stop()

	// Initialize handlers
	residentHandler := handler.NewResidentHandler(residentService, wellnessService, summaryCache)
	observationHandler := handler.NewObservationHandler(observationService, summaryCache)
	workerHandler := handler.NewWorkerHandler(workerService)
	healthHandler := handler.NewHealthHandler(db)

	// Initialize JWT middleware (pass-through when no public key configured)
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey)
	defer authMiddleware.Stop()

	// Setup HTTP router
	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible, no auth required)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)
	mux.HandleFunc("GET /health/live", healthHandler.Live)

	// Worker auth endpoints (no token required)
	mux.HandleFunc("POST /workers/login", workerHandler.Login)
	mux.HandleFunc("POST /workers/register", workerHandler.Register)

	// Resident endpoints
	mux.HandleFunc("GET /residents", authMiddleware.RequireAuth(residentHandler.ListSummaries))
	mux.HandleFunc("POST /residents", authMiddleware.RequireAuth(residentHandler.CreateResident))
	mux.HandleFunc("GET /residents/{resident_id}", authMiddleware.RequireAuth(residentHandler.GetResident))
	mux.HandleFunc("PUT /residents/{resident_id}", authMiddleware.RequireAuth(residentHandler.UpdateResident))
	mux.HandleFunc("DELETE /residents/{resident_id}", authMiddleware.RequireAuth(residentHandler.DeleteResident))
	mux.HandleFunc("GET /residents/{resident_id}/observations", authMiddleware.RequireAuth(residentHandler.GetResidentObservations))
	mux.HandleFunc("GET /residents/{resident_id}/reports", authMiddleware.RequireAuth(residentHandler.GetResidentReports))

	// Observation endpoints
	mux.HandleFunc("GET /observations", authMiddleware.RequireAuth(observationHandler.ListObservations))
	mux.HandleFunc("POST /observations", authMiddleware.RequireAuth(observationHandler.CreateObservation))
	mux.HandleFunc("GET /observations/{observation_id}", authMiddleware.RequireAuth(observationHandler.GetObservation))
	mux.HandleFunc("PUT /observations/{observation_id}", authMiddleware.RequireAuth(observationHandler.UpdateObservation))
	mux.HandleFunc("DELETE /observations/{observation_id}", authMiddleware.RequireAuth(observationHandler.DeleteObservation))
	mux.HandleFunc("GET /observations/resident/{resident_id}", authMiddleware.RequireAuth(observationHandler.ListByResident))
	mux.HandleFunc("GET /observations/worker/{worker_id}", authMiddleware.RequireAuth(observationHandler.ListByWorker))

	// Worker profile and report endpoints
	mux.HandleFunc("GET /workers/{worker_id}", authMiddleware.RequireAuth(workerHandler.GetWorker))
	mux.HandleFunc("PUT /workers/{worker_id}", authMiddleware.RequireAuth(workerHandler.UpdateWorker))
	mux.HandleFunc("POST /workers/reports", authMiddleware.RequireAuth(workerHandler.SubmitReport))

	// Wrap mux with metrics middleware to track all HTTP requests
	instrumentedRouter := middleware.MetricsMiddleware(mux)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      instrumentedRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting Wellness Service on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
