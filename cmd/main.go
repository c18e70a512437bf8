package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/grizztep/Karinderya/internal/config"
	"github.com/grizztep/Karinderya/internal/database"
	"github.com/grizztep/Karinderya/internal/logger"
	"github.com/grizztep/Karinderya/internal/middleware"
	"github.com/grizztep/Karinderya/internal/services/catalog"
	"github.com/grizztep/Karinderya/internal/services/order"
	"github.com/grizztep/Karinderya/internal/services/reservation"
)

func main() {
	var (
		configPath     = flag.String("config", "config.yaml", "Path to the configuration file")
		migrationsPath = flag.String("migrations", "migrations", "Path to the SQL migrations directory")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("karinderya-backend")
	requestID := logger.GenerateRequestID()

	log.Info("service_started", "Starting Karinderya backend", requestID, map[string]interface{}{
		"port": cfg.Server.Port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	if err := run(ctx, cfg, log, *migrationsPath); err != nil {
		log.Error("service_failed", "Backend failed", requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, migrationsPath string) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	catalogService := catalog.NewService(catalog.NewRepository(db))
	reservationService := reservation.NewService(reservation.NewRepository(db), log, cfg.App)
	orderService := order.NewService(order.NewRepository(db), log, cfg.App.DeliveryFeeCents)

	catalogHandler := catalog.NewHandler(catalogService, log)
	reservationHandler := reservation.NewHandler(reservationService, log)
	orderHandler := order.NewHandler(orderService, log)

	router := mux.NewRouter()
	router.Use(middleware.RequestLogging(log))

	router.HandleFunc("/health", healthCheck(db)).Methods(http.MethodGet)
	catalogHandler.Register(router)
	reservationHandler.RegisterPublic(router)

	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.Authentication(cfg.Server.JWTSecret))
	reservationHandler.RegisterProtected(protected)
	orderHandler.RegisterProtected(protected)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("server_started", fmt.Sprintf("HTTP server listening on port %d", cfg.Server.Port), requestID, nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// healthCheck reports service and database health.
func healthCheck(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "karinderya-backend",
		})
	}
}
