package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"appliance-rental-backend/internal/api/grpc"
	httpapi "appliance-rental-backend/internal/api/http"
	"appliance-rental-backend/internal/app"
	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/logger"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Appliance Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "health_address", cfg.GetHealthAddress())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := app.OpenDatabase(ctx, cfg, true)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Initialize Services
	svcs, err := app.NewServices(cfg, db)
	if err != nil {
		logger.Error("Failed to initialize services", "error", err)
		log.Fatalf("Failed to initialize services: %v", err)
	}

	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:         httpapi.NewAuthHandler(svcs.Auth),
		User:         httpapi.NewUserHandler(svcs.User),
		Appliance:    httpapi.NewApplianceHandler(svcs.Appliance, svcs.Admin),
		Rental:       httpapi.NewRentalHandler(svcs.Rental),
		Admin:        httpapi.NewAdminHandler(svcs.Admin, svcs.Rental),
		Notification: httpapi.NewNotificationHandler(svcs.Notification),
		Health:       httpapi.NewHealthHandler(db),
	}, svcs.Tokens)

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	// Set up gRPC health server
	var health *grpc.HealthServer
	if addr := cfg.GetHealthAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		health = grpc.NewHealthServer(db)
		go health.Watch(ctx, 15*time.Second)
		go func() {
			if err := health.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC health", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if health != nil {
		health.Stop()
	}
	logger.Info("Server stopped. Goodbye!")
}
