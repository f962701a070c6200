package main

import (
	"log"
	"time"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/routes"
)

func main() {
	// 1. --- Configuration ---
	cfg := config.Load()
	auth.SetSecret(cfg.JWTSecret)

	// 2. --- Database Connection ---
	db, err := database.Open(cfg.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	app := &handlers.Handlers{DB: db}

	// 3. --- Background Worker ---
	// Sweeps up abandoned checkouts: pending orders whose payment never
	// settled get cancelled and their reserved stock put back.
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()

		log.Printf("Background worker started: sweeping pending orders older than %s every %s",
			cfg.PendingOrderTTL, cfg.SweepInterval)

		for range ticker.C {
			app.ReleaseStalePendingOrders(cfg.PendingOrderTTL)
		}
	}()

	// 4. --- Router & Server ---
	router := routes.SetupRouter(app, cfg.AllowedOrigin)

	log.Printf("Starting storefront API server on %s...", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
