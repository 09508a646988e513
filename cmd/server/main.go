// Package main is the entry point for the inventory API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/auth"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/inventory"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/reports"
	v1 "github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/http/v1"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/storage/postgres"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/storage/postgres/inventory_repo"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/storage/postgres/report_repo"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting inventory server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// --- Transaction manager ---
	txManager := postgres.NewTxManager(pool)

	// --- Audit service ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	recordRepo := inventory_repo.NewRecordRepo(txManager)
	movementRepo := inventory_repo.NewMovementRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	branchRepo := catalog_repo.NewBranchRepo(txManager)
	levelsRepo := report_repo.NewLevelsRepo(txManager)

	// --- Services ---
	engine := inventory.NewEngine(recordRepo, movementRepo, productRepo, branchRepo, txManager, auditService)
	reportService := reports.NewService(levelsRepo, productRepo, txManager)

	// --- JWT Service ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool,
		Logger:       log,
		JWTValidator: jwtService,
		Engine:       engine,
		Reports:      reportService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
