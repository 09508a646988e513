// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/inventory"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/reports"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/http/v1/handlers"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/http/v1/middleware"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/storage/postgres"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Engine is the stock operations engine
	Engine *inventory.Engine

	// Reports is the read-only query service
	Reports *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1 - everything below requires a valid token
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTValidator))

	inventoryHandler := handlers.NewInventoryHandler(cfg.Engine)
	inv := api.Group("/inventory")
	{
		inv.POST("/movements", inventoryHandler.RecordMovement)
		inv.GET("/movements", inventoryHandler.ListMovements)
		inv.POST("/add", inventoryHandler.AddStock)
		inv.POST("/remove", inventoryHandler.RemoveStock)
		inv.POST("/adjust", inventoryHandler.AdjustStock)
		inv.POST("/transfer", inventoryHandler.TransferStock)
		inv.POST("/reserve", inventoryHandler.ReserveStock)
		inv.POST("/release", inventoryHandler.ReleaseReservation)
		inv.GET("/availability", inventoryHandler.CheckAvailability)
		inv.GET("/audit", inventoryHandler.AuditHistory)
	}

	reportsHandler := handlers.NewReportsHandler(cfg.Reports)
	rep := api.Group("/reports/inventory")
	{
		rep.GET("/levels", reportsHandler.Levels)
		rep.GET("/low-stock", reportsHandler.LowStock)
		rep.GET("/products/:id", reportsHandler.ProductInventory)
		rep.GET("/valuation", reportsHandler.Valuation)
	}

	return router
}
