package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/id"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/reports"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/http/v1/dto"
)

// ReportsHandler exposes read-only inventory reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Levels handles GET /reports/inventory/levels.
func (h *ReportsHandler) Levels(c *gin.Context) {
	branchID, ok := h.optionalBranch(c)
	if !ok {
		return
	}
	lowStockOnly := c.Query("lowStockOnly") == "true"

	levels, err := h.service.GetInventoryLevels(c.Request.Context(), branchID, lowStockOnly)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLevels(levels))
}

// LowStock handles GET /reports/inventory/low-stock.
func (h *ReportsHandler) LowStock(c *gin.Context) {
	branchID, ok := h.optionalBranch(c)
	if !ok {
		return
	}

	alerts, err := h.service.GetLowStockAlerts(c.Request.Context(), branchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLevels(alerts))
}

// ProductInventory handles GET /reports/inventory/products/:id.
func (h *ReportsHandler) ProductInventory(c *gin.Context) {
	productID, ok := h.ParseID(c, "id", c.Param("id"))
	if !ok {
		return
	}

	result, err := h.service.GetProductInventory(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProductInventory(result))
}

// Valuation handles GET /reports/inventory/valuation.
func (h *ReportsHandler) Valuation(c *gin.Context) {
	branchID, ok := h.optionalBranch(c)
	if !ok {
		return
	}

	valuation, err := h.service.GetInventoryValuation(c.Request.Context(), branchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromValuation(valuation))
}

func (h *ReportsHandler) optionalBranch(c *gin.Context) (*id.ID, bool) {
	raw := c.Query("branchId")
	if raw == "" {
		return nil, true
	}
	branchID, ok := h.ParseID(c, "branchId", raw)
	if !ok {
		return nil, false
	}
	return &branchID, true
}
