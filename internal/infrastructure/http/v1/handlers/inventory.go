package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/apperror"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/types"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/domain/inventory"
	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/infrastructure/http/v1/dto"
)

// InventoryHandler exposes the stock operations engine over HTTP.
type InventoryHandler struct {
	*BaseHandler
	engine *inventory.Engine
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(engine *inventory.Engine) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler: NewBaseHandler(),
		engine:      engine,
	}
}

// RecordMovement handles POST /inventory/movements.
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, ok := h.ParseID(c, "productId", req.ProductID)
	if !ok {
		return
	}
	branchID, ok := h.ParseID(c, "branchId", req.BranchID)
	if !ok {
		return
	}
	unitCost, ok := h.parseUnitCost(c, req.UnitCost)
	if !ok {
		return
	}

	movement, err := h.engine.RecordMovement(c.Request.Context(), inventory.MovementInput{
		ProductID:     productID,
		BranchID:      branchID,
		Type:          inventory.MovementType(req.Type),
		Quantity:      req.Quantity,
		UnitCost:      unitCost,
		Reference:     req.Reference,
		ReferenceType: inventory.ReferenceType(req.ReferenceType),
		Notes:         req.Notes,
		PerformedBy:   req.PerformedBy,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovement(movement))
}

// AddStock handles POST /inventory/add.
func (h *InventoryHandler) AddStock(c *gin.Context) {
	var req dto.AddStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, ok := h.ParseID(c, "productId", req.ProductID)
	if !ok {
		return
	}
	branchID, ok := h.ParseID(c, "branchId", req.BranchID)
	if !ok {
		return
	}
	unitCost, ok := h.parseUnitCost(c, req.UnitCost)
	if !ok {
		return
	}

	movement, err := h.engine.AddStock(c.Request.Context(), productID, branchID, req.Quantity, unitCost, req.Reference, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovement(movement))
}

// RemoveStock handles POST /inventory/remove.
func (h *InventoryHandler) RemoveStock(c *gin.Context) {
	var req dto.RemoveStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, ok := h.ParseID(c, "productId", req.ProductID)
	if !ok {
		return
	}
	branchID, ok := h.ParseID(c, "branchId", req.BranchID)
	if !ok {
		return
	}

	movement, err := h.engine.RemoveStock(c.Request.Context(), productID, branchID, req.Quantity, req.Reference, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovement(movement))
}

// AdjustStock handles POST /inventory/adjust.
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, ok := h.ParseID(c, "productId", req.ProductID)
	if !ok {
		return
	}
	branchID, ok := h.ParseID(c, "branchId", req.BranchID)
	if !ok {
		return
	}

	movement, err := h.engine.AdjustStock(c.Request.Context(), productID, branchID, *req.NewQuantity, req.Reason, req.Notes, req.PerformedBy)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovement(movement))
}

// TransferStock handles POST /inventory/transfer.
func (h *InventoryHandler) TransferStock(c *gin.Context) {
	var req dto.TransferStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, ok := h.ParseID(c, "productId", req.ProductID)
	if !ok {
		return
	}
	fromBranchID, ok := h.ParseID(c, "fromBranchId", req.FromBranchID)
	if !ok {
		return
	}
	toBranchID, ok := h.ParseID(c, "toBranchId", req.ToBranchID)
	if !ok {
		return
	}

	result, err := h.engine.TransferStock(c.Request.Context(), productID, fromBranchID, toBranchID, req.Quantity, req.Notes, req.PerformedBy)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromTransfer(result))
}

// ReserveStock handles POST /inventory/reserve.
func (h *InventoryHandler) ReserveStock(c *gin.Context) {
	var req dto.ReservationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, ok := h.ParseID(c, "productId", req.ProductID)
	if !ok {
		return
	}
	branchID, ok := h.ParseID(c, "branchId", req.BranchID)
	if !ok {
		return
	}

	record, err := h.engine.ReserveStock(c.Request.Context(), productID, branchID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromRecord(record))
}

// ReleaseReservation handles POST /inventory/release.
func (h *InventoryHandler) ReleaseReservation(c *gin.Context) {
	var req dto.ReservationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, ok := h.ParseID(c, "productId", req.ProductID)
	if !ok {
		return
	}
	branchID, ok := h.ParseID(c, "branchId", req.BranchID)
	if !ok {
		return
	}

	record, err := h.engine.ReleaseReservation(c.Request.Context(), productID, branchID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromRecord(record))
}

// CheckAvailability handles GET /inventory/availability.
func (h *InventoryHandler) CheckAvailability(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId", c.Query("productId"))
	if !ok {
		return
	}
	branchID, ok := h.ParseID(c, "branchId", c.Query("branchId"))
	if !ok {
		return
	}
	quantity := int64(h.ParseIntQuery(c, "quantity", 1))

	result, err := h.engine.CheckAvailability(c.Request.Context(), productID, branchID, quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// AuditHistory handles GET /inventory/audit.
func (h *InventoryHandler) AuditHistory(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId", c.Query("productId"))
	if !ok {
		return
	}
	limit := h.ParseIntQuery(c, "limit", 0)

	records, err := h.engine.GetAuditHistory(c.Request.Context(), productID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, records)
}

// ListMovements handles GET /inventory/movements.
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	filter := inventory.MovementFilter{
		Type:  inventory.MovementType(c.Query("type")),
		Page:  h.ParseIntQuery(c, "page", 0),
		Limit: h.ParseIntQuery(c, "limit", 0),
	}

	if raw := c.Query("productId"); raw != "" {
		productID, ok := h.ParseID(c, "productId", raw)
		if !ok {
			return
		}
		filter.ProductID = &productID
	}
	if raw := c.Query("branchId"); raw != "" {
		branchID, ok := h.ParseID(c, "branchId", raw)
		if !ok {
			return
		}
		filter.BranchID = &branchID
	}
	if raw := c.Query("dateFrom"); raw != "" {
		from, ok := h.parseTime(c, "dateFrom", raw)
		if !ok {
			return
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("dateTo"); raw != "" {
		to, ok := h.parseTime(c, "dateTo", raw)
		if !ok {
			return
		}
		filter.DateTo = &to
	}

	page, err := h.engine.GetMovements(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromMovementPage(page))
}

func (h *InventoryHandler) parseUnitCost(c *gin.Context, raw *string) (*types.Money, bool) {
	if raw == nil {
		return nil, true
	}
	cost, err := types.NewMoneyFromString(*raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid unit cost").WithDetail("unitCost", *raw))
		return nil, false
	}
	return &cost, true
}

func (h *InventoryHandler) parseTime(c *gin.Context, field, raw string) (time.Time, bool) {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid timestamp, expected RFC3339").WithDetail(field, raw))
		return time.Time{}, false
	}
	return parsed, true
}
