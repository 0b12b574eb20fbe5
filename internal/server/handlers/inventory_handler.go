package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
	"github.com/metung95-cpu/ajet-stock/internal/server/middleware"
	"github.com/metung95-cpu/ajet-stock/internal/service/inventory"
)

// InventoryService is the subset of the inventory service used over HTTP.
type InventoryService interface {
	View(ctx context.Context, caps models.Capabilities, filter inventory.Filter, byExpiry bool) inventory.View
	Invalidate(ctx context.Context) error
}

// InventoryHandler serves the role-scoped inventory table.
type InventoryHandler struct {
	svc    InventoryService
	logger *zap.Logger
}

// NewInventoryHandler constructs the inventory HTTP adapter.
func NewInventoryHandler(svc InventoryService, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// List returns the filtered inventory. A failed sheet read still answers 200 with an
// empty table and a warning.
func (h *InventoryHandler) List(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다."})
		return
	}

	var byExpiry bool
	switch c.DefaultQuery("sort", "warehouse") {
	case "warehouse":
	case "expiry":
		byExpiry = true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be warehouse or expiry"})
		return
	}

	filter := inventory.Filter{
		Item:      c.Query("item"),
		Brand:     c.Query("brand"),
		BrandMode: inventory.BrandPrefix,
	}
	view := h.svc.View(c.Request.Context(), sess.Role.Capabilities(), filter, byExpiry)

	c.JSON(http.StatusOK, gin.H{
		"columns":    view.Columns,
		"rows":       view.Rows(),
		"count":      len(view.Records),
		"fetched_at": view.FetchedAt,
		"warning":    view.Warning,
	})
}

// Refresh drops the cached snapshot so the next read goes to the sheet.
func (h *InventoryHandler) Refresh(c *gin.Context) {
	if err := h.svc.Invalidate(c.Request.Context()); err != nil {
		h.logger.Error("failed invalidating inventory cache", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh inventory"})
		return
	}
	c.Status(http.StatusNoContent)
}
