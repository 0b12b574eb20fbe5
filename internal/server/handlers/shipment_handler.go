package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
	"github.com/metung95-cpu/ajet-stock/internal/server/middleware"
	"github.com/metung95-cpu/ajet-stock/internal/service/inventory"
	"github.com/metung95-cpu/ajet-stock/internal/service/shipment"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

// ShipmentService is the subset of the shipment service used over HTTP.
type ShipmentService interface {
	Candidates(ctx context.Context, caps models.Capabilities, filter inventory.Filter) ([]models.ShipmentCandidate, string, error)
	Submit(ctx context.Context, session models.Session, req models.ShipmentRequest) (models.ShipmentResult, error)
}

// AuditReader lists recent ledger writes.
type AuditReader interface {
	RecentShipments(ctx context.Context, limit int64) ([]models.ShipmentAudit, error)
}

// SummaryReporter aggregates one ledger date.
type SummaryReporter interface {
	DailySummary(ctx context.Context, day time.Time) (models.LedgerSummary, error)
}

// ShipmentHandler serves shipment registration and the admin ledger views.
type ShipmentHandler struct {
	svc      ShipmentService
	audit    AuditReader
	reporter SummaryReporter
	location *time.Location
	logger   *zap.Logger
}

// NewShipmentHandler constructs the shipment HTTP adapter. audit may be nil when no
// audit store is configured.
func NewShipmentHandler(svc ShipmentService, audit AuditReader, reporter SummaryReporter, loc *time.Location, logger *zap.Logger) *ShipmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ShipmentHandler{svc: svc, audit: audit, reporter: reporter, location: loc, logger: logger}
}

// Candidates lists the items a sales operator may ship.
func (h *ShipmentHandler) Candidates(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다."})
		return
	}

	candidates, warning, err := h.svc.Candidates(c.Request.Context(), sess.Role.Capabilities(), inventory.Filter{
		Item:  c.Query("item"),
		Brand: c.Query("brand"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": candidates, "count": len(candidates), "warning": warning})
}

// Submit registers one shipment in the ledger.
func (h *ShipmentHandler) Submit(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다."})
		return
	}

	var req models.ShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid shipment payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), sess, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Recent lists the latest audited shipments.
func (h *ShipmentHandler) Recent(c *gin.Context) {
	if h.audit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shipment audit store is not configured"})
		return
	}

	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRecentLimit)
	}

	shipments, err := h.audit.RecentShipments(c.Request.Context(), int64(limit))
	if err != nil {
		h.logger.Error("failed listing recent shipments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list shipments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"shipments": shipments, "count": len(shipments)})
}

// Summary aggregates the ledger rows for ?date=YYYY-MM-DD, today by default.
func (h *ShipmentHandler) Summary(c *gin.Context) {
	day := time.Now().In(h.location)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.location)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	summary, err := h.reporter.DailySummary(c.Request.Context(), day)
	if err != nil {
		h.logger.Error("failed building ledger summary", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ShipmentHandler) writeError(c *gin.Context, err error) {
	status, message := shipmentErrorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("shipment request failed", zap.Error(err))
	} else {
		h.logger.Info("shipment request rejected", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": message})
}

func shipmentErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, shipment.ErrForbidden):
		return http.StatusForbidden, "출고 등록 권한이 없습니다."
	case errors.Is(err, shipment.ErrClientRequired):
		return http.StatusUnprocessableEntity, "거래처를 입력하세요."
	case errors.Is(err, shipment.ErrInsufficientStock):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, shipment.ErrInvalidQuantity):
		return http.StatusUnprocessableEntity, "수량은 1 이상이어야 합니다."
	case errors.Is(err, shipment.ErrInvalidPrice):
		return http.StatusUnprocessableEntity, "단가는 0 이상이어야 합니다."
	case errors.Is(err, shipment.ErrInventoryUnavailable):
		return http.StatusServiceUnavailable, inventory.LoadWarning
	case errors.Is(err, shipment.ErrInvalidDate):
		return http.StatusUnprocessableEntity, "출고일은 YYYY-MM-DD 형식이어야 합니다."
	case errors.Is(err, shipment.ErrItemNotFound):
		return http.StatusNotFound, "선택한 품목을 재고에서 찾을 수 없습니다."
	case errors.Is(err, shipment.ErrNoAvailableRow):
		return http.StatusConflict, "해당 날짜에 빈 출고 행이 없습니다. 운영부에 행 추가를 요청하세요."
	case errors.Is(err, shipment.ErrLedgerRead), errors.Is(err, shipment.ErrLedgerWrite):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, "shipment registration failed"
	}
}
