package router_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
	"github.com/metung95-cpu/ajet-stock/internal/metrics"
	"github.com/metung95-cpu/ajet-stock/internal/server/handlers"
	"github.com/metung95-cpu/ajet-stock/internal/server/router"
	"github.com/metung95-cpu/ajet-stock/internal/service/inventory"
)

type stubAuth struct{}

func (stubAuth) Authenticate(_ context.Context, token string) (models.Session, error) {
	switch token {
	case "admin":
		return models.Session{ID: "a", Username: "AZ", Role: models.RoleAdministrator}, nil
	case "sales":
		return models.Session{ID: "s", Username: "AZS", Role: models.RoleSalesOperator}, nil
	}
	return models.Session{}, errors.New("session expired")
}

func (stubAuth) Login(context.Context, string, string) (models.Session, string, error) {
	return models.Session{}, "", errors.New("not used")
}
func (stubAuth) Logout(context.Context, string) {}
func (stubAuth) TokenTTL() time.Duration        { return time.Hour }

type stubInventory struct{}

func (stubInventory) View(context.Context, models.Capabilities, inventory.Filter, bool) inventory.View {
	return inventory.View{}
}
func (stubInventory) Invalidate(context.Context) error { return nil }

type stubShipments struct{}

func (stubShipments) Candidates(context.Context, models.Capabilities, inventory.Filter) ([]models.ShipmentCandidate, string, error) {
	return nil, "", nil
}
func (stubShipments) Submit(context.Context, models.Session, models.ShipmentRequest) (models.ShipmentResult, error) {
	return models.ShipmentResult{Row: 4}, nil
}

type stubReporter struct{}

func (stubReporter) DailySummary(context.Context, time.Time) (models.LedgerSummary, error) {
	return models.LedgerSummary{}, nil
}

func newEngine() http.Handler {
	h := router.Handlers{
		Auth:      handlers.NewAuthHandler(stubAuth{}, false, nil),
		Inventory: handlers.NewInventoryHandler(stubInventory{}, nil),
		Shipments: handlers.NewShipmentHandler(stubShipments{}, nil, stubReporter{}, time.UTC, nil),
	}
	return router.New(h, stubAuth{}, router.Options{AllowedOrigins: []string{"http://localhost:3000"}, Metrics: metrics.New("test")}, nil)
}

func request(engine http.Handler, method, path, token, body string) int {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w.Code
}

func TestPublicRoutes(t *testing.T) {
	engine := newEngine()

	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/healthz", "", ""))
	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/metrics", "", ""))
}

func TestSessionRequired(t *testing.T) {
	engine := newEngine()

	assert.Equal(t, http.StatusUnauthorized, request(engine, http.MethodGet, "/api/inventory", "", ""))
	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/api/inventory", "admin", ""))
	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/api/me", "sales", ""))
}

func TestShipmentRoutesByRole(t *testing.T) {
	engine := newEngine()
	body := `{"item_name":"꼬리","client":"B","quantity":1}`

	assert.Equal(t, http.StatusForbidden, request(engine, http.MethodPost, "/api/shipments", "admin", body))
	assert.Equal(t, http.StatusCreated, request(engine, http.MethodPost, "/api/shipments", "sales", body))
	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/api/shipments/candidates", "sales", ""))

	assert.Equal(t, http.StatusForbidden, request(engine, http.MethodGet, "/api/shipments/summary", "sales", ""))
	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/api/shipments/summary", "admin", ""))
	assert.Equal(t, http.StatusServiceUnavailable, request(engine, http.MethodGet, "/api/shipments/recent", "admin", ""))
}
