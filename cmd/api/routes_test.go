package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/config"
	"github.com/xavierca1/opsdesk/internal/infra/http/handlers"
)

type upBroker struct{}

func (upBroker) Healthy() bool { return true }

func testRouter(t *testing.T, limit int) http.Handler {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectPing()

	logger := zap.NewNop()
	cfg := &config.Config{CORSOrigins: []string{"http://localhost:3000"}}
	return newRouter(cfg, logger, routes{
		health:      handlers.NewHealthHandler(db, nil, upBroker{}, true),
		checkouts:   handlers.NewCheckoutHandler(nil, logger),
		carts:       handlers.NewCartHandler(nil, nil, logger),
		leads:       handlers.NewLeadHandler(nil, logger),
		templates:   handlers.NewTemplateHandler(nil, nil, logger),
		products:    handlers.NewProductHandler(nil, logger),
		callRecords: handlers.NewCallRecordHandler(nil, logger),
		limiter:     handlers.NewRateLimiter(limit, time.Minute),
	})
}

func TestRouterHealthAndMetrics(t *testing.T) {
	r := testRouter(t, 10)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRouterUnknownRoute(t *testing.T) {
	r := testRouter(t, 10)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestRouterRateLimitsWrites(t *testing.T) {
	r := testRouter(t, 1)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/templates", strings.NewReader("{"))
		req.RemoteAddr = "10.0.0.9:5555"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusBadRequest, post())
	assert.Equal(t, http.StatusTooManyRequests, post())
}
