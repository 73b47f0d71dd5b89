package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"
)

type BrokerHealth interface {
	Healthy() bool
}

type HealthHandler struct {
	DB                *sql.DB
	LegacyDB          *sql.DB
	Broker            BrokerHealth
	ShopifyConfigured bool
	StartTime         time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler takes the optional dependencies as nil when they are not
// configured.
func NewHealthHandler(db, legacyDB *sql.DB, broker BrokerHealth, shopifyConfigured bool) *HealthHandler {
	return &HealthHandler{
		DB:                db,
		LegacyDB:          legacyDB,
		Broker:            broker,
		ShopifyConfigured: shopifyConfigured,
		StartTime:         time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := map[string]string{
		"database":        pingStatus(ctx, h.DB),
		"legacy_database": pingStatus(ctx, h.LegacyDB),
	}

	switch {
	case h.Broker == nil:
		deps["rabbitmq"] = "not configured"
	case h.Broker.Healthy():
		deps["rabbitmq"] = "healthy"
	default:
		deps["rabbitmq"] = "unhealthy: connection closed"
	}

	if h.ShopifyConfigured {
		deps["shopify"] = "configured"
	} else {
		deps["shopify"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}

func pingStatus(ctx context.Context, db *sql.DB) string {
	if db == nil {
		return "not configured"
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Sprintf("unhealthy: %v", err)
	}
	return "healthy"
}
