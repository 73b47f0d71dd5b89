package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/config"
	"github.com/xavierca1/opsdesk/internal/infra/http/handlers"
	"github.com/xavierca1/opsdesk/internal/infra/http/middleware"
)

type routes struct {
	health      *handlers.HealthHandler
	checkouts   *handlers.CheckoutHandler
	carts       *handlers.CartHandler
	leads       *handlers.LeadHandler
	templates   *handlers.TemplateHandler
	products    *handlers.ProductHandler
	callRecords *handlers.CallRecordHandler
	limiter     *handlers.RateLimiter
}

func newRouter(cfg *config.Config, logger *zap.Logger, h routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(60 * time.Second))
		r.Use(h.limiter.Limit)

		r.Route("/checkouts", func(r chi.Router) {
			r.Get("/", h.checkouts.List)
			r.Post("/sync", h.checkouts.Sync)
			r.Patch("/{id}", h.checkouts.Update)
			r.Get("/{id}/url", h.checkouts.URL)
		})
		r.Get("/checkout-urls", h.checkouts.URLs)

		r.Route("/carts", func(r chi.Router) {
			r.Get("/", h.carts.List)
			r.Get("/metrics", h.carts.Metrics)
			r.Get("/{id}", h.carts.Get)
			r.Get("/{id}/remarks", h.carts.ListRemarks)
			r.Post("/{id}/remarks", h.carts.AddRemark)
			r.Delete("/{id}/remarks/{remarkId}", h.carts.DeleteRemark)
			r.Get("/{id}/status", h.carts.Status)
			r.Post("/{id}/status", h.carts.SetStatus)
		})
		r.Post("/cart-update", h.carts.Update)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", h.leads.List)
			r.Post("/", h.leads.Create)
			r.Get("/legacy", h.leads.Legacy)
			r.Get("/merged", h.leads.Merged)
			r.Get("/stats", h.leads.Stats)
			r.Put("/{id}", h.leads.Update)
			r.Delete("/{id}", h.leads.Delete)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.templates.List)
			r.Post("/", h.templates.Create)
			r.Put("/{id}", h.templates.Update)
			r.Delete("/{id}", h.templates.Delete)
		})
		r.Post("/send-message", h.templates.SendMessage)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.products.List)
			r.Get("/stats", h.products.Stats)
		})

		r.Route("/call-records", func(r chi.Router) {
			r.Get("/", h.callRecords.List)
			r.Post("/", h.callRecords.Create)
			r.Get("/stats", h.callRecords.Stats)
			r.Put("/{id}", h.callRecords.Update)
			r.Delete("/{id}", h.callRecords.Delete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"NOT_FOUND","message":"route not found"}`))
	})

	logger.Debug("routes registered")
	return r
}
