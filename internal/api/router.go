// Package api exposes template preview, synth and version history over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/api/handler"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/api/middleware"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/service"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/template"
	"go.uber.org/zap"
)

// Options configure the router.
type Options struct {
	// APIKey protects /api/v1 when set.
	APIKey string
	// Variants and Format apply when a request does not name its own.
	Variants []domain.Variant
	Format   template.Format
	Logger   *zap.Logger
}

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(synthService *service.SynthService, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	format := opts.Format
	if format == "" {
		format = template.FormatJSON
	}
	variants := opts.Variants
	if len(variants) == 0 {
		variants = domain.KnownVariants()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(logger))

	// Health check (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(opts.APIKey))

		templateHandler := handler.NewTemplateHandler(synthService, variants, format)
		r.Get("/template", templateHandler.Preview)
		r.Post("/synth", templateHandler.Synth)

		versionHandler := handler.NewVersionHandler(synthService)
		r.Get("/versions", versionHandler.List)
		r.Get("/versions/{id}", versionHandler.Get)
	})

	return r
}
