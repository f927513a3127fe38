// Package httpapi wires cmd/legerd's chi router, adapted from the
// teacher's internal/api and internal/poller/api routers.
package httpapi

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fouge/leger-go/internal/httpapi/handlers"
	"github.com/fouge/leger-go/internal/httpapi/middleware"
	"github.com/fouge/leger-go/internal/provider"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewRouter builds the status/transfer HTTP surface in front of a
// Provider.
func NewRouter(p *provider.Provider) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogging)

	slog.Info("router initialized", "middleware", []string{"realIP", "recoverer", "requestLogging"})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.HealthHandler(p, Version))
		r.Get("/chain", handlers.ChainHandler(p))
		r.Get("/block/{number}", handlers.BlockHashHandler(p))
		r.Get("/block", handlers.BlockHashHandler(p))
		r.Post("/transfer", handlers.TransferHandler(p))
	})

	return r
}
