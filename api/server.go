/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. CORS:          Cross-origin requests for the frontend
  2. RequestLogger: Structured request logging (httplog over slog)
  3. RequestID:     Unique ID per request for tracing
  4. Recoverer:     Panic recovery (500 instead of crash)
  5. Heartbeat:     Liveness probe at /ping

ROUTE GROUPS:
  /api/workers/*   Worker contracts, calculation, auto-fill, payments
  /api/demo/*      Demo data loading

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "salary-engine"),
	)

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Worker routes
		r.Route("/workers", func(r chi.Router) {
			r.Get("/", h.ListWorkers)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/contracts", h.GetContracts)
				r.Get("/hours", h.GetCalendarHours)
				r.Post("/calculate", h.Calculate)
				r.Post("/autofill", h.ToggleAutoFill)

				r.Route("/payments", func(r chi.Router) {
					r.Get("/", h.ListPayments)
					r.Post("/", h.CreatePayment)
					r.Put("/{itemID}", h.UpdatePayment)
					r.Delete("/{itemID}", h.DeletePayment)
				})
			})
		})

		// Demo routes
		r.Route("/demo", func(r chi.Router) {
			r.Post("/seed", h.SeedDemo)
		})
	})

	return r
}
