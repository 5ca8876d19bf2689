package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	mw "github.com/lorrc/coordination-backend/internal/adapters/primary/http/middleware"
	apperrors "github.com/lorrc/coordination-backend/internal/core/errors"
)

// RouterConfig holds the cross-cutting pieces the router is assembled from.
type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string

	// Tokens validates bearer tokens. When nil, sessions come from the
	// X-Session-ID header and anonymous reads are allowed.
	Tokens mw.TokenValidator

	// Limiter applies to every request when non-nil.
	Limiter *mw.RateLimiter

	// Errors formats middleware rejections and unknown routes.
	Errors *ErrorHandler
}

// NewRouter wires middleware, health probes, the websocket endpoint and the
// coordination API into a single handler.
func NewRouter(
	cfg RouterConfig,
	coordination *CoordinationHandler,
	health *HealthHandler,
	ws *WebSocketHandler,
) chi.Router {
	r := chi.NewRouter()

	errs := cfg.Errors
	if errs == nil {
		errs = NewErrorHandler(cfg.Logger)
	}

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(cfg.Logger))
	r.Use(mw.RecoveryLogger(cfg.Logger, errs.Handle))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader, mw.SessionIDHeader},
		ExposedHeaders:   []string{mw.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.Limiter != nil {
		r.Use(cfg.Limiter.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		errs.Handle(w, req, apperrors.NewNotFoundError(apperrors.ErrNotFound, "Route not found"))
	})

	// Health check endpoints (outside /api/v1 for standard probe paths)
	health.RegisterRoutes(r)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Tokens == nil {
			r.Use(mw.HeaderSession)
		}

		// WebSocket route (the session is resolved inside the handler)
		if ws != nil {
			r.Get("/ws", ws.ServeHTTP)
		}

		r.Group(func(r chi.Router) {
			if cfg.Tokens != nil {
				r.Use(mw.BearerSession(cfg.Tokens, errs.Handle))
			}
			coordination.RegisterRoutes(r)
		})
	})

	return r
}
