package server

import (
	"net/http"
	"strings"

	"github.com/civicdata/mdm/internal/server/handlers"
	"github.com/civicdata/mdm/internal/server/middleware"
	"github.com/civicdata/mdm/internal/server/response"
)

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(s.registry, s.stats, s.logger)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health endpoints
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/ready", h.HandleReady)

	// Citizens endpoints
	mux.HandleFunc(prefix+"/citizens", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.HandleListCitizens(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	})

	mux.HandleFunc(prefix+"/citizens/", func(w http.ResponseWriter, r *http.Request) {
		citizenID := extractPathParam(r.URL.Path, prefix+"/citizens/")
		if citizenID != "" && r.Method == http.MethodGet {
			h.HandleGetCitizen(w, r, citizenID)
			return
		}
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		response.NotFound(w, "Citizen ID required", "")
	})

	// Load statistics
	mux.HandleFunc(prefix+"/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.HandleStats(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	})

	// Metrics endpoint (optional)
	if s.config.MetricsEnabled {
		mux.Handle("/metrics", s.metrics.handler())
	}
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	// Request metrics (inside logging so counted requests are also logged)
	if cfg.MetricsEnabled {
		handler = s.metrics.instrument(handler)
	}

	// CORS (if enabled)
	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Logging and recovery (always enabled)
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

// extractPathParam extracts the single path segment after prefix. Paths
// with further non-empty segments do not name a resource and yield "".
func extractPathParam(path, prefix string) string {
	trimmed := strings.TrimPrefix(path, prefix)
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 {
		return ""
	}
	for _, extra := range parts[1:] {
		if extra != "" {
			return ""
		}
	}
	return parts[0]
}
