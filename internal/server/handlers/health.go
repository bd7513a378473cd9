package handlers

import (
	"net/http"
	"time"

	"github.com/civicdata/mdm/internal/server/response"
)

// HandleHealth handles the liveness probe. It is unrelated to the record
// store and answers as long as the process serves requests.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":    "healthy",
		"service":   "mdm-api",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleReady handles the readiness probe: ready once the registry has
// been built and published.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if h.registry == nil {
		response.ServiceUnavailable(w, "Registry not available")
		return
	}

	response.OK(w, map[string]any{
		"status":   "ready",
		"citizens": h.registry.Len(),
		"uptime":   time.Since(h.startTime).String(),
	})
}
