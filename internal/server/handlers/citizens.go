package handlers

import (
	"net/http"

	"github.com/civicdata/mdm/internal/server/response"
	"github.com/civicdata/mdm/pkg/citizens"
)

// HandleListCitizens handles GET {prefix}/citizens and returns every
// golden record in the registry.
func (h *Handlers) HandleListCitizens(w http.ResponseWriter, _ *http.Request) {
	records := h.registry.List()
	response.OK(w, map[string]any{
		"citizens": records,
		"total":    len(records),
	})
}

// HandleGetCitizen handles GET {prefix}/citizens/{id}. An identity that
// never appeared in any source is a not-found condition, never an error.
func (h *Handlers) HandleGetCitizen(w http.ResponseWriter, _ *http.Request, id string) {
	record, err := h.registry.Lookup(citizens.ID(id))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, record)
}

// HandleStats handles GET {prefix}/stats with the load statistics of the
// resolution pass that built the registry.
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.stats)
}
