// README: Candidate driver search handler for the dispatch pipeline.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"honeycomb/internal/modules/dispatch"
)

type DispatchHandler struct {
	dispatch *dispatch.Service
}

func NewDispatchHandler(dispatchSvc *dispatch.Service) *DispatchHandler {
	return &DispatchHandler{dispatch: dispatchSvc}
}

// Candidates returns driver IDs near a pickup point. An empty list with
// accelerated=false tells the caller to run its unaccelerated scan instead.
func (h *DispatchHandler) Candidates(c *gin.Context) {
	lat, lng, ok := queryCoords(c)
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid coordinates")
		return
	}
	zoneID := c.Query("zone_id")
	if zoneID == "" {
		writeError(c, http.StatusBadRequest, "missing zone_id")
		return
	}

	candidates := h.dispatch.CandidateDrivers(c.Request.Context(), lat, lng, zoneID, c.Query("category"))
	writeJSON(c, http.StatusOK, map[string]any{
		"accelerated": candidates != nil,
		"candidates":  candidates,
		"count":       len(candidates),
	})
}
