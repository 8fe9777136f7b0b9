// README: Demand recording handler for ride-request events.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"honeycomb/internal/modules/cells"
)

type DemandHandler struct {
	cells *cells.Service
}

func NewDemandHandler(cellsSvc *cells.Service) *DemandHandler {
	return &DemandHandler{cells: cellsSvc}
}

type recordDemandReq struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	ZoneID   string  `json:"zone_id"`
	Category string  `json:"category"`
}

func (h *DemandHandler) Record(c *gin.Context) {
	var req recordDemandReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if !validCoords(req.Lat, req.Lng) {
		writeError(c, http.StatusBadRequest, "coordinates out of range")
		return
	}
	if req.ZoneID == "" {
		writeError(c, http.StatusBadRequest, "missing zone_id")
		return
	}
	h.cells.RecordDemand(c.Request.Context(), req.Lat, req.Lng, req.ZoneID, req.Category)
	writeJSON(c, http.StatusAccepted, map[string]any{"status": "recorded"})
}
