// README: Driver-facing handlers: location pings, offline, cell stats.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"honeycomb/internal/modules/cells"
	"honeycomb/internal/modules/heatmap"
	"honeycomb/internal/types"
)

type TrackerHandler struct {
	cells   *cells.Service
	heatmap *heatmap.Service
}

func NewTrackerHandler(cellsSvc *cells.Service, heatmapSvc *heatmap.Service) *TrackerHandler {
	return &TrackerHandler{cells: cellsSvc, heatmap: heatmapSvc}
}

type locationPingReq struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	ZoneID   string  `json:"zone_id"`
	Category string  `json:"category"`
}

// UpdateLocation folds a driver's location ping into the cell index. The
// response is 200 even when honeycomb is disabled for the zone; the ping
// itself was accepted.
func (h *TrackerHandler) UpdateLocation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing driver id")
		return
	}
	var req locationPingReq
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
	h.cells.UpdateDriverCell(c.Request.Context(), types.ID(id), req.Lat, req.Lng, req.ZoneID, req.Category)
	writeJSON(c, http.StatusOK, map[string]any{"status": "ok"})
}

type offlineReq struct {
	ZoneID string `json:"zone_id"`
}

func (h *TrackerHandler) Offline(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing driver id")
		return
	}
	var req offlineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	h.cells.RemoveDriverFromCells(c.Request.Context(), types.ID(id), req.ZoneID)
	writeJSON(c, http.StatusOK, map[string]any{"status": "ok"})
}

// CellStats reports the driver's current cell plus hotspot guidance.
func (h *TrackerHandler) CellStats(c *gin.Context) {
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
	writeJSON(c, http.StatusOK, h.heatmap.CellStats(c.Request.Context(), lat, lng, zoneID))
}
