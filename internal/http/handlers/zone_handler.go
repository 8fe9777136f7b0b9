// README: Zone-level heatmap and hotspot handlers for ops dashboards.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"honeycomb/internal/modules/heatmap"
)

const defaultHotspotLimit = 10

type ZoneHandler struct {
	heatmap *heatmap.Service
}

func NewZoneHandler(heatmapSvc *heatmap.Service) *ZoneHandler {
	return &ZoneHandler{heatmap: heatmapSvc}
}

func (h *ZoneHandler) Heatmap(c *gin.Context) {
	zoneID := c.Param("id")
	if zoneID == "" {
		writeError(c, http.StatusBadRequest, "missing zone id")
		return
	}
	entries := h.heatmap.Heatmap(c.Request.Context(), zoneID)
	writeJSON(c, http.StatusOK, map[string]any{
		"zone_id": zoneID,
		"cells":   entries,
		"count":   len(entries),
	})
}

func (h *ZoneHandler) Hotspots(c *gin.Context) {
	zoneID := c.Param("id")
	if zoneID == "" {
		writeError(c, http.StatusBadRequest, "missing zone id")
		return
	}
	limit := defaultHotspotLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	hotspots := h.heatmap.Hotspots(c.Request.Context(), zoneID, limit)
	writeJSON(c, http.StatusOK, map[string]any{
		"zone_id":  zoneID,
		"hotspots": hotspots,
		"count":    len(hotspots),
	})
}
