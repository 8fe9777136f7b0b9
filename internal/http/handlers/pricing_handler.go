// README: Surge quote handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"honeycomb/internal/modules/pricing"
)

type PricingHandler struct {
	pricing *pricing.Service
}

func NewPricingHandler(pricingSvc *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: pricingSvc}
}

func (h *PricingHandler) Surge(c *gin.Context) {
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
	multiplier := h.pricing.SurgeMultiplier(c.Request.Context(), lat, lng, zoneID)
	writeJSON(c, http.StatusOK, map[string]any{"surge_multiplier": multiplier})
}
