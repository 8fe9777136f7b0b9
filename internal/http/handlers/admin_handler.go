// README: Admin handlers for settings upsert and cache invalidation.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"honeycomb/internal/modules/settings"
)

// SettingsWriter persists settings rows; *settings.Store in production.
type SettingsWriter interface {
	Upsert(ctx context.Context, v *settings.ZoneSettings) error
}

// Invalidator drops cached settings and broadcasts the change.
type Invalidator interface {
	Invalidate(ctx context.Context, zoneID string) error
}

type AdminHandler struct {
	store       SettingsWriter
	invalidator Invalidator
}

func NewAdminHandler(store SettingsWriter, invalidator Invalidator) *AdminHandler {
	return &AdminHandler{store: store, invalidator: invalidator}
}

// UpsertSettings writes a zone (or global) settings row and invalidates the
// caches so the change takes effect everywhere without a restart.
func (h *AdminHandler) UpsertSettings(c *gin.Context) {
	var req settings.ZoneSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Resolution < 7 || req.Resolution > 9 {
		writeError(c, http.StatusBadRequest, "resolution must be 7, 8, or 9")
		return
	}
	if req.SearchDepthK < 0 {
		writeError(c, http.StatusBadRequest, "search_depth_k must be >= 0")
		return
	}

	ctx := c.Request.Context()
	if err := h.store.Upsert(ctx, &req); err != nil {
		writeError(c, http.StatusInternalServerError, "settings write failed")
		return
	}
	if err := h.invalidator.Invalidate(ctx, req.ZoneID); err != nil {
		writeError(c, http.StatusInternalServerError, "settings saved but invalidation failed")
		return
	}
	writeJSON(c, http.StatusOK, req)
}

type invalidateReq struct {
	ZoneID string `json:"zone_id"`
}

// InvalidateSettings drops cached settings for one zone, or all zones when
// zone_id is empty.
func (h *AdminHandler) InvalidateSettings(c *gin.Context) {
	var req invalidateReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	if err := h.invalidator.Invalidate(c.Request.Context(), req.ZoneID); err != nil {
		writeError(c, http.StatusInternalServerError, "invalidation failed")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": "invalidated", "zone_id": req.ZoneID})
}
