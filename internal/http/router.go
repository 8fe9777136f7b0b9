// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"honeycomb/internal/http/handlers"
	"honeycomb/internal/http/middleware"
	"honeycomb/internal/modules/cells"
	"honeycomb/internal/modules/dispatch"
	"honeycomb/internal/modules/heatmap"
	"honeycomb/internal/modules/pricing"
)

type RouterDeps struct {
	Cells         *cells.Service
	Dispatch      *dispatch.Service
	Pricing       *pricing.Service
	Heatmap       *heatmap.Service
	SettingsStore handlers.SettingsWriter
	Invalidator   handlers.Invalidator
	Log           *zap.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	trackerHandler := handlers.NewTrackerHandler(deps.Cells, deps.Heatmap)
	r.PUT("/api/drivers/:id/location", trackerHandler.UpdateLocation)
	r.POST("/api/drivers/:id/offline", trackerHandler.Offline)
	r.GET("/api/drivers/:id/cell-stats", trackerHandler.CellStats)

	demandHandler := handlers.NewDemandHandler(deps.Cells)
	r.POST("/api/demand", demandHandler.Record)

	dispatchHandler := handlers.NewDispatchHandler(deps.Dispatch)
	r.GET("/api/dispatch/candidates", dispatchHandler.Candidates)

	pricingHandler := handlers.NewPricingHandler(deps.Pricing)
	r.GET("/api/pricing/surge", pricingHandler.Surge)

	zoneHandler := handlers.NewZoneHandler(deps.Heatmap)
	r.GET("/api/zones/:id/heatmap", zoneHandler.Heatmap)
	r.GET("/api/zones/:id/hotspots", zoneHandler.Hotspots)

	adminHandler := handlers.NewAdminHandler(deps.SettingsStore, deps.Invalidator)
	r.PUT("/api/admin/settings", adminHandler.UpsertSettings)
	r.POST("/api/admin/settings/invalidate", adminHandler.InvalidateSettings)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
