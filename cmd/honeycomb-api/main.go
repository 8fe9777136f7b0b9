// README: Entry point; loads config, wires services, starts HTTP server and
// the settings invalidation subscriber.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"honeycomb/internal/config"
	httptransport "honeycomb/internal/http"
	"honeycomb/internal/infra"
	"honeycomb/internal/modules/cells"
	"honeycomb/internal/modules/dispatch"
	"honeycomb/internal/modules/heatmap"
	"honeycomb/internal/modules/pricing"
	"honeycomb/internal/modules/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("postgres init", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	settingsStore := settings.NewStore(dbPool)
	settingsCache := settings.NewRedisCache(redisClient)
	settingsSvc := settings.NewService(settingsStore, settingsCache, logger, cfg.Cells.SettingsTTL)

	cellStore := cells.NewStore(redisClient)
	cellsSvc := cells.NewService(cellStore, settingsSvc, logger, cfg.Cells.DemandWindow)

	dispatchSvc := dispatch.NewService(cellStore, settingsSvc, logger)
	pricingSvc := pricing.NewService(cellStore, settingsSvc, cellsSvc, logger)
	heatmapSvc := heatmap.NewService(cellStore, settingsSvc, cellsSvc, logger)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Cells:         cellsSvc,
		Dispatch:      dispatchSvc,
		Pricing:       pricingSvc,
		Heatmap:       heatmapSvc,
		SettingsStore: settingsStore,
		Invalidator:   settingsSvc,
		Log:           logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go settingsSvc.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("honeycomb api listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("http server", zap.Error(err))
	}
}
