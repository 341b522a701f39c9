package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"budgetapp/internal/assets"
	"budgetapp/internal/cache"
	"budgetapp/internal/charts"
	"budgetapp/internal/cli"
	apphttp "budgetapp/internal/http"
	"budgetapp/internal/log"
	"budgetapp/web"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and the web client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), appFrom(cmd))
		},
	}
}

func serve(parent context.Context, app *cli.App) error {
	cfg := app.Config
	if err := cfg.ValidateServer(); err != nil {
		return err
	}
	logger := app.Logger
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := cli.ShutdownContext(parent)
	defer stop()

	source := assets.FSFetcher{FS: web.Static()}
	var network assets.Fetcher = source
	if cfg.AssetUpstreamURL != "" {
		network = assets.NewHTTPFetcher(cfg.AssetUpstreamURL)
	}
	assetCache := assets.New(source, network, logger)
	if err := assetCache.Install(ctx, cfg.AssetCacheVersion); err != nil {
		return err
	}
	if _, err := assetCache.Activate(cfg.AssetCacheVersion); err != nil {
		return err
	}

	caches := cache.NewManager(logger)
	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Session:     app.Session,
		Ledger:      app.Ledger,
		Tokens:      apphttp.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
		Charts:      charts.NewRenderer(),
		Assets:      assetCache,
		Metrics:     app.Metrics,
		Caches:      caches,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server",
			log.FieldOperation, log.OpStartup, "addr", srv.Addr, log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return caches.Run(gctx, cfg.CacheCleanupInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return cli.IgnoreClosed(err)
	}
	logger.Info("Server stopped")
	return nil
}
