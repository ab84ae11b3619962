package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/proyectos-app/proyectos-backend/config"
	"github.com/proyectos-app/proyectos-backend/internal/api/http/middleware"
	"github.com/proyectos-app/proyectos-backend/internal/bootstrap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg.App)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if len(cfg.CORS.AllowedOrigins) == 0 {
		logger.Warn("FRONTEND_URL is empty, every cross-origin request will be rejected")
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	store, err := bootstrap.OpenStore(context.Background(), cfg.Store)
	if err != nil {
		logger.Fatal("store connect failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	logger.Info("store connected", zap.String("driver", cfg.Store.Driver))

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: cfg.App.ServiceName,
		Version:     cfg.App.Version,
		Store:       store,
		AllowList:   middleware.NewAllowList(cfg.CORS.AllowedOrigins, cfg.CORS.AllowNoOrigin),
		Metrics:     middleware.NewMetrics("proyectos"),
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("version", cfg.App.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	if err := store.Close(ctx); err != nil {
		logger.Error("store close error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
