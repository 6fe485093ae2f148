package main // Entry point of the prediction service

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/smart-medicine-box/internal/config"
	"github.com/iliyamo/smart-medicine-box/internal/handler"
	"github.com/iliyamo/smart-medicine-box/internal/logger"
	"github.com/iliyamo/smart-medicine-box/internal/middleware"
	"github.com/iliyamo/smart-medicine-box/internal/registry"
	"github.com/iliyamo/smart-medicine-box/internal/router"
	"github.com/iliyamo/smart-medicine-box/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(logger.Options{Level: cfg.LogLevel, Env: cfg.Env, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, zl *zap.Logger) error {
	policy, err := registry.ParsePolicy(cfg.LoadPolicy)
	if err != nil {
		return err
	}
	reg, err := registry.LoadWithPolicy(cfg.ModelDir, policy, zl)
	if err != nil {
		return err
	}

	var events service.EventPublisher
	if cfg.Events.Enabled {
		events = service.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Queue, zl)
	}
	svc := service.New(reg, events, zl)

	rdb := config.NewRedisClient(zl)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Use(middleware.RequestLogger(zl))
	router.RegisterRoutes(e, handler.NewPredictionHandler(svc, cfg.MaxBodyBytes), router.Options{
		DeviceJWTSecret: cfg.Auth.DeviceJWTSecret,
		RateLimiter:     middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, zl),
	})

	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening",
			zap.String("addr", cfg.Addr()),
			zap.String("env", cfg.Env),
			zap.Bool("models_loaded", reg.Loaded()),
			zap.Bool("auth", cfg.Auth.DeviceJWTSecret != ""),
			zap.Bool("events", cfg.Events.Enabled))
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-quit:
	}

	zl.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(ctx)
}
