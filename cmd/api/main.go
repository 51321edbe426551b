package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/handler"
	internalmiddleware "github.com/noah-isme/student-records-api/internal/middleware"
	"github.com/noah-isme/student-records-api/internal/repository"
	"github.com/noah-isme/student-records-api/internal/service"
	"github.com/noah-isme/student-records-api/pkg/cache"
	"github.com/noah-isme/student-records-api/pkg/config"
	"github.com/noah-isme/student-records-api/pkg/kvstore"
	"github.com/noah-isme/student-records-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/student-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/student-records-api/pkg/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()

	engine, err := kvstore.Open(cfg.Storage, cfg.Database)
	if err != nil {
		logr.Fatal("failed to open storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	registry := repository.NewRegistry(engine, repository.WithObserver(metrics))
	defer func() {
		if err := registry.Close(); err != nil {
			logr.Error("failed to close storage", zap.Error(err))
		}
	}()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, list cache disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
		}
	}

	validate := service.NewValidator()
	students := service.NewStudentService(registry.Students, registry.IDs, cacheSvc, validate, logr)
	lectures := service.NewLectureService(registry.Lectures, registry.IDs, cacheSvc, validate, logr)
	attendance := service.NewAttendanceService(registry.AttendanceRecords, registry.IDs, cacheSvc, logr)
	messages := service.NewMessageService(registry.Messages, registry.Students, registry.IDs, cacheSvc, validate, logr)

	opts := handler.RouterOptions{
		APIPrefix:      cfg.APIPrefix,
		MetricsEnabled: cfg.Metrics.Enabled,
		AuditLogger:    logr.Named("audit"),
	}
	if cfg.Auth.Enabled {
		opts.Auth = service.NewAuthService(logr, service.AuthConfig{
			AccessTokenSecret: cfg.Auth.Secret,
			AccessTokenExpiry: cfg.Auth.Expiration,
			Issuer:            cfg.Auth.Issuer,
		})
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(internalmiddleware.Metrics(metrics))
	}

	handler.RegisterRoutes(r, handler.Handlers{
		Students:   handler.NewStudentHandler(students, messages),
		Lectures:   handler.NewLectureHandler(lectures),
		Attendance: handler.NewAttendanceHandler(attendance),
		Messages:   handler.NewMessageHandler(messages),
		Metrics:    handler.NewMetricsHandler(metrics, registry),
	}, opts)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Sugar().Infow("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
