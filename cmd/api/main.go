package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"rbac-backend/internal/config"
	"rbac-backend/internal/database"
	"rbac-backend/internal/handler"
	"rbac-backend/internal/logger"
	"rbac-backend/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load("")

	log, cleanup := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		JSON:       cfg.Log.JSON,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer cleanup()

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}
	if cfg.DB.Seed {
		if err := database.Seed(db); err != nil {
			log.Fatal("seed failed", zap.Error(err))
		}
		log.Info("seed done")
	}

	reg := service.NewRegistry(
		db,
		[]byte(cfg.JWT.Secret),
		cfg.JWT.Issuer,
		time.Duration(cfg.JWT.AccessTokenTTLMin)*time.Minute,
	)
	r := handler.NewRouter(log, db, reg)

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.App.HTTP.Host, cfg.App.HTTP.Port),
		Handler:        r,
		ReadTimeout:    time.Duration(cfg.App.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:   time.Duration(cfg.App.HTTP.WriteTimeoutSec) * time.Second,
		IdleTimeout:    time.Duration(cfg.App.HTTP.IdleTimeoutSec) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info("api starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}
