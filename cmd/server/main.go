package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hospital-device-risk/platform-api/internal/api"
	"github.com/hospital-device-risk/platform-api/internal/core/service"
	"github.com/hospital-device-risk/platform-api/internal/infrastructure/db/mongo"
	"github.com/hospital-device-risk/platform-api/internal/infrastructure/db/redis"
	"github.com/hospital-device-risk/platform-api/internal/pkg/config"
	"github.com/hospital-device-risk/platform-api/internal/pkg/hash"
	"github.com/hospital-device-risk/platform-api/pkg/logger"
)

const (
	bootstrapLockName = "super-admin"
	bootstrapLockTTL  = 30 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// @title        Device-Risk Platform Auth API
// @version      1.0
// @description  Authentication and authorization service for the hospital device-risk platform.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}
	if cfg.JWT.Algorithm != "HS256" {
		log.Fatal().Str("algorithm", cfg.JWT.Algorithm).Msg("unsupported signing algorithm")
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	users := mongo.NewUserRepository(db)
	manufacturers := mongo.NewManufacturerRepository(db)
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	hasher := hash.New(bcrypt.DefaultCost)
	authService := service.NewAuthService(users, manufacturers, tokens, hasher, log)

	// One-shot super-admin bootstrap. The lock keeps a replica herd from
	// hammering the store; the unique username index guarantees a single
	// record either way.
	lock := redis.NewBootstrapLock(rdb)
	acquired, err := lock.Acquire(ctx, bootstrapLockName, bootstrapLockTTL)
	if err != nil {
		log.Warn().Err(err).Msg("bootstrap lock unavailable, proceeding without it")
		acquired = true
	}
	if acquired {
		if err := authService.EnsureSuperAdmin(ctx); err != nil {
			_ = lock.Release(ctx, bootstrapLockName)
			log.Fatal().Err(err).Msg("super admin bootstrap failed")
		}
	}

	e := api.NewRouter(authService, db, rdb, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth service listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
