package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timetracer/timetracer-api/internal/api"
	"github.com/timetracer/timetracer-api/internal/core/service"
	"github.com/timetracer/timetracer-api/internal/infrastructure/config"
	mongodb "github.com/timetracer/timetracer-api/internal/infrastructure/db/mongo"
	redisdb "github.com/timetracer/timetracer-api/internal/infrastructure/db/redis"
	"github.com/timetracer/timetracer-api/pkg/logger"
)

// @title           TimeTracer API
// @version         1.0
// @description     Employee work time tracking API.
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	entryRepo := mongodb.NewTimeEntryRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := entryRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("time entry index creation failed")
	}

	revoker := redisdb.NewRevokedTokenStore(rdb)
	authService := service.NewAuthService(userRepo, revoker, cfg.JWTSecret, cfg.JWTTTL)
	userService := service.NewUserService(userRepo, log)
	entryService := service.NewTimeEntryService(entryRepo, userRepo, log)

	if err := userService.EnsureDefaultAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Dept); err != nil {
		log.Fatal().Err(err).Msg("default admin bootstrap failed")
	}

	e := api.NewRouter(cfg, db, rdb, api.Services{
		Auth:    authService,
		Users:   userService,
		Entries: entryService,
		Revoker: revoker,
	}, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
