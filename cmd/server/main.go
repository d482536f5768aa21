// @title           Barrage Board API
// @version         1.0
// @description     Read-only dashboard over a live-stream chat log.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barrage-board/internal/api"
	"barrage-board/internal/auth"
	"barrage-board/internal/config"
	"barrage-board/internal/database"
	"barrage-board/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, cfg.DB.ConnString(), cfg.Barrage.Table); err != nil {
			logging.Fatal().Err(err).Msg("cannot migrate database")
		}
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DB.ConnString())
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid database configuration")
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbpool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer dbpool.Close()

	if err := dbpool.Ping(ctx); err != nil {
		logging.Fatal().Err(err).Msg("cannot ping database")
	}
	logging.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Msg("connected to database")

	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL())
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot create token service")
	}

	store := database.NewStore(dbpool, cfg.Barrage.Table)
	server, err := api.NewServer(cfg, store, tokens)
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot create API server")
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", cfg.Server.Addr).
			Str("prefix", cfg.API.Prefix).
			Str("timezone", cfg.Barrage.Timezone).
			Msg("starting server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
