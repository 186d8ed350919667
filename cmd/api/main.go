package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "review_insights/internal/adapters/http_server"
	"review_insights/internal/adapters/observability"
	redisad "review_insights/internal/adapters/redis"
	"review_insights/internal/app"
	"review_insights/internal/shared"
	mysqlrepo "review_insights/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Msg("redis unreachable; reports will be rebuilt per request")
	}
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	if cfg.SampleSeed != 0 {
		q.WithSampleSeed(cfg.SampleSeed)
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
