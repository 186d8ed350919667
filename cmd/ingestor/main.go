package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_insights/internal/adapters/observability"
	redisad "review_insights/internal/adapters/redis"
	"review_insights/internal/adapters/upstream"
	"review_insights/internal/app"
	"review_insights/internal/domain"
	"review_insights/internal/shared"
	mysqlrepo "review_insights/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.Serve(cfg.MetricsAddr, observability.InitRegistry())

	log.Info().
		Str("source", cfg.ReviewSourceURL).
		Strs("apps", cfg.AppIDs).
		Int("workers", cfg.Workers).
		Int("reviews", cfg.ReviewCount).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	source, err := upstream.NewReviewSource(cfg.ReviewSourceURL, cfg.ReviewSourceKey, cfg.UpstreamRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize review source client")
	}
	analyzer, err := upstream.NewAnalyzer(cfg.AnalyzerURL, cfg.AnalyzerKey, cfg.UpstreamRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize analyzer client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	ing := app.NewIngestionService(source, analyzer, repo, cache, cfg.AnalyzeWorkers)
	sem := semaphore.NewWeighted(int64(max(cfg.Workers, 1)))
	var wg sync.WaitGroup

	for _, id := range cfg.AppIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("ingestion interrupted")
			break
		}

		wg.Add(1)
		go func(appID string) {
			defer wg.Done()
			defer sem.Release(1)

			q := domain.SourceQuery{AppID: appID, Lang: cfg.Lang, Country: cfg.Country, Count: cfg.ReviewCount}
			if err := ing.IngestApp(ctx, q); err != nil {
				log.Warn().Str("app", appID).Err(err).Msg("ingest failed")
				return
			}
			log.Info().Str("app", appID).Msg("ingest ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}
