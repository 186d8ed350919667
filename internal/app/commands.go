package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
)

type IngestionService struct {
	source     domain.ReviewSource
	analyzer   domain.Analyzer
	repo       domain.ReviewRepository
	cache      domain.Cache
	categories []string
	workers    int
}

func NewIngestionService(src domain.ReviewSource, an domain.Analyzer, r domain.ReviewRepository, cache domain.Cache, workers int) *IngestionService {
	if workers <= 0 {
		workers = 4
	}
	return &IngestionService{
		source:     src,
		analyzer:   an,
		repo:       r,
		cache:      cache,
		categories: domain.DefaultCategories,
		workers:    workers,
	}
}

// IngestApp pulls the latest reviews for one app, scores and labels them and
// stores the result. Missing or inaccessible apps are logged as misses and
// do not fail the run.
func (s *IngestionService) IngestApp(ctx context.Context, q domain.SourceQuery) error {
	payloads, err := s.source.GetReviews(ctx, q)
	if err != nil {
		if status, ok := missStatus(err); ok {
			_ = s.repo.LogMiss(ctx, q.AppID, status, "reviews")
			s.invalidate(ctx, q.AppID)
			return nil
		}
		return err
	}

	rs := mapReviews(q.AppID, payloads)
	if err := s.analyze(ctx, rs); err != nil {
		return err
	}

	if len(rs) > 0 {
		if err := s.repo.UpsertReviews(ctx, rs); err != nil {
			// do not swallow this; surface so we know inserts failed
			return fmt.Errorf("upsert reviews failed for %s: %w", q.AppID, err)
		}
	}
	// even with zero reviews, drop the cached report
	s.invalidate(ctx, q.AppID)
	return nil
}

// analyze fills SentimentScore and TopicLabel in place. A failed call leaves
// the review without signals; the pipeline drops it later.
func (s *IngestionService) analyze(ctx context.Context, rs []domain.RawReview) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range rs {
		if rs[i].Review == nil || strings.TrimSpace(*rs[i].Review) == "" {
			observability.ObserveAnalyzer("abstained")
			continue
		}
		g.Go(func() error {
			a, err := s.analyzer.Analyze(gctx, *rs[i].Review, s.categories)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				observability.ObserveAnalyzer("failed")
				log.Warn().Err(err).Str("app", rs[i].AppID).Str("kind", observability.LabelErr(err)).Msg("analyze review failed")
				return nil
			}
			rs[i].SentimentScore = a.SentimentScore
			rs[i].TopicLabel = fitTopic(a.TopicLabel)
			if rs[i].SentimentScore == nil || rs[i].TopicLabel == nil {
				observability.ObserveAnalyzer("abstained")
			} else {
				observability.ObserveAnalyzer("scored")
			}
			return nil
		})
	}
	return g.Wait()
}

func missStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, true
	}
	return 0, false
}

// invalidate moves the app to a new report version and drops the report
// cached under the old one.
func (s *IngestionService) invalidate(ctx context.Context, appID string) {
	if s.cache == nil {
		return
	}
	prev := cacheVersion(ctx, s.cache, appID)
	next := max(time.Now().UnixNano(), prev+1)
	if err := s.cache.Set(ctx, versionKey(appID), next, 0); err != nil {
		log.Warn().Err(err).Str("app", appID).Msg("cache version bump failed")
	}
	if err := s.cache.Del(ctx, reportKey(appID, prev)); err != nil {
		log.Warn().Err(err).Str("app", appID).Msg("cache invalidation failed")
	}
}
