package app

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
	"review_insights/internal/insights"
)

// maxCachedReport bounds what is written to the cache; larger reports are
// recomputed on every request.
const maxCachedReport = 4 << 20

// Reports are cached under a per-app version that ingestion bumps after
// every commit. A build that started before the bump writes under the old
// version, which no reader asks for again.
func versionKey(appID string) string { return "insights:" + appID + ":version" }

func reportKey(appID string, version int64) string {
	return fmt.Sprintf("insights:%s:v%d", appID, version)
}

// cacheVersion reads the app's current report version; 0 when unset or the
// cache is unavailable.
func cacheVersion(ctx context.Context, c domain.Cache, appID string) int64 {
	var v int64
	if ok, err := c.Get(ctx, versionKey(appID), &v); err != nil || !ok {
		return 0
	}
	return v
}

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration

	mu  sync.Mutex
	rng *rand.Rand // nil: unseeded global source
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// WithSampleSeed makes sample picks reproducible across restarts.
func (s *QueryService) WithSampleSeed(seed uint64) *QueryService {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = rand.New(rand.NewPCG(seed, seed))
	return s
}

func (s *QueryService) Report(ctx context.Context, appID string) (domain.Report, error) {
	var rep domain.Report
	var key string
	if s.cache != nil {
		// read the version before the snapshot opens
		key = reportKey(appID, cacheVersion(ctx, s.cache, appID))
		if ok, _ := s.cache.Get(ctx, key, &rep); ok {
			return rep, nil
		}
	}

	var seen int
	err := s.repo.WithSnapshot(ctx, appID, func(raw []domain.RawReview) error {
		seen = len(raw)
		rep = insights.Build(appID, raw)
		return nil
	})
	if err != nil {
		return domain.Report{}, err
	}

	kept := len(rep.Reviews)
	observability.ObservePipeline(kept, seen-kept)
	log.Debug().Str("app", appID).Int("records", seen).Int("kept", kept).Msg("insights rebuilt")

	if s.cache != nil {
		// optional size guard
		if b, _ := json.Marshal(rep); len(b) < maxCachedReport {
			_ = s.cache.Set(ctx, key, rep, int(s.cacheTTL.Seconds()))
		}
	}
	return rep, nil
}

// Sample returns one review for display, restricted to topic when it is not
// empty. It fails with domain.ErrEmptySelection when nothing matches.
func (s *QueryService) Sample(ctx context.Context, appID, topic string) (domain.Review, error) {
	rep, err := s.Report(ctx, appID)
	if err != nil {
		return domain.Review{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return insights.SampleReview(rep.Reviews, topic, s.rng)
}

func (s *QueryService) ListApps(ctx context.Context) ([]domain.AppSummary, error) {
	return s.repo.ListApps(ctx)
}
