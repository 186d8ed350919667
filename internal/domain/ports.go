package domain

import (
	"context"
	"time"
)

type ReviewRepository interface {
	// Write paths
	UpsertReviews(ctx context.Context, rs []RawReview) error
	LogMiss(ctx context.Context, appID string, status int, reason string) error

	// Read paths

	// WithSnapshot hands fn a consistent view of the app's reviews. The
	// underlying handle is released when fn returns, whatever happens.
	WithSnapshot(ctx context.Context, appID string, fn func([]RawReview) error) error
	ListApps(ctx context.Context) ([]AppSummary, error)
}

// ReviewSource is the external store of raw user reviews.
type ReviewSource interface {
	GetReviews(ctx context.Context, q SourceQuery) ([]map[string]any, error)
}

// Analyzer is the managed AI service that scores and labels review text.
type Analyzer interface {
	Analyze(ctx context.Context, text string, categories []string) (Analysis, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type SourceQuery struct {
	AppID   string
	Lang    string
	Country string
	Count   int
}

// Analysis holds the analyzer's verdict. A nil field means it abstained.
type Analysis struct {
	SentimentScore *float64
	TopicLabel     *string
}

type AppSummary struct {
	AppID        string    `json:"app_id"`
	Reviews      int       `json:"reviews"`
	LastIngested time.Time `json:"last_ingested"`
}
