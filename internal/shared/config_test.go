package shared

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_IDS", "")
	t.Setenv("INGEST_REVIEW_COUNT", "")

	c := Load()
	if len(c.AppIDs) != 1 || c.AppIDs[0] != "com.whatsapp" {
		t.Fatalf("unexpected app ids: %v", c.AppIDs)
	}
	if c.ReviewCount != 200 || c.Lang != "en" || c.Country != "us" {
		t.Fatalf("unexpected ingest defaults: %+v", c)
	}
	if c.CacheTTL != 15*time.Minute {
		t.Fatalf("unexpected ttl: %v", c.CacheTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_IDS", " com.a , ,com.b")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("ANALYZE_WORKERS", "nope")
	t.Setenv("SAMPLE_SEED", "7")

	c := Load()
	if len(c.AppIDs) != 2 || c.AppIDs[0] != "com.a" || c.AppIDs[1] != "com.b" {
		t.Fatalf("unexpected app ids: %v", c.AppIDs)
	}
	if c.CacheTTL != time.Minute {
		t.Fatalf("unexpected ttl: %v", c.CacheTTL)
	}
	if c.AnalyzeWorkers != 8 {
		t.Fatalf("invalid int should fall back, got %d", c.AnalyzeWorkers)
	}
	if c.SampleSeed != 7 {
		t.Fatalf("unexpected seed: %d", c.SampleSeed)
	}
}
