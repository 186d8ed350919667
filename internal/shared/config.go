package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	ReviewSourceURL string
	ReviewSourceKey string
	AnalyzerURL     string
	AnalyzerKey     string
	UpstreamRPS     int

	AppIDs         []string
	Lang           string
	Country        string
	Workers        int
	AnalyzeWorkers int
	ReviewCount    int

	CacheTTL   time.Duration
	SampleSeed uint64 // 0: unseeded
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real env vars win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env file")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/insights?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),

		ReviewSourceURL: env("REVIEW_SOURCE_URL", "http://localhost:8090"),
		ReviewSourceKey: env("REVIEW_SOURCE_KEY", ""),
		AnalyzerURL:     env("ANALYZER_URL", "http://localhost:8091"),
		AnalyzerKey:     env("ANALYZER_KEY", ""),
		UpstreamRPS:     atoi("UPSTREAM_RPS", 5),

		AppIDs:         list(env("APP_IDS", "com.whatsapp")),
		Lang:           env("INGEST_LANG", "en"),
		Country:        env("INGEST_COUNTRY", "us"),
		Workers:        atoi("INGEST_WORKERS", 4),
		AnalyzeWorkers: atoi("ANALYZE_WORKERS", 8),
		ReviewCount:    atoi("INGEST_REVIEW_COUNT", 200),

		CacheTTL:   time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		SampleSeed: uint64(atoi("SAMPLE_SEED", 0)),
	}
	if c.ReviewSourceKey == "" {
		log.Warn().Msg("REVIEW_SOURCE_KEY is empty")
	}
	if c.AnalyzerKey == "" {
		log.Warn().Msg("ANALYZER_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func list(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
