//go:build integration

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	server "review_insights/internal/adapters/http_server"
	redisad "review_insights/internal/adapters/redis"
	"review_insights/internal/adapters/upstream"
	"review_insights/internal/app"
	"review_insights/internal/domain"
	mysqlrepo "review_insights/internal/storage/mysql"
)

// ---------- helpers ----------
func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = filepath.Join("..", "..", "migrations")
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// fakeUpstream serves both the review source and the analyzer.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	reviews := []map[string]any{
		{"reviewId": "1", "userName": "ana", "score": 1, "content": "cannot login since update", "at": "2025-01-01T10:00:00Z"},
		{"reviewId": "2", "userName": "bob", "score": 2, "content": "login fails again", "at": "2025-01-02T10:00:00Z"},
		{"reviewId": "3", "userName": "cy", "score": 5, "content": "login is instant", "at": "2025-01-03T10:00:00Z"},
		{"reviewId": "4", "userName": "di", "score": 4, "content": "login ok", "at": "2025-01-04T10:00:00Z"},
		{"reviewId": "5", "userName": "ed", "score": 5, "content": "", "at": "2025-01-05T10:00:00Z"},
	}
	scores := map[string]float64{
		"cannot login since update": -0.8,
		"login fails again":         -0.6,
		"login is instant":          0.9,
		"login ok":                  0.2,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/apps/com.whatsapp/reviews", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(reviews)
	})
	mux.HandleFunc("/v1/analyze", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]any{"sentiment": scores[in.Text], "label": "LOGIN"})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// ---------- the test ----------
func TestHTTP_EndToEnd_IngestThenInsights(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=insights"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/insights?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)

	mr := miniredis.RunT(t)
	cache := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "e2e:")
	repo := mysqlrepo.New(db)

	// Ingest through the real HTTP clients
	up := fakeUpstream(t)
	src, err := upstream.NewReviewSource(up.URL, "k", 100)
	if err != nil {
		t.Fatalf("review source: %v", err)
	}
	an, err := upstream.NewAnalyzer(up.URL, "k", 100)
	if err != nil {
		t.Fatalf("analyzer: %v", err)
	}
	ing := app.NewIngestionService(src, an, repo, cache, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := ing.IngestApp(ctx, domain.SourceQuery{AppID: "com.whatsapp", Lang: "en", Country: "us", Count: 200}); err != nil {
		t.Fatalf("IngestApp: %v", err)
	}

	// Serve the API
	srv := server.New()
	srv.MountHandlers(&server.Handlers{Q: app.NewQueryService(repo, cache, time.Minute)})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/apps/com.whatsapp/insights")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}

	var rep domain.Report
	if err := json.NewDecoder(res.Body).Decode(&rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// review 5 has no text to analyze, so it carries no signals and is dropped
	if len(rep.Reviews) != 4 || len(rep.Topics) != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	tp := rep.Topics[0]
	if tp.Topic != "LOGIN" || tp.Volume != 4 || tp.RepresentativeAction != domain.ActionAddressImmediately {
		t.Fatalf("unexpected topic aggregate: %+v", tp)
	}
	if d := tp.MeanSatisfaction + 0.075; d > 1e-9 || d < -1e-9 {
		t.Fatalf("unexpected mean satisfaction: %v", tp.MeanSatisfaction)
	}
	ver, err := mr.Get("e2e:insights:com.whatsapp:version")
	if err != nil {
		t.Fatalf("report version not set: %v", err)
	}
	if !mr.Exists("e2e:insights:com.whatsapp:v" + ver) {
		t.Fatalf("report was not cached under version %s", ver)
	}

	res2, err := http.Get(ts.URL + "/v1/apps/com.whatsapp/sample?topic=VOICE%20CHAT")
	if err != nil {
		t.Fatalf("GET sample: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusNotFound || !strings.Contains(res2.Header.Get("Content-Type"), "problem+json") {
		t.Fatalf("expected 404 problem, got %d", res2.StatusCode)
	}
}
