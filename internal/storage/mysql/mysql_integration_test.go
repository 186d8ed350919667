//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"review_insights/internal/domain"
	"review_insights/internal/insights"
	mysqlrepo "review_insights/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pint(i int) *int           { return &i }
func pfloat(f float64) *float64 { return &f }

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
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

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=insights",
		},
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
	return db
}

// ---------- the test ----------
func TestRepo_MySQL_UpsertAndSnapshot(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	in := []domain.RawReview{
		{AppID: "com.whatsapp", SourceID: pstr("r-1"), Username: "ana", Rating: pint(1), Review: pstr("cannot log in"), SentimentScore: pfloat(-0.8), TopicLabel: pstr("LOGIN")},
		{AppID: "com.whatsapp", SourceID: pstr("r-2"), Username: "bob", Rating: pint(5), Review: pstr("love it"), SentimentScore: pfloat(0.9), TopicLabel: pstr("UI"), RawJSON: []byte(`{"k":1}`)},
		{AppID: "com.whatsapp", SourceID: pstr("r-3"), Username: "eve", Rating: pint(3), Review: pstr("hmm")},
		{AppID: "other.app", SourceID: pstr("r-1"), Username: "zed", Rating: pint(2), Review: pstr("x"), SentimentScore: pfloat(-0.1), TopicLabel: pstr("UI")},
	}
	if err := repo.UpsertReviews(ctx, in); err != nil {
		t.Fatalf("UpsertReviews: %v", err)
	}

	// Re-ingest r-3 with signals: the row is updated, not duplicated.
	in[2].SentimentScore = pfloat(0.1)
	in[2].TopicLabel = pstr("UPDATE")
	if err := repo.UpsertReviews(ctx, in[2:3]); err != nil {
		t.Fatalf("UpsertReviews (again): %v", err)
	}

	var rep domain.Report
	if err := repo.WithSnapshot(ctx, "com.whatsapp", func(rs []domain.RawReview) error {
		if len(rs) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rs))
		}
		if rs[0].Username != "ana" || rs[1].RawJSON == nil {
			t.Fatalf("unexpected rows: %+v", rs)
		}
		rep = insights.Build("com.whatsapp", rs)
		return nil
	}); err != nil {
		t.Fatalf("WithSnapshot: %v", err)
	}
	if len(rep.Reviews) != 3 || len(rep.Topics) != 3 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	// fn errors surface unchanged
	sentinel := errors.New("stop")
	if err := repo.WithSnapshot(ctx, "com.whatsapp", func([]domain.RawReview) error { return sentinel }); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	apps, err := repo.ListApps(ctx)
	if err != nil {
		t.Fatalf("ListApps: %v", err)
	}
	if len(apps) != 2 || apps[0].AppID != "com.whatsapp" || apps[0].Reviews != 3 {
		t.Fatalf("unexpected apps: %+v", apps)
	}

	if err := repo.LogMiss(ctx, "gone.app", 404, "reviews"); err != nil {
		t.Fatalf("LogMiss: %v", err)
	}
	if err := repo.LogMiss(ctx, "gone.app", 403, "reviews"); err != nil {
		t.Fatalf("LogMiss (dup): %v", err)
	}
}
