package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"review_insights/internal/domain"
)

// maxRowsPerInsert keeps multi-row inserts well below the placeholder limit.
const maxRowsPerInsert = 500

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.RawReview) error {
	for start := 0; start < len(rs); start += maxRowsPerInsert {
		end := min(start+maxRowsPerInsert, len(rs))
		if err := r.upsertBatch(ctx, rs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) upsertBatch(ctx context.Context, rs []domain.RawReview) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*insertReviewsArgs)
	for _, rv := range rs {
		values = append(values, "(?,?,?,?,?,?,?,?,?)")
		args = append(args,
			rv.AppID,
			valStr(rv.SourceID),
			rv.Username,
			valInt(rv.Rating),
			valStr(rv.Review),
			valF64(rv.SentimentScore),
			valStr(rv.TopicLabel),
			valTime(rv.ReviewedAt),
			valJSON(rv.RawJSON),
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, appID string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, appID, status, reason)
	return err
}

// WithSnapshot reads the app's reviews inside a read-only transaction that
// is always rolled back once fn returns.
func (r *Repo) WithSnapshot(ctx context.Context, appID string, fn func([]domain.RawReview) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rs, err := scanReviews(ctx, tx, appID)
	if err != nil {
		return err
	}
	return fn(rs)
}

func scanReviews(ctx context.Context, tx *sql.Tx, appID string) ([]domain.RawReview, error) {
	rows, err := tx.QueryContext(ctx, snapshotSQL, appID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RawReview
	for rows.Next() {
		var rv domain.RawReview
		var (
			sourceID   sql.NullString
			rating     sql.NullInt64
			review     sql.NullString
			score      sql.NullFloat64
			topic      sql.NullString
			reviewedAt sql.NullTime
			rawB       sql.RawBytes
		)
		if err := rows.Scan(
			&rv.ID,
			&rv.AppID,
			&sourceID,
			&rv.Username,
			&rating,
			&review,
			&score,
			&topic,
			&reviewedAt,
			&rawB,
		); err != nil {
			return nil, err
		}

		if sourceID.Valid {
			s := sourceID.String
			rv.SourceID = &s
		}
		if rating.Valid {
			n := int(rating.Int64)
			rv.Rating = &n
		}
		if review.Valid {
			s := review.String
			rv.Review = &s
		}
		if score.Valid {
			f := score.Float64
			rv.SentimentScore = &f
		}
		if topic.Valid {
			s := topic.String
			rv.TopicLabel = &s
		}
		if reviewedAt.Valid {
			ts := reviewedAt.Time
			rv.ReviewedAt = &ts
		}
		if len(rawB) > 0 {
			rv.RawJSON = append([]byte(nil), rawB...)
		}

		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListApps(ctx context.Context) ([]domain.AppSummary, error) {
	rows, err := r.db.QueryContext(ctx, listAppsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.AppSummary{}
	for rows.Next() {
		var s domain.AppSummary
		if err := rows.Scan(&s.AppID, &s.Reviews, &s.LastIngested); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
