package mysql

// Note: the column set is fixed; keep insertReviewsArgs in sync.
const insertReviewsPrefix = "INSERT INTO app_reviews\n" +
	"  (app_id, source_id, username, rating, review, sentiment_score, topic_label, reviewed_at, raw)\nVALUES "

const insertReviewsArgs = 9

// Signals from the latest analysis replace older ones, including with NULL:
// an analyzer that now abstains should not leave a stale label behind.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  username        = VALUES(username),\n" +
	"  rating          = VALUES(rating),\n" +
	"  review          = COALESCE(VALUES(review), app_reviews.review),\n" +
	"  sentiment_score = VALUES(sentiment_score),\n" +
	"  topic_label     = VALUES(topic_label),\n" +
	"  reviewed_at     = COALESCE(VALUES(reviewed_at), app_reviews.reviewed_at),\n" +
	"  raw             = COALESCE(VALUES(raw), app_reviews.raw)\n"

const insertMissSQL = `
INSERT INTO ingest_misses (app_id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE http_status = VALUES(http_status), seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Input order for the pipeline is ingestion order.
const snapshotSQL = `
SELECT
  id,
  app_id,
  source_id,
  username,
  rating,
  review,
  sentiment_score,
  topic_label,
  reviewed_at,
  raw
FROM app_reviews
WHERE app_id = ?
ORDER BY id
`

const listAppsSQL = `
SELECT app_id, COUNT(*), MAX(ingested_at)
FROM app_reviews
GROUP BY app_id
ORDER BY app_id
`
