package app

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"review_insights/internal/domain"
)

/********** alias registry (single source of truth) **********/

var reviewAliases = map[string][]string{
	"username":  {"userName", "username", "user_name", "author", "user.name", "reviewer.name"},
	"text":      {"content", "review", "text", "body", "comment", "message"},
	"rating":    {"score", "rating", "stars", "rating.value"},
	"source_id": {"reviewId", "review_id", "id"},
	"date":      {"at", "date", "reviewed_at", "created_at", "updated_at"},
}

// Column widths of app_reviews (migrations/001_init.sql). A value that does
// not fit would fail the whole insert batch.
const (
	maxUsernameLen = 255
	maxSourceIDLen = 191
	maxTopicLen    = 128
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstAlias returns the first present (non-nil) value for an alias set.
func firstAlias(m map[string]any, key string) any {
	for _, p := range reviewAliases[key] {
		if v := lookupAny(m, p); v != nil {
			return v
		}
	}
	return nil
}

// stringAlias returns the first string value for an alias set. Empty strings
// count as present: a review with empty content still has content.
func stringAlias(m map[string]any, key string) *string {
	for _, p := range reviewAliases[key] {
		if s, ok := lookupAny(m, p).(string); ok {
			return &s
		}
	}
	return nil
}

// toFloat: number from float64/int/json.Number/string like "4,0".
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// starRating accepts whole numbers from 1 to 5; anything else is not a star
// value.
func starRating(v any) *int {
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || f < 1 || f > 5 {
		return nil
	}
	n := int(f)
	return &n
}

func parseDate(v any) *time.Time {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				ts = ts.UTC()
				return &ts
			}
		}
	case float64:
		// epoch seconds
		ts := time.Unix(int64(t), 0).UTC()
		return &ts
	}
	return nil
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// fitTopic drops labels the store cannot hold; the review then counts as
// unlabelled.
func fitTopic(l *string) *string {
	if l == nil || utf8.RuneCountInString(*l) > maxTopicLen {
		return nil
	}
	return l
}

func hashID(parts ...string) *string {
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	id := hex.EncodeToString(sum[:])
	return &id
}

/********** reviews mapper **********/

func mapReviews(appID string, in []map[string]any) []domain.RawReview {
	out := make([]domain.RawReview, 0, len(in))
	for _, r := range in {
		rv := domain.RawReview{AppID: appID}

		if s := stringAlias(r, "username"); s != nil {
			rv.Username = truncate(strings.TrimSpace(*s), maxUsernameLen)
		}
		rv.Review = stringAlias(r, "text")
		rv.Rating = starRating(firstAlias(r, "rating"))
		rv.ReviewedAt = parseDate(firstAlias(r, "date"))

		// SourceID → prefer explicit; else synthesize stable hash.
		switch s := stringAlias(r, "source_id"); {
		case s != nil && *s != "" && utf8.RuneCountInString(*s) <= maxSourceIDLen:
			rv.SourceID = s
		case s != nil && *s != "":
			rv.SourceID = hashID(*s)
		default:
			rating, date := "", ""
			if rv.Rating != nil {
				rating = strconv.Itoa(*rv.Rating)
			}
			if rv.ReviewedAt != nil {
				date = rv.ReviewedAt.Format(time.RFC3339)
			}
			text := ""
			if rv.Review != nil {
				text = *rv.Review
			}
			rv.SourceID = hashID(rv.Username, text, rating, date)
		}

		if raw, err := json.Marshal(r); err == nil {
			rv.RawJSON = raw
		} else {
			log.Error().Err(err).Str("context", "mapReviews").Msg("marshal review failed")
		}

		out = append(out, rv)
	}
	return out
}
