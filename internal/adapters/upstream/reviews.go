package upstream

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"review_insights/internal/domain"
)

// ReviewSource reads raw app-store reviews from the source API.
type ReviewSource struct{ t *transport }

func NewReviewSource(base, key string, rps int) (*ReviewSource, error) {
	t, err := newTransport("review_source", base, key, rps, 20*time.Second)
	if err != nil {
		return nil, err
	}
	return &ReviewSource{t: t}, nil
}

// GetReviews accepts either a bare JSON array or an object wrapping the
// array under "reviews" or "data".
func (s *ReviewSource) GetReviews(ctx context.Context, q domain.SourceQuery) ([]map[string]any, error) {
	v := url.Values{}
	if q.Lang != "" {
		v.Set("lang", q.Lang)
	}
	if q.Country != "" {
		v.Set("country", q.Country)
	}
	if q.Count > 0 {
		v.Set("count", fmt.Sprint(q.Count))
	}
	u := fmt.Sprintf("%s/apps/%s/reviews", s.t.base, url.PathEscape(q.AppID))
	if enc := v.Encode(); enc != "" {
		u += "?" + enc
	}

	var raw any
	if err := s.t.do(ctx, "GET", "reviews", u, nil, &raw); err != nil {
		return nil, err
	}
	return reviewList(raw)
}

func reviewList(raw any) ([]map[string]any, error) {
	var items []any
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		items = t
	case map[string]any:
		for _, k := range []string{"reviews", "data", "results"} {
			if arr, ok := t[k].([]any); ok {
				items = arr
				break
			}
		}
		if items == nil {
			return nil, fmt.Errorf("review_source: no review list in response")
		}
	default:
		return nil, fmt.Errorf("review_source: unexpected payload %T", raw)
	}

	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}
