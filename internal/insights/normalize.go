package insights

import (
	"math"

	"review_insights/internal/domain"
)

// Normalize keeps the records that carry every signal the pipeline needs and
// derives satisfaction, significance and action for each. Input order is
// preserved. Invalid records are dropped, not repaired.
func Normalize(raw []domain.RawReview) []domain.Review {
	out := make([]domain.Review, 0, len(raw))
	for _, r := range raw {
		if !valid(r) {
			continue
		}
		score := *r.SentimentScore
		rv := domain.Review{
			Username:       r.Username,
			Rating:         *r.Rating,
			Review:         *r.Review,
			SentimentScore: score,
			Topic:          *r.TopicLabel,
			Satisfaction:   score,
			Significance:   math.Abs(score),
		}
		rv.Action = Classify(rv.Satisfaction, rv.Significance)
		out = append(out, rv)
	}
	return out
}

func valid(r domain.RawReview) bool {
	if r.Rating == nil || *r.Rating < 1 || *r.Rating > 5 {
		return false
	}
	if r.Review == nil {
		return false
	}
	// NaN fails both comparisons, so it is rejected here as well.
	if r.SentimentScore == nil || !(*r.SentimentScore >= -1 && *r.SentimentScore <= 1) {
		return false
	}
	// labels are an open domain; any present label, even "", is kept
	return r.TopicLabel != nil
}
