package insights_test

import (
	"review_insights/internal/domain"
	"review_insights/internal/insights"
)

func ptr[T any](v T) *T { return &v }

func raw(rating int, text string, score float64, topic string) domain.RawReview {
	return domain.RawReview{
		Username:       "user",
		Rating:         ptr(rating),
		Review:         ptr(text),
		SentimentScore: ptr(score),
		TopicLabel:     ptr(topic),
	}
}

// normalized builds valid reviews for one topic from a list of scores.
func normalized(topic string, scores ...float64) []domain.Review {
	in := make([]domain.RawReview, 0, len(scores))
	for _, s := range scores {
		in = append(in, raw(5, topic+" review", s, topic))
	}
	return insights.Normalize(in)
}
