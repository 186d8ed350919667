package insights

import "review_insights/internal/domain"

// Build runs the whole pipeline over one snapshot.
func Build(appID string, raw []domain.RawReview) domain.Report {
	reviews := Normalize(raw)
	topics := AggregateTopics(reviews)
	return domain.Report{
		AppID:     appID,
		Reviews:   reviews,
		Topics:    topics,
		Ratings:   SummarizeRatings(reviews),
		Zones:     BinZones(topics),
		Sentiment: SentimentBreakdown(reviews),
		Actions:   GroupByAction(topics),
	}
}
