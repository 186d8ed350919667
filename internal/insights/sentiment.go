package insights

import (
	"sort"

	"review_insights/internal/domain"
)

// Scores at or beyond these bounds are polar; the open band between is neutral.
const (
	positiveMin = 0.3
	negativeMax = -0.3
)

func LabelSentiment(score float64) domain.SentimentLabel {
	switch {
	case score >= positiveMin:
		return domain.SentimentPositive
	case score <= negativeMax:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

var sentimentOrder = []domain.SentimentLabel{
	domain.SentimentPositive,
	domain.SentimentNeutral,
	domain.SentimentNegative,
}

// SentimentBreakdown is the pie-chart histogram over raw per-review scores.
// Labels with no reviews are left out; slices are sorted by count, largest
// first, with ties kept in Positive, Neutral, Negative order.
func SentimentBreakdown(reviews []domain.Review) []domain.SentimentSlice {
	counts := make(map[domain.SentimentLabel]int, len(sentimentOrder))
	for _, r := range reviews {
		counts[LabelSentiment(r.SentimentScore)]++
	}

	out := make([]domain.SentimentSlice, 0, len(counts))
	for _, l := range sentimentOrder {
		if n := counts[l]; n > 0 {
			out = append(out, domain.SentimentSlice{Label: l, Count: n, Percent: percent(n, len(reviews))})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
