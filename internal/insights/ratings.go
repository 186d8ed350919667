package insights

import (
	"math"

	"review_insights/internal/domain"
)

// ratingScale is the display order of the star histogram.
var ratingScale = [...]int{5, 4, 3, 2, 1}

// SummarizeRatings counts reviews per star value. All five buckets are
// always present; with no reviews every percent is 0.
func SummarizeRatings(reviews []domain.Review) []domain.RatingBucket {
	var counts [6]int
	total := 0
	for _, r := range reviews {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		counts[r.Rating]++
		total++
	}

	out := make([]domain.RatingBucket, 0, len(ratingScale))
	for _, star := range ratingScale {
		out = append(out, domain.RatingBucket{
			Rating:  star,
			Count:   counts[star],
			Percent: percent(counts[star], total),
		})
	}
	return out
}

// percent returns part/total*100 rounded to one decimal, or 0 when total is 0.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
