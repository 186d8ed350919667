package insights

import (
	"math/rand/v2"

	"review_insights/internal/domain"
)

// SampleReview picks one review for display. An empty topic samples across
// all reviews. The pick is only as repeatable as rng: pass a seeded source
// when the caller needs the same answer twice.
func SampleReview(reviews []domain.Review, topic string, rng *rand.Rand) (domain.Review, error) {
	pool := reviews
	if topic != "" {
		pool = make([]domain.Review, 0, len(reviews))
		for _, r := range reviews {
			if r.Topic == topic {
				pool = append(pool, r)
			}
		}
	}
	if len(pool) == 0 {
		return domain.Review{}, domain.ErrEmptySelection
	}
	if rng == nil {
		return pool[rand.IntN(len(pool))], nil
	}
	return pool[rng.IntN(len(pool))], nil
}
