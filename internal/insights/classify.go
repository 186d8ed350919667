package insights

import "review_insights/internal/domain"

// SignificanceThreshold splits significant from minor feedback. Rows sitting
// exactly on it count as significant.
const SignificanceThreshold = 0.5

// Classify maps one review's polarity and magnitude to its quadrant action.
// Rules are tried in order and the first match wins. Positive rows below the
// threshold have no quadrant of their own and land in Explore together with
// neutral rows.
func Classify(satisfaction, significance float64) domain.Action {
	switch {
	case satisfaction < 0 && significance >= SignificanceThreshold:
		return domain.ActionAddressImmediately
	case satisfaction > 0 && significance >= SignificanceThreshold:
		return domain.ActionMaintainMonitor
	case significance < SignificanceThreshold && satisfaction < 0:
		return domain.ActionMinimizeReassess
	default:
		return domain.ActionExplore
	}
}
