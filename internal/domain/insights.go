package domain

type TopicAggregate struct {
	Topic                string  `json:"topic"`
	MeanSatisfaction     float64 `json:"mean_satisfaction"`
	MeanSignificance     float64 `json:"mean_significance"`
	Volume               int     `json:"volume"`
	RepresentativeAction Action  `json:"representative_action"`
}

type RatingBucket struct {
	Rating  int     `json:"rating"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type SatisfactionZone string

const (
	SatisfactionLow     SatisfactionZone = "Low"
	SatisfactionNeutral SatisfactionZone = "Neutral"
	SatisfactionHigh    SatisfactionZone = "High"
)

type SignificanceZone string

const (
	SignificanceLow  SignificanceZone = "Low"
	SignificanceHigh SignificanceZone = "High"
)

// Zone is one populated cell of the satisfaction × significance grid.
type Zone struct {
	SatisfactionZone SatisfactionZone `json:"satisfaction_zone"`
	SignificanceZone SignificanceZone `json:"significance_zone"`
	Volume           int              `json:"volume"`
	Topics           []string         `json:"topics"`
	Label            string           `json:"label"` // topics joined by "\n"
}

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNeutral  SentimentLabel = "Neutral"
	SentimentNegative SentimentLabel = "Negative"
)

type SentimentSlice struct {
	Label   SentimentLabel `json:"sentiment"`
	Count   int            `json:"count"`
	Percent float64        `json:"percent"`
}

// ActionGroup feeds the treemap view: topics grouped by representative action.
type ActionGroup struct {
	Action Action   `json:"action"`
	Volume int      `json:"volume"`
	Topics []string `json:"topics"`
}

// Report is everything derived from one snapshot.
type Report struct {
	AppID     string           `json:"app_id"`
	Reviews   []Review         `json:"reviews"`
	Topics    []TopicAggregate `json:"topics"`
	Ratings   []RatingBucket   `json:"ratings"`
	Zones     []Zone           `json:"zones"`
	Sentiment []SentimentSlice `json:"sentiment"`
	Actions   []ActionGroup    `json:"actions"`
}
