package upstream

import (
	"context"
	"strings"
	"time"

	"review_insights/internal/domain"
)

// Analyzer calls the managed AI service that scores review sentiment and
// picks one topic from the supplied categories.
type Analyzer struct{ t *transport }

func NewAnalyzer(base, key string, rps int) (*Analyzer, error) {
	t, err := newTransport("analyzer", base, key, rps, 30*time.Second)
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

type analyzeRequest struct {
	Text       string   `json:"text"`
	Categories []string `json:"categories"`
}

type analyzeResponse struct {
	Sentiment *float64 `json:"sentiment"`
	Label     *string  `json:"label"`
}

func (a *Analyzer) Analyze(ctx context.Context, text string, categories []string) (domain.Analysis, error) {
	var resp analyzeResponse
	req := analyzeRequest{Text: text, Categories: categories}
	if err := a.t.do(ctx, "POST", "analyze", a.t.base+"/v1/analyze", req, &resp); err != nil {
		return domain.Analysis{}, err
	}

	out := domain.Analysis{SentimentScore: resp.Sentiment}
	if resp.Label != nil {
		if l := strings.TrimSpace(*resp.Label); l != "" {
			out.TopicLabel = &l
		}
	}
	return out, nil
}
