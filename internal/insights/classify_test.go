package insights_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"review_insights/internal/domain"
	"review_insights/internal/insights"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		score float64
		want  domain.Action
	}{
		{"strong negative", -0.8, domain.ActionAddressImmediately},
		{"negative on threshold", -0.5, domain.ActionAddressImmediately},
		{"fully negative", -1, domain.ActionAddressImmediately},
		{"strong positive", 0.9, domain.ActionMaintainMonitor},
		{"positive on threshold", 0.5, domain.ActionMaintainMonitor},
		{"mild negative", -0.49, domain.ActionMinimizeReassess},
		{"barely negative", -0.01, domain.ActionMinimizeReassess},
		{"neutral", 0, domain.ActionExplore},
		{"mild positive falls through", 0.2, domain.ActionExplore},
		{"just under threshold", 0.4999, domain.ActionExplore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := insights.Classify(tc.score, math.Abs(tc.score))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassify_TotalAndDeterministic(t *testing.T) {
	known := map[domain.Action]bool{}
	for _, a := range domain.Actions {
		known[a] = true
	}
	for i := -100; i <= 100; i++ {
		s := float64(i) / 100
		first := insights.Classify(s, math.Abs(s))
		assert.True(t, known[first], "score %v produced %q", s, first)
		assert.Equal(t, first, insights.Classify(s, math.Abs(s)))
	}
}
