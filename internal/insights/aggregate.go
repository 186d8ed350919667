package insights

import "review_insights/internal/domain"

// AggregateTopics groups reviews by topic label. Topics come out in order of
// first appearance, and each topic's representative action is the action of
// its first review in input order.
func AggregateTopics(reviews []domain.Review) []domain.TopicAggregate {
	type acc struct {
		sat, sig float64
		n        int
		first    domain.Action
	}
	idx := make(map[string]*acc)
	var order []string
	for _, r := range reviews {
		a, ok := idx[r.Topic]
		if !ok {
			a = &acc{first: r.Action}
			idx[r.Topic] = a
			order = append(order, r.Topic)
		}
		a.sat += r.Satisfaction
		a.sig += r.Significance
		a.n++
	}

	out := make([]domain.TopicAggregate, 0, len(order))
	for _, topic := range order {
		a := idx[topic]
		out = append(out, domain.TopicAggregate{
			Topic:                topic,
			MeanSatisfaction:     a.sat / float64(a.n),
			MeanSignificance:     a.sig / float64(a.n),
			Volume:               a.n,
			RepresentativeAction: a.first,
		})
	}
	return out
}

// GroupByAction buckets topic aggregates by representative action for the
// treemap view. Groups follow domain.Actions order; empty ones are omitted.
func GroupByAction(topics []domain.TopicAggregate) []domain.ActionGroup {
	byAction := make(map[domain.Action]*domain.ActionGroup, len(domain.Actions))
	for _, t := range topics {
		g, ok := byAction[t.RepresentativeAction]
		if !ok {
			g = &domain.ActionGroup{Action: t.RepresentativeAction}
			byAction[t.RepresentativeAction] = g
		}
		g.Volume += t.Volume
		g.Topics = append(g.Topics, t.Topic)
	}

	out := make([]domain.ActionGroup, 0, len(byAction))
	for _, a := range domain.Actions {
		if g, ok := byAction[a]; ok {
			out = append(out, *g)
		}
	}
	return out
}
