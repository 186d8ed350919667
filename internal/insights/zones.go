package insights

import (
	"strings"

	"review_insights/internal/domain"
)

// Grid boundaries. Intervals are left-open and right-closed except at the
// domain edges, which belong to the outer bins.
const (
	satisfactionLowMax     = -0.1
	satisfactionNeutralMax = 0.1
	significanceLowMax     = 0.5
)

var (
	significanceOrder = []domain.SignificanceZone{domain.SignificanceLow, domain.SignificanceHigh}
	satisfactionOrder = []domain.SatisfactionZone{domain.SatisfactionLow, domain.SatisfactionNeutral, domain.SatisfactionHigh}
)

func SatisfactionZoneOf(mean float64) domain.SatisfactionZone {
	switch {
	case mean <= satisfactionLowMax:
		return domain.SatisfactionLow
	case mean <= satisfactionNeutralMax:
		return domain.SatisfactionNeutral
	default:
		return domain.SatisfactionHigh
	}
}

func SignificanceZoneOf(mean float64) domain.SignificanceZone {
	if mean <= significanceLowMax {
		return domain.SignificanceLow
	}
	return domain.SignificanceHigh
}

// BinZones places topic aggregates on the heat-map grid. Only populated
// cells are returned, ordered by significance zone then satisfaction zone.
// Member topics keep the order of the input slice.
func BinZones(topics []domain.TopicAggregate) []domain.Zone {
	type cell struct {
		sat domain.SatisfactionZone
		sig domain.SignificanceZone
	}
	cells := make(map[cell]*domain.Zone)
	for _, t := range topics {
		c := cell{sat: SatisfactionZoneOf(t.MeanSatisfaction), sig: SignificanceZoneOf(t.MeanSignificance)}
		z, ok := cells[c]
		if !ok {
			z = &domain.Zone{SatisfactionZone: c.sat, SignificanceZone: c.sig}
			cells[c] = z
		}
		z.Volume += t.Volume
		z.Topics = append(z.Topics, t.Topic)
	}

	out := make([]domain.Zone, 0, len(cells))
	for _, sig := range significanceOrder {
		for _, sat := range satisfactionOrder {
			z, ok := cells[cell{sat: sat, sig: sig}]
			if !ok {
				continue
			}
			z.Label = strings.Join(z.Topics, "\n")
			out = append(out, *z)
		}
	}
	return out
}
