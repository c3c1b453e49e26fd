// Package projector derives the corner-kick efficiency ratios from season totals.
package projector

import (
	"fmt"

	"github.com/pable/go-ck-metrics/internal/model"
)

// Metric names used in ComputationError.
const (
	MetricShotsPerCorner         = "shots_per_corner"
	MetricShotsConcededPerCorner = "shots_conceded_per_corner"
)

// ComputationError reports a ratio whose denominator is zero and has no
// well-defined zero convention.
type ComputationError struct {
	Team   model.Team
	Metric string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %s undefined with zero corners in the season", e.Team, e.Metric)
}

// Project computes the attacking and defensive ratios for one team.
// xG-per-shot is 0 when no shots were taken; shots-per-corner with no corners is an error.
func Project(t model.CornerSeason) (model.DerivedMetrics, error) {
	d := model.DerivedMetrics{
		Team:              t.Team,
		XGPerShot:         t.For.XGPerShot(),
		XGPerShotConceded: t.Against.XGPerShot(),
	}
	if t.For.CornersTaken == 0 {
		return d, &ComputationError{Team: t.Team, Metric: MetricShotsPerCorner}
	}
	if t.Against.CornersTaken == 0 {
		return d, &ComputationError{Team: t.Team, Metric: MetricShotsConcededPerCorner}
	}
	d.ShotsPerCorner = float64(t.For.ShotsFromCorners) / float64(t.For.CornersTaken)
	d.ShotsConcededPerCorner = float64(t.Against.ShotsFromCorners) / float64(t.Against.CornersTaken)
	return d, nil
}

// ProjectAll projects every team in order, stopping at the first error.
func ProjectAll(totals []model.CornerSeason) ([]model.DerivedMetrics, error) {
	out := make([]model.DerivedMetrics, 0, len(totals))
	for _, t := range totals {
		d, err := Project(t)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
