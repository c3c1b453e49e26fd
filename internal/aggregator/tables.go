package aggregator

import (
	"math"

	"github.com/pable/go-ck-metrics/internal/model"
)

type (
	cornerRow = model.Enriched[model.CornerStats]
	tiltRow   = model.Enriched[model.TiltStats]
)

func roundInt(v float64) int { return int(math.Round(v)) }

// CornerTable sums every counter and xG, and averages the per-fixture xG-per-shot.
var CornerTable = Table[model.CornerStats, model.CornerSeason]{
	New: func(team model.Team, fixtures int) model.CornerSeason {
		return model.CornerSeason{SeasonTotals: model.SeasonTotals[model.CornerStats]{Team: team, Fixtures: fixtures}}
	},
	Fields: []Field[model.CornerStats, model.CornerSeason]{
		{
			Name: "total_ck_for", Reducer: Sum,
			Get: func(r cornerRow) float64 { return float64(r.For.CornersTaken) },
			Set: func(t *model.CornerSeason, v float64) { t.For.CornersTaken = roundInt(v) },
		},
		{
			Name: "total_ck_against", Reducer: Sum,
			Get: func(r cornerRow) float64 { return float64(r.Against.CornersTaken) },
			Set: func(t *model.CornerSeason, v float64) { t.Against.CornersTaken = roundInt(v) },
		},
		{
			Name: "shots_from_ck", Reducer: Sum,
			Get: func(r cornerRow) float64 { return float64(r.For.ShotsFromCorners) },
			Set: func(t *model.CornerSeason, v float64) { t.For.ShotsFromCorners = roundInt(v) },
		},
		{
			Name: "shots_against_from_ck", Reducer: Sum,
			Get: func(r cornerRow) float64 { return float64(r.Against.ShotsFromCorners) },
			Set: func(t *model.CornerSeason, v float64) { t.Against.ShotsFromCorners = roundInt(v) },
		},
		{
			Name: "xg", Reducer: Sum,
			Get: func(r cornerRow) float64 { return r.For.XG },
			Set: func(t *model.CornerSeason, v float64) { t.For.XG = v },
		},
		{
			Name: "xg_against", Reducer: Sum,
			Get: func(r cornerRow) float64 { return r.Against.XG },
			Set: func(t *model.CornerSeason, v float64) { t.Against.XG = v },
		},
		{
			// Plain division: a zero-shot fixture yields NaN or Inf here and is
			// normalized to 0 by Aggregate before the mean.
			Name: "xg_per_shot", Reducer: Mean,
			Get: func(r cornerRow) float64 { return r.For.XG / float64(r.For.ShotsFromCorners) },
			Set: func(t *model.CornerSeason, v float64) { t.MeanXGPerShot = v },
		},
		{
			Name: "xg_per_shot_against", Reducer: Mean,
			Get: func(r cornerRow) float64 { return r.Against.XG / float64(r.Against.ShotsFromCorners) },
			Set: func(t *model.CornerSeason, v float64) { t.MeanXGPerShotConceded = v },
		},
	},
}

// TiltTable averages the match-state shares so they stay valid percentages.
var TiltTable = Table[model.TiltStats, model.TiltSeason]{
	New: func(team model.Team, fixtures int) model.TiltSeason {
		return model.TiltSeason{Team: team, Fixtures: fixtures}
	},
	Fields: []Field[model.TiltStats, model.TiltSeason]{
		{
			Name: "winning", Reducer: Mean,
			Get: func(r tiltRow) float64 { return r.For.Winning },
			Set: func(t *model.TiltSeason, v float64) { t.For.Winning = v },
		},
		{
			Name: "drawing", Reducer: Mean,
			Get: func(r tiltRow) float64 { return r.For.Drawing },
			Set: func(t *model.TiltSeason, v float64) { t.For.Drawing = v },
		},
		{
			Name: "losing", Reducer: Mean,
			Get: func(r tiltRow) float64 { return r.For.Losing },
			Set: func(t *model.TiltSeason, v float64) { t.For.Losing = v },
		},
		{
			Name: "winning_against", Reducer: Mean,
			Get: func(r tiltRow) float64 { return r.Against.Winning },
			Set: func(t *model.TiltSeason, v float64) { t.Against.Winning = v },
		},
		{
			Name: "drawing_against", Reducer: Mean,
			Get: func(r tiltRow) float64 { return r.Against.Drawing },
			Set: func(t *model.TiltSeason, v float64) { t.Against.Drawing = v },
		},
		{
			Name: "losing_against", Reducer: Mean,
			Get: func(r tiltRow) float64 { return r.Against.Losing },
			Set: func(t *model.TiltSeason, v float64) { t.Against.Losing = v },
		},
	},
}

// Corners aggregates joined corner rows.
func Corners(rows []model.Enriched[model.CornerStats]) *Result[model.CornerSeason] {
	return Aggregate(rows, CornerTable)
}

// Tilt aggregates joined field-tilt rows.
func Tilt(rows []model.Enriched[model.TiltStats]) *Result[model.TiltSeason] {
	return Aggregate(rows, TiltTable)
}
