package aggregator

import (
	"log/slog"
	"math"
	"sort"

	"github.com/pable/go-ck-metrics/internal/model"
)

// Reducer folds one field's per-fixture values into a season value.
type Reducer int

const (
	Sum Reducer = iota
	Mean
)

func (r Reducer) String() string {
	if r == Mean {
		return "MEAN"
	}
	return "SUM"
}

func (r Reducer) reduce(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var total float64
	for _, v := range vals {
		total += v
	}
	if r == Mean {
		return total / float64(len(vals))
	}
	return total
}

// Field describes how one metric is read from a joined row and written to a season record.
type Field[S, T any] struct {
	Name    string
	Reducer Reducer
	Get     func(model.Enriched[S]) float64
	Set     func(*T, float64)
}

// Table is the full reducer description for one dataset.
type Table[S, T any] struct {
	Fields []Field[S, T]
	// New returns an empty season record for a team.
	New func(team model.Team, fixtures int) T
}

// GapAbsentFromReference marks a team missing from the partition teams are enumerated from.
const GapAbsentFromReference = "absent-from-reference"

// Gap is a team that appears in the data but receives no season record.
type Gap struct {
	Team model.Team
	Kind string
	// ReferenceWeek is the partition teams were enumerated from (0 for weekless data).
	ReferenceWeek int
	// Fixtures is the number of joined rows dropped for the team.
	Fixtures int
}

// Result holds one record per team in discovery order, plus reported gaps.
type Result[T any] struct {
	Teams []T
	Gaps  []Gap
}

// Finite normalizes NaN and ±Inf to zero.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Aggregate groups rows by team and reduces every field of the table.
//
// Teams are enumerated from the reference partition: the lowest week present, or the
// whole set when rows carry no week. A team missing from that partition is not given a
// season record; it is reported in Result.Gaps instead.
func Aggregate[S, T any](rows []model.Enriched[S], tbl Table[S, T]) *Result[T] {
	res := &Result[T]{}
	if len(rows) == 0 {
		return res
	}

	refWeek := rows[0].Week
	for _, r := range rows {
		if r.Week < refWeek {
			refWeek = r.Week
		}
	}

	var teams []model.Team
	known := make(map[model.Team]bool)
	for _, r := range rows {
		if r.Week == refWeek && !known[r.Team] {
			known[r.Team] = true
			teams = append(teams, r.Team)
		}
	}

	byTeam := make(map[model.Team][]model.Enriched[S])
	for _, r := range rows {
		byTeam[r.Team] = append(byTeam[r.Team], r)
	}

	for _, team := range teams {
		teamRows := byTeam[team]
		rec := tbl.New(team, len(teamRows))
		vals := make([]float64, len(teamRows))
		for _, f := range tbl.Fields {
			for i, r := range teamRows {
				vals[i] = Finite(f.Get(r))
			}
			f.Set(&rec, f.Reducer.reduce(vals))
		}
		res.Teams = append(res.Teams, rec)
	}

	for team, teamRows := range byTeam {
		if known[team] {
			continue
		}
		res.Gaps = append(res.Gaps, Gap{
			Team:          team,
			Kind:          GapAbsentFromReference,
			ReferenceWeek: refWeek,
			Fixtures:      len(teamRows),
		})
	}
	sort.Slice(res.Gaps, func(i, j int) bool { return res.Gaps[i].Team < res.Gaps[j].Team })

	for _, g := range res.Gaps {
		slog.Warn("team absent from reference partition; no season record",
			slog.String("team", string(g.Team)),
			slog.Int("reference_week", g.ReferenceWeek),
			slog.Int("dropped_fixtures", g.Fixtures))
	}
	slog.Debug("aggregated season", slog.Int("teams", len(res.Teams)), slog.Int("gaps", len(res.Gaps)))
	return res
}
