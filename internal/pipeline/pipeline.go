// Package pipeline runs load → join → aggregate → project over one input snapshot.
package pipeline

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/pable/go-ck-metrics/internal/aggregator"
	"github.com/pable/go-ck-metrics/internal/joiner"
	"github.com/pable/go-ck-metrics/internal/loader"
	"github.com/pable/go-ck-metrics/internal/model"
	"github.com/pable/go-ck-metrics/internal/projector"
)

// Options are shared by both dataset runs.
type Options struct {
	Roster *model.Roster
	Sheet  string
	Policy joiner.Policy
}

// CornerRun is the complete output of one corner-kick run.
type CornerRun struct {
	Source       string
	Hash         string
	Observations int
	Weeks        int
	Joined       []model.Enriched[model.CornerStats]
	Season       []model.CornerSeason
	Metrics      []model.DerivedMetrics
	JoinGaps     []joiner.Gap
	SeasonGaps   []aggregator.Gap
}

// TiltRun is the complete output of one field-tilt run.
type TiltRun struct {
	Source       string
	Hash         string
	Observations int
	Joined       []model.Enriched[model.TiltStats]
	Season       []model.TiltSeason
	JoinGaps     []joiner.Gap
	SeasonGaps   []aggregator.Gap
}

// JoinCorners loads and joins a corner-kick file without aggregating it.
func JoinCorners(path string, opts Options) (*loader.Corners, *joiner.Result[model.CornerStats], error) {
	ds, err := loader.LoadCorners(path, loader.Options{Roster: opts.Roster, Sheet: opts.Sheet})
	if err != nil {
		return nil, nil, fmt.Errorf("load corners: %w", err)
	}
	joined, err := joiner.Join(ds.Observations, joiner.Options{MatchWeek: true, Policy: opts.Policy})
	if err != nil {
		return nil, nil, fmt.Errorf("join fixtures: %w", err)
	}
	return ds, joined, nil
}

// Corners runs the full corner-kick pipeline.
func Corners(path string, opts Options) (*CornerRun, error) {
	ds, joined, err := JoinCorners(path, opts)
	if err != nil {
		return nil, err
	}

	season := aggregator.Corners(joined.Rows)
	metrics, err := projector.ProjectAll(season.Teams)
	if err != nil {
		return nil, fmt.Errorf("project metrics: %w", err)
	}

	run := &CornerRun{
		Source:       path,
		Hash:         ds.Hash,
		Observations: len(ds.Observations),
		Weeks:        countWeeks(ds.Observations),
		Joined:       joined.Rows,
		Season:       season.Teams,
		Metrics:      metrics,
		JoinGaps:     joined.Gaps,
		SeasonGaps:   season.Gaps,
	}
	slog.Info("corner run complete",
		slog.String("hash", ds.Hash[:12]),
		slog.Int("teams", len(run.Season)),
		slog.Int("weeks", run.Weeks),
		slog.Int("gaps", len(run.Gaps())))
	return run, nil
}

// Tilt runs the field-tilt pipeline. The export has no week column, so opponents are
// matched on fixture label alone.
func Tilt(path string, opts Options) (*TiltRun, error) {
	ds, err := loader.LoadTilt(path, loader.Options{Roster: opts.Roster, Sheet: opts.Sheet})
	if err != nil {
		return nil, fmt.Errorf("load field tilt: %w", err)
	}
	joined, err := joiner.Join(ds.Observations, joiner.Options{Policy: opts.Policy})
	if err != nil {
		return nil, fmt.Errorf("join fixtures: %w", err)
	}
	season := aggregator.Tilt(joined.Rows)

	run := &TiltRun{
		Source:       path,
		Hash:         ds.Hash,
		Observations: len(ds.Observations),
		Joined:       joined.Rows,
		Season:       season.Teams,
		JoinGaps:     joined.Gaps,
		SeasonGaps:   season.Gaps,
	}
	slog.Info("field tilt run complete",
		slog.String("hash", ds.Hash[:12]),
		slog.Int("teams", len(run.Season)),
		slog.Int("gaps", len(run.Gaps())))
	return run, nil
}

// Gaps flattens join and aggregation gaps into reportable records.
func (r *CornerRun) Gaps() []model.GapRecord { return GapRecords(r.JoinGaps, r.SeasonGaps) }

// Gaps flattens join and aggregation gaps into reportable records.
func (r *TiltRun) Gaps() []model.GapRecord { return GapRecords(r.JoinGaps, r.SeasonGaps) }

// GapRecords flattens join and aggregation gaps, join gaps first.
func GapRecords(jg []joiner.Gap, sg []aggregator.Gap) []model.GapRecord {
	out := make([]model.GapRecord, 0, len(jg)+len(sg))
	for _, g := range jg {
		detail := g.Fixture
		if g.Week > 0 {
			detail = fmt.Sprintf("%s (week %d)", g.Fixture, g.Week)
		}
		out = append(out, model.GapRecord{Team: g.Team, Kind: string(g.Reason), Detail: detail})
	}
	for _, g := range sg {
		out = append(out, model.GapRecord{
			Team:   g.Team,
			Kind:   g.Kind,
			Detail: fmt.Sprintf("not in week %d; %d fixture(s) excluded", g.ReferenceWeek, g.Fixtures),
		})
	}
	return out
}

// Summary converts a corner run into a storable run record.
func (r *CornerRun) Summary(loadedAt string) model.RunSummary {
	return model.RunSummary{
		Hash:         r.Hash,
		Dataset:      model.DatasetCorners,
		SourcePath:   r.Source,
		LoadedAt:     loadedAt,
		Observations: r.Observations,
		Teams:        len(r.Season),
		Weeks:        r.Weeks,
		Gaps:         len(r.Gaps()),
	}
}

// Summary converts a field-tilt run into a storable run record.
func (r *TiltRun) Summary(loadedAt string) model.RunSummary {
	return model.RunSummary{
		Hash:         r.Hash,
		Dataset:      model.DatasetTilt,
		SourcePath:   r.Source,
		LoadedAt:     loadedAt,
		Observations: r.Observations,
		Teams:        len(r.Season),
		Gaps:         len(r.Gaps()),
	}
}

func countWeeks[S any](obs []model.Observation[S]) int {
	seen := make(map[int]struct{})
	for _, o := range obs {
		seen[o.Week] = struct{}{}
	}
	return len(seen)
}

// TeamWeeks returns the joined rows of one team ordered by week.
func TeamWeeks(rows []model.Enriched[model.CornerStats], team model.Team) []model.Enriched[model.CornerStats] {
	var out []model.Enriched[model.CornerStats]
	for _, r := range rows {
		if r.Team == team {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}
