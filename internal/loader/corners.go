package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/pable/go-ck-metrics/internal/model"
)

// Corner-kick export column names.
const (
	ColTeam        = "team"
	ColMatch       = "match"
	ColGameWeek    = "game_week"
	ColCornersFor  = "total_ck_for"
	ColShotsFromCK = "shots_from_ck"
	ColXG          = "xg"
)

var cornerColumns = []string{ColTeam, ColMatch, ColGameWeek, ColCornersFor, ColShotsFromCK, ColXG}

// Corners is a loaded corner-kick dataset.
type Corners struct {
	Path         string
	Hash         string
	Observations []model.Observation[model.CornerStats]
}

// LoadCorners reads a corner-kick export. Any malformed row aborts the load.
func LoadCorners(path string, opts Options) (*Corners, error) {
	tbl, err := ReadTable(path, opts.Sheet)
	if err != nil {
		return nil, err
	}
	obs, err := ParseCorners(tbl, opts.Roster)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded corner observations", slog.String("path", path), slog.Int("rows", len(obs)))
	return &Corners{Path: path, Hash: tbl.Hash, Observations: obs}, nil
}

// ParseCorners converts table rows into corner observations in source order.
func ParseCorners(tbl *Table, roster *model.Roster) ([]model.Observation[model.CornerStats], error) {
	if roster == nil {
		roster = model.DefaultRoster()
	}
	cols, err := locate(tbl.Header, cornerColumns)
	if err != nil {
		return nil, err
	}

	out := make([]model.Observation[model.CornerStats], 0, len(tbl.Rows))
	for i, rec := range tbl.Rows {
		r := &rowReader{line: tbl.Line(i), width: len(tbl.Header), cols: cols, record: rec, roster: roster}
		o, err := r.corner()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *rowReader) corner() (model.Observation[model.CornerStats], error) {
	var o model.Observation[model.CornerStats]
	if err := r.checkWidth(); err != nil {
		return o, err
	}

	team, err := r.team(ColTeam)
	if err != nil {
		return o, err
	}
	fx, err := r.fixture(ColMatch)
	if err != nil {
		return o, err
	}
	week, err := r.count(ColGameWeek)
	if err != nil {
		return o, err
	}
	if week == 0 {
		return o, r.fail(ColGameWeek, errors.New("game week must be positive"))
	}
	corners, err := r.count(ColCornersFor)
	if err != nil {
		return o, err
	}
	shots, err := r.count(ColShotsFromCK)
	if err != nil {
		return o, err
	}
	xg, err := r.nonNegativeFloat(ColXG)
	if err != nil {
		return o, err
	}

	return model.Observation[model.CornerStats]{
		Row:     r.line,
		Team:    team,
		Fixture: fx,
		Week:    week,
		For: model.CornerStats{
			CornersTaken:     corners,
			ShotsFromCorners: shots,
			XG:               xg,
		},
	}, nil
}

func (r *rowReader) count(name string) (int, error) {
	n, err := strconv.Atoi(r.cell(name))
	if err != nil {
		return 0, r.fail(name, fmt.Errorf("not an integer: %w", errors.Unwrap(err)))
	}
	if n < 0 {
		return 0, r.fail(name, ErrNegative)
	}
	return n, nil
}

func (r *rowReader) float(name string) (float64, error) {
	return r.parseFloat(name, r.cell(name))
}

func (r *rowReader) parseFloat(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, r.fail(name, fmt.Errorf("not a number: %w", errors.Unwrap(err)))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, r.fail(name, errors.New("value must be finite"))
	}
	return v, nil
}

func (r *rowReader) nonNegativeFloat(name string) (float64, error) {
	v, err := r.float(name)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, r.fail(name, ErrNegative)
	}
	return v, nil
}
