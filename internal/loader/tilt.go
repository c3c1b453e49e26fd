package loader

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/pable/go-ck-metrics/internal/model"
)

// Field-tilt export column names.
const (
	ColTiltTeam    = "Team"
	ColTiltMatch   = "Match"
	ColTiltWinning = "Winning"
	ColTiltDrawing = "Drawing"
	ColTiltLosing  = "Losing"
)

var tiltColumns = []string{ColTiltTeam, ColTiltMatch, ColTiltWinning, ColTiltDrawing, ColTiltLosing}

// Tilt is a loaded field-tilt dataset. The export carries no week column.
type Tilt struct {
	Path         string
	Hash         string
	Observations []model.Observation[model.TiltStats]
}

// LoadTilt reads a field-tilt export.
func LoadTilt(path string, opts Options) (*Tilt, error) {
	tbl, err := ReadTable(path, opts.Sheet)
	if err != nil {
		return nil, err
	}
	obs, err := ParseTilt(tbl, opts.Roster)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded field tilt observations", slog.String("path", path), slog.Int("rows", len(obs)))
	return &Tilt{Path: path, Hash: tbl.Hash, Observations: obs}, nil
}

// ParseTilt converts table rows into field-tilt observations in source order.
func ParseTilt(tbl *Table, roster *model.Roster) ([]model.Observation[model.TiltStats], error) {
	if roster == nil {
		roster = model.DefaultRoster()
	}
	cols, err := locate(tbl.Header, tiltColumns)
	if err != nil {
		return nil, err
	}

	out := make([]model.Observation[model.TiltStats], 0, len(tbl.Rows))
	for i, rec := range tbl.Rows {
		r := &rowReader{line: tbl.Line(i), width: len(tbl.Header), cols: cols, record: rec, roster: roster}
		o, err := r.tilt()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *rowReader) tilt() (model.Observation[model.TiltStats], error) {
	var o model.Observation[model.TiltStats]
	if err := r.checkWidth(); err != nil {
		return o, err
	}
	team, err := r.team(ColTiltTeam)
	if err != nil {
		return o, err
	}
	fx, err := r.fixture(ColTiltMatch)
	if err != nil {
		return o, err
	}

	var shares [3]float64
	for i, col := range []string{ColTiltWinning, ColTiltDrawing, ColTiltLosing} {
		v, err := r.percent(col)
		if err != nil {
			return o, err
		}
		shares[i] = v
	}

	return model.Observation[model.TiltStats]{
		Row:     r.line,
		Team:    team,
		Fixture: fx,
		For: model.TiltStats{
			Winning: shares[0],
			Drawing: shares[1],
			Losing:  shares[2],
		},
	}, nil
}

// percent accepts "41.2" or "41.2%" in [0, 100].
func (r *rowReader) percent(name string) (float64, error) {
	v, err := r.parseFloat(name, strings.TrimSuffix(r.cell(name), "%"))
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 100 {
		return 0, r.fail(name, errors.New("percentage out of range [0, 100]"))
	}
	return v, nil
}
