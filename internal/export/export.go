// Package export writes pipeline results to an XLSX workbook.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pable/go-ck-metrics/internal/model"
)

// Sheet names.
const (
	SheetSeason  = "Season"
	SheetMetrics = "Metrics"
	SheetTilt    = "Tilt"
	SheetGaps    = "Gaps"
)

var (
	seasonHeader = []any{
		"team", "fixtures", "total_ck_for", "total_ck_against", "shots_from_ck", "shots_against_from_ck",
		"xg", "xg_against", "mean_xg_per_shot", "mean_xg_per_shot_against",
	}
	metricsHeader = []any{"team", "xg_per_shot", "shots_per_corner", "xg_per_shot_conceded", "shots_conceded_per_corner"}
	tiltHeader    = []any{
		"team", "fixtures", "winning", "drawing", "losing", "winning_against", "drawing_against", "losing_against",
	}
	gapsHeader = []any{"team", "kind", "detail"}
)

// workbook wraps an excelize file being filled sheet by sheet.
type workbook struct {
	f     *excelize.File
	first bool
}

func newWorkbook() *workbook {
	return &workbook{f: excelize.NewFile(), first: true}
}

// sheet writes a header and rows to a new sheet. The first sheet reuses the default one.
func (wb *workbook) sheet(name string, header []any, rows [][]any) error {
	if wb.first {
		if err := wb.f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
		wb.first = false
	} else if _, err := wb.f.NewSheet(name); err != nil {
		return fmt.Errorf("add sheet %s: %w", name, err)
	}

	if err := wb.f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := wb.f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", name, i+2, err)
		}
	}
	return nil
}

func (wb *workbook) save(path string) error {
	defer wb.f.Close()
	if err := wb.f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func gapRows(gaps []model.GapRecord) [][]any {
	rows := make([][]any, len(gaps))
	for i, g := range gaps {
		rows[i] = []any{string(g.Team), g.Kind, g.Detail}
	}
	return rows
}

// WriteCorners writes season totals, derived metrics and gaps of a corner run.
func WriteCorners(path string, season []model.CornerSeason, metrics []model.DerivedMetrics, gaps []model.GapRecord) error {
	wb := newWorkbook()

	rows := make([][]any, len(season))
	for i, s := range season {
		rows[i] = []any{
			string(s.Team), s.Fixtures,
			s.For.CornersTaken, s.Against.CornersTaken,
			s.For.ShotsFromCorners, s.Against.ShotsFromCorners,
			s.For.XG, s.Against.XG,
			s.MeanXGPerShot, s.MeanXGPerShotConceded,
		}
	}
	if err := wb.sheet(SheetSeason, seasonHeader, rows); err != nil {
		return err
	}

	rows = make([][]any, len(metrics))
	for i, m := range metrics {
		rows[i] = []any{string(m.Team), m.XGPerShot, m.ShotsPerCorner, m.XGPerShotConceded, m.ShotsConcededPerCorner}
	}
	if err := wb.sheet(SheetMetrics, metricsHeader, rows); err != nil {
		return err
	}

	if err := wb.sheet(SheetGaps, gapsHeader, gapRows(gaps)); err != nil {
		return err
	}
	return wb.save(path)
}

// WriteTilt writes the field-tilt season and gaps.
func WriteTilt(path string, season []model.TiltSeason, gaps []model.GapRecord) error {
	wb := newWorkbook()

	rows := make([][]any, len(season))
	for i, s := range season {
		rows[i] = []any{
			string(s.Team), s.Fixtures,
			s.For.Winning, s.For.Drawing, s.For.Losing,
			s.Against.Winning, s.Against.Drawing, s.Against.Losing,
		}
	}
	if err := wb.sheet(SheetTilt, tiltHeader, rows); err != nil {
		return err
	}
	if err := wb.sheet(SheetGaps, gapsHeader, gapRows(gaps)); err != nil {
		return err
	}
	return wb.save(path)
}
