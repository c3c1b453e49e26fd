package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pable/go-ck-metrics/internal/model"
)

const cornersHeader = "team,match,game_week,total_ck_for,shots_from_ck,xg\n"

// writeFile writes content into a temp file and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadCornersScenario(t *testing.T) {
	path := writeFile(t, "ck.csv", cornersHeader+
		"AREMA FC,AREMA FC vs Bali United FC,1,4,2,0.31\n"+
		"Bali United FC,AREMA FC vs Bali United FC,1,6,1,0.12\n")

	ds, err := LoadCorners(path, Options{})
	require.NoError(t, err)
	require.Len(t, ds.Observations, 2)
	assert.Len(t, ds.Hash, 64)

	o := ds.Observations[0]
	assert.Equal(t, 2, o.Row)
	assert.Equal(t, model.Team("AREMA FC"), o.Team)
	assert.Equal(t, model.Fixture{Label: "AREMA FC vs Bali United FC", Home: "AREMA FC", Away: "Bali United FC"}, o.Fixture)
	assert.Equal(t, 1, o.Week)
	assert.Equal(t, model.CornerStats{CornersTaken: 4, ShotsFromCorners: 2, XG: 0.31}, o.For)

	assert.Equal(t, 3, ds.Observations[1].Row)
	assert.Equal(t, 6, ds.Observations[1].For.CornersTaken)
}

func TestLoadCornersLiteralScenario(t *testing.T) {
	path := writeFile(t, "ck.csv", cornersHeader+
		"AREMA FC,AREMA FC vs Bali United FC,1,5,2,0.3\n"+
		"Bali United FC,AREMA FC vs Bali United FC,1,3,1,0.1\n")

	ds, err := LoadCorners(path, Options{})
	require.NoError(t, err)
	require.Len(t, ds.Observations, 2)
	assert.Equal(t, model.CornerStats{CornersTaken: 5, ShotsFromCorners: 2, XG: 0.3}, ds.Observations[0].For)
	assert.Equal(t, model.CornerStats{CornersTaken: 3, ShotsFromCorners: 1, XG: 0.1}, ds.Observations[1].For)
	assert.Equal(t, ds.Observations[0].Fixture, ds.Observations[1].Fixture)
}

func TestLoadCornersHashIsContentAddressed(t *testing.T) {
	body := cornersHeader + "AREMA FC,AREMA FC vs Bali United FC,1,4,2,0.31\n"
	a, err := LoadCorners(writeFile(t, "a.csv", body), Options{})
	require.NoError(t, err)
	b, err := LoadCorners(writeFile(t, "b.csv", body), Options{})
	require.NoError(t, err)
	assert.Equal(t, a.Hash, b.Hash)
}

func TestLoadCornersNonNumericWeek(t *testing.T) {
	path := writeFile(t, "ck.csv", cornersHeader+
		"AREMA FC,AREMA FC vs Bali United FC,1,4,2,0.31\n"+
		"AREMA FC,AREMA FC vs PSM Makassar,two,4,2,0.31\n")

	_, err := LoadCorners(path, Options{})
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
	assert.Equal(t, 3, pe.Row)
	assert.Equal(t, ColGameWeek, pe.Column)
	assert.Equal(t, "two", pe.Value)
	assert.Contains(t, err.Error(), "row 3")
}

func TestLoadCornersRowIsFileLine(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "blank line",
			body: cornersHeader +
				"AREMA FC,AREMA FC vs Bali United FC,1,4,2,0.31\n" +
				"\n" +
				"Bali United FC,AREMA FC vs Bali United FC,abc,6,1,0.12\n",
			want: 4,
		},
		{
			name: "quoted field spanning lines",
			body: cornersHeader +
				"AREMA FC,\"AREMA FC\nvs Bali United FC\",1,4,2,0.31\n" +
				"Bali United FC,AREMA FC vs Bali United FC,abc,6,1,0.12\n",
			want: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCorners(writeFile(t, "ck.csv", tt.body), Options{})
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.want, pe.Row)
			assert.Equal(t, ColGameWeek, pe.Column)
		})
	}
}

func TestLoadCornersObservationRowAfterBlankLine(t *testing.T) {
	path := writeFile(t, "ck.csv", cornersHeader+
		"\n"+
		"AREMA FC,AREMA FC vs Bali United FC,1,4,2,0.31\n")
	ds, err := LoadCorners(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Observations[0].Row)
}

func TestTableLineFallback(t *testing.T) {
	tbl := &Table{Rows: [][]string{{"a"}, {"b"}}}
	assert.Equal(t, 2, tbl.Line(0))
	assert.Equal(t, 3, tbl.Line(1))
}

func TestLoadCornersRejects(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		column string
		target error
	}{
		{"unknown team", "Persipura,AREMA FC vs Bali United FC,1,4,2,0.3", ColTeam, ErrUnknownTeam},
		{"unknown opponent", "AREMA FC,AREMA FC vs Persipura,1,4,2,0.3", ColMatch, ErrUnknownTeam},
		{"no separator", "AREMA FC,AREMA FC - Bali United FC,1,4,2,0.3", ColMatch, ErrBadFixture},
		{"negative corners", "AREMA FC,AREMA FC vs Bali United FC,1,-4,2,0.3", ColCornersFor, ErrNegative},
		{"negative xg", "AREMA FC,AREMA FC vs Bali United FC,1,4,2,-0.3", ColXG, ErrNegative},
		{"short row", "AREMA FC,AREMA FC vs Bali United FC,1,4,2", "", ErrColumnCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "ck.csv", cornersHeader+tt.row+"\n")
			_, err := LoadCorners(path, Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, 2, pe.Row)
			assert.Equal(t, tt.column, pe.Column)
		})
	}
}

func TestLoadCornersRejectsNonFiniteXG(t *testing.T) {
	for _, v := range []string{"NaN", "Inf", "abc"} {
		path := writeFile(t, "ck.csv", cornersHeader+"AREMA FC,AREMA FC vs Bali United FC,1,4,2,"+v+"\n")
		_, err := LoadCorners(path, Options{})
		var pe *ParseError
		require.ErrorAs(t, err, &pe, v)
		assert.Equal(t, ColXG, pe.Column, v)
	}
}

func TestLoadCornersWeekZero(t *testing.T) {
	path := writeFile(t, "ck.csv", cornersHeader+"AREMA FC,AREMA FC vs Bali United FC,0,4,2,0.3\n")
	_, err := LoadCorners(path, Options{})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ColGameWeek, pe.Column)
}

func TestLoadCornersMissingColumn(t *testing.T) {
	path := writeFile(t, "ck.csv", "team,match,total_ck_for,shots_from_ck,xg\n")
	_, err := LoadCorners(path, Options{})
	require.ErrorIs(t, err, ErrMissingColumn)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Row)
	assert.Equal(t, ColGameWeek, pe.Column)
}

func TestLoadCornersColumnOrderAndBOM(t *testing.T) {
	path := writeFile(t, "ck.csv", "\ufeffxg,game_week,team,match,shots_from_ck,total_ck_for\n"+
		"0.5,2,PSM Makassar,PSS Sleman vs PSM Makassar,3,7\n")
	ds, err := LoadCorners(path, Options{})
	require.NoError(t, err)
	o := ds.Observations[0]
	assert.Equal(t, model.Team("PSM Makassar"), o.Team)
	assert.Equal(t, model.Team("PSS Sleman"), o.Fixture.Home)
	assert.Equal(t, model.CornerStats{CornersTaken: 7, ShotsFromCorners: 3, XG: 0.5}, o.For)
}

func TestLoadCornersHeaderOnly(t *testing.T) {
	ds, err := LoadCorners(writeFile(t, "ck.csv", cornersHeader), Options{})
	require.NoError(t, err)
	assert.Empty(t, ds.Observations)
}

func TestLoadCornersEmptyFile(t *testing.T) {
	_, err := LoadCorners(writeFile(t, "ck.csv", ""), Options{})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Row)
}

func TestLoadCornersCustomRoster(t *testing.T) {
	roster, err := model.NewRoster([]string{"Ajax", "PSV"})
	require.NoError(t, err)

	path := writeFile(t, "ck.csv", cornersHeader+"Ajax,Ajax vs PSV,1,4,2,0.3\n")
	ds, err := LoadCorners(path, Options{Roster: roster})
	require.NoError(t, err)
	assert.Equal(t, model.Team("PSV"), ds.Observations[0].Fixture.Away)

	// A team outside the configured roster is rejected even if it is a known Liga 1 club.
	path = writeFile(t, "ck2.csv", cornersHeader+"AREMA FC,Ajax vs PSV,1,4,2,0.3\n")
	_, err = LoadCorners(path, Options{Roster: roster})
	assert.ErrorIs(t, err, ErrUnknownTeam)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")
	_, err := LoadCorners(path, Options{})
	require.Error(t, err)

	var ioe *IOError
	require.ErrorAs(t, err, &ioe)
	assert.Equal(t, path, ioe.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadCornersXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"team", "match", "game_week", "total_ck_for", "shots_from_ck", "xg"},
		{"AREMA FC", "AREMA FC vs Bali United FC", 1, 4, 2, 0.31},
		{"Bali United FC", "AREMA FC vs Bali United FC", 1, 6, 1, 0.12},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "ck.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := LoadCorners(path, Options{})
	require.NoError(t, err)
	require.Len(t, ds.Observations, 2)
	assert.Equal(t, model.CornerStats{CornersTaken: 6, ShotsFromCorners: 1, XG: 0.12}, ds.Observations[1].For)
}

func TestLoadXLSXNamedSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Corners")
	require.NoError(t, err)
	header := []any{"team", "match", "game_week", "total_ck_for", "shots_from_ck", "xg"}
	row := []any{"PSM Makassar", "PSM Makassar vs PSS Sleman", 3, 5, 0, 0}
	require.NoError(t, f.SetSheetRow("Corners", "A1", &header))
	require.NoError(t, f.SetSheetRow("Corners", "A2", &row))
	path := filepath.Join(t.TempDir(), "ck.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := LoadCorners(path, Options{Sheet: "Corners"})
	require.NoError(t, err)
	require.Len(t, ds.Observations, 1)
	assert.Equal(t, 3, ds.Observations[0].Week)

	_, err = LoadCorners(path, Options{Sheet: "Missing"})
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestLoadTilt(t *testing.T) {
	path := writeFile(t, "tilt.csv", "Team,Match,Winning,Drawing,Losing\n"+
		"PERSIB Bandung,PERSIB Bandung vs PSM Makassar,61.5,55%,40\n"+
		"PSM Makassar,PERSIB Bandung vs PSM Makassar,38.5,45%,60\n")

	ds, err := LoadTilt(path, Options{})
	require.NoError(t, err)
	require.Len(t, ds.Observations, 2)
	o := ds.Observations[0]
	assert.Equal(t, 0, o.Week)
	assert.Equal(t, model.TiltStats{Winning: 61.5, Drawing: 55, Losing: 40}, o.For)
}

func TestLoadTiltOutOfRange(t *testing.T) {
	path := writeFile(t, "tilt.csv", "Team,Match,Winning,Drawing,Losing\n"+
		"PERSIB Bandung,PERSIB Bandung vs PSM Makassar,101,55,40\n")
	_, err := LoadTilt(path, Options{})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ColTiltWinning, pe.Column)
	assert.True(t, strings.Contains(pe.Error(), "101"))
}
