// Package report renders pipeline results as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-ck-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// ShortHash abbreviates a run hash for display.
func ShortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// PrintRunSummary prints a one-line header for a run.
func PrintRunSummary(w io.Writer, s model.RunSummary) {
	weeks := "—"
	if s.Dataset == model.DatasetCorners {
		weeks = strconv.Itoa(s.Weeks)
	}
	fmt.Fprintf(w, "\nDataset: %s  |  Source: %s  |  Rows: %d  |  Teams: %d  |  Weeks: %s  |  Hash: %s\n\n",
		s.Dataset, s.SourcePath, s.Observations, s.Teams, weeks, ShortHash(s.Hash))
}

// PrintCornerSeasonTable prints the season totals, one row per team.
func PrintCornerSeasonTable(w io.Writer, season []model.CornerSeason) {
	table := newTable(w)
	table.Header("TEAM", "FX", "CK", "CK_AG", "SHOTS", "SHOTS_AG", "XG", "XG_AG", "XG/SHOT~", "XG/SHOT_AG~")
	for _, s := range season {
		table.Append(
			string(s.Team),
			strconv.Itoa(s.Fixtures),
			strconv.Itoa(s.For.CornersTaken),
			strconv.Itoa(s.Against.CornersTaken),
			strconv.Itoa(s.For.ShotsFromCorners),
			strconv.Itoa(s.Against.ShotsFromCorners),
			fmt.Sprintf("%.2f", s.For.XG),
			fmt.Sprintf("%.2f", s.Against.XG),
			fmt.Sprintf("%.3f", s.MeanXGPerShot),
			fmt.Sprintf("%.3f", s.MeanXGPerShotConceded),
		)
	}
	table.Render()
}

// PrintDerivedTable prints the attacking and defensive efficiency ratios.
func PrintDerivedTable(w io.Writer, metrics []model.DerivedMetrics) {
	table := newTable(w)
	table.Header("TEAM", "XG/SHOT", "SHOTS/CK", "XG/SHOT_AG", "SHOTS_AG/CK_AG")
	for _, m := range metrics {
		table.Append(
			string(m.Team),
			fmt.Sprintf("%.3f", m.XGPerShot),
			fmt.Sprintf("%.3f", m.ShotsPerCorner),
			fmt.Sprintf("%.3f", m.XGPerShotConceded),
			fmt.Sprintf("%.3f", m.ShotsConcededPerCorner),
		)
	}
	table.Render()
}

// PrintTiltTable prints mean field-tilt shares by match state, for and against.
func PrintTiltTable(w io.Writer, season []model.TiltSeason) {
	table := newTable(w)
	table.Header("TEAM", "FX", "WIN%", "DRAW%", "LOSE%", "WIN%_AG", "DRAW%_AG", "LOSE%_AG")
	for _, s := range season {
		table.Append(
			string(s.Team),
			strconv.Itoa(s.Fixtures),
			fmt.Sprintf("%.1f", s.For.Winning),
			fmt.Sprintf("%.1f", s.For.Drawing),
			fmt.Sprintf("%.1f", s.For.Losing),
			fmt.Sprintf("%.1f", s.Against.Winning),
			fmt.Sprintf("%.1f", s.Against.Drawing),
			fmt.Sprintf("%.1f", s.Against.Losing),
		)
	}
	table.Render()
}

// PrintTrendTable prints one team's fixtures week by week with running totals.
// The trailing CUM columns are the season ratios as they stood after each week.
func PrintTrendTable(w io.Writer, rows []model.Enriched[model.CornerStats]) {
	table := newTable(w)
	table.Header("WEEK", "OPPONENT", "CK", "SHOTS", "XG", "CK_AG", "SHOTS_AG", "XG_AG", "CUM SHOTS/CK", "CUM XG/SHOT")

	var cum model.CornerStats
	for _, r := range rows {
		cum.CornersTaken += r.For.CornersTaken
		cum.ShotsFromCorners += r.For.ShotsFromCorners
		cum.XG += r.For.XG

		shotsPerCK := "—"
		if cum.CornersTaken > 0 {
			shotsPerCK = fmt.Sprintf("%.3f", float64(cum.ShotsFromCorners)/float64(cum.CornersTaken))
		}
		table.Append(
			strconv.Itoa(r.Week),
			string(r.Opponent),
			strconv.Itoa(r.For.CornersTaken),
			strconv.Itoa(r.For.ShotsFromCorners),
			fmt.Sprintf("%.2f", r.For.XG),
			strconv.Itoa(r.Against.CornersTaken),
			strconv.Itoa(r.Against.ShotsFromCorners),
			fmt.Sprintf("%.2f", r.Against.XG),
			shotsPerCK,
			fmt.Sprintf("%.3f", cum.XGPerShot()),
		)
	}
	table.Render()
}

// PrintGaps prints reported data gaps in yellow. Nothing is printed when there are none.
func PrintGaps(w io.Writer, gaps []model.GapRecord) {
	if len(gaps) == 0 {
		return
	}
	warn := color.New(color.FgYellow)
	warn.Fprintf(w, "\n%d data gap(s):\n", len(gaps))
	for _, g := range gaps {
		warn.Fprintf(w, "  %-24s  %-22s  %s\n", g.Team, g.Kind, g.Detail)
	}
	fmt.Fprintln(w)
}

// PrintRoster prints the configured teams and their chart colours.
func PrintRoster(w io.Writer, teams []model.Team, colors map[model.Team]string) {
	table := newTable(w)
	table.Header("#", "TEAM", "COLOUR")
	for i, t := range teams {
		c := colors[t]
		if c == "" {
			c = "—"
		}
		table.Append(strconv.Itoa(i+1), string(t), c)
	}
	table.Render()
}

// PrintRunList prints stored runs, one line each.
func PrintRunList(w io.Writer, runs []model.RunSummary) {
	fmt.Fprintf(w, "%-14s  %-8s  %-20s  %5s  %5s  %4s  %s\n",
		"HASH", "DATASET", "LOADED", "TEAMS", "WEEKS", "GAPS", "SOURCE")
	fmt.Fprintf(w, "%-14s  %-8s  %-20s  %5s  %5s  %4s  %s\n",
		"──────────────", "────────", "────────────────────", "─────", "─────", "────", "──────")
	for _, r := range runs {
		fmt.Fprintf(w, "%-14s  %-8s  %-20s  %5d  %5d  %4d  %s\n",
			ShortHash(r.Hash), r.Dataset, r.LoadedAt, r.Teams, r.Weeks, r.Gaps, r.SourcePath)
	}
}

// PrintRawTable prints the result of an ad-hoc query.
func PrintRawTable(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
}
