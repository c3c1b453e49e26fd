package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-ck-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func cornerSeason(team string, ckFor, ckAgainst, shots, shotsAgainst int, xg, xgAgainst float64) model.CornerSeason {
	return model.CornerSeason{
		SeasonTotals: model.SeasonTotals[model.CornerStats]{
			Team:     model.Team(team),
			Fixtures: 2,
			For:      model.CornerStats{CornersTaken: ckFor, ShotsFromCorners: shots, XG: xg},
			Against:  model.CornerStats{CornersTaken: ckAgainst, ShotsFromCorners: shotsAgainst, XG: xgAgainst},
		},
		MeanXGPerShot:         0.1,
		MeanXGPerShotConceded: 0.2,
	}
}

func TestRunInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	run := model.RunSummary{Hash: "abc123", Dataset: model.DatasetCorners, SourcePath: "ck.csv", LoadedAt: "2025-01-01T00:00:00Z"}
	if err := db.SaveCornerRun(run, nil, nil); err != nil {
		t.Fatalf("SaveCornerRun: %v", err)
	}

	exists, err := db.RunExists("abc123")
	if err != nil {
		t.Fatalf("RunExists: %v", err)
	}
	if !exists {
		t.Error("expected run to exist after insert")
	}

	exists2, _ := db.RunExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent run to not exist")
	}
}

func TestListRuns(t *testing.T) {
	db := openMemDB(t)

	runs := []model.RunSummary{
		{Hash: "h1", Dataset: model.DatasetCorners, SourcePath: "a.csv", LoadedAt: "2025-01-01T00:00:00Z", Teams: 18},
		{Hash: "h2", Dataset: model.DatasetTilt, SourcePath: "b.csv", LoadedAt: "2025-02-01T00:00:00Z", Teams: 18},
	}
	require.NoError(t, db.SaveCornerRun(runs[0], nil, nil))
	require.NoError(t, db.SaveTiltRun(runs[1], nil, nil))

	list, err := db.ListRuns()
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first.
	assert.Equal(t, "h2", list[0].Hash)
	assert.Equal(t, model.DatasetTilt, list[0].Dataset)
	assert.Equal(t, "h1", list[1].Hash)
	assert.Equal(t, 18, list[1].Teams)
}

func TestGetRunByPrefix(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.SaveCornerRun(model.RunSummary{Hash: "deadbeef1234", Dataset: model.DatasetCorners}, nil, nil))

	got, err := db.GetRunByPrefix("deadbe")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "deadbeef1234", got.Hash)

	missing, err := db.GetRunByPrefix("ffff")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCornerTotalsRoundTrip(t *testing.T) {
	db := openMemDB(t)

	season := []model.CornerSeason{
		cornerSeason("PSM Makassar", 10, 8, 5, 3, 0.75, 0.4),
		cornerSeason("AREMA FC", 7, 9, 2, 4, 0.3, 0.6),
	}
	gaps := []model.GapRecord{{Team: "PSIS Semarang", Kind: "absent-from-reference", Detail: "not in week 1"}}
	run := model.RunSummary{Hash: "r1", Dataset: model.DatasetCorners, LoadedAt: "2025-01-01T00:00:00Z", Teams: 2}
	require.NoError(t, db.SaveCornerRun(run, season, gaps))

	got, err := db.GetCornerTotals("r1")
	require.NoError(t, err)
	assert.Equal(t, season, got, "records should come back in stored order")

	storedGaps, err := db.GetRunGaps("r1")
	require.NoError(t, err)
	assert.Equal(t, gaps, storedGaps)

	stored, err := db.GetRunByPrefix("r1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Gaps)
}

func TestTiltTotalsRoundTrip(t *testing.T) {
	db := openMemDB(t)

	season := []model.TiltSeason{{
		Team:     "PERSIB Bandung",
		Fixtures: 3,
		For:      model.TiltStats{Winning: 55.5, Drawing: 60, Losing: 40},
		Against:  model.TiltStats{Winning: 44.5, Drawing: 40, Losing: 60},
	}}
	require.NoError(t, db.SaveTiltRun(model.RunSummary{Hash: "t1", Dataset: model.DatasetTilt}, season, nil))

	got, err := db.GetTiltTotals("t1")
	require.NoError(t, err)
	assert.Equal(t, season, got)
}

func TestSaveRunIdempotent(t *testing.T) {
	db := openMemDB(t)

	run := model.RunSummary{Hash: "same", Dataset: model.DatasetCorners}
	season := []model.CornerSeason{cornerSeason("AREMA FC", 4, 6, 1, 2, 0.1, 0.2)}
	gaps := []model.GapRecord{{Team: "PSS Sleman", Kind: "missing-opponent", Detail: "x"}}

	for i := 0; i < 2; i++ {
		require.NoError(t, db.SaveCornerRun(run, season, gaps))
	}

	list, err := db.ListRuns()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := db.GetCornerTotals("same")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	storedGaps, err := db.GetRunGaps("same")
	require.NoError(t, err)
	assert.Len(t, storedGaps, 1)
}

func TestDeleteRun(t *testing.T) {
	db := openMemDB(t)
	season := []model.CornerSeason{cornerSeason("AREMA FC", 4, 6, 1, 2, 0.1, 0.2)}
	require.NoError(t, db.SaveCornerRun(model.RunSummary{Hash: "gone", Dataset: model.DatasetCorners}, season, nil))

	require.NoError(t, db.DeleteRun("gone"))

	exists, err := db.RunExists("gone")
	require.NoError(t, err)
	assert.False(t, exists)
	got, err := db.GetCornerTotals("gone")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOverviewAndAppearances(t *testing.T) {
	db := openMemDB(t)

	require.NoError(t, db.SaveCornerRun(
		model.RunSummary{Hash: "c1", Dataset: model.DatasetCorners, LoadedAt: "2025-01-01T00:00:00Z"},
		[]model.CornerSeason{
			cornerSeason("AREMA FC", 4, 6, 1, 2, 0.1, 0.2),
			cornerSeason("Bali United FC", 6, 4, 2, 1, 0.2, 0.1),
		},
		[]model.GapRecord{{Team: "PSS Sleman", Kind: "absent-from-reference"}},
	))
	require.NoError(t, db.SaveTiltRun(
		model.RunSummary{Hash: "t1", Dataset: model.DatasetTilt, LoadedAt: "2025-03-01T00:00:00Z"},
		[]model.TiltSeason{{Team: "AREMA FC", Fixtures: 1}},
		nil,
	))

	ov, err := db.GetOverview()
	require.NoError(t, err)
	assert.Equal(t, 2, ov.TotalRuns)
	assert.Equal(t, 1, ov.CornerRuns)
	assert.Equal(t, 1, ov.TiltRuns)
	assert.Equal(t, "2025-01-01T00:00:00Z", ov.EarliestRun)
	assert.Equal(t, "2025-03-01T00:00:00Z", ov.LatestRun)
	assert.Equal(t, 2, ov.UniqueTeams)
	assert.Equal(t, 1, ov.TotalGaps)

	apps, err := db.GetTeamAppearances(10)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, TeamAppearance{Team: "AREMA FC", Runs: 2}, apps[0])
	assert.Equal(t, TeamAppearance{Team: "Bali United FC", Runs: 1}, apps[1])
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.SaveCornerRun(model.RunSummary{Hash: "q1", Dataset: model.DatasetCorners, SourcePath: "s.csv"}, nil, nil))

	cols, rows, err := db.QueryRaw("SELECT hash, source_path, NULL AS empty FROM runs")
	require.NoError(t, err)
	assert.Equal(t, []string{"hash", "source_path", "empty"}, cols)
	assert.Equal(t, [][]string{{"q1", "s.csv", "NULL"}}, rows)

	_, _, err = db.QueryRaw("SELECT * FROM no_such_table")
	assert.Error(t, err)
}
