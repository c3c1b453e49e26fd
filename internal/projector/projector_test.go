package projector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-ck-metrics/internal/model"
)

func season(team model.Team, forStats, against model.CornerStats) model.CornerSeason {
	return model.CornerSeason{SeasonTotals: model.SeasonTotals[model.CornerStats]{
		Team: team, Fixtures: 1, For: forStats, Against: against,
	}}
}

func TestProject(t *testing.T) {
	d, err := Project(season("AREMA FC",
		model.CornerStats{CornersTaken: 10, ShotsFromCorners: 4, XG: 0.6},
		model.CornerStats{CornersTaken: 8, ShotsFromCorners: 2, XG: 0.5},
	))
	require.NoError(t, err)
	assert.Equal(t, model.Team("AREMA FC"), d.Team)
	assert.InDelta(t, 0.15, d.XGPerShot, 1e-9)
	assert.InDelta(t, 0.4, d.ShotsPerCorner, 1e-9)
	assert.InDelta(t, 0.25, d.XGPerShotConceded, 1e-9)
	assert.InDelta(t, 0.25, d.ShotsConcededPerCorner, 1e-9)
}

func TestProjectZeroShots(t *testing.T) {
	d, err := Project(season("PSS Sleman",
		model.CornerStats{CornersTaken: 5},
		model.CornerStats{CornersTaken: 3},
	))
	require.NoError(t, err)
	assert.Equal(t, 0.0, d.XGPerShot)
	assert.Equal(t, 0.0, d.XGPerShotConceded)
	assert.Equal(t, 0.0, d.ShotsPerCorner)
}

func TestProjectIdempotent(t *testing.T) {
	in := season("PSM Makassar",
		model.CornerStats{CornersTaken: 7, ShotsFromCorners: 0},
		model.CornerStats{CornersTaken: 9, ShotsFromCorners: 3, XG: 0.3},
	)
	a, err := Project(in)
	require.NoError(t, err)
	b, err := Project(in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProjectZeroCorners(t *testing.T) {
	tests := []struct {
		name    string
		for_    model.CornerStats
		against model.CornerStats
		metric  string
	}{
		{"attacking", model.CornerStats{}, model.CornerStats{CornersTaken: 2}, MetricShotsPerCorner},
		{"defensive", model.CornerStats{CornersTaken: 2}, model.CornerStats{}, MetricShotsConcededPerCorner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Project(season("PSBS Biak", tt.for_, tt.against))
			var cerr *ComputationError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, model.Team("PSBS Biak"), cerr.Team)
			assert.Equal(t, tt.metric, cerr.Metric)
		})
	}
}

func TestProjectAll(t *testing.T) {
	ok := season("AREMA FC", model.CornerStats{CornersTaken: 2, ShotsFromCorners: 1}, model.CornerStats{CornersTaken: 4})
	bad := season("PSIS Semarang", model.CornerStats{}, model.CornerStats{CornersTaken: 1})

	out, err := ProjectAll([]model.CornerSeason{ok, ok})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	_, err = ProjectAll([]model.CornerSeason{ok, bad})
	var cerr *ComputationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, model.Team("PSIS Semarang"), cerr.Team)
}
