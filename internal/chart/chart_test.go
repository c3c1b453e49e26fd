package chart

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-ck-metrics/internal/model"
)

func sampleMetrics() []model.DerivedMetrics {
	return []model.DerivedMetrics{
		{Team: "AREMA FC", XGPerShot: 0.12, ShotsPerCorner: 0.3, XGPerShotConceded: 0.08, ShotsConcededPerCorner: 0.25},
		{Team: "Bali United FC", XGPerShot: 0.2, ShotsPerCorner: 0.45, XGPerShotConceded: 0.1, ShotsConcededPerCorner: 0.2},
	}
}

func TestAxisRange(t *testing.T) {
	lo, hi := AxisRange([]float64{0.12345, 0.5, 0.2679})
	// 0.12345 truncates to 0.123, 0.5 stays.
	assert.InDelta(t, 0.123-0.0123, lo, 1e-12)
	assert.InDelta(t, 0.5+0.05, hi, 1e-12)
}

func TestAxisRangeTruncatesRatherThanRounds(t *testing.T) {
	lo, hi := AxisRange([]float64{0.1999, 0.2999})
	assert.InDelta(t, 0.199*0.9, lo, 1e-12)
	assert.InDelta(t, 0.299*1.1, hi, 1e-12)
}

func TestAxisRangeDegenerate(t *testing.T) {
	lo, hi := AxisRange([]float64{0, 0})
	assert.Less(t, lo, hi)

	lo, hi = AxisRange(nil)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestPoints(t *testing.T) {
	m := sampleMetrics()

	att := Points(Attacking, m)
	assert.Equal(t, Point{Team: "AREMA FC", X: 0.12, Y: 0.3}, att[0])

	def := Points(Defensive, m)
	assert.Equal(t, Point{Team: "Bali United FC", X: 0.1, Y: 0.2}, def[1])
}

func TestBuildCaptions(t *testing.T) {
	p, err := Build(Defensive, Points(Defensive, sampleMetrics()), Options{})
	require.NoError(t, err)
	assert.Equal(t, "Defensive Corner Proficiency", p.Title.Text)
	assert.Equal(t, "xG per Shot Conceded from Corner Kick", p.X.Label.Text)
	assert.Equal(t, "Shot Conceded per Corner Kick Faced", p.Y.Label.Text)
	assert.Less(t, p.X.Min, 0.08)
	assert.Greater(t, p.X.Max, 0.1)
}

func TestBuildNoPoints(t *testing.T) {
	_, err := Build(Attacking, nil, Options{})
	assert.Error(t, err)
}

func TestRenderPNGSize(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{
		Width:   640,
		Height:  480,
		Palette: map[model.Team]color.RGBA{"AREMA FC": {B: 0xff, A: 0xff}},
	}
	require.NoError(t, Render(&buf, Attacking, Points(Attacking, sampleMetrics()), opts))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := WriteAll(dir, sampleMetrics(), Options{Width: 320, Height: 240})
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, AttackingFile), paths[0])
	assert.Equal(t, filepath.Join(dir, DefensiveFile), paths[1])
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
