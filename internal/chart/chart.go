// Package chart renders the corner-kick proficiency scatter plots.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/pable/go-ck-metrics/internal/model"
)

// Output file names written by WriteAll.
const (
	AttackingFile = "cka.png"
	DefensiveFile = "ckd.png"
)

// pixelsPerInch matches the vgimg default DPI, so sizes given in pixels come out exact.
const pixelsPerInch = 96

// Fallback is the colour for teams missing from the palette.
var Fallback = color.RGBA{R: 0x61, G: 0x61, B: 0x61, A: 0xff}

// Kind selects which side of the corner duel a chart shows.
type Kind int

const (
	Attacking Kind = iota
	Defensive
)

// Captions are the title, axis labels and file name of one chart kind.
type Captions struct {
	Title  string
	XLabel string
	YLabel string
	File   string
}

var captions = map[Kind]Captions{
	Attacking: {
		Title:  "Attacking Corner Proficiency",
		XLabel: "xG per Shot from Corner Kick",
		YLabel: "Shot per Corner Kick",
		File:   AttackingFile,
	},
	Defensive: {
		Title:  "Defensive Corner Proficiency",
		XLabel: "xG per Shot Conceded from Corner Kick",
		YLabel: "Shot Conceded per Corner Kick Faced",
		File:   DefensiveFile,
	},
}

// CaptionsFor returns the captions for k.
func CaptionsFor(k Kind) Captions { return captions[k] }

// Options controls rendering.
type Options struct {
	Width   int // pixels
	Height  int // pixels
	Palette map[model.Team]color.RGBA
}

// Point is one team's position on a chart.
type Point struct {
	Team model.Team
	X, Y float64
}

// Points extracts the coordinates a chart kind plots from derived metrics.
func Points(k Kind, metrics []model.DerivedMetrics) []Point {
	out := make([]Point, len(metrics))
	for i, m := range metrics {
		p := Point{Team: m.Team, X: m.XGPerShot, Y: m.ShotsPerCorner}
		if k == Defensive {
			p.X, p.Y = m.XGPerShotConceded, m.ShotsConcededPerCorner
		}
		out[i] = p
	}
	return out
}

// AxisRange truncates the extremes to three decimals and pads each outward by 10%
// of its own magnitude. A degenerate range is widened so the axis stays drawable.
func AxisRange(vals []float64) (lo, hi float64) {
	if len(vals) == 0 {
		return 0, 1
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		q := math.Trunc(v*1000) / 1000
		lo = math.Min(lo, q)
		hi = math.Max(hi, q)
	}
	lo -= math.Abs(lo) * 0.1
	hi += math.Abs(hi) * 0.1
	if hi <= lo {
		lo, hi = lo-0.1, hi+0.1
	}
	return lo, hi
}

// Build assembles the scatter plot for the given points.
func Build(k Kind, points []Point, opts Options) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no teams to plot")
	}
	c := CaptionsFor(k)

	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(18)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	xys := make(plotter.XYs, len(points))
	labelXYs := make(plotter.XYs, len(points))
	names := make([]string, len(points))
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		labelXYs[i] = plotter.XY{X: pt.X * 1.01, Y: pt.Y * 1.01}
		names[i] = string(pt.Team)
		xs[i], ys[i] = pt.X, pt.Y
	}

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		col, ok := opts.Palette[points[i].Team]
		if !ok {
			col = Fallback
		}
		return draw.GlyphStyle{Color: col, Radius: vg.Points(5), Shape: draw.CircleGlyph{}}
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelXYs, Labels: names})
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(10)
	}

	p.Add(sc, labels)
	p.X.Min, p.X.Max = AxisRange(xs)
	p.Y.Min, p.Y.Max = AxisRange(ys)
	return p, nil
}

// Render writes the chart as PNG to w.
func Render(w io.Writer, k Kind, points []Point, opts Options) error {
	p, err := Build(k, points, opts)
	if err != nil {
		return err
	}
	width := vg.Length(opts.Width) * vg.Inch / pixelsPerInch
	height := vg.Length(opts.Height) * vg.Inch / pixelsPerInch
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("encode %s: %w", CaptionsFor(k).File, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// WriteAll renders both charts into dir and returns the written paths.
func WriteAll(dir string, metrics []model.DerivedMetrics, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	var paths []string
	for _, k := range []Kind{Attacking, Defensive} {
		path := filepath.Join(dir, CaptionsFor(k).File)
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("create %s: %w", path, err)
		}
		err = Render(f, k, Points(k, metrics), opts)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, fmt.Errorf("render %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
