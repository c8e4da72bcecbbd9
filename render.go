package crtbp

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	// ContourLineStyle is the style of the line contours.
	ContourLineStyle = draw.LineStyle{Color: color.NRGBA{A: 64}, Width: vg.Points(0.7)}
	// GridLineStyle is the style of the dotted polar grid.
	GridLineStyle = draw.LineStyle{Color: color.NRGBA{A: 51}, Width: vg.Points(1), Dashes: []vg.Length{vg.Points(1), vg.Points(2)}}
)

// RenderConfig defines the figure.
type RenderConfig struct {
	Output             string // defaults to N=<N>.png
	DPI                int
	Width, Height      vg.Length
	Projection         Projection
	ThetaMin, ThetaMax float64 // degrees
	ShowGrid           bool
	Colormap           string
	Title              string
	Show               bool // open the image once written
}

// DefaultRenderConfig returns the configuration of the averaged CRTBP maps.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{DPI: 500, Width: 4.8 * vg.Inch, Height: 4.8 * vg.Inch, Projection: Polar, ThetaMin: 0, ThetaMax: 360, Colormap: "magma_r"}
}

// Validate returns an error if the figure cannot be drawn.
func (c RenderConfig) Validate() error {
	if c.DPI <= 0 {
		return fmt.Errorf("DPI must be positive (got %d)", c.DPI)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid figure size %v×%v", c.Width, c.Height)
	}
	if c.ThetaMin >= c.ThetaMax {
		return fmt.Errorf("θ limits [%g, %g] are empty", c.ThetaMin, c.ThetaMax)
	}
	if _, err := ColorMapFromString(c.Colormap); err != nil {
		return err
	}
	return nil
}

// polarLayer holds what the layers of a map share.
type polarLayer struct {
	Grid               plotter.GridXYZ
	Projection         Projection
	ThetaMin, ThetaMax float64 // radians
}

// radii returns the extent of the finite radii of the grid.
func (l polarLayer) radii() (rmin, rmax float64) {
	_, rows := l.Grid.Dims()
	rmin, rmax = math.Inf(1), 0
	for r := 0; r < rows; r++ {
		if v := l.Grid.Y(r); isFinite(v) {
			rmin = math.Min(rmin, v)
			rmax = math.Max(rmax, v)
		}
	}
	return math.Min(rmin, rmax), rmax
}

// DataRange implements plot.DataRanger.
func (l polarLayer) DataRange() (xmin, xmax, ymin, ymax float64) {
	rmin, rmax := l.radii()
	if l.Projection == Rect {
		return l.ThetaMin / deg2rad, l.ThetaMax / deg2rad, rmin, rmax
	}
	return -rmax, rmax, -rmax, rmax
}

func (l polarLayer) visible(θ0, θ1 float64) bool {
	return θ1 >= l.ThetaMin && θ0 <= l.ThetaMax
}

func (l polarLayer) point(trX, trY func(float64) vg.Length, θ, r float64) vg.Point {
	x, y := l.Projection.Project(θ, r)
	return vg.Point{X: trX(x), Y: trY(y)}
}

// FilledContours colors each grid cell with the fill bin of the mean of its
// corners. Cells outside of the fill levels are left transparent.
type FilledContours struct {
	polarLayer
	Levels []float64
	Colors []color.Color // one per bin
}

// Plot implements plot.Plotter.
func (f *FilledContours) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	lv := Levels{Fill: f.Levels}
	cols, rows := f.Grid.Dims()
	for r := 0; r < rows-1; r++ {
		r0, r1 := f.Grid.Y(r), f.Grid.Y(r+1)
		if !isFinite(r0) || !isFinite(r1) {
			continue
		}
		for col := 0; col < cols-1; col++ {
			θ0, θ1 := f.Grid.X(col), f.Grid.X(col+1)
			if !f.visible(θ0, θ1) {
				continue
			}
			mean := (f.Grid.Z(col, r) + f.Grid.Z(col+1, r) + f.Grid.Z(col+1, r+1) + f.Grid.Z(col, r+1)) / 4
			k, ok := lv.Bin(mean)
			if !ok {
				continue
			}
			pts := []vg.Point{
				f.point(trX, trY, θ0, r0),
				f.point(trX, trY, θ1, r0),
				f.point(trX, trY, θ1, r1),
				f.point(trX, trY, θ0, r1),
			}
			c.FillPolygon(f.Colors[k], c.ClipPolygonXY(pts))
		}
	}
}

// ContourLines strokes the isolines of every level.
type ContourLines struct {
	polarLayer
	Levels    []float64
	LineStyle draw.LineStyle
}

// Plot implements plot.Plotter.
func (l *ContourLines) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, level := range l.Levels {
		var lines [][]vg.Point
		for _, s := range Isolines(l.Grid, level) {
			if !l.visible(math.Min(s.A.Θ, s.B.Θ), math.Max(s.A.Θ, s.B.Θ)) {
				continue
			}
			lines = append(lines, []vg.Point{l.point(trX, trY, s.A.Θ, s.A.R), l.point(trX, trY, s.B.Θ, s.B.R)})
		}
		c.StrokeLines(l.LineStyle, c.ClipLinesXY(lines...)...)
	}
}

// GridLines draws rings of constant radius and spokes of constant angle.
type GridLines struct {
	polarLayer
	Rings, Spokes int
	LineStyle     draw.LineStyle
}

// Plot implements plot.Plotter.
func (g *GridLines) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	_, rmax := g.radii()
	var lines [][]vg.Point
	steps := int(math.Ceil((g.ThetaMax - g.ThetaMin) / deg2rad))
	for i := 1; i <= g.Rings; i++ {
		r := rmax * float64(i) / float64(g.Rings)
		ring := make([]vg.Point, 0, steps+1)
		for _, θ := range Linspace(g.ThetaMin, g.ThetaMax, steps+1) {
			ring = append(ring, g.point(trX, trY, θ, r))
		}
		lines = append(lines, ring)
	}
	for i := 0; i < g.Spokes; i++ {
		θ := 2 * math.Pi * float64(i) / float64(g.Spokes)
		if θ < g.ThetaMin || θ > g.ThetaMax {
			continue
		}
		lines = append(lines, []vg.Point{g.point(trX, trY, θ, 0), g.point(trX, trY, θ, rmax)})
	}
	c.StrokeLines(g.LineStyle, c.ClipLinesXY(lines...)...)
}

// NewPlot returns the filled and line contours of g.
func NewPlot(g *Grid, lv Levels, conf RenderConfig) (*plot.Plot, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	cmap, err := ColorMapFromString(conf.Colormap)
	if err != nil {
		return nil, err
	}
	colors, err := binColors(cmap, lv.Fill)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.BackgroundColor = color.Transparent
	p.Title.Text = conf.Title
	base := polarLayer{Grid: g, Projection: conf.Projection, ThetaMin: conf.ThetaMin * deg2rad, ThetaMax: conf.ThetaMax * deg2rad}
	if len(colors) > 0 {
		p.Add(&FilledContours{polarLayer: base, Levels: lv.Fill, Colors: colors})
	}
	p.Add(&ContourLines{polarLayer: base, Levels: lv.Lines, LineStyle: ContourLineStyle})
	if conf.ShowGrid {
		p.Add(&GridLines{polarLayer: base, Rings: 4, Spokes: 8, LineStyle: GridLineStyle})
	}
	p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = base.DataRange()
	if conf.Projection == Polar {
		p.HideAxes()
		p.X.Padding, p.Y.Padding = 0, 0
	} else {
		p.X.Label.Text = "θ (deg)"
		p.Y.Label.Text = "e"
	}
	return p, nil
}

// Render writes the map of g as a PNG image to w.
func Render(w io.Writer, g *Grid, lv Levels, conf RenderConfig) error {
	p, err := NewPlot(g, lv, conf)
	if err != nil {
		return err
	}
	c := vgimg.NewWith(
		vgimg.UseWH(conf.Width, conf.Height),
		vgimg.UseDPI(conf.DPI),
		vgimg.UseBackgroundColor(color.Transparent),
	)
	p.Draw(draw.New(c))
	bw := bufio.NewWriter(w)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

// RenderFile writes the map of g to filename, creating its directory if needed.
func RenderFile(filename string, g *Grid, lv Levels, conf RenderConfig) (err error) {
	if err = os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Render(f, g, lv, conf)
}

// ErrNoViewer is returned by Show on platforms without a known image viewer.
var ErrNoViewer = errors.New("no image viewer for this platform")

// Show opens filename with the default image viewer, without waiting for it.
func Show(filename string) error {
	return show(runtime.GOOS, filename)
}

// viewers are the commands opening a file, by GOOS.
var viewers = map[string][]string{
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"openbsd": {"xdg-open"},
	"netbsd":  {"xdg-open"},
	"darwin":  {"open"},
	"windows": {"cmd", "/c", "start", ""},
}

func show(goos, filename string) error {
	v, ok := viewers[goos]
	if !ok {
		return ErrNoViewer
	}
	cmd := exec.Command(v[0], append(v[1:len(v):len(v)], filename)...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// The viewer outlives us; reap it if it exits first.
	go cmd.Wait()
	return nil
}
