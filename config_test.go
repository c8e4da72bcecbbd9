package crtbp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonum/floats"
	"gonum.org/v1/plot/vg"
)

func TestDefaultScenario(t *testing.T) {
	sc := DefaultScenario()
	if sc.Input != DefaultInput {
		t.Fatalf("unexpected input %s", sc.Input)
	}
	if sc.Grid != (GridConfig{Columns: 721, N: -1.96, SMin: 0, SMax: 0.08, NaNPolicy: ZeroNonFinite}) {
		t.Fatalf("unexpected grid %+v", sc.Grid)
	}
	if sc.Levels != DefaultLevelConfig() {
		t.Fatalf("unexpected levels %s", sc.Levels)
	}
	if sc.Render.DPI != 500 || sc.Render.Projection != Polar || sc.Render.ShowGrid || sc.Render.Show {
		t.Fatalf("unexpected render config %+v", sc.Render)
	}
	if sc.Render.ThetaMin != 0 || sc.Render.ThetaMax != 360 || sc.Render.Colormap != "magma_r" {
		t.Fatalf("unexpected render config %+v", sc.Render)
	}
	if sc.OutputFile() != "N=-1.96.png" {
		t.Fatalf("unexpected output %s", sc.OutputFile())
	}
	if sc.Propagation.Mu != DefaultMu || sc.Propagation.Step != 0.001 || sc.Propagation.End != 1000 || sc.Propagation.Jump != 100 {
		t.Fatalf("unexpected propagation %+v", sc.Propagation)
	}
}

func TestReadScenario(t *testing.T) {
	conf := `[general]
input = "data/SingleAve_-1.8_0.1.txt"
output_path = "maps"

[grid]
N = -1.8
s_max = 0.1
nan_policy = "fail"

[levels.lines]
count = 5

[render]
dpi = 100
width = 3
projection = "rect"
theta_max = 180
grid = true

[crtbp]
mu = 0.01
jump = 10
`
	sc, err := ReadScenario("planar", strings.NewReader(conf))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "planar" || sc.Input != "data/SingleAve_-1.8_0.1.txt" {
		t.Fatalf("unexpected general section %s", sc)
	}
	if sc.Grid.N != -1.8 || sc.Grid.SMax != 0.1 || sc.Grid.NaNPolicy != FailOnNonFinite || sc.Grid.Columns != 721 {
		t.Fatalf("unexpected grid %+v", sc.Grid)
	}
	if sc.Levels.LineCount != 5 || sc.Levels.LineSpan != 0.0011 {
		t.Fatalf("unexpected levels %s", sc.Levels)
	}
	if sc.Render.DPI != 100 || sc.Render.Width != 3*vg.Inch || !floats.EqualWithinAbs(float64(sc.Render.Height), float64(4.8*vg.Inch), 1e-9) {
		t.Fatalf("unexpected figure %+v", sc.Render)
	}
	if sc.Render.Projection != Rect || sc.Render.ThetaMax != 180 || !sc.Render.ShowGrid {
		t.Fatalf("unexpected render config %+v", sc.Render)
	}
	if exp := filepath.Join("maps", "N=-1.8.png"); sc.OutputFile() != exp {
		t.Fatalf("output %s != %s", sc.OutputFile(), exp)
	}
	if sc.Propagation.Mu != 0.01 || sc.Propagation.Jump != 10 {
		t.Fatalf("unexpected propagation %+v", sc.Propagation)
	}
}

func TestReadScenarioInvalid(t *testing.T) {
	for _, conf := range []string{
		"[grid]\nnan_policy = \"ignore\"\n",
		"[grid]\ncolumns = 1\n",
		"[render]\nprojection = \"mercator\"\n",
		"[render]\ndpi = 0\n",
		"[render]\ntheta_min = 90\ntheta_max = 90\n",
		"[render]\ncolormap = \"jet\"\n",
		"[crtbp]\nmu = 1.5\n",
		"[crtbp]\nstep = -0.1\n",
		"[crtbp]\njump = -1\n",
		"[grid\n",
	} {
		if _, err := ReadScenario("invalid", strings.NewReader(conf)); err == nil {
			t.Fatalf("scenario accepted:\n%s", conf)
		}
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "inclined.toml"), []byte("[render]\noutput = \"/tmp/inclined.png\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(dir, "inclined.toml")
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "inclined" || sc.OutputFile() != "/tmp/inclined.png" {
		t.Fatalf("unexpected scenario %s", sc)
	}
	if _, err := LoadScenario(dir, "missing"); err == nil {
		t.Fatal("missing scenario loaded")
	}
}
