package crtbp

import (
	"math"
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

// radialGrid returns a grid whose value is the radius.
func radialGrid(cols, rows int) *Grid {
	radius := Linspace(0, 1, rows)
	field := mat64.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			field.Set(r, c, radius[r])
		}
	}
	return &Grid{Field: field, Theta: Linspace(0, 2*math.Pi, cols), Radius: radius, S: radius}
}

func TestIsolinesCircle(t *testing.T) {
	g := radialGrid(73, 11)
	segs := Isolines(g, 0.45)
	if len(segs) != 72 {
		t.Fatalf("found %d segments instead of 72", len(segs))
	}
	for _, s := range segs {
		for _, p := range []Point{s.A, s.B} {
			if !floats.EqualWithinAbs(p.R, 0.45, 1e-12) {
				t.Fatalf("point %+v is not on the circle", p)
			}
			x, y := Polar.Project(p.Θ, p.R)
			if !floats.EqualWithinAbs(math.Hypot(x, y), 0.45, 1e-12) {
				t.Fatalf("projected point (%f, %f) is not on the circle", x, y)
			}
		}
	}
	if segs := Isolines(g, 2); len(segs) != 0 {
		t.Fatalf("found %d segments above the field", len(segs))
	}
}

func TestIsolinesNaN(t *testing.T) {
	g := radialGrid(5, 3)
	g.Field.Set(1, 1, math.NaN())
	// The four cells around the NaN are skipped.
	if segs := Isolines(g, 0.75); len(segs) != 2 {
		t.Fatalf("found %d segments instead of 2", len(segs))
	}
}

func TestIsolinesSaddle(t *testing.T) {
	g := &Grid{
		Field:  mat64.NewDense(2, 2, []float64{1, 0, 0, 1}),
		Theta:  []float64{0, 1},
		Radius: []float64{0, 1},
	}
	// The centre (0.5) is above 0.4: the cell splits off the low corners.
	segs := Isolines(g, 0.4)
	if len(segs) != 2 {
		t.Fatalf("found %d segments instead of 2", len(segs))
	}
	for _, s := range segs {
		// Both low corners, bottom right and top left, are cut off.
		if !(s.A.R == 0 && s.B.Θ == 1) && !(s.A.Θ == 0 && s.B.R == 1) {
			t.Fatalf("segment %+v does not cut off a low corner", s)
		}
	}
	// Below the centre, the high corners are isolated.
	segs = Isolines(g, 0.6)
	if len(segs) != 2 {
		t.Fatalf("found %d segments instead of 2", len(segs))
	}
	for _, s := range segs {
		if !(s.A.Θ == 0 && s.B.R == 0) && !(s.A.Θ == 1 && s.B.R == 1) {
			t.Fatalf("segment %+v does not cut off a high corner", s)
		}
	}
}

func TestProjection(t *testing.T) {
	if x, y := Polar.Project(math.Pi/2, 2); !floats.EqualWithinAbs(x, 0, 1e-15) || y != 2 {
		t.Fatalf("polar projection (%f, %f)", x, y)
	}
	if x, y := Rect.Project(2*math.Pi, 0.3); !floats.EqualWithinAbs(x, 360, 1e-12) || y != 0.3 {
		t.Fatalf("rectangular projection (%f, %f)", x, y)
	}
	for _, p := range []Projection{Polar, Rect} {
		if back, err := ProjectionFromString(p.String()); err != nil || back != p {
			t.Fatalf("%s did not round trip", p)
		}
	}
	if _, err := ProjectionFromString("mercator"); err == nil {
		t.Fatal("unknown projection accepted")
	}
}
