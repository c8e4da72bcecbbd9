package crtbp

import (
	"fmt"
	"math"

	"gonum.org/v1/plot/plotter"
)

// Point is a position in (θ, r) grid coordinates.
type Point struct {
	Θ, R float64
}

// Segment is a piece of isoline across one grid cell.
type Segment struct {
	A, B Point
}

// Projection maps grid coordinates onto the plane of the figure.
type Projection uint8

const (
	// Polar maps (θ, r) to (r cos θ, r sin θ).
	Polar Projection = iota + 1
	// Rect maps (θ, r) to (θ in degrees, r).
	Rect
)

func (p Projection) String() string {
	switch p {
	case Polar:
		return "polar"
	case Rect:
		return "rect"
	default:
		panic("unknown projection")
	}
}

// ProjectionFromString returns the projection named s.
func ProjectionFromString(s string) (Projection, error) {
	switch s {
	case "polar", "":
		return Polar, nil
	case "rect", "rectangular":
		return Rect, nil
	default:
		return 0, fmt.Errorf("unknown projection `%s`", s)
	}
}

// Project returns the figure coordinates of (θ, r).
func (p Projection) Project(θ, r float64) (x, y float64) {
	if p == Rect {
		return θ / deg2rad, r
	}
	sinθ, cosθ := math.Sincos(θ)
	return r * cosθ, r * sinθ
}

// Cell edges, counterclockwise from the bottom one.
const (
	bottom = iota
	right
	top
	left
)

// edgePairs lists the crossed edges of each marching squares case, where bit
// 0 is set when the bottom left corner is at or above the level, bit 1 for the
// bottom right, bit 2 for the top right and bit 3 for the top left corner.
// Saddles (5 and 10) are resolved separately.
var edgePairs = [16][][2]int{
	1:  {{left, bottom}},
	2:  {{bottom, right}},
	3:  {{left, right}},
	4:  {{right, top}},
	6:  {{bottom, top}},
	7:  {{left, top}},
	8:  {{left, top}},
	9:  {{bottom, top}},
	11: {{right, top}},
	12: {{left, right}},
	13: {{bottom, right}},
	14: {{left, bottom}},
}

// Isolines returns the segments of the level curve of g at the given level,
// computed by marching squares in (θ, r) coordinates. Cells with a non finite
// corner are skipped.
func Isolines(g plotter.GridXYZ, level float64) []Segment {
	var segs []Segment
	cols, rows := g.Dims()
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			// Bottom left, bottom right, top right, top left.
			z := [4]float64{g.Z(c, r), g.Z(c+1, r), g.Z(c+1, r+1), g.Z(c, r+1)}
			idx := 0
			finite := true
			for k, v := range z {
				if !isFinite(v) {
					finite = false
					break
				}
				if v >= level {
					idx |= 1 << uint(k)
				}
			}
			if !finite || idx == 0 || idx == 15 {
				continue
			}
			x0, x1, y0, y1 := g.X(c), g.X(c+1), g.Y(r), g.Y(r+1)
			crossing := func(edge int) Point {
				switch edge {
				case bottom:
					return Point{interp(x0, x1, z[0], z[1], level), y0}
				case right:
					return Point{x1, interp(y0, y1, z[1], z[2], level)}
				case top:
					return Point{interp(x0, x1, z[3], z[2], level), y1}
				default:
					return Point{x0, interp(y0, y1, z[0], z[3], level)}
				}
			}
			pairs := edgePairs[idx]
			if idx == 5 || idx == 10 {
				pairs = saddle(idx, (z[0]+z[1]+z[2]+z[3])/4 >= level)
			}
			for _, p := range pairs {
				segs = append(segs, Segment{crossing(p[0]), crossing(p[1])})
			}
		}
	}
	return segs
}

// saddle returns the crossed edges of an ambiguous cell: the corners which
// are on the same side as the cell centre are joined.
func saddle(idx int, centreAbove bool) [][2]int {
	// Case 5 has the bottom left and top right corners above the level.
	if (idx == 5) == centreAbove {
		return [][2]int{{bottom, right}, {left, top}}
	}
	return [][2]int{{left, bottom}, {right, top}}
}

// interp returns the position between a and b where the linear interpolation
// of za and zb equals level.
func interp(a, b, za, zb, level float64) float64 {
	if za == zb {
		return (a + b) / 2
	}
	return a + (b-a)*(level-za)/(zb-za)
}
