package crtbp

import (
	"errors"
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat"
)

var (
	// ErrShape is returned when the samples cannot fill a grid exactly.
	ErrShape = errors.New("sample count is not a multiple of the column count")
	// ErrNonFinite is returned by Sanitize under FailOnNonFinite.
	ErrNonFinite = errors.New("field contains non finite values")
	// ErrEmpty is returned when there is nothing to reshape.
	ErrEmpty = errors.New("no samples")
)

// NaNPolicy defines how Sanitize treats NaN and infinite samples.
type NaNPolicy uint8

const (
	// ZeroNonFinite replaces NaN and ±Inf with zero. It is the zero value.
	ZeroNonFinite NaNPolicy = iota
	// FailOnNonFinite leaves the field untouched and returns ErrNonFinite.
	FailOnNonFinite
)

func (p NaNPolicy) String() string {
	switch p {
	case ZeroNonFinite:
		return "zero"
	case FailOnNonFinite:
		return "fail"
	default:
		return fmt.Sprintf("NaNPolicy(%d)", uint8(p))
	}
}

// NaNPolicyFromString returns the policy named s.
func NaNPolicyFromString(s string) (NaNPolicy, error) {
	switch s {
	case "zero", "":
		return ZeroNonFinite, nil
	case "fail":
		return FailOnNonFinite, nil
	default:
		return 0, fmt.Errorf("unknown NaN policy `%s`", s)
	}
}

// Reshape returns the row-major (len(data)/cols × cols) matrix backed by data.
func Reshape(data []float64, cols int) (*mat64.Dense, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if cols <= 0 || len(data)%cols != 0 {
		return nil, fmt.Errorf("%d samples in rows of %d: %w", len(data), cols, ErrShape)
	}
	return mat64.NewDense(len(data)/cols, cols, data), nil
}

// Flatten returns the elements of m in row-major order.
func Flatten(m *mat64.Dense) []float64 {
	r, c := m.Dims()
	flat := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		flat = append(flat, m.RawRowView(i)...)
	}
	return flat
}

// Sanitize counts the non finite elements of m and, under ZeroNonFinite,
// replaces them with zero in place.
func Sanitize(m *mat64.Dense, policy NaNPolicy) (int, error) {
	if policy != ZeroNonFinite && policy != FailOnNonFinite {
		return 0, fmt.Errorf("unknown NaN policy %s", policy)
	}
	r, c := m.Dims()
	replaced := 0
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		for j, v := range row {
			if isFinite(v) {
				continue
			}
			replaced++
			if policy == ZeroNonFinite {
				row[j] = 0
			}
		}
	}
	if replaced > 0 && policy == FailOnNonFinite {
		return replaced, fmt.Errorf("%d of %d samples: %w", replaced, r*c, ErrNonFinite)
	}
	return replaced, nil
}

// FieldStats summarizes a field.
type FieldStats struct {
	Min, Max, Mean, StdDev float64
}

func (s FieldStats) String() string {
	return fmt.Sprintf("min=%g max=%g mean=%g σ=%g", s.Min, s.Max, s.Mean, s.StdDev)
}

// Stats returns the statistics of m, which should have been sanitized.
func Stats(m *mat64.Dense) FieldStats {
	flat := Flatten(m)
	s := FieldStats{Min: mat64.Min(m), Max: mat64.Max(m), Mean: stat.Mean(flat, nil)}
	if len(flat) > 1 {
		s.StdDev = stat.StdDev(flat, nil)
	}
	return s
}

// Grid is a scalar field sampled over polar coordinates: columns follow the
// angle θ and rows follow the radius, which is the eccentricity derived from S.
type Grid struct {
	Field  *mat64.Dense
	Theta  []float64 // radians, one per column
	Radius []float64 // one per row
	S      []float64 // one per row
}

// NewGrid reshapes data into rows of cols angles spanning [0, 2π] and derives
// the radial axis from S in [sMin, sMax] via NStoAE.
func NewGrid(data []float64, cols int, N, sMin, sMax float64) (*Grid, error) {
	field, err := Reshape(data, cols)
	if err != nil {
		return nil, err
	}
	rows, _ := field.Dims()
	S := Linspace(sMin, sMax, rows)
	_, e := NStoAEs(N, S)
	return &Grid{Field: field, Theta: Linspace(0, 2*math.Pi, cols), Radius: e, S: S}, nil
}

// Dims implements plotter.GridXYZ: c counts angles and r counts radii.
func (g *Grid) Dims() (c, r int) {
	r, c = g.Field.Dims()
	return c, r
}

// Z implements plotter.GridXYZ.
func (g *Grid) Z(c, r int) float64 {
	return g.Field.At(r, c)
}

// X implements plotter.GridXYZ and returns the angle of column c.
func (g *Grid) X(c int) float64 {
	return g.Theta[c]
}

// Y implements plotter.GridXYZ and returns the radius of row r.
func (g *Grid) Y(r int) float64 {
	return g.Radius[r]
}

// MaxRadius returns the largest finite radius of the grid.
func (g *Grid) MaxRadius() float64 {
	max := 0.0
	for _, r := range g.Radius {
		if isFinite(r) && r > max {
			max = r
		}
	}
	return max
}
