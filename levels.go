package crtbp

import (
	"fmt"
	"sort"
)

// LevelConfig defines how contour levels are placed above the field minimum.
type LevelConfig struct {
	LineSpan  float64 // line levels cover [min, min+LineSpan]
	LineCount int
	Splice    float64 // extra line level at min+Splice
	FillSpan  float64 // fill levels cover [min, min+FillSpan]
	FillCount int
}

// DefaultLevelConfig returns the levels used for the averaged CRTBP maps.
func DefaultLevelConfig() LevelConfig {
	return LevelConfig{LineSpan: 0.0011, LineCount: 10, Splice: 1e-5, FillSpan: 0.0028, FillCount: 100}
}

func (c LevelConfig) String() string {
	return fmt.Sprintf("lines: %d over %g (+%g) fill: %d over %g", c.LineCount, c.LineSpan, c.Splice, c.FillCount, c.FillSpan)
}

// Levels are the strictly ascending thresholds of the line and filled contours.
type Levels struct {
	Lines []float64
	Fill  []float64
}

// NewLevels computes the contour levels of a field whose minimum is zmin.
// The splice level is inserted right after zmin; both sets are then sorted and
// deduplicated so that a splice larger than the line spacing, or a zero span,
// still yields usable levels.
func NewLevels(zmin float64, conf LevelConfig) Levels {
	lines := Linspace(zmin, zmin+conf.LineSpan, conf.LineCount)
	if len(lines) > 0 {
		lines = append(lines[:1], append([]float64{zmin + conf.Splice}, lines[1:]...)...)
	}
	return Levels{Lines: ascending(lines), Fill: ascending(Linspace(zmin, zmin+conf.FillSpan, conf.FillCount))}
}

// ascending sorts v in place and drops repeated values.
func ascending(v []float64) []float64 {
	sort.Float64s(v)
	out := v[:0]
	for i, x := range v {
		if i > 0 && x == out[len(out)-1] {
			continue
		}
		out = append(out, x)
	}
	return out
}

// Bin returns the index k such that Fill[k] <= v < Fill[k+1], and false when v
// is outside of the filled range. The top level is included in the last bin.
func (l Levels) Bin(v float64) (int, bool) {
	n := len(l.Fill)
	if n < 2 || !isFinite(v) || v < l.Fill[0] || v > l.Fill[n-1] {
		return 0, false
	}
	k := sort.SearchFloat64s(l.Fill, v)
	if k < n && l.Fill[k] == v {
		k++
	}
	k--
	if k >= n-1 {
		k = n - 2
	}
	return k, true
}
