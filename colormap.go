package crtbp

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// magmaControls are sampled along the magma colormap, with increasing luminance.
var magmaControls = []color.Color{
	color.NRGBA{0, 0, 4, 255},
	color.NRGBA{81, 18, 124, 255},
	color.NRGBA{183, 55, 121, 255},
	color.NRGBA{252, 137, 97, 255},
	color.NRGBA{252, 253, 191, 255},
}

// Magma returns a perceptually uniform approximation of the magma colormap.
func Magma() palette.ColorMap {
	cmap, err := moreland.NewLuminance(magmaControls)
	if err != nil {
		panic(err)
	}
	return cmap
}

// ColorMapFromString returns the named colormap. A `_r` suffix reverses it,
// hence `magma_r` runs from light to dark.
func ColorMapFromString(name string) (palette.ColorMap, error) {
	base := strings.TrimSuffix(name, "_r")
	var cmap palette.ColorMap
	switch base {
	case "magma":
		cmap = Magma()
	case "blackbody":
		cmap = moreland.BlackBody()
	case "extended_blackbody":
		cmap = moreland.ExtendedBlackBody()
	case "kindlmann":
		cmap = moreland.Kindlmann()
	case "extended_kindlmann":
		cmap = moreland.ExtendedKindlmann()
	case "blue_red":
		cmap = moreland.SmoothBlueRed()
	default:
		return nil, fmt.Errorf("unknown colormap `%s`", name)
	}
	if base != name {
		cmap = palette.Reverse(cmap)
	}
	return cmap, nil
}

// binColors returns one color per pair of consecutive levels, taken at the
// middle of each bin.
func binColors(cmap palette.ColorMap, levels []float64) ([]color.Color, error) {
	n := len(levels)
	if n < 2 {
		return nil, nil
	}
	cmap.SetMin(levels[0])
	cmap.SetMax(levels[n-1])
	colors := make([]color.Color, n-1)
	for k := range colors {
		c, err := cmap.At((levels[k] + levels[k+1]) / 2)
		if err != nil {
			return nil, err
		}
		colors[k] = c
	}
	return colors, nil
}
