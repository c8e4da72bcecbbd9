package crtbp

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"
)

// DefaultInput is the averaged disturbing function of the N = -1.96 planar map.
const DefaultInput = "assets/old/1206/planar/SingleAve_-1.96_0.08.txt"

// GridConfig defines the shape and the axes of the sampled field.
type GridConfig struct {
	Columns    int
	N          float64
	SMin, SMax float64
	NaNPolicy  NaNPolicy
}

// PropagationConfig defines the propagation of initial states.
type PropagationConfig struct {
	Mu        float64
	Step, End float64
	Jump      uint64
	Stamped   bool
}

// Scenario is a full run configuration.
type Scenario struct {
	Name        string
	Input       string
	OutputPath  string
	Grid        GridConfig
	Levels      LevelConfig
	Render      RenderConfig
	Propagation PropagationConfig
}

func (s Scenario) String() string {
	return fmt.Sprintf("%s: %s (N=%g, S in [%g, %g], %d columns) -> %s", s.Name, s.Input, s.Grid.N, s.Grid.SMin, s.Grid.SMax, s.Grid.Columns, s.OutputFile())
}

// OutputFile returns the path of the rendered map.
func (s Scenario) OutputFile() string {
	name := s.Render.Output
	if name == "" {
		name = fmt.Sprintf("N=%g.png", s.Grid.N)
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.OutputPath, name)
}

// newViper returns a TOML viper instance with every default set.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetDefault("general.input", DefaultInput)
	v.SetDefault("general.output_path", ".")

	v.SetDefault("grid.columns", 721)
	v.SetDefault("grid.n", -1.96)
	v.SetDefault("grid.s_min", 0)
	v.SetDefault("grid.s_max", 0.08)
	v.SetDefault("grid.nan_policy", "zero")

	lvl := DefaultLevelConfig()
	v.SetDefault("levels.lines.span", lvl.LineSpan)
	v.SetDefault("levels.lines.count", lvl.LineCount)
	v.SetDefault("levels.lines.splice", lvl.Splice)
	v.SetDefault("levels.fill.span", lvl.FillSpan)
	v.SetDefault("levels.fill.count", lvl.FillCount)

	rdr := DefaultRenderConfig()
	v.SetDefault("render.output", rdr.Output)
	v.SetDefault("render.dpi", rdr.DPI)
	v.SetDefault("render.width", float64(rdr.Width/vg.Inch))
	v.SetDefault("render.height", float64(rdr.Height/vg.Inch))
	v.SetDefault("render.projection", rdr.Projection.String())
	v.SetDefault("render.theta_min", rdr.ThetaMin)
	v.SetDefault("render.theta_max", rdr.ThetaMax)
	v.SetDefault("render.grid", rdr.ShowGrid)
	v.SetDefault("render.colormap", rdr.Colormap)
	v.SetDefault("render.title", rdr.Title)
	v.SetDefault("render.show", rdr.Show)

	v.SetDefault("crtbp.mu", DefaultMu)
	v.SetDefault("crtbp.step", 0.001)
	v.SetDefault("crtbp.end", 1000)
	v.SetDefault("crtbp.jump", 100)
	v.SetDefault("crtbp.stamped", false)
	return v
}

// DefaultScenario returns the scenario used when none is provided.
func DefaultScenario() Scenario {
	sc, err := scenarioFromViper("default", newViper())
	if err != nil {
		panic(err)
	}
	return sc
}

// LoadScenario reads the scenario `name` (with or without its .toml extension)
// from dir.
func LoadScenario(dir, name string) (Scenario, error) {
	name = strings.TrimSuffix(name, ".toml")
	v := newViper()
	v.AddConfigPath(dir)
	v.SetConfigName(name)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("%s/%s.toml: %w", dir, name, err)
	}
	return scenarioFromViper(name, v)
}

// ReadScenario reads a TOML scenario from r.
func ReadScenario(name string, r io.Reader) (Scenario, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", name, err)
	}
	return scenarioFromViper(name, v)
}

func scenarioFromViper(name string, v *viper.Viper) (Scenario, error) {
	sc := Scenario{Name: name, Input: v.GetString("general.input"), OutputPath: v.GetString("general.output_path")}

	// Grid
	policy, err := NaNPolicyFromString(strings.ToLower(v.GetString("grid.nan_policy")))
	if err != nil {
		return sc, err
	}
	sc.Grid = GridConfig{
		Columns:   v.GetInt("grid.columns"),
		N:         v.GetFloat64("grid.n"),
		SMin:      v.GetFloat64("grid.s_min"),
		SMax:      v.GetFloat64("grid.s_max"),
		NaNPolicy: policy,
	}
	if sc.Grid.Columns < 2 {
		return sc, fmt.Errorf("grid.columns must be at least 2 (got %d)", sc.Grid.Columns)
	}

	// Levels
	sc.Levels = LevelConfig{
		LineSpan:  v.GetFloat64("levels.lines.span"),
		LineCount: v.GetInt("levels.lines.count"),
		Splice:    v.GetFloat64("levels.lines.splice"),
		FillSpan:  v.GetFloat64("levels.fill.span"),
		FillCount: v.GetInt("levels.fill.count"),
	}

	// Render
	proj, err := ProjectionFromString(strings.ToLower(v.GetString("render.projection")))
	if err != nil {
		return sc, err
	}
	sc.Render = RenderConfig{
		Output:     v.GetString("render.output"),
		DPI:        v.GetInt("render.dpi"),
		Width:      vg.Length(v.GetFloat64("render.width")) * vg.Inch,
		Height:     vg.Length(v.GetFloat64("render.height")) * vg.Inch,
		Projection: proj,
		ThetaMin:   v.GetFloat64("render.theta_min"),
		ThetaMax:   v.GetFloat64("render.theta_max"),
		ShowGrid:   v.GetBool("render.grid"),
		Colormap:   v.GetString("render.colormap"),
		Title:      v.GetString("render.title"),
		Show:       v.GetBool("render.show"),
	}
	if err := sc.Render.Validate(); err != nil {
		return sc, err
	}

	// Propagation
	if jump := v.GetInt64("crtbp.jump"); jump < 0 {
		return sc, fmt.Errorf("crtbp.jump must not be negative (got %d)", jump)
	}
	sc.Propagation = PropagationConfig{
		Mu:      v.GetFloat64("crtbp.mu"),
		Step:    v.GetFloat64("crtbp.step"),
		End:     v.GetFloat64("crtbp.end"),
		Jump:    uint64(v.GetInt64("crtbp.jump")),
		Stamped: v.GetBool("crtbp.stamped"),
	}
	if sc.Propagation.Mu <= 0 || sc.Propagation.Mu >= 1 {
		return sc, fmt.Errorf("crtbp.mu must be in (0, 1) (got %g)", sc.Propagation.Mu)
	}
	if sc.Propagation.Step <= 0 {
		return sc, fmt.Errorf("crtbp.step must be positive (got %g)", sc.Propagation.Step)
	}
	return sc, nil
}
