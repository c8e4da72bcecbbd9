package crtbp

import (
	"fmt"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// NewLogger returns a logfmt logger on stdout tagged with the given tool name.
func NewLogger(tool string) kitlog.Logger {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	return kitlog.With(klog, "tool", tool)
}

// PolarMap loads the field of the scenario, sanitizes it and renders its
// contours. It returns the path of the image.
func PolarMap(sc Scenario, logger kitlog.Logger) (string, error) {
	samples, err := LoadSampleFile(sc.Input)
	if err != nil {
		return "", err
	}
	g, err := NewGrid(samples, sc.Grid.Columns, sc.Grid.N, sc.Grid.SMin, sc.Grid.SMax)
	if err != nil {
		return "", fmt.Errorf("%s: %w", sc.Input, err)
	}
	rows, cols := g.Field.Dims()
	level.Info(logger).Log("subsys", "grid", "input", sc.Input, "rows", rows, "cols", cols, "emax", g.MaxRadius())

	replaced, err := Sanitize(g.Field, sc.Grid.NaNPolicy)
	if err != nil {
		return "", fmt.Errorf("%s: %w", sc.Input, err)
	}
	if replaced > 0 {
		level.Warn(logger).Log("subsys", "grid", "nonfinite", replaced, "policy", sc.Grid.NaNPolicy)
	}
	stats := Stats(g.Field)
	level.Info(logger).Log("subsys", "grid", "min", stats.Min, "max", stats.Max, "mean", stats.Mean, "σ", stats.StdDev)

	lv := NewLevels(stats.Min, sc.Levels)
	level.Debug(logger).Log("subsys", "levels", "lines", fmt.Sprintf("%v", lv.Lines), "fill", len(lv.Fill))

	out := sc.OutputFile()
	if err := RenderFile(out, g, lv, sc.Render); err != nil {
		return "", fmt.Errorf("%s: %w", out, err)
	}
	level.Info(logger).Log("subsys", "render", "status", "written", "output", out, "dpi", sc.Render.DPI)
	if sc.Render.Show {
		if err := Show(out); err != nil {
			level.Warn(logger).Log("subsys", "render", "status", "not shown", "err", err)
		}
	}
	return out, nil
}

// PropagateStates propagates every initial state of the scenario, writing the
// trajectory of state k to <output path>/<name>-<k>.txt. It returns the final
// chaos indicators of each state.
func PropagateStates(sc Scenario, states []State, logger kitlog.Logger) ([]Indicators, error) {
	sys := NewSystem(sc.Propagation.Mu)
	inds := make([]Indicators, 0, len(states))
	for k, s0 := range states {
		name := fmt.Sprintf("%s-%d", sc.Name, k)
		f, err := CreateTrajectoryFile(sc.OutputPath, name, sc.Propagation.Stamped, sys, s0)
		if err != nil {
			return inds, err
		}
		p := NewPropagator(name, sys, s0, sc.Propagation.Step, sc.Propagation.Jump, f)
		p.SetLogger(kitlog.With(logger, "propagator", name))
		err = p.PropagateUntil(sc.Propagation.End)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return inds, fmt.Errorf("%s: %w", name, err)
		}
		sf, tf := p.State()
		level.Info(logger).Log("subsys", "crtbp", "propagator", name, "t", tf, "elements", sys.StateToElements(sf, tf))
		inds = append(inds, p.Indicators())
	}
	return inds, nil
}
