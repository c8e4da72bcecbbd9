package crtbp

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

func TestPropagatorInitialSTM(t *testing.T) {
	p := NewPropagator("stm", NewSystem(DefaultMu), State{0.5, 0, 0, 0, 0.9, 0}, 0.01, 1, nil)
	s := p.GetState()
	if len(s) != 42 {
		t.Fatalf("state has %d components instead of 42", len(s))
	}
	Φ := mat64.NewDense(6, 6, s[6:])
	if !mat64.Equal(Φ, identity(6)) {
		t.Fatal("initial STM is not identity")
	}
}

func TestPropagatorJacobi(t *testing.T) {
	sys := NewSystem(DefaultMu)
	s0 := sys.ElementsToState(NewElements(0.5, 0.1, 5, 0, 0, 0))
	var out bytes.Buffer
	p := NewPropagator("jacobi", sys, s0, 0.001, 1000, &out)
	p.SetLogger(kitlog.NewNopLogger())
	if err := p.PropagateUntil(10); err != nil {
		t.Fatal(err)
	}
	sf, tf := p.State()
	if !floats.EqualWithinAbs(tf, 10, 1e-9) {
		t.Fatalf("stopped at t=%f", tf)
	}
	if dC := sys.Jacobi(sf) - sys.Jacobi(s0); !floats.EqualWithinAbs(dC, 0, 1e-8) {
		t.Fatalf("Jacobi constant drifted by %e", dC)
	}
	// The flow preserves volume.
	if det := mat64.Det(p.Φ); !floats.EqualWithinAbs(det, 1, 1e-6) {
		t.Fatalf("det(Φ)=%f", det)
	}
	ind := p.Indicators()
	if !isFinite(ind.LCN) || !isFinite(ind.MEGNO) {
		t.Fatalf("invalid indicators %+v", ind)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 11 {
		t.Fatalf("wrote %d records instead of 11", len(lines))
	}
	if fields := strings.Split(lines[10], "\t"); len(fields) != 7 || fields[0] != "10.000000" {
		t.Fatalf("last record malformed: %q", lines[10])
	}
}

func TestPropagatorMEGNORegular(t *testing.T) {
	sys := NewSystem(DefaultMu)
	s0 := sys.ElementsToState(NewElements(0.5, 0.05, 0, 0, 0, 0))
	p := NewPropagator("regular", sys, s0, 0.005, 1000, nil)
	p.SetLogger(kitlog.NewNopLogger())
	if err := p.PropagateUntil(200); err != nil {
		t.Fatal(err)
	}
	ind := p.Indicators()
	// MEGNO tends to 2 on quasi-periodic orbits.
	if !floats.EqualWithinAbs(ind.MEGNO, 2, 0.1) {
		t.Fatalf("MEGNO=%f on a regular orbit", ind.MEGNO)
	}
	if ind.LCN <= 0 || ind.LCN > 0.1 {
		t.Fatalf("LCN=%f on a regular orbit", ind.LCN)
	}
	sf, _ := p.State()
	if dC := sys.Jacobi(sf) - sys.Jacobi(s0); !floats.EqualWithinAbs(dC, 0, 1e-8) {
		t.Fatalf("Jacobi constant drifted by %e", dC)
	}
}

func TestPropagatorRescale(t *testing.T) {
	sys := NewSystem(DefaultMu)
	s0 := sys.ElementsToState(NewElements(0.5, 0.05, 0, 0, 0, 0))
	plain := NewPropagator("plain", sys, s0, 0.005, 1000, nil)
	plain.SetLogger(kitlog.NewNopLogger())
	scaled := NewPropagator("scaled", sys, s0, 0.005, 1000, nil)
	scaled.SetLogger(kitlog.NewNopLogger())
	scaled.rescale = 2
	for _, p := range []*Propagator{plain, scaled} {
		if err := p.PropagateUntil(10); err != nil {
			t.Fatal(err)
		}
	}
	if plain.logScale != 0 {
		t.Fatalf("unexpected rescale of Φ, log scale %f", plain.logScale)
	}
	if scaled.logScale <= 0 {
		t.Fatal("Φ was never rescaled")
	}
	if n := mat64.Norm(scaled.Φ, math.Inf(1)); n > 2 {
		t.Fatalf("rescaled Φ has norm %f", n)
	}
	pi, si := plain.Indicators(), scaled.Indicators()
	if !floats.EqualWithinAbs(pi.LCN, si.LCN, 1e-9) {
		t.Fatalf("LCN %.12f changed to %.12f by the rescale", pi.LCN, si.LCN)
	}
	if !floats.EqualWithinAbs(pi.MEGNO, si.MEGNO, 1e-9) {
		t.Fatalf("MEGNO %.12f changed to %.12f by the rescale", pi.MEGNO, si.MEGNO)
	}
}

func TestPropagatorDiverges(t *testing.T) {
	p := NewPropagator("collision", NewSystem(DefaultMu), State{-DefaultMu, 0, 0, 0, 0, 0}, 0.01, 1, nil)
	p.SetLogger(kitlog.NewNopLogger())
	if err := p.PropagateUntil(1); !errors.Is(err, ErrDiverged) {
		t.Fatalf("expected ErrDiverged, got %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPropagatorWriteError(t *testing.T) {
	p := NewPropagator("failing", NewSystem(DefaultMu), State{0.5, 0, 0, 0, 0.9, 0}, 0.01, 1, failingWriter{})
	p.SetLogger(kitlog.NewNopLogger())
	if err := p.PropagateUntil(1); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected the write error, got %v", err)
	}
	if _, tf := p.State(); tf != 0 {
		t.Fatalf("propagation should not have started, t=%f", tf)
	}
}
