package crtbp

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/gonum/matrix/mat64"
)

const (
	// deviationε is the magnitude of each component of the initial deviation.
	deviationε = 1e-8
	// Φ is rescaled whenever its norm exceeds this, to avoid overflows on chaotic orbits.
	stmRescale = 1e100
)

// ErrDiverged is returned when the propagated state is no longer finite.
var ErrDiverged = errors.New("state diverged")

// Indicators are the chaos indicators of a propagation.
type Indicators struct {
	LCN   float64 // finite time Lyapunov characteristic number
	MEGNO float64 // mean of the MEGNO, tends to 2 for quasi-periodic orbits
}

// Propagator is an ode.Integrable which propagates a CRTBP state along with
// its state transition matrix, from which the chaos indicators follow.
type Propagator struct {
	Sys      System
	Φ        *mat64.Dense // STM
	state    State
	t, step  float64
	stopT    float64
	jump     uint64 // a record is written every jump steps
	iter     uint64
	δ0       *mat64.Vector
	rescale  float64 // Φ is rescaled when its norm exceeds this
	logScale float64 // Φ has been divided by exp(logScale)
	y, ySum  float64 // MEGNO integrals
	yBarSum  float64
	ind      Indicators
	out      io.Writer
	err      error
	logger   kitlog.Logger
}

// NewPropagator returns a propagator of s0 with a fixed step. Records are
// written to out every jump steps when out is not nil.
func NewPropagator(name string, sys System, s0 State, step float64, jump uint64, out io.Writer) *Propagator {
	if step <= 0 {
		panic("step must be positive")
	}
	if jump == 0 {
		jump = 1
	}
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "propagator", name)
	δ0 := mat64.NewVector(6, []float64{deviationε, deviationε, deviationε, deviationε, deviationε, deviationε})
	return &Propagator{Sys: sys, Φ: identity(6), state: s0, step: step, jump: jump, δ0: δ0, rescale: stmRescale, out: out, logger: klog}
}

// SetLogger replaces the default stdout logger.
func (p *Propagator) SetLogger(logger kitlog.Logger) {
	p.logger = logger
}

func identity(n int) *mat64.Dense {
	I := mat64.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		I.Set(i, i, 1)
	}
	return I
}

// GetState returns the state followed by the components of Φ.
func (p *Propagator) GetState() []float64 {
	rΦ, cΦ := p.Φ.Dims()
	s := make([]float64, 6, 6+rΦ*cΦ)
	copy(s, p.state[:])
	for i := 0; i < rΦ; i++ {
		s = append(s, p.Φ.RawRowView(i)...)
	}
	return s
}

// SetState sets the next state at time t.
func (p *Propagator) SetState(t float64, s []float64) {
	copy(p.state[:], s[:6])
	rΦ, cΦ := p.Φ.Dims()
	p.Φ = mat64.NewDense(rΦ, cΦ, append([]float64(nil), s[6:]...))
	p.t += p.step
	p.iter++
	if !isFinite(p.Sys.Jacobi(p.state)) {
		p.err = fmt.Errorf("t=%f: %w", p.t, ErrDiverged)
		level.Error(p.logger).Log("subsys", "crtbp", "status", "diverged", "t", p.t)
		return
	}
	if n := mat64.Norm(p.Φ, math.Inf(1)); n > p.rescale {
		p.Φ.Scale(1/n, p.Φ)
		p.logScale += math.Log(n)
	}
	p.updateIndicators()
	if p.iter%p.jump == 0 {
		p.write()
	}
}

// updateIndicators follows δ = Φδ0 and its derivative Aδ.
func (p *Propagator) updateIndicators() {
	var δ, δDot mat64.Vector
	δ.MulVec(p.Φ, p.δ0)
	δDot.MulVec(p.Sys.Variational(p.state), &δ)
	δNorm := mat64.Norm(&δ, 2)
	p.ind.LCN = (math.Log(δNorm/mat64.Norm(p.δ0, 2)) + p.logScale) / p.t
	p.ySum += mat64.Dot(&δDot, &δ) / (δNorm * δNorm) * p.t * p.step
	p.y = 2 * p.ySum / p.t
	p.yBarSum += p.y * p.step
	p.ind.MEGNO = p.yBarSum / p.t
}

// Stop returns whether we should stop the integration.
func (p *Propagator) Stop(t float64) bool {
	return p.err != nil || p.t >= p.stopT-p.step/2
}

// Func does the math. Returns a new state.
func (p *Propagator) Func(t float64, f []float64) (fDot []float64) {
	rΦ, cΦ := p.Φ.Dims()
	fDot = make([]float64, 6+rΦ*cΦ)
	var s State
	copy(s[:], f[:6])
	ds := p.Sys.EOM(s)
	copy(fDot, ds[:])
	Φ := mat64.NewDense(rΦ, cΦ, f[6:])
	var ΦDot mat64.Dense
	ΦDot.Mul(p.Sys.Variational(s), Φ)
	fIdx := 6
	for i := 0; i < rΦ; i++ {
		fIdx += copy(fDot[fIdx:], ΦDot.RawRowView(i))
	}
	return fDot
}

// State returns the latest state and its time.
func (p *Propagator) State() (State, float64) {
	return p.state, p.t
}

// Indicators returns the latest chaos indicators.
func (p *Propagator) Indicators() Indicators {
	return p.ind
}

// PropagateUntil propagates until the given normalized time is reached.
func (p *Propagator) PropagateUntil(stopT float64) error {
	p.stopT = stopT
	C0 := p.Sys.Jacobi(p.state)
	level.Info(p.logger).Log("subsys", "crtbp", "t", p.t, "until", stopT, "state", p.state, "jacobi", C0)
	if p.iter == 0 {
		p.write()
	}
	ode.NewRK4(p.t, p.step, p).Solve() // Blocking.
	if p.err != nil {
		return p.err
	}
	level.Info(p.logger).Log("subsys", "crtbp", "status", "finished", "t", p.t, "ΔC", p.Sys.Jacobi(p.state)-C0, "lcn", p.ind.LCN, "megno", p.ind.MEGNO)
	return nil
}

// write appends the current record to the output.
func (p *Propagator) write() {
	if p.out == nil || p.err != nil {
		return
	}
	_, err := fmt.Fprintf(p.out, "%.6f\t%.12f\t%.12f\t%.12f\t%.12f\t%.8e\t%.8f\n", p.t, p.state[0], p.state[1], p.state[2], p.Sys.Jacobi(p.state), p.ind.LCN, p.ind.MEGNO)
	if err != nil {
		p.err = fmt.Errorf("writing record at t=%f: %w", p.t, err)
	}
}
