package crtbp

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/unit"
)

// Elements are osculating elements about the primary, angles in radians and
// M the mean anomaly.
type Elements struct {
	A, E, I, Ω, ω, M float64
}

// NewElements builds Elements from angles given in degrees.
func NewElements(a, e, i, Ω, ω, M float64) Elements {
	return Elements{a, e, Deg2rad(i), Deg2rad(Ω), Deg2rad(ω), Deg2rad(M)}
}

func (el Elements) String() string {
	return fmt.Sprintf("a=%.6f e=%.6f i=%.3f Ω=%.3f ω=%.3f M=%.3f", el.A, el.E, Rad2deg(el.I), Rad2deg(el.Ω), Rad2deg(el.ω), Rad2deg(el.M))
}

// True2Mean converts a true anomaly to the mean anomaly of an elliptic orbit.
func True2Mean(ν, e float64) float64 {
	E := 2 * math.Atan(math.Sqrt((1-e)/(1+e))*math.Tan(ν/2))
	M := E - e*math.Sin(E)
	if M < 0 {
		M += 2 * math.Pi
	}
	return math.Mod(M, 2*math.Pi)
}

// Mean2True solves Kepler's equation and returns the true anomaly.
func Mean2True(M, e float64) float64 {
	E := kepler.Kepler3(e, unit.Angle(M))
	ν := kepler.True(E, e).Rad()
	if ν < 0 {
		ν += 2 * math.Pi
	}
	return ν
}

// ElementsToState returns the rotating frame state, at t = 0, of a body on the
// given orbit about the primary (of gravitational parameter 1-μ).
func (sys System) ElementsToState(el Elements) State {
	if el.E >= 1 {
		panic(fmt.Errorf("only elliptic orbits are supported (e=%f)", el.E))
	}
	μs := 1 - sys.Mu
	ν := Mean2True(el.M, el.E)
	p := el.A * (1 - el.E*el.E)
	sinν, cosν := math.Sincos(ν)
	R := []float64{p * cosν / (1 + el.E*cosν), p * sinν / (1 + el.E*cosν), 0}
	V := []float64{-math.Sqrt(μs/p) * sinν, math.Sqrt(μs/p) * (el.E + cosν), 0}
	R = PQW2Inertial(el.I, el.ω, el.Ω, R)
	V = PQW2Inertial(el.I, el.ω, el.Ω, V)
	// The primary sits at (-μ, 0, 0) and moves at (0, -μ, 0) in the inertial
	// barycentric frame at t = 0.
	var inertial State
	inertial[0] = R[0] - sys.Mu
	inertial[1] = R[1]
	inertial[2] = R[2]
	inertial[3] = V[0]
	inertial[4] = V[1] - sys.Mu
	inertial[5] = V[2]
	return InertialToRot(inertial, 0)
}

// StateToElements returns the osculating elements about the primary of the
// rotating state s at time t. Ω is zero on equatorial orbits, where ω is
// the longitude of periapsis, and ω is zero on circular orbits, where ν is
// measured from the node.
func (sys System) StateToElements(s State, t float64) Elements {
	μs := 1 - sys.Mu
	in := RotToInertial(s, t)
	sinT, cosT := math.Sincos(t)
	R := []float64{in[0] + sys.Mu*cosT, in[1] + sys.Mu*sinT, in[2]}
	V := []float64{in[3] - sys.Mu*sinT, in[4] + sys.Mu*cosT, in[5]}
	r, rv := norm(R), dot(R, V)
	h := cross(R, V)
	hNorm := norm(h)
	n := []float64{-h[1], h[0], 0}
	nNorm := norm(n)
	eVec := make([]float64, 3)
	for k := range eVec {
		eVec[k] = ((dot(V, V)-μs/r)*R[k] - rv*V[k]) / μs
	}
	el := Elements{E: norm(eVec), I: math.Acos(clamp(h[2] / hNorm))}
	el.A = -μs / (2 * (dot(V, V)/2 - μs/r))
	equatorial := nNorm < 1e-12*hNorm
	if !equatorial {
		el.Ω = wrap(math.Atan2(n[1], n[0]))
	}
	// Reference direction of ν when there is no periapsis.
	ref := []float64{1, 0, 0}
	if !equatorial {
		ref = []float64{n[0] / nNorm, n[1] / nNorm, 0}
	}
	var ν float64
	if el.E > 1e-11 {
		if equatorial {
			el.ω = wrap(math.Atan2(eVec[1], eVec[0]))
			if h[2] < 0 {
				el.ω = wrap(-el.ω)
			}
		} else {
			el.ω = math.Acos(clamp(dot(n, eVec) / (nNorm * el.E)))
			if eVec[2] < 0 {
				el.ω = 2*math.Pi - el.ω
			}
		}
		ν = math.Acos(clamp(dot(eVec, R) / (el.E * r)))
		if rv < 0 {
			ν = 2*math.Pi - ν
		}
	} else {
		ν = math.Acos(clamp(dot(ref, R) / r))
		if dot(cross(ref, R), h) < 0 {
			ν = 2*math.Pi - ν
		}
	}
	el.M = True2Mean(ν, el.E)
	return el
}

// clamp bounds x to the domain of math.Acos.
func clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

// wrap returns a in [0, 2π).
func wrap(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
