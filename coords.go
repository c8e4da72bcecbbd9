package crtbp

import "math"

// GetAEI returns the semi-major axis, eccentricity and inclination (in degrees)
// of the orbit described by the action-like pair (N, S) and the vertical
// component Sz.
// Arguments outside the physical domain yield NaN rather than an error.
func GetAEI(N, S, Sz float64) (a, e, inc float64) {
	L := (S + Sz - N) / 2
	e0 := (Sz - N - S) / (S + Sz - N)
	cosI := Sz/(L*e0) - 1
	e = math.Sqrt(1 - e0*e0)
	inc = math.Acos(cosI) / deg2rad
	a = L * L
	return a, e, 180 - inc
}

// CalAEI is GetAEI for a known semi-major axis: S is recovered from N, a and Sz.
func CalAEI(N, a, Sz float64) (float64, float64, float64) {
	return GetAEI(N, SFromA(N, a, Sz), Sz)
}

// SFromA returns the S for which GetAEI(N, S, Sz) has a semi-major axis of a.
func SFromA(N, a, Sz float64) float64 {
	return 2*math.Sqrt(a) - (Sz - N)
}

// NStoAE converts the planar pair (N, S) to the semi-major axis and eccentricity.
// The eccentricity is only defined when |S+N| <= |S-N|; it is NaN otherwise.
func NStoAE(N, S float64) (a, e float64) {
	B := S + N
	C := S - N
	a = (C / 2) * (C / 2)
	e = math.Sqrt(1 - (B/C)*(B/C))
	return
}

// GetAEIs applies GetAEI to every S.
func GetAEIs(N float64, S []float64, Sz float64) (a, e, inc []float64) {
	a = make([]float64, len(S))
	e = make([]float64, len(S))
	inc = make([]float64, len(S))
	for i, s := range S {
		a[i], e[i], inc[i] = GetAEI(N, s, Sz)
	}
	return
}

// CalAEIs applies CalAEI to every semi-major axis.
func CalAEIs(N float64, a []float64, Sz float64) (aOut, e, inc []float64) {
	S := make([]float64, len(a))
	for i, ai := range a {
		S[i] = SFromA(N, ai, Sz)
	}
	return GetAEIs(N, S, Sz)
}

// NStoAEs applies NStoAE to every S.
func NStoAEs(N float64, S []float64) (a, e []float64) {
	a = make([]float64, len(S))
	e = make([]float64, len(S))
	for i, s := range S {
		a[i], e[i] = NStoAE(N, s)
	}
	return
}
