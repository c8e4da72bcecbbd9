package crtbp

import (
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
)

// DefaultMu is the mass ratio of the secondary used throughout the maps.
const DefaultMu = 0.001

// State is a rotating frame state [x y z vx vy vz] in normalized units.
type State [6]float64

// R returns the position.
func (s State) R() []float64 {
	return []float64{s[0], s[1], s[2]}
}

// V returns the velocity.
func (s State) V() []float64 {
	return []float64{s[3], s[4], s[5]}
}

func (s State) String() string {
	return fmt.Sprintf("r=[%.6f %.6f %.6f] v=[%.6f %.6f %.6f]", s[0], s[1], s[2], s[3], s[4], s[5])
}

// System is the circular restricted three-body problem in the rotating frame,
// with the primary of mass 1-μ at (-μ, 0, 0) and the secondary at (1-μ, 0, 0).
type System struct {
	Mu float64
}

// NewSystem returns the CRTBP of mass ratio μ.
func NewSystem(μ float64) System {
	if μ <= 0 || μ >= 1 {
		panic(fmt.Errorf("mass ratio %f not in (0, 1)", μ))
	}
	return System{μ}
}

// distances returns the distances to the primary and the secondary.
func (sys System) distances(x, y, z float64) (r1, r2 float64) {
	μ := sys.Mu
	r1 = math.Sqrt((x+μ)*(x+μ) + y*y + z*z)
	r2 = math.Sqrt((x-1+μ)*(x-1+μ) + y*y + z*z)
	return
}

// Potential returns the effective potential Ω at the given position.
func (sys System) Potential(x, y, z float64) float64 {
	r1, r2 := sys.distances(x, y, z)
	return (x*x+y*y)/2 + (1-sys.Mu)/r1 + sys.Mu/r2
}

// Gradient returns the partial derivatives of Ω.
func (sys System) Gradient(x, y, z float64) (Ωx, Ωy, Ωz float64) {
	μ := sys.Mu
	r1, r2 := sys.distances(x, y, z)
	k1 := (1 - μ) / (r1 * r1 * r1)
	k2 := μ / (r2 * r2 * r2)
	Ωx = x - k1*(x+μ) - k2*(x-1+μ)
	Ωy = y - k1*y - k2*y
	Ωz = -k1*z - k2*z
	return
}

// Jacobi returns the Jacobi constant C = 2Ω - v².
func (sys System) Jacobi(s State) float64 {
	v2 := s[3]*s[3] + s[4]*s[4] + s[5]*s[5]
	return 2*sys.Potential(s[0], s[1], s[2]) - v2
}

// EOM returns the time derivative of the state.
func (sys System) EOM(s State) (ds State) {
	Ωx, Ωy, Ωz := sys.Gradient(s[0], s[1], s[2])
	ds[0] = s[3]
	ds[1] = s[4]
	ds[2] = s[5]
	ds[3] = 2*s[4] + Ωx
	ds[4] = -2*s[3] + Ωy
	ds[5] = Ωz
	return
}

// Uxx returns the second derivatives of Ω as (xx, yy, zz, xy, xz, yz).
func (sys System) Uxx(x, y, z float64) [6]float64 {
	μ := sys.Mu
	r1, r2 := sys.distances(x, y, z)
	r13 := r1 * r1 * r1
	r23 := r2 * r2 * r2
	r15 := r13 * r1 * r1
	r25 := r23 * r2 * r2
	x1 := x + μ
	x2 := x - 1 + μ
	k1, k2 := 1-μ, μ
	common := -k1/r13 - k2/r23
	return [6]float64{
		1 + common + 3*k1*x1*x1/r15 + 3*k2*x2*x2/r25,
		1 + common + 3*k1*y*y/r15 + 3*k2*y*y/r25,
		common + 3*k1*z*z/r15 + 3*k2*z*z/r25,
		3*k1*x1*y/r15 + 3*k2*x2*y/r25,
		3*k1*x1*z/r15 + 3*k2*x2*z/r25,
		3*k1*y*z/r15 + 3*k2*y*z/r25,
	}
}

// Variational returns the Jacobian A of the equations of motion, such that the
// state transition matrix follows dΦ/dt = AΦ.
func (sys System) Variational(s State) *mat64.Dense {
	U := sys.Uxx(s[0], s[1], s[2])
	A := mat64.NewDense(6, 6, nil)
	// Top right is Identity 3x3
	A.Set(0, 3, 1)
	A.Set(1, 4, 1)
	A.Set(2, 5, 1)
	// Hessian of the effective potential
	A.Set(3, 0, U[0])
	A.Set(4, 1, U[1])
	A.Set(5, 2, U[2])
	A.Set(3, 1, U[3])
	A.Set(4, 0, U[3])
	A.Set(3, 2, U[4])
	A.Set(5, 0, U[4])
	A.Set(4, 2, U[5])
	A.Set(5, 1, U[5])
	// Coriolis
	A.Set(3, 4, 2)
	A.Set(4, 3, -2)
	return A
}

// RotToInertial converts a rotating frame state at time t to the barycentric
// inertial frame, both frames coinciding at t = 0.
func RotToInertial(s State, t float64) State {
	// Inertial velocity is the rotating one plus ẑ × r, before the rotation.
	v := []float64{s[3] - s[1], s[4] + s[0], s[5]}
	return rotateState(R3(-t), s.R(), v)
}

// InertialToRot is the inverse of RotToInertial.
func InertialToRot(s State, t float64) State {
	rs := rotateState(R3(t), s.R(), s.V())
	rs[3] += rs[1]
	rs[4] -= rs[0]
	return rs
}

func rotateState(m *mat64.Dense, r, v []float64) (s State) {
	copy(s[:3], MxV33(m, r))
	copy(s[3:], MxV33(m, v))
	return
}
