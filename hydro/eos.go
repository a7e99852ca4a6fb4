package hydro

import (
	"math"

	"github.com/notargets/gomhd/mesh"
)

/*
	Equation of state. Selected once at configuration time and held for the
	duration of the run. Conversions apply the density and pressure floors:
	floor violations are recovered locally by clamping, never reported.
*/

type EOS interface {
	// ConservedToPrimitive fills prim from cons over the entire block
	// including ghosts, applying floors to both representations.
	ConservedToPrimitive(b *mesh.Block, cons, prim *mesh.Field)
	// PrimitiveToConserved is the inverse, used by problem generators and
	// source terms that operate on primitive quantities.
	PrimitiveToConserved(b *mesh.Block, prim, cons *mesh.Field)
	// SignalSpeed returns the fastest wave speed of primitive state w in
	// direction d (sound speed, or fast magnetosonic speed when magnetized).
	SignalSpeed(w []float64, d int) float64
	Gamma() float64
	NVars() int
}

type AdiabaticHydroEOS struct {
	gamma, dfloor, pfloor float64
}

func NewAdiabaticHydroEOS(gamma, dfloor, pfloor float64) *AdiabaticHydroEOS {
	return &AdiabaticHydroEOS{gamma: gamma, dfloor: dfloor, pfloor: pfloor}
}

func (e *AdiabaticHydroEOS) Gamma() float64 { return e.gamma }
func (e *AdiabaticHydroEOS) NVars() int     { return NHydro }

func (e *AdiabaticHydroEOS) ConservedToPrimitive(b *mesh.Block, cons, prim *mesh.Field) {
	gm1 := e.gamma - 1
	for k := 0; k < b.NTot3; k++ {
		for j := 0; j < b.NTot2; j++ {
			for i := 0; i < b.NTot1; i++ {
				rho := cons.At(IDN, k, j, i)
				if rho < e.dfloor {
					rho = e.dfloor
					cons.Set(IDN, k, j, i, rho)
				}
				oorho := 1 / rho
				m1 := cons.At(IM1, k, j, i)
				m2 := cons.At(IM2, k, j, i)
				m3 := cons.At(IM3, k, j, i)
				ek := 0.5 * oorho * (m1*m1 + m2*m2 + m3*m3)
				p := gm1 * (cons.At(IEN, k, j, i) - ek)
				if p < e.pfloor {
					p = e.pfloor
					cons.Set(IEN, k, j, i, p/gm1+ek)
				}
				prim.Set(IDN, k, j, i, rho)
				prim.Set(IV1, k, j, i, m1*oorho)
				prim.Set(IV2, k, j, i, m2*oorho)
				prim.Set(IV3, k, j, i, m3*oorho)
				prim.Set(IPR, k, j, i, p)
			}
		}
	}
}

func (e *AdiabaticHydroEOS) PrimitiveToConserved(b *mesh.Block, prim, cons *mesh.Field) {
	gm1 := e.gamma - 1
	for k := 0; k < b.NTot3; k++ {
		for j := 0; j < b.NTot2; j++ {
			for i := 0; i < b.NTot1; i++ {
				rho := prim.At(IDN, k, j, i)
				v1 := prim.At(IV1, k, j, i)
				v2 := prim.At(IV2, k, j, i)
				v3 := prim.At(IV3, k, j, i)
				p := prim.At(IPR, k, j, i)
				cons.Set(IDN, k, j, i, rho)
				cons.Set(IM1, k, j, i, rho*v1)
				cons.Set(IM2, k, j, i, rho*v2)
				cons.Set(IM3, k, j, i, rho*v3)
				cons.Set(IEN, k, j, i, p/gm1+0.5*rho*(v1*v1+v2*v2+v3*v3))
			}
		}
	}
}

func (e *AdiabaticHydroEOS) SignalSpeed(w []float64, d int) float64 {
	return math.Sqrt(e.gamma * w[IPR] / w[IDN])
}

// AdiabaticGLMMHDEOS extends the adiabatic EOS with the magnetic field and
// the hyperbolic divergence-cleaning scalar. Total energy includes the
// magnetic contribution; the cleaning scalar converts one to one.
type AdiabaticGLMMHDEOS struct {
	gamma, dfloor, pfloor float64
}

func NewAdiabaticGLMMHDEOS(gamma, dfloor, pfloor float64) *AdiabaticGLMMHDEOS {
	return &AdiabaticGLMMHDEOS{gamma: gamma, dfloor: dfloor, pfloor: pfloor}
}

func (e *AdiabaticGLMMHDEOS) Gamma() float64 { return e.gamma }
func (e *AdiabaticGLMMHDEOS) NVars() int     { return NGLMMHD }

func (e *AdiabaticGLMMHDEOS) ConservedToPrimitive(b *mesh.Block, cons, prim *mesh.Field) {
	gm1 := e.gamma - 1
	for k := 0; k < b.NTot3; k++ {
		for j := 0; j < b.NTot2; j++ {
			for i := 0; i < b.NTot1; i++ {
				rho := cons.At(IDN, k, j, i)
				if rho < e.dfloor {
					rho = e.dfloor
					cons.Set(IDN, k, j, i, rho)
				}
				oorho := 1 / rho
				m1 := cons.At(IM1, k, j, i)
				m2 := cons.At(IM2, k, j, i)
				m3 := cons.At(IM3, k, j, i)
				b1 := cons.At(IB1, k, j, i)
				b2 := cons.At(IB2, k, j, i)
				b3 := cons.At(IB3, k, j, i)
				ek := 0.5 * oorho * (m1*m1 + m2*m2 + m3*m3)
				eb := 0.5 * (b1*b1 + b2*b2 + b3*b3)
				p := gm1 * (cons.At(IEN, k, j, i) - ek - eb)
				if p < e.pfloor {
					p = e.pfloor
					cons.Set(IEN, k, j, i, p/gm1+ek+eb)
				}
				prim.Set(IDN, k, j, i, rho)
				prim.Set(IV1, k, j, i, m1*oorho)
				prim.Set(IV2, k, j, i, m2*oorho)
				prim.Set(IV3, k, j, i, m3*oorho)
				prim.Set(IPR, k, j, i, p)
				prim.Set(IB1, k, j, i, b1)
				prim.Set(IB2, k, j, i, b2)
				prim.Set(IB3, k, j, i, b3)
				prim.Set(IPS, k, j, i, cons.At(IPS, k, j, i))
			}
		}
	}
}

func (e *AdiabaticGLMMHDEOS) PrimitiveToConserved(b *mesh.Block, prim, cons *mesh.Field) {
	gm1 := e.gamma - 1
	for k := 0; k < b.NTot3; k++ {
		for j := 0; j < b.NTot2; j++ {
			for i := 0; i < b.NTot1; i++ {
				rho := prim.At(IDN, k, j, i)
				v1 := prim.At(IV1, k, j, i)
				v2 := prim.At(IV2, k, j, i)
				v3 := prim.At(IV3, k, j, i)
				p := prim.At(IPR, k, j, i)
				b1 := prim.At(IB1, k, j, i)
				b2 := prim.At(IB2, k, j, i)
				b3 := prim.At(IB3, k, j, i)
				cons.Set(IDN, k, j, i, rho)
				cons.Set(IM1, k, j, i, rho*v1)
				cons.Set(IM2, k, j, i, rho*v2)
				cons.Set(IM3, k, j, i, rho*v3)
				cons.Set(IEN, k, j, i, p/gm1+
					0.5*rho*(v1*v1+v2*v2+v3*v3)+0.5*(b1*b1+b2*b2+b3*b3))
				cons.Set(IB1, k, j, i, b1)
				cons.Set(IB2, k, j, i, b2)
				cons.Set(IB3, k, j, i, b3)
				cons.Set(IPS, k, j, i, prim.At(IPS, k, j, i))
			}
		}
	}
}

// SignalSpeed returns the fast magnetosonic speed along direction d.
func (e *AdiabaticGLMMHDEOS) SignalSpeed(w []float64, d int) float64 {
	rho := w[IDN]
	a2 := e.gamma * w[IPR] / rho
	bn := w[IB1+d]
	b2 := (w[IB1]*w[IB1] + w[IB2]*w[IB2] + w[IB3]*w[IB3]) / rho
	van2 := bn * bn / rho
	s := a2 + b2
	disc := s*s - 4*a2*van2
	if disc < 0 {
		disc = 0
	}
	return math.Sqrt(0.5 * (s + math.Sqrt(disc)))
}
