package pgen

import (
	"fmt"
	"math"

	"github.com/notargets/gomhd/hydro"
	"github.com/notargets/gomhd/mesh"
)

// ShockTubeOptions sets a two-state Riemann initial condition, both sides at
// rest, split at XDisc along x1.
type ShockTubeOptions struct {
	RhoL  float64 `json:"rho_l"`
	PresL float64 `json:"pres_l"`
	RhoR  float64 `json:"rho_r"`
	PresR float64 `json:"pres_r"`
	XDisc float64 `json:"x_disc"`
}

func setupShockTube(m *mesh.Mesh, pkg *hydro.Package, par *Params) error {
	o := par.ShockTube
	if o.RhoL <= 0 || o.PresL <= 0 || o.RhoR <= 0 || o.PresR <= 0 {
		return fmt.Errorf("shock tube needs positive states, got [%g %g] [%g %g]",
			o.RhoL, o.PresL, o.RhoR, o.PresR)
	}
	fillPrimitive(m, pkg, func(b *mesh.Block, k, j, i int, w []float64) {
		x1, _, _ := b.CellCenter(k, j, i)
		if x1 < o.XDisc {
			w[hydro.IDN] = o.RhoL
			w[hydro.IPR] = o.PresL
		} else {
			w[hydro.IDN] = o.RhoR
			w[hydro.IPR] = o.PresR
		}
	})
	return nil
}

// SodSolution is the exact solution of a shock tube whose left pressure
// exceeds the right, both sides at rest: a left rarefaction fan, a contact
// and a right-running shock.
type SodSolution struct {
	o     ShockTubeOptions
	gamma float64
	mu2   float64 // (gamma-1)/(gamma+1)
	cL    float64

	PostP   float64 // pressure between the fan and the shock
	PostV   float64 // velocity of the contact and post-shock gas
	PostRho float64 // density behind the shock
	MidRho  float64 // density between the fan and the contact
	VShock  float64
}

func NewSodSolution(o ShockTubeOptions, gamma float64) (*SodSolution, error) {
	if o.PresL <= o.PresR {
		return nil, fmt.Errorf("left pressure %g must exceed right pressure %g",
			o.PresL, o.PresR)
	}
	s := &SodSolution{
		o:     o,
		gamma: gamma,
		mu2:   (gamma - 1) / (gamma + 1),
		cL:    math.Sqrt(gamma * o.PresL / o.RhoL),
	}
	// The post state pressure balances the velocity gained through the left
	// rarefaction against the velocity behind the right shock. The residual
	// is monotone in P, so bisect between the two initial pressures.
	lo, hi := o.PresR, o.PresL
	for n := 0; n < 200 && hi-lo > 1.e-14*o.PresL; n++ {
		mid := 0.5 * (lo + hi)
		if s.pressureResidual(mid) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	s.PostP = 0.5 * (lo + hi)
	gm1 := gamma - 1
	s.PostV = 2 * s.cL / gm1 * (1 - math.Pow(s.PostP/o.PresL, gm1/(2*gamma)))
	pr := s.PostP / o.PresR
	s.PostRho = o.RhoR * (pr + s.mu2) / (1 + s.mu2*pr)
	s.VShock = s.PostV * (s.PostRho / o.RhoR) / (s.PostRho/o.RhoR - 1)
	s.MidRho = o.RhoL * math.Pow(s.PostP/o.PresL, 1/gamma)
	return s, nil
}

func (s *SodSolution) pressureResidual(p float64) float64 {
	o, gamma := s.o, s.gamma
	shock := (p - o.PresR) * (1 - s.mu2) /
		math.Sqrt(o.RhoR*(p+s.mu2*o.PresR))
	fan := 2 * s.cL / (gamma - 1) *
		(1 - math.Pow(p/o.PresL, (gamma-1)/(2*gamma)))
	return shock - fan
}

// At evaluates the exact state at position x and time t > 0.
func (s *SodSolution) At(x, t float64) (rho, pres, v float64) {
	o := s.o
	xi := (x - o.XDisc) / t
	c2 := s.cL - 0.5*(s.gamma-1)*s.PostV
	switch {
	case xi < -s.cL:
		return o.RhoL, o.PresL, 0
	case xi < s.PostV-c2:
		c := s.mu2*(-xi) + (1-s.mu2)*s.cL
		rho = o.RhoL * math.Pow(c/s.cL, 2/(s.gamma-1))
		pres = o.PresL * math.Pow(rho/o.RhoL, s.gamma)
		v = (1 - s.mu2) * (xi + s.cL)
		return rho, pres, v
	case xi < s.PostV:
		return s.MidRho, s.PostP, s.PostV
	case xi < s.VShock:
		return s.PostRho, s.PostP, s.PostV
	default:
		return o.RhoR, o.PresR, 0
	}
}
