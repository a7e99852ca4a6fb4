package hydro

import (
	"fmt"
	"math"
	"strings"
)

/*
	Riemann solvers. Given left/right primitive states at one face they
	return the upwind flux of every conserved variable through that face.
	The solver variant is selected once at configuration time.

	All variants are consistent: for identical left and right states the
	returned flux equals the exact analytic flux of that state. Reconstructed
	inputs are assumed floored; the solvers never clip.
*/

type RiemannSolver interface {
	Name() string
	// Flux resolves one face in direction d (0,1,2). ch is the divergence
	// cleaning speed, ignored by the pure hydro variants. flx must have the
	// fluid's variable count.
	Flux(eos EOS, d int, wl, wr []float64, ch float64, flx []float64)
}

var riemannNames = map[string]func(Fluid) (RiemannSolver, error){
	"hlle": newHLLE,
	"hllc": newHLLC,
}

func NewRiemannSolver(label string, fluid Fluid) (RiemannSolver, error) {
	ctor, ok := riemannNames[strings.ToLower(label)]
	if !ok {
		return nil, fmt.Errorf("unknown riemann solver %q", label)
	}
	return ctor(fluid)
}

// rotated returns the normal and two transverse component offsets for
// direction d, applied to both the velocity/momentum and field triplets.
func rotated(d int) (n, t1, t2 int) {
	return d, (d + 1) % 3, (d + 2) % 3
}

// hydroFlux fills f with the exact Euler flux of primitive state w along
// direction d.
func hydroFlux(eos EOS, d int, w, f []float64) {
	n, t1, t2 := rotated(d)
	rho, p := w[IDN], w[IPR]
	un, ut1, ut2 := w[IV1+n], w[IV1+t1], w[IV1+t2]
	en := p/(eos.Gamma()-1) + 0.5*rho*(un*un+ut1*ut1+ut2*ut2)
	f[IDN] = rho * un
	f[IM1+n] = rho*un*un + p
	f[IM1+t1] = rho * un * ut1
	f[IM1+t2] = rho * un * ut2
	f[IEN] = un * (en + p)
}

// glmmhdFlux fills f with the exact GLM-MHD flux of primitive state w along
// direction d, with the face-normal field and cleaning scalar fixed to bxm
// and psim by the cleaning subsystem.
func glmmhdFlux(eos EOS, d int, w []float64, bxm, psim, ch float64, f []float64) {
	n, t1, t2 := rotated(d)
	rho, p := w[IDN], w[IPR]
	un, ut1, ut2 := w[IV1+n], w[IV1+t1], w[IV1+t2]
	bt1, bt2 := w[IB1+t1], w[IB1+t2]
	pb := 0.5 * (bxm*bxm + bt1*bt1 + bt2*bt2)
	ptot := p + pb
	en := p/(eos.Gamma()-1) + 0.5*rho*(un*un+ut1*ut1+ut2*ut2) + pb
	vdotb := un*bxm + ut1*bt1 + ut2*bt2
	f[IDN] = rho * un
	f[IM1+n] = rho*un*un + ptot - bxm*bxm
	f[IM1+t1] = rho*un*ut1 - bxm*bt1
	f[IM1+t2] = rho*un*ut2 - bxm*bt2
	f[IEN] = un*(en+ptot) - bxm*vdotb
	f[IB1+n] = psim
	f[IB1+t1] = un*bt1 - ut1*bxm
	f[IB1+t2] = un*bt2 - ut2*bxm
	f[IPS] = ch * ch * bxm
}

// consState fills u with the conserved state of primitive w (fluid layout
// implied by len(u)).
func consState(eos EOS, w, u []float64) {
	rho := w[IDN]
	u[IDN] = rho
	u[IM1] = rho * w[IV1]
	u[IM2] = rho * w[IV2]
	u[IM3] = rho * w[IV3]
	u[IEN] = w[IPR]/(eos.Gamma()-1) +
		0.5*rho*(w[IV1]*w[IV1]+w[IV2]*w[IV2]+w[IV3]*w[IV3])
	if len(u) == NGLMMHD {
		u[IEN] += 0.5 * (w[IB1]*w[IB1] + w[IB2]*w[IB2] + w[IB3]*w[IB3])
		u[IB1] = w[IB1]
		u[IB2] = w[IB2]
		u[IB3] = w[IB3]
		u[IPS] = w[IPS]
	}
}

// ---------------------------------------------------------------------------
// HLLE: two-wave approximate solver, valid for both fluids.

type hlleSolver struct {
	fluid Fluid
}

func newHLLE(fluid Fluid) (RiemannSolver, error) {
	return &hlleSolver{fluid: fluid}, nil
}

func (s *hlleSolver) Name() string { return "hlle" }

func (s *hlleSolver) Flux(eos EOS, d int, wl, wr []float64, ch float64, flx []float64) {
	var (
		fl, fr [NGLMMHD]float64
		ul, ur [NGLMMHD]float64
		nvar   = s.fluid.NVars()
		n      = d
	)
	if s.fluid == FluidGLMMHD {
		// Exact solution of the decoupled cleaning subsystem fixes the
		// face-normal field and the cleaning scalar flux.
		bxl, bxr := wl[IB1+n], wr[IB1+n]
		psil, psir := wl[IPS], wr[IPS]
		bxm := 0.5 * (bxl + bxr)
		psim := 0.5 * (psil + psir)
		if ch > tinyNumber {
			bxm -= 0.5 / ch * (psir - psil)
			psim -= 0.5 * ch * (bxr - bxl)
		}
		glmmhdFlux(eos, d, wl, bxm, psim, ch, fl[:])
		glmmhdFlux(eos, d, wr, bxm, psim, ch, fr[:])
		consState(eos, wl, ul[:nvar])
		consState(eos, wr, ur[:nvar])
		ul[IB1+n], ur[IB1+n] = bxm, bxm

		al := math.Min(wl[IV1+n]-eos.SignalSpeed(wl, n), wr[IV1+n]-eos.SignalSpeed(wr, n))
		ar := math.Max(wl[IV1+n]+eos.SignalSpeed(wl, n), wr[IV1+n]+eos.SignalSpeed(wr, n))
		bp, bm := math.Max(ar, 0), math.Min(al, 0)
		for v := 0; v < nvar; v++ {
			flx[v] = (bp*fl[v] - bm*fr[v] + bp*bm*(ur[v]-ul[v])) / (bp - bm)
		}
		// The cleaning modes travel at exactly +-ch; keep their fluxes exact.
		flx[IB1+n] = psim
		flx[IPS] = ch * ch * bxm
		return
	}

	hydroFlux(eos, d, wl, fl[:])
	hydroFlux(eos, d, wr, fr[:])
	consState(eos, wl, ul[:nvar])
	consState(eos, wr, ur[:nvar])
	al := math.Min(wl[IV1+n]-eos.SignalSpeed(wl, n), wr[IV1+n]-eos.SignalSpeed(wr, n))
	ar := math.Max(wl[IV1+n]+eos.SignalSpeed(wl, n), wr[IV1+n]+eos.SignalSpeed(wr, n))
	bp, bm := math.Max(ar, 0), math.Min(al, 0)
	for v := 0; v < nvar; v++ {
		flx[v] = (bp*fl[v] - bm*fr[v] + bp*bm*(ur[v]-ul[v])) / (bp - bm)
	}
}

// ---------------------------------------------------------------------------
// HLLC: multi-wave solver restoring the contact discontinuity, hydro only.

type hllcSolver struct{}

func newHLLC(fluid Fluid) (RiemannSolver, error) {
	if fluid != FluidEuler {
		return nil, fmt.Errorf("hllc solver supports fluid euler only, have %s", fluid)
	}
	return &hllcSolver{}, nil
}

func (s *hllcSolver) Name() string { return "hllc" }

func (s *hllcSolver) Flux(eos EOS, d int, wl, wr []float64, ch float64, flx []float64) {
	var (
		fl, fr [NHydro]float64
		ul, ur [NHydro]float64
		n      = d
	)
	hydroFlux(eos, d, wl, fl[:])
	hydroFlux(eos, d, wr, fr[:])
	consState(eos, wl, ul[:])
	consState(eos, wr, ur[:])

	unl, unr := wl[IV1+n], wr[IV1+n]
	al := math.Min(unl-eos.SignalSpeed(wl, n), unr-eos.SignalSpeed(wr, n))
	ar := math.Max(unl+eos.SignalSpeed(wl, n), unr+eos.SignalSpeed(wr, n))
	if al >= 0 {
		copy(flx, fl[:])
		return
	}
	if ar <= 0 {
		copy(flx, fr[:])
		return
	}

	rhol, rhor := wl[IDN], wr[IDN]
	pl, pr := wl[IPR], wr[IPR]
	// Contact wave speed and pressure (Toro's two-rarefaction estimate is
	// not needed; the HLL-consistent estimate below is standard).
	am := (pr - pl + rhol*unl*(al-unl) - rhor*unr*(ar-unr)) /
		(rhol*(al-unl) - rhor*(ar-unr) + tinyNumber)

	star := func(w, u []float64, a float64, us []float64) {
		rho, un := w[IDN], w[IV1+n]
		fac := rho * (a - un) / (a - am + tinyNumber)
		us[IDN] = fac
		us[IM1+n] = fac * am
		_, t1, t2 := rotated(d)
		us[IM1+t1] = fac * w[IV1+t1]
		us[IM1+t2] = fac * w[IV1+t2]
		us[IEN] = fac * (u[IEN]/rho + (am-un)*(am+w[IPR]/(rho*(a-un)+tinyNumber)))
	}
	var usl, usr [NHydro]float64
	star(wl, ul[:], al, usl[:])
	star(wr, ur[:], ar, usr[:])

	if am >= 0 {
		for v := 0; v < NHydro; v++ {
			flx[v] = fl[v] + al*(usl[v]-ul[v])
		}
		return
	}
	for v := 0; v < NHydro; v++ {
		flx[v] = fr[v] + ar*(usr[v]-ur[v])
	}
}
