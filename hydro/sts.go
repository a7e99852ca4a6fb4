package hydro

import (
	"math"

	"github.com/notargets/gomhd/mesh"
)

/*
	Runge-Kutta-Legendre second order super-time-stepping for the diffusive
	terms. One super step of length tau is split into s cheap sub-stages
	whose combined stability region covers tau even when tau greatly exceeds
	the explicit parabolic limit. The stage count grows like the square root
	of the timestep ratio, which is where the speedup over sub-cycling comes
	from.
*/

// STSStageCount returns the number of RKL2 sub-stages needed to cover a
// super step that is ratio times the explicit diffusive limit. The count is
// rounded up to the next odd integer.
func STSStageCount(ratio float64) int {
	s := int(math.Ceil(0.5 * (math.Sqrt(9+16*ratio) - 1)))
	if s%2 == 0 {
		s++
	}
	if s < 1 {
		s = 1
	}
	return s
}

func rkl2b(j int) float64 {
	if j < 2 {
		return 1.0 / 3.0
	}
	jf := float64(j)
	return (jf*jf + jf - 2) / (2 * jf * (jf + 1))
}

// RKL2StepInit evaluates the diffusive right hand side of the base state
// into MY0 and seeds the stage registers. Must run after the diffusive
// fluxes for Y0 have been assembled.
func RKL2StepInit(pkg *Package, p *mesh.Partition) {
	nvar := pkg.EOS.NVars()
	FluxDivergenceRHS(p, mesh.RegMY0, nvar)
	for _, b := range p.Blocks {
		y0 := b.Register(mesh.RegU0).Cons
		b.Register(mesh.RegYjm1).Cons.CopyFrom(y0)
		b.Register(mesh.RegYjm2).Cons.CopyFrom(y0)
	}
}

// RKL2StepOther advances stage j of an s stage super step of length tau.
// The diffusive right hand side of Y_{j-1} is taken from the current flux
// buffers; the result lands in RegU0 and the stage registers shuffle down.
//
// Stage 1 uses the degenerate coefficients, and an s of one collapses the
// whole scheme to a forward Euler step of tau.
func RKL2StepOther(pkg *Package, p *mesh.Partition, j, s int, tau float64) {
	var muj, nuj, mujTilde, gammaTilde float64
	if s == 1 {
		muj = 1
		gammaTilde = 1
	} else {
		sf := float64(s)
		w1 := 4 / (sf*sf + sf - 2)
		if j == 1 {
			muj = 1
			mujTilde = rkl2b(1) * w1
			gammaTilde = 0
		} else {
			jf := float64(j)
			bj, bjm1, bjm2 := rkl2b(j), rkl2b(j-1), rkl2b(j-2)
			muj = (2*jf - 1) / jf * bj / bjm1
			nuj = -(jf - 1) / jf * bj / bjm2
			mujTilde = muj * w1
			gammaTilde = -(1 - bjm1) * mujTilde
		}
	}
	nvar := pkg.EOS.NVars()

	for _, b := range p.Blocks {
		y0 := b.Register(mesh.RegU0).Cons
		my0 := b.Register(mesh.RegMY0).Cons
		yjm1 := b.Register(mesh.RegYjm1).Cons
		yjm2 := b.Register(mesh.RegYjm2).Cons
		ib, jb, kb := b.Ib, b.Jb, b.Kb
		ndim := b.NDim()
		for n := 0; n < nvar; n++ {
			for k := kb.S; k <= kb.E; k++ {
				for jj := jb.S; jj <= jb.E; jj++ {
					for i := ib.S; i <= ib.E; i++ {
						var yj float64
						if s == 1 {
							yj = yjm1.At(n, k, jj, i) - tau*fluxDiv(b, ndim, n, k, jj, i)
						} else if j == 1 {
							yj = yjm1.At(n, k, jj, i) +
								mujTilde*tau*my0.At(n, k, jj, i)
						} else {
							myjm1 := -fluxDiv(b, ndim, n, k, jj, i)
							yj = muj*yjm1.At(n, k, jj, i) +
								nuj*yjm2.At(n, k, jj, i) +
								(1-muj-nuj)*y0.At(n, k, jj, i) +
								mujTilde*tau*myjm1 +
								gammaTilde*tau*my0.At(n, k, jj, i)
						}
						yjm2.Set(n, k, jj, i, yjm1.At(n, k, jj, i))
						yjm1.Set(n, k, jj, i, yj)
					}
				}
			}
		}
	}
	if j == s {
		for _, b := range p.Blocks {
			b.Register(mesh.RegU0).Cons.CopyFrom(b.Register(mesh.RegYjm1).Cons)
		}
	}
}
