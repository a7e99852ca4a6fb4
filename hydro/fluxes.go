package hydro

import "github.com/notargets/gomhd/mesh"

/*
	Advective flux calculation for one partition: per block and per active
	direction, reconstruct left/right interface primitives and resolve them
	with the configured Riemann solver into the block's face flux buffers.

	Stage 1 of the two-stage integrator reconstructs with donor cell, later
	stages with piecewise linear. The flux buffers must have been reset
	beforehand; diffusive fluxes are added into the same buffers by a
	separate pass.
*/

func CalculateFluxes(pkg *Package, p *mesh.Partition, reg mesh.RegisterID, stage int) {
	ch := pkg.State.Ch
	for _, b := range p.Blocks {
		st := b.Register(reg)
		w := st.Prim
		wl, wr := b.ReconScratch()
		ndim := b.NDim()
		ib, jb, kb := b.Ib, b.Jb, b.Kb

		// X1 faces. Transverse ranges widen by one in active dimensions so
		// the corner-adjacent fluxes needed by the divergence exist.
		jl, ju, kl, ku := jb.S, jb.E, kb.S, kb.E
		if ndim >= 2 {
			jl, ju = jb.S-1, jb.E+1
		}
		if ndim >= 3 {
			kl, ku = kb.S-1, kb.E+1
		}
		if stage == 1 {
			DonorCellX1(b, kl, ku, jl, ju, ib.S, ib.E+1, w, wl, wr)
		} else {
			PiecewiseLinearX1(b, kl, ku, jl, ju, ib.S, ib.E+1, w, wl, wr)
		}
		riemannSweep(pkg, b, 0, kl, ku, jl, ju, ib.S, ib.E+1, wl, wr, ch)

		if ndim >= 2 {
			il, iu := ib.S-1, ib.E+1
			kl, ku = kb.S, kb.E
			if ndim >= 3 {
				kl, ku = kb.S-1, kb.E+1
			}
			if stage == 1 {
				DonorCellX2(b, kl, ku, jb.S, jb.E+1, il, iu, w, wl, wr)
			} else {
				PiecewiseLinearX2(b, kl, ku, jb.S, jb.E+1, il, iu, w, wl, wr)
			}
			riemannSweep(pkg, b, 1, kl, ku, jb.S, jb.E+1, il, iu, wl, wr, ch)
		}

		if ndim >= 3 {
			il, iu := ib.S-1, ib.E+1
			jl, ju = jb.S-1, jb.E+1
			if stage == 1 {
				DonorCellX3(b, kb.S, kb.E+1, jl, ju, il, iu, w, wl, wr)
			} else {
				PiecewiseLinearX3(b, kb.S, kb.E+1, jl, ju, il, iu, w, wl, wr)
			}
			riemannSweep(pkg, b, 2, kb.S, kb.E+1, jl, ju, il, iu, wl, wr, ch)
		}
	}
}

func riemannSweep(pkg *Package, b *mesh.Block, d, kl, ku, jl, ju, il, iu int,
	wl, wr *mesh.Field, ch float64) {
	var (
		nvar   = pkg.EOS.NVars()
		flux   = b.Flux[d]
		wls    [NGLMMHD]float64
		wrs    [NGLMMHD]float64
		flxs   [NGLMMHD]float64
		solver = pkg.Riemann
	)
	for k := kl; k <= ku; k++ {
		for j := jl; j <= ju; j++ {
			for i := il; i <= iu; i++ {
				for n := 0; n < nvar; n++ {
					wls[n] = wl.At(n, k, j, i)
					wrs[n] = wr.At(n, k, j, i)
				}
				solver.Flux(pkg.EOS, d, wls[:nvar], wrs[:nvar], ch, flxs[:nvar])
				for n := 0; n < nvar; n++ {
					flux.Add(n, k, j, i, flxs[n])
				}
			}
		}
	}
}
