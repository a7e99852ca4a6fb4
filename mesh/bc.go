package mesh

// ApplyBoundaryConditions fills the ghost zones of faces without a
// neighboring block. Periodic faces always have a neighbor and are handled
// by the exchange; the remaining physical boundary treatment is zero-gradient
// outflow, copying the nearest interior cell outward.
func (b *Block) ApplyBoundaryConditions(reg RegisterID) {
	if b.mesh.Boundary == BCPeriodic {
		return
	}
	st := b.Register(reg)
	for d := 0; d < b.mesh.NDim; d++ {
		for _, face := range []int{2 * d, 2*d + 1} {
			if b.Neighbor[face] >= 0 {
				continue
			}
			b.outflowFace(st.Cons, face)
		}
	}
}

func (b *Block) outflowFace(f *Field, face int) {
	kr, jr, ir := b.slabRanges(face, true)
	bounds := [3]IndexRange{b.Ib, b.Jb, b.Kb}
	d := face / 2
	// Index of the interior cell mirrored outward.
	edge := bounds[d].S
	if face%2 == 1 {
		edge = bounds[d].E
	}
	for v := 0; v < f.Nvar; v++ {
		for k := kr.S; k <= kr.E; k++ {
			for j := jr.S; j <= jr.E; j++ {
				for i := ir.S; i <= ir.E; i++ {
					ks, js, is := k, j, i
					switch d {
					case 0:
						is = edge
					case 1:
						js = edge
					case 2:
						ks = edge
					}
					f.Set(v, k, j, i, f.At(v, ks, js, is))
				}
			}
		}
	}
}

/*
	Flux correction across refinement interfaces.

	When a face borders a finer block, the fine-side face fluxes must replace
	the coarse side's before the divergence is taken, or conservation across
	the interface is lost. On this single-level mesh every interface is
	same-level and both sides compute identical face fluxes, so the exchange
	carries no data; the calls remain synchronization points in the task
	graph so the stage ordering matches a multi-level mesh.
*/

func (b *Block) SendFluxCorrection() error {
	return nil
}

func (b *Block) ReceiveFluxCorrection() bool {
	return true
}
