package hydro

import (
	"math"
	"sync"

	"github.com/notargets/gomhd/mesh"
)

// StepState is the per-cycle mutable state of the solver. Tasks read it
// concurrently; only the driver writes, and only at region barriers, so no
// lock is needed on the read side.
type StepState struct {
	DtHyp  float64
	DtDiff float64
	DtMin  float64
	MinDx  float64
	Ch     float64

	mu sync.Mutex
}

// Reduce folds a partition's local minima into the shared cell. Safe to call
// from concurrent tasks.
func (s *StepState) Reduce(dtHyp, dtDiff float64) {
	s.mu.Lock()
	if dtHyp < s.DtHyp {
		s.DtHyp = dtHyp
	}
	if dtDiff < s.DtDiff {
		s.DtDiff = dtDiff
	}
	s.mu.Unlock()
}

// ResetDt primes the cell for a fresh reduction pass.
func (s *StepState) ResetDt() {
	s.DtHyp = math.MaxFloat64
	s.DtDiff = math.MaxFloat64
	s.DtMin = math.MaxFloat64
}

// EstimateTimestep computes the hyperbolic CFL limit and the diffusive limit
// over one partition and folds them into the step state. The problem level
// hook, when set, can tighten the hyperbolic limit further.
func EstimateTimestep(pkg *Package, p *mesh.Partition) error {
	dtHyp := math.MaxFloat64
	for _, b := range p.Blocks {
		w := b.Prim
		ib, jb, kb := b.Ib, b.Jb, b.Kb
		ndim := b.NDim()
		var ws [NGLMMHD]float64
		nvar := pkg.EOS.NVars()
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					for n := 0; n < nvar; n++ {
						ws[n] = w.At(n, k, j, i)
					}
					for d := 0; d < ndim; d++ {
						sig := pkg.EOS.SignalSpeed(ws[:nvar], d)
						v := math.Abs(ws[IV1+d])
						if dt := b.Dx(d) / (v + sig); dt < dtHyp {
							dtHyp = dt
						}
					}
				}
			}
		}
	}
	dtHyp *= pkg.CFL
	if pkg.EstimateTimestepHook != nil {
		dtUser, err := pkg.EstimateTimestepHook(pkg, p)
		if err != nil {
			return err
		}
		if dtUser < dtHyp {
			dtHyp = dtUser
		}
	}
	dtDiff := EstimateConductionTimestep(pkg, p)
	pkg.State.Reduce(dtHyp, dtDiff)
	return nil
}

// FinalizeTimestep combines the reduced limits into the cycle timestep.
// Without super-time-stepping the diffusive limit constrains dt directly;
// with it, only the hyperbolic limit does.
func FinalizeTimestep(pkg *Package) {
	s := pkg.State
	if pkg.DiffInt == DiffIntUnsplit {
		s.DtMin = math.Min(s.DtHyp, s.DtDiff)
	} else {
		s.DtMin = s.DtHyp
	}
}

// CalcCH updates the divergence cleaning wave speed from the hyperbolic
// limit and the smallest cell width on the mesh.
func CalcCH(pkg *Package, m *mesh.Mesh) {
	if m.MeshChanged || pkg.State.MinDx == 0 {
		minDx := math.MaxFloat64
		for _, b := range m.Blocks {
			for d := 0; d < b.NDim(); d++ {
				if dx := b.Dx(d); dx < minDx {
					minDx = dx
				}
			}
		}
		pkg.State.MinDx = minDx
		m.MeshChanged = false
	}
	pkg.State.Ch = pkg.CFL * pkg.State.MinDx / pkg.State.DtHyp
}
