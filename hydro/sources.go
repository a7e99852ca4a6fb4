package hydro

import "github.com/notargets/gomhd/mesh"

// SimTime carries the simulation clock into source terms and problem hooks.
type SimTime struct {
	Time   float64
	Dt     float64
	NCycle int
}

// SourceFunc applies a source term to the partition. Unsplit sources receive
// the stage weighted betaDt and must scale their contribution by it; split
// sources receive the full split interval in betaDt.
type SourceFunc func(pkg *Package, p *mesh.Partition, reg mesh.RegisterID, tm SimTime, betaDt float64) error

// AddUnsplitSources runs every registered unsplit source after the flux
// divergence update of a stage, using the same register and stage weight.
func AddUnsplitSources(pkg *Package, p *mesh.Partition, reg mesh.RegisterID, tm SimTime, betaDt float64) error {
	for _, src := range pkg.UnsplitSources {
		if err := src(pkg, p, reg, tm, betaDt); err != nil {
			return err
		}
	}
	return nil
}

// AddSplitSourcesStrang runs the Strang split sources over half a timestep.
// Called once before the first stage and once after the last, which keeps
// the overall update second order.
func AddSplitSourcesStrang(pkg *Package, p *mesh.Partition, tm SimTime) error {
	for _, src := range pkg.SplitSourcesStrang {
		if err := src(pkg, p, mesh.RegU0, tm, 0.5*tm.Dt); err != nil {
			return err
		}
	}
	return nil
}

// AddSplitSourcesFirstOrder runs the remaining split sources over the full
// timestep after the last stage. This is only first order accurate in time
// regardless of the integrator.
func AddSplitSourcesFirstOrder(pkg *Package, p *mesh.Partition, tm SimTime) error {
	for _, src := range pkg.SplitSourcesFirstOrder {
		if err := src(pkg, p, mesh.RegU0, tm, tm.Dt); err != nil {
			return err
		}
	}
	return nil
}
