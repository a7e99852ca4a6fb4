package pgen

import (
	"fmt"

	"github.com/notargets/gomhd/hydro"
	"github.com/notargets/gomhd/mesh"
)

// UniformOptions describes a spatially constant initial state. The magnetic
// components are ignored for a pure hydro run.
type UniformOptions struct {
	Rho  float64 `json:"rho"`
	Pres float64 `json:"pres"`
	V1   float64 `json:"v1"`
	V2   float64 `json:"v2"`
	V3   float64 `json:"v3"`
	B1   float64 `json:"b1"`
	B2   float64 `json:"b2"`
	B3   float64 `json:"b3"`
}

func setupUniform(m *mesh.Mesh, pkg *hydro.Package, par *Params) error {
	o := par.Uniform
	if o.Rho <= 0 || o.Pres <= 0 {
		return fmt.Errorf("uniform state needs positive rho and pres, got %g %g",
			o.Rho, o.Pres)
	}
	fillPrimitive(m, pkg, func(b *mesh.Block, k, j, i int, w []float64) {
		w[hydro.IDN] = o.Rho
		w[hydro.IPR] = o.Pres
		w[hydro.IV1] = o.V1
		w[hydro.IV2] = o.V2
		w[hydro.IV3] = o.V3
		if pkg.Fluid == hydro.FluidGLMMHD {
			w[hydro.IB1] = o.B1
			w[hydro.IB2] = o.B2
			w[hydro.IB3] = o.B3
		}
	})
	return nil
}
