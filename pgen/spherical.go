package pgen

import (
	"fmt"
	"math"

	"github.com/notargets/gomhd/hydro"
	"github.com/notargets/gomhd/mesh"
)

// SphericalOptions places a Gaussian pressure perturbation of width Radius
// at Center on top of a uniform background.
type SphericalOptions struct {
	Background UniformOptions `json:"background"`
	DeltaPres  float64        `json:"delta_pres"`
	Radius     float64        `json:"radius"`
	Center     [3]float64     `json:"center"`
}

func setupSpherical(m *mesh.Mesh, pkg *hydro.Package, par *Params) error {
	o := par.Spherical
	if o.Background.Rho <= 0 || o.Background.Pres <= 0 {
		return fmt.Errorf("spherical perturbation needs a positive background, got %g %g",
			o.Background.Rho, o.Background.Pres)
	}
	if o.Radius <= 0 {
		return fmt.Errorf("perturbation radius must be positive, got %g", o.Radius)
	}
	if o.Background.Pres+o.DeltaPres <= 0 {
		return fmt.Errorf("perturbation amplitude %g empties the background pressure %g",
			o.DeltaPres, o.Background.Pres)
	}
	b0 := o.Background
	fillPrimitive(m, pkg, func(b *mesh.Block, k, j, i int, w []float64) {
		x1, x2, x3 := b.CellCenter(k, j, i)
		dx := x1 - o.Center[0]
		dy := x2 - o.Center[1]
		dz := x3 - o.Center[2]
		r2 := dx*dx + dy*dy + dz*dz
		w[hydro.IDN] = b0.Rho
		w[hydro.IPR] = b0.Pres + o.DeltaPres*math.Exp(-r2/(o.Radius*o.Radius))
		w[hydro.IV1] = b0.V1
		w[hydro.IV2] = b0.V2
		w[hydro.IV3] = b0.V3
		if pkg.Fluid == hydro.FluidGLMMHD {
			w[hydro.IB1] = b0.B1
			w[hydro.IB2] = b0.B2
			w[hydro.IB3] = b0.B3
		}
	})
	return nil
}
