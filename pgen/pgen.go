package pgen

import (
	"fmt"

	"github.com/notargets/gomhd/hydro"
	"github.com/notargets/gomhd/mesh"
)

// Params is the problem section of an input deck. Only the block matching
// Name is consulted.
type Params struct {
	Name      string           `json:"name"`
	Uniform   UniformOptions   `json:"uniform,omitempty"`
	ShockTube ShockTubeOptions `json:"shock_tube,omitempty"`
	Spherical SphericalOptions `json:"spherical,omitempty"`
	Blast     BlastOptions     `json:"blast,omitempty"`
	Cluster   ClusterOptions   `json:"cluster,omitempty"`
}

// SetupFunc fills the initial condition and registers any problem specific
// sources and hooks on the package.
type SetupFunc func(m *mesh.Mesh, pkg *hydro.Package, par *Params) error

var problems = map[string]SetupFunc{
	"uniform":    setupUniform,
	"shock_tube": setupShockTube,
	"spherical":  setupSpherical,
	"rand_blast": setupRandBlast,
	"cluster":    setupCluster,
}

// Setup dispatches to the named problem generator.
func Setup(m *mesh.Mesh, pkg *hydro.Package, par *Params) error {
	fn, ok := problems[par.Name]
	if !ok {
		return fmt.Errorf("unknown problem generator [%s]", par.Name)
	}
	return fn(m, pkg, par)
}

// fillPrimitive runs fn over every cell of every block, ghosts included,
// writing primitives, then recovers the conserved fields.
func fillPrimitive(m *mesh.Mesh, pkg *hydro.Package,
	fn func(b *mesh.Block, k, j, i int, w []float64)) {
	nvar := pkg.EOS.NVars()
	w := make([]float64, nvar)
	for _, b := range m.Blocks {
		for k := 0; k < b.NTot3; k++ {
			for j := 0; j < b.NTot2; j++ {
				for i := 0; i < b.NTot1; i++ {
					for n := range w {
						w[n] = 0
					}
					fn(b, k, j, i, w)
					for n := 0; n < nvar; n++ {
						b.Prim.Set(n, k, j, i, w[n])
					}
				}
			}
		}
		pkg.EOS.PrimitiveToConserved(b, b.Prim, b.Cons)
	}
}
