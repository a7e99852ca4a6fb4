package pgen

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/notargets/gomhd/hydro"
	"github.com/notargets/gomhd/mesh"
)

func sphericalRun(t *testing.T, coeff string, kappa float64) *mesh.Mesh {
	pkg, err := hydro.NewPackage(hydro.PackageOptions{
		Fluid: "euler", Riemann: "hllc", Gamma: 5. / 3., CFL: 0.3,
		Conduction: "isotropic", CondCoeff: coeff, CondKappa: kappa,
	})
	assert.NoError(t, err)
	m, err := mesh.NewMesh(mesh.Options{
		Nvar:     pkg.EOS.NVars(),
		Nx:       [3]int{32, 32, 1},
		XMin:     [3]float64{-0.5, -0.5, 0},
		XMax:     [3]float64{0.5, 0.5, 0},
		Boundary: mesh.BCPeriodic,
	})
	assert.NoError(t, err)
	assert.NoError(t, Setup(m, pkg, &Params{
		Name: "spherical",
		Spherical: SphericalOptions{
			Background: UniformOptions{Rho: 1, Pres: 1},
			DeltaPres:  0.2,
			Radius:     0.1,
		},
	}))
	d := hydro.NewDriver(m, pkg, 1.0, 3, zerolog.Nop())
	assert.NoError(t, d.Initialize())
	assert.NoError(t, d.Execute())
	assert.Equal(t, 3, d.Tm.NCycle)
	return m
}

// A centered perturbation on a square grid must stay symmetric under
// reflection of either axis and under swapping the axes, for both the fixed
// diffusivity fast path and the general diffusivity path.
func TestSphericalPerturbationStaysSymmetric(t *testing.T) {
	for _, tc := range []struct {
		coeff string
		kappa float64
	}{
		{"fixed", 0.01},
		{"spitzer", 0.02},
	} {
		m := sphericalRun(t, tc.coeff, tc.kappa)
		b := m.Blocks[0]
		k := b.Kb.S
		ib, jb := b.Ib, b.Jb
		tol := 1.e-10
		for j := jb.S; j <= jb.E; j++ {
			jm := jb.S + jb.E - j
			for i := ib.S; i <= ib.E; i++ {
				im := ib.S + ib.E - i

				// [Mirror x1]: scalars even, normal momentum odd
				assert.InDelta(t, b.Cons.At(hydro.IDN, k, j, i),
					b.Cons.At(hydro.IDN, k, j, im), tol)
				assert.InDelta(t, b.Cons.At(hydro.IEN, k, j, i),
					b.Cons.At(hydro.IEN, k, j, im), tol)
				assert.InDelta(t, b.Cons.At(hydro.IM1, k, j, i),
					-b.Cons.At(hydro.IM1, k, j, im), tol)
				assert.InDelta(t, b.Cons.At(hydro.IM2, k, j, i),
					b.Cons.At(hydro.IM2, k, j, im), tol)

				// [Mirror x2]
				assert.InDelta(t, b.Cons.At(hydro.IEN, k, j, i),
					b.Cons.At(hydro.IEN, k, jm, i), tol)
				assert.InDelta(t, b.Cons.At(hydro.IM2, k, j, i),
					-b.Cons.At(hydro.IM2, k, jm, i), tol)

				// [Transpose]: x1 and x2 are interchangeable
				jt := jb.S + (i - ib.S)
				it := ib.S + (j - jb.S)
				assert.InDelta(t, b.Cons.At(hydro.IEN, k, j, i),
					b.Cons.At(hydro.IEN, k, jt, it), tol)
				assert.InDelta(t, b.Cons.At(hydro.IM1, k, j, i),
					b.Cons.At(hydro.IM2, k, jt, it), tol)
			}
		}

		// The perturbation is actually diffusing, not frozen.
		peak := 0.
		for j := jb.S; j <= jb.E; j++ {
			for i := ib.S; i <= ib.E; i++ {
				if e := b.Cons.At(hydro.IEN, k, j, i); e > peak {
					peak = e
				}
			}
		}
		gm1 := 5./3. - 1
		assert.Less(t, peak, 1.2/gm1)
	}
}

func TestSphericalValidation(t *testing.T) {
	pkg, err := hydro.NewPackage(hydro.PackageOptions{
		Fluid: "euler", Riemann: "hlle", Gamma: 5. / 3., CFL: 0.3,
	})
	assert.NoError(t, err)
	m, err := mesh.NewMesh(mesh.Options{
		Nvar: pkg.EOS.NVars(), Nx: [3]int{8, 1, 1},
		XMin: [3]float64{-0.5, 0, 0}, XMax: [3]float64{0.5, 0, 0},
		Boundary: mesh.BCPeriodic,
	})
	assert.NoError(t, err)

	err = Setup(m, pkg, &Params{Name: "spherical"})
	assert.Error(t, err)
	err = Setup(m, pkg, &Params{Name: "spherical", Spherical: SphericalOptions{
		Background: UniformOptions{Rho: 1, Pres: 0.5}, DeltaPres: -0.5, Radius: 0.1}})
	assert.Error(t, err)

	// Gaussian profile with its maximum at the center.
	err = Setup(m, pkg, &Params{Name: "spherical", Spherical: SphericalOptions{
		Background: UniformOptions{Rho: 1, Pres: 1}, DeltaPres: 0.2, Radius: 0.2}})
	assert.NoError(t, err)
	b := m.Blocks[0]
	kc, jc := b.Kb.S, b.Jb.S
	mid := b.Prim.At(hydro.IPR, kc, jc, b.Ib.S+3)
	edge := b.Prim.At(hydro.IPR, kc, jc, b.Ib.S)
	assert.Greater(t, mid, edge)
	assert.InDelta(t, 1+0.2*math.Exp(-(0.0625*0.0625)/(0.2*0.2)), mid, 1.e-12)
}
