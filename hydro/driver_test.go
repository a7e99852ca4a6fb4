package hydro

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/notargets/gomhd/mesh"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// fillPeriodic1D fills every cell, ghosts included, from an analytic profile
// of the wrapped x coordinate, so no initial exchange is needed.
func fillPeriodic1D(m *mesh.Mesh, pkg *Package, prof func(x float64, w []float64)) {
	nvar := pkg.EOS.NVars()
	w := make([]float64, nvar)
	for _, b := range m.Blocks {
		for i := 0; i < b.NTot1; i++ {
			x, _, _ := b.CellCenter(0, 0, i)
			x -= math.Floor(x) // wrap into [0,1)
			for n := range w {
				w[n] = 0
			}
			prof(x, w)
			for n := 0; n < nvar; n++ {
				b.Prim.Set(n, 0, 0, i, w[n])
			}
		}
		pkg.EOS.PrimitiveToConserved(b, b.Prim, b.Cons)
	}
}

func totalConserved(m *mesh.Mesh, n int) float64 {
	sum := 0.
	for _, b := range m.Blocks {
		for k := b.Kb.S; k <= b.Kb.E; k++ {
			for j := b.Jb.S; j <= b.Jb.E; j++ {
				for i := b.Ib.S; i <= b.Ib.E; i++ {
					sum += b.Cons.At(n, k, j, i)
				}
			}
		}
	}
	return sum
}

func testMesh1D(t *testing.T, nvar, nblocks int) *mesh.Mesh {
	m, err := mesh.NewMesh(mesh.Options{
		Nvar:     nvar,
		Nx:       [3]int{16, 1, 1},
		NBlocks:  [3]int{nblocks, 1, 1},
		XMax:     [3]float64{1, 1, 1},
		Boundary: mesh.BCPeriodic,
	})
	assert.NoError(t, err)
	return m
}

// testConductionSetup builds a quiescent gas with a sinusoidal temperature
// profile and fixed isotropic conduction.
func testConductionSetup(t *testing.T, diffInt string) (*Package, *mesh.Mesh) {
	pkg, err := NewPackage(PackageOptions{
		Fluid:      "euler",
		Riemann:    "hlle",
		Gamma:      5. / 3.,
		CFL:        0.3,
		Conduction: "isotropic",
		CondCoeff:  "fixed",
		CondKappa:  0.01,
		DiffInt:    diffInt,
	})
	assert.NoError(t, err)
	m := testMesh1D(t, pkg.EOS.NVars(), 1)
	fillPeriodic1D(m, pkg, func(x float64, w []float64) {
		w[IDN] = 1
		w[IPR] = 1 + 0.2*math.Sin(2*math.Pi*x)
	})
	return pkg, m
}

func TestUniformStateIsExactEquilibrium(t *testing.T) {
	// [Euler]: a uniform moving gas must be bit-identical after integration
	pkg, err := NewPackage(PackageOptions{
		Fluid: "euler", Riemann: "hlle", Gamma: 1.4, CFL: 0.4,
	})
	assert.NoError(t, err)
	m := testMesh1D(t, pkg.EOS.NVars(), 2)
	fillPeriodic1D(m, pkg, func(x float64, w []float64) {
		w[IDN], w[IV1], w[IPR] = 1.4, 0.5, 1.0
	})
	before := make([]float64, len(m.Blocks[0].Cons.Data))
	copy(before, m.Blocks[0].Cons.Data)

	d := NewDriver(m, pkg, 0.1, 5, testLogger())
	assert.NoError(t, d.Initialize())
	assert.NoError(t, d.Execute())
	assert.Greater(t, d.Tm.Time, 0.)
	assert.Equal(t, before, m.Blocks[0].Cons.Data)

	// [GLM-MHD]: same with a uniform oblique field
	pkg, err = NewPackage(PackageOptions{
		Fluid: "glmmhd", Riemann: "hlle", Gamma: 1.4, CFL: 0.4,
	})
	assert.NoError(t, err)
	m = testMesh1D(t, pkg.EOS.NVars(), 2)
	fillPeriodic1D(m, pkg, func(x float64, w []float64) {
		w[IDN], w[IV1], w[IPR] = 1.0, 0.3, 1.0
		w[IB1], w[IB2] = 0.2, 0.4
	})
	d = NewDriver(m, pkg, 0.1, 5, testLogger())
	assert.NoError(t, d.Initialize())
	assert.NoError(t, d.Execute())
	for _, b := range m.Blocks {
		for i := b.Ib.S; i <= b.Ib.E; i++ {
			assert.Equal(t, 1.0, b.Cons.At(IDN, 0, 0, i))
			assert.Equal(t, 0.2, b.Cons.At(IB1, 0, 0, i))
		}
	}
}

func TestConservationAcrossBlocks(t *testing.T) {
	pkg, err := NewPackage(PackageOptions{
		Fluid: "euler", Riemann: "hllc", Gamma: 1.4, CFL: 0.4,
	})
	assert.NoError(t, err)
	m := testMesh1D(t, pkg.EOS.NVars(), 4)
	fillPeriodic1D(m, pkg, func(x float64, w []float64) {
		w[IDN] = 1 + 0.3*math.Sin(2*math.Pi*x)
		w[IV1] = 0.2
		w[IPR] = 1
	})
	mass0 := totalConserved(m, IDN)
	mom0 := totalConserved(m, IM1)
	en0 := totalConserved(m, IEN)

	d := NewDriver(m, pkg, 1.0, 10, testLogger())
	assert.NoError(t, d.Initialize())
	assert.NoError(t, d.Execute())
	assert.Equal(t, 10, d.Tm.NCycle)

	assert.InDelta(t, mass0, totalConserved(m, IDN), 1.e-11*math.Abs(mass0))
	assert.InDelta(t, mom0, totalConserved(m, IM1), 1.e-10)
	assert.InDelta(t, en0, totalConserved(m, IEN), 1.e-11*math.Abs(en0))
}

func TestConductionDampsAndConserves(t *testing.T) {
	for _, diffInt := range []string{"unsplit", "rkl2"} {
		pkg, m := testConductionSetup(t, diffInt)
		en0 := totalConserved(m, IEN)
		pmax0 := 0.
		for i := m.Blocks[0].Ib.S; i <= m.Blocks[0].Ib.E; i++ {
			pmax0 = math.Max(pmax0, m.Blocks[0].Prim.At(IPR, 0, 0, i))
		}

		d := NewDriver(m, pkg, 0.5, 20, testLogger())
		assert.NoError(t, d.Initialize())
		assert.NoError(t, d.Execute())

		// Diffusive fluxes are in conservation form: total energy must hold.
		assert.InDelta(t, en0, totalConserved(m, IEN), 1.e-11*math.Abs(en0))

		// The temperature contrast must decay.
		b := m.Blocks[0]
		st := b.Register(mesh.RegU0)
		pmax := 0.
		for i := b.Ib.S; i <= b.Ib.E; i++ {
			pmax = math.Max(pmax, st.Prim.At(IPR, 0, 0, i))
		}
		assert.Less(t, pmax, pmax0, "diffInt=%s", diffInt)
	}
}

func TestTimestepEstimate(t *testing.T) {
	pkg, m := testConductionSetup(t, "unsplit")
	d := NewDriver(m, pkg, 1, 1, testLogger())
	assert.NoError(t, d.Initialize())

	s := pkg.State
	assert.Greater(t, s.DtHyp, 0.)
	assert.Less(t, s.DtHyp, math.MaxFloat64)
	assert.Less(t, s.DtDiff, math.MaxFloat64)

	// With unsplit diffusion the parabolic limit binds the step.
	FinalizeTimestep(pkg)
	assert.Equal(t, math.Min(s.DtHyp, s.DtDiff), s.DtMin)

	// The explicit conduction limit for dx=1/16, chi=0.01 is fac*dx^2/chi.
	dx := m.Blocks[0].Dx1
	assert.InDelta(t, 0.5*dx*dx/0.01, s.DtDiff, 1.e-10)
}

func TestPackageValidation(t *testing.T) {
	_, err := NewPackage(PackageOptions{Fluid: "euler", Riemann: "hlle", Gamma: 0.9, CFL: 0.5})
	assert.Error(t, err)
	_, err = NewPackage(PackageOptions{Fluid: "euler", Riemann: "hlle", Gamma: 1.4, CFL: 1.5})
	assert.Error(t, err)
	_, err = NewPackage(PackageOptions{Fluid: "euler", Riemann: "hlle", Gamma: 1.4, CFL: 0.5,
		DiffInt: "rkl2"})
	assert.Error(t, err) // rkl2 without a diffusive process
	_, err = NewPackage(PackageOptions{Fluid: "euler", Riemann: "hllx", Gamma: 1.4, CFL: 0.5})
	assert.Error(t, err)
}
