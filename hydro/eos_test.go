package hydro

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gomhd/mesh"
)

func TestHydroEOSRoundTrip(t *testing.T) {
	b := testBlock1D(t, NHydro)
	eos := NewAdiabaticHydroEOS(5./3., 1.e-10, 1.e-10)
	for i := 0; i < b.NTot1; i++ {
		b.Prim.Set(IDN, 0, 0, i, 1.2)
		b.Prim.Set(IV1, 0, 0, i, 0.3)
		b.Prim.Set(IV2, 0, 0, i, -0.1)
		b.Prim.Set(IV3, 0, 0, i, 0.05)
		b.Prim.Set(IPR, 0, 0, i, 0.9)
	}
	eos.PrimitiveToConserved(b, b.Prim, b.Cons)
	prim2 := mesh.NewField(NHydro, b.NTot3, b.NTot2, b.NTot1)
	eos.ConservedToPrimitive(b, b.Cons, prim2)
	for n := 0; n < NHydro; n++ {
		assert.InDelta(t, b.Prim.At(n, 0, 0, 3), prim2.At(n, 0, 0, 3), 1.e-13)
	}
}

func TestGLMMHDEOSRoundTrip(t *testing.T) {
	b := testBlock1D(t, NGLMMHD)
	eos := NewAdiabaticGLMMHDEOS(5./3., 1.e-10, 1.e-10)
	for i := 0; i < b.NTot1; i++ {
		b.Prim.Set(IDN, 0, 0, i, 1.0)
		b.Prim.Set(IV1, 0, 0, i, 0.2)
		b.Prim.Set(IPR, 0, 0, i, 0.5)
		b.Prim.Set(IB1, 0, 0, i, 0.4)
		b.Prim.Set(IB2, 0, 0, i, -0.3)
		b.Prim.Set(IPS, 0, 0, i, 0.01)
	}
	eos.PrimitiveToConserved(b, b.Prim, b.Cons)

	// total energy includes the magnetic contribution
	emag := 0.5 * (0.4*0.4 + 0.3*0.3)
	ekin := 0.5 * 1.0 * 0.2 * 0.2
	eint := 0.5 / (5./3. - 1)
	assert.InDelta(t, eint+ekin+emag, b.Cons.At(IEN, 0, 0, 3), 1.e-13)

	prim2 := mesh.NewField(NGLMMHD, b.NTot3, b.NTot2, b.NTot1)
	eos.ConservedToPrimitive(b, b.Cons, prim2)
	for n := 0; n < NGLMMHD; n++ {
		assert.InDelta(t, b.Prim.At(n, 0, 0, 5), prim2.At(n, 0, 0, 5), 1.e-13)
	}
}

func TestEOSFloors(t *testing.T) {
	b := testBlock1D(t, NHydro)
	eos := NewAdiabaticHydroEOS(5./3., 1.e-4, 1.e-4)
	i := b.Ib.S
	// A state whose internal energy has gone negative
	b.Cons.Set(IDN, 0, 0, i, -2.)
	b.Cons.Set(IM1, 0, 0, i, 0.1)
	b.Cons.Set(IEN, 0, 0, i, -1.)
	eos.ConservedToPrimitive(b, b.Cons, b.Prim)
	assert.Equal(t, 1.e-4, b.Prim.At(IDN, 0, 0, i))
	assert.Equal(t, 1.e-4, b.Prim.At(IPR, 0, 0, i))
	// the conserved state is floored in place as well
	assert.Equal(t, 1.e-4, b.Cons.At(IDN, 0, 0, i))
}

func TestFluidNames(t *testing.T) {
	f, err := NewFluid("euler")
	assert.NoError(t, err)
	assert.Equal(t, NHydro, f.NVars())
	f, err = NewFluid("glmmhd")
	assert.NoError(t, err)
	assert.Equal(t, NGLMMHD, f.NVars())
	_, err = NewFluid("srmhd")
	assert.Error(t, err)
}
