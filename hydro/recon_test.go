package hydro

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gomhd/mesh"
)

func TestLimiterProperties(t *testing.T) {
	// Smooth extremum: the sequence 1,2,2,1 has one-sided differences
	// 1, 0, -1, and any pair containing a zero or sign change limits to zero.
	assert.Equal(t, 0., Lim4(1, 0, 1, 0))
	assert.Equal(t, 0., Lim4(0, -1, 0, -1))

	// Opposite-signed differences limit to zero.
	assert.Equal(t, 0., Lim4(1, -1, 1, -1))
	assert.Equal(t, 0., Lim4(-2, 3, -2, 3))

	// Same-signed: result is bounded by twice the smallest difference and
	// keeps the sign.
	v := Lim4(1, 2, 1, 2)
	assert.InDelta(t, 4./3., v, 1.e-14)
	assert.LessOrEqual(t, v, 2.)
	assert.Less(t, Lim4(-1, -4, -1, -4), 0.)

	// Equal differences pass through unchanged.
	assert.InDelta(t, 0.7, Lim4(0.7, 0.7, 0.7, 0.7), 1.e-14)
}

func testBlock1D(t *testing.T, nvar int) *mesh.Block {
	m, err := mesh.NewMesh(mesh.Options{
		Nvar: nvar,
		Nx:   [3]int{16, 1, 1},
		XMax: [3]float64{1, 1, 1},
	})
	assert.NoError(t, err)
	return m.Blocks[0]
}

func TestPLMReconstructsLinearExactly(t *testing.T) {
	b := testBlock1D(t, 1)
	w := b.Prim
	for i := 0; i < b.NTot1; i++ {
		w.Set(0, 0, 0, i, 2+0.5*float64(i))
	}
	wl, wr := b.ReconScratch()
	PiecewiseLinearX1(b, b.Kb.S, b.Kb.E, b.Jb.S, b.Jb.E, b.Ib.S, b.Ib.E+1, w, wl, wr)
	for i := b.Ib.S; i <= b.Ib.E+1; i++ {
		iface := 2 + 0.5*(float64(i)-0.5)
		assert.InDelta(t, iface, wl.At(0, 0, 0, i), 1.e-14)
		assert.InDelta(t, iface, wr.At(0, 0, 0, i), 1.e-14)
	}
}

func TestPLMClipsExtrema(t *testing.T) {
	b := testBlock1D(t, 1)
	w := b.Prim
	for i := 0; i < b.NTot1; i++ {
		w.Set(0, 0, 0, i, 1)
	}
	peak := (b.Ib.S + b.Ib.E) / 2
	w.Set(0, 0, 0, peak, 5)
	wl, wr := b.ReconScratch()
	PiecewiseLinearX1(b, b.Kb.S, b.Kb.E, b.Jb.S, b.Jb.E, b.Ib.S, b.Ib.E+1, w, wl, wr)
	// The slope at the extremum limits to zero: both faces of the peak cell
	// see its unmodified value from the peak side.
	assert.Equal(t, 5., wr.At(0, 0, 0, peak))
	assert.Equal(t, 5., wl.At(0, 0, 0, peak+1))
}

func TestDonorCellIsFirstOrder(t *testing.T) {
	b := testBlock1D(t, 1)
	w := b.Prim
	for i := 0; i < b.NTot1; i++ {
		w.Set(0, 0, 0, i, float64(i*i))
	}
	wl, wr := b.ReconScratch()
	DonorCellX1(b, b.Kb.S, b.Kb.E, b.Jb.S, b.Jb.E, b.Ib.S, b.Ib.E+1, w, wl, wr)
	for i := b.Ib.S; i <= b.Ib.E+1; i++ {
		assert.Equal(t, w.At(0, 0, 0, i-1), wl.At(0, 0, 0, i))
		assert.Equal(t, w.At(0, 0, 0, i), wr.At(0, 0, 0, i))
	}
}
