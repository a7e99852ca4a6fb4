package hydro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSTSStageCount(t *testing.T) {
	// A vanishing super step needs a single stage.
	assert.Equal(t, 1, STSStageCount(0))
	assert.Equal(t, 3, STSStageCount(0.25))

	// Counts are always odd and grow like sqrt(ratio).
	prev := 1
	for _, ratio := range []float64{1, 4, 16, 64, 256, 1024} {
		s := STSStageCount(ratio)
		assert.Equal(t, 1, s%2, "stage count must be odd, got %d for ratio %g", s, ratio)
		assert.GreaterOrEqual(t, s, prev)
		prev = s
	}
	assert.Equal(t, 3, STSStageCount(1))
	assert.Equal(t, 5, STSStageCount(4))

	// s stages must cover the requested ratio: the RKL2 stability limit is
	// (s^2+s-2)/4 explicit steps.
	for _, ratio := range []float64{2, 10, 100, 5000} {
		s := float64(STSStageCount(ratio))
		assert.GreaterOrEqual(t, (s*s+s-2)/4, ratio)
	}
}

func TestRKL2Coefficients(t *testing.T) {
	assert.InDelta(t, 1./3., rkl2b(0), 1.e-14)
	assert.InDelta(t, 1./3., rkl2b(1), 1.e-14)
	assert.InDelta(t, 1./3., rkl2b(2), 1.e-14)
	// b_j approaches 1/2 from below for large j
	for j := 3; j < 50; j++ {
		assert.Greater(t, rkl2b(j), rkl2b(j-1))
		assert.Less(t, rkl2b(j), 0.5)
	}
}

// A single-stage super step must degenerate to one forward Euler step of the
// full tau.
func TestRKL2SingleStageIsForwardEuler(t *testing.T) {
	pkg, m := testConductionSetup(t, "unsplit")
	p := m.Partition(0)

	// Evaluate the expected Euler update first.
	tau := 1.e-4
	ResetFluxes(p)
	CalcDiffFluxes(pkg, p, 0)
	b := m.Blocks[0]
	i := (b.Ib.S + b.Ib.E) / 2
	rhs := -fluxDiv(b, b.NDim(), IEN, 0, 0, i)
	want := b.Cons.At(IEN, 0, 0, i) + tau*rhs

	ResetFluxes(p)
	CalcDiffFluxes(pkg, p, 0)
	RKL2StepInit(pkg, p)
	RKL2StepOther(pkg, p, 1, 1, tau)
	assert.InDelta(t, want, b.Cons.At(IEN, 0, 0, i), 1.e-14)
}
