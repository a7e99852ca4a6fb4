package hydro

import "github.com/notargets/gomhd/mesh"

/*
	Reconstruction of left/right interface states from cell-centered
	primitives. Interface (k,j,i) in direction X1 lies between cells i-1 and
	i, so wl holds the state extrapolated from the left cell and wr from the
	right cell; X2/X3 follow the same convention in j and k.

	Donor cell is used on the first stage of the two-stage integrator for
	robustness; piecewise linear with the monotonized limiter on later stages.
*/

// lim2 is the monotonized (harmonic mean) limiter of two one-sided
// differences: zero when they differ in sign, otherwise bounded by twice the
// smaller magnitude.
func lim2(a, b float64) float64 {
	if a*b > 0 {
		return 2 * a * b / (a + b)
	}
	return 0
}

// Lim4 is the symmetric 4-point monotonized limiter used for linear slopes
// and for the transverse gradients of anisotropic conduction.
func Lim4(a, b, c, d float64) float64 {
	return lim2(lim2(a, b), lim2(c, d))
}

func DonorCellX1(b *mesh.Block, kl, ku, jl, ju, il, iu int, w, wl, wr *mesh.Field) {
	for n := 0; n < w.Nvar; n++ {
		for k := kl; k <= ku; k++ {
			for j := jl; j <= ju; j++ {
				for i := il; i <= iu; i++ {
					wl.Set(n, k, j, i, w.At(n, k, j, i-1))
					wr.Set(n, k, j, i, w.At(n, k, j, i))
				}
			}
		}
	}
}

func DonorCellX2(b *mesh.Block, kl, ku, jl, ju, il, iu int, w, wl, wr *mesh.Field) {
	for n := 0; n < w.Nvar; n++ {
		for k := kl; k <= ku; k++ {
			for j := jl; j <= ju; j++ {
				for i := il; i <= iu; i++ {
					wl.Set(n, k, j, i, w.At(n, k, j-1, i))
					wr.Set(n, k, j, i, w.At(n, k, j, i))
				}
			}
		}
	}
}

func DonorCellX3(b *mesh.Block, kl, ku, jl, ju, il, iu int, w, wl, wr *mesh.Field) {
	for n := 0; n < w.Nvar; n++ {
		for k := kl; k <= ku; k++ {
			for j := jl; j <= ju; j++ {
				for i := il; i <= iu; i++ {
					wl.Set(n, k, j, i, w.At(n, k-1, j, i))
					wr.Set(n, k, j, i, w.At(n, k, j, i))
				}
			}
		}
	}
}

func PiecewiseLinearX1(b *mesh.Block, kl, ku, jl, ju, il, iu int, w, wl, wr *mesh.Field) {
	for n := 0; n < w.Nvar; n++ {
		for k := kl; k <= ku; k++ {
			for j := jl; j <= ju; j++ {
				for i := il; i <= iu; i++ {
					dqlL := w.At(n, k, j, i-1) - w.At(n, k, j, i-2)
					dqrL := w.At(n, k, j, i) - w.At(n, k, j, i-1)
					dqmL := Lim4(dqlL, dqrL, dqlL, dqrL)
					dqlR := dqrL
					dqrR := w.At(n, k, j, i+1) - w.At(n, k, j, i)
					dqmR := Lim4(dqlR, dqrR, dqlR, dqrR)
					wl.Set(n, k, j, i, w.At(n, k, j, i-1)+0.5*dqmL)
					wr.Set(n, k, j, i, w.At(n, k, j, i)-0.5*dqmR)
				}
			}
		}
	}
}

func PiecewiseLinearX2(b *mesh.Block, kl, ku, jl, ju, il, iu int, w, wl, wr *mesh.Field) {
	for n := 0; n < w.Nvar; n++ {
		for k := kl; k <= ku; k++ {
			for j := jl; j <= ju; j++ {
				for i := il; i <= iu; i++ {
					dqlL := w.At(n, k, j-1, i) - w.At(n, k, j-2, i)
					dqrL := w.At(n, k, j, i) - w.At(n, k, j-1, i)
					dqmL := Lim4(dqlL, dqrL, dqlL, dqrL)
					dqlR := dqrL
					dqrR := w.At(n, k, j+1, i) - w.At(n, k, j, i)
					dqmR := Lim4(dqlR, dqrR, dqlR, dqrR)
					wl.Set(n, k, j, i, w.At(n, k, j-1, i)+0.5*dqmL)
					wr.Set(n, k, j, i, w.At(n, k, j, i)-0.5*dqmR)
				}
			}
		}
	}
}

func PiecewiseLinearX3(b *mesh.Block, kl, ku, jl, ju, il, iu int, w, wl, wr *mesh.Field) {
	for n := 0; n < w.Nvar; n++ {
		for k := kl; k <= ku; k++ {
			for j := jl; j <= ju; j++ {
				for i := il; i <= iu; i++ {
					dqlL := w.At(n, k-1, j, i) - w.At(n, k-2, j, i)
					dqrL := w.At(n, k, j, i) - w.At(n, k-1, j, i)
					dqmL := Lim4(dqlL, dqrL, dqlL, dqrL)
					dqlR := dqrL
					dqrR := w.At(n, k+1, j, i) - w.At(n, k, j, i)
					dqmR := Lim4(dqlR, dqrR, dqlR, dqrR)
					wl.Set(n, k, j, i, w.At(n, k-1, j, i)+0.5*dqmL)
					wr.Set(n, k, j, i, w.At(n, k, j, i)-0.5*dqmR)
				}
			}
		}
	}
}
