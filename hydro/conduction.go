package hydro

import (
	"fmt"
	"math"

	"github.com/notargets/gomhd/mesh"
)

/*
	Isotropic and field-aligned thermal conduction with either a fixed
	diffusivity or a Spitzer-like temperature dependent conductivity with
	free streaming saturation. Conduction fluxes are subtracted from the
	energy component of the same face buffers the advective pass fills, so
	the divergence update and the super-time-stepper see a single combined
	flux.

	Temperature is the pressure over density proxy throughout; any mean
	molecular weight factor is folded into the conductivity coefficient.
*/

type ConductionType uint8

const (
	CondNone ConductionType = iota
	CondIsotropic
	CondAnisotropic
)

var conductionNames = map[string]ConductionType{
	"none":        CondNone,
	"isotropic":   CondIsotropic,
	"anisotropic": CondAnisotropic,
}

func NewConductionType(label string) (ConductionType, error) {
	c, ok := conductionNames[label]
	if !ok {
		return CondNone, fmt.Errorf("unknown conduction type [%s]", label)
	}
	return c, nil
}

type ConductionCoeffType uint8

const (
	CoeffFixed ConductionCoeffType = iota
	CoeffSpitzer
)

var conductionCoeffNames = map[string]ConductionCoeffType{
	"fixed":   CoeffFixed,
	"spitzer": CoeffSpitzer,
}

func NewConductionCoeffType(label string) (ConductionCoeffType, error) {
	c, ok := conductionCoeffNames[label]
	if !ok {
		return CoeffFixed, fmt.Errorf("unknown conduction coefficient [%s]", label)
	}
	return c, nil
}

// ThermalDiffusivity evaluates the local diffusivity chi given pressure,
// density and the magnitude of the temperature gradient. The gradient only
// matters for the saturated Spitzer branch.
type ThermalDiffusivity struct {
	Cond  ConductionType
	Coeff ConductionCoeffType
	Kappa float64
}

func NewThermalDiffusivity(cond ConductionType, coeff ConductionCoeffType,
	kappa float64) (ThermalDiffusivity, error) {
	if cond != CondNone && kappa <= 0 {
		return ThermalDiffusivity{}, fmt.Errorf(
			"conduction coefficient must be positive, got %g", kappa)
	}
	return ThermalDiffusivity{Cond: cond, Coeff: coeff, Kappa: kappa}, nil
}

func (td ThermalDiffusivity) Get(pres, rho, gradTmag float64) float64 {
	if td.Coeff == CoeffFixed {
		return td.Kappa
	}
	temp := pres / rho
	kappa := td.Kappa * math.Pow(temp, 2.5)
	kappaSat := 0.34 * rho * temp * math.Sqrt(temp) / (gradTmag + tinyNumber)
	return math.Min(kappa, kappaSat) / rho
}

// ThermalFluxIsoFixed is the fast path for isotropic conduction with a fixed
// diffusivity: only the face-normal temperature gradient is needed.
func ThermalFluxIsoFixed(pkg *Package, p *mesh.Partition, reg mesh.RegisterID) {
	chi := pkg.Conduction.Kappa
	for _, b := range p.Blocks {
		w := b.Register(reg).Prim
		ib, jb, kb := b.Ib, b.Jb, b.Kb
		ndim := b.NDim()
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E+1; i++ {
					denf := 0.5 * (w.At(IDN, k, j, i-1) + w.At(IDN, k, j, i))
					dTdx := (temp(w, k, j, i) - temp(w, k, j, i-1)) / b.Dx1
					b.Flux[0].Add(IEN, k, j, i, -chi*denf*dTdx)
				}
			}
		}
		if ndim >= 2 {
			for k := kb.S; k <= kb.E; k++ {
				for j := jb.S; j <= jb.E+1; j++ {
					for i := ib.S; i <= ib.E; i++ {
						denf := 0.5 * (w.At(IDN, k, j-1, i) + w.At(IDN, k, j, i))
						dTdy := (temp(w, k, j, i) - temp(w, k, j-1, i)) / b.Dx2
						b.Flux[1].Add(IEN, k, j, i, -chi*denf*dTdy)
					}
				}
			}
		}
		if ndim >= 3 {
			for k := kb.S; k <= kb.E+1; k++ {
				for j := jb.S; j <= jb.E; j++ {
					for i := ib.S; i <= ib.E; i++ {
						denf := 0.5 * (w.At(IDN, k-1, j, i) + w.At(IDN, k, j, i))
						dTdz := (temp(w, k, j, i) - temp(w, k-1, j, i)) / b.Dx3
						b.Flux[2].Add(IEN, k, j, i, -chi*denf*dTdz)
					}
				}
			}
		}
	}
}

// ThermalFluxGeneral handles anisotropic conduction and any temperature
// dependent coefficient. Transverse gradient components at a face are built
// from limited one-sided differences so the flux stays monotone near
// temperature extrema.
func ThermalFluxGeneral(pkg *Package, p *mesh.Partition, reg mesh.RegisterID) {
	td := pkg.Conduction
	aniso := td.Cond == CondAnisotropic
	for _, b := range p.Blocks {
		w := b.Register(reg).Prim
		ib, jb, kb := b.Ib, b.Jb, b.Kb
		ndim := b.NDim()

		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E+1; i++ {
					gx := (temp(w, k, j, i) - temp(w, k, j, i-1)) / b.Dx1
					gy, gz := 0.0, 0.0
					if ndim >= 2 {
						gy = limitedTransverse(w, b.Dx2, k, j, i, 0, 1, 0, 0, 0, 1)
					}
					if ndim >= 3 {
						gz = limitedTransverse(w, b.Dx3, k, j, i, 1, 0, 0, 0, 0, 1)
					}
					addCondFlux(b, td, w, aniso, 0, k, j, i, gx, gy, gz,
						k, j, i-1)
				}
			}
		}
		if ndim >= 2 {
			for k := kb.S; k <= kb.E; k++ {
				for j := jb.S; j <= jb.E+1; j++ {
					for i := ib.S; i <= ib.E; i++ {
						gy := (temp(w, k, j, i) - temp(w, k, j-1, i)) / b.Dx2
						gx := limitedTransverse(w, b.Dx1, k, j, i, 0, 0, 1, 0, 1, 0)
						gz := 0.0
						if ndim >= 3 {
							gz = limitedTransverse(w, b.Dx3, k, j, i, 1, 0, 0, 0, 1, 0)
						}
						addCondFlux(b, td, w, aniso, 1, k, j, i, gx, gy, gz,
							k, j-1, i)
					}
				}
			}
		}
		if ndim >= 3 {
			for k := kb.S; k <= kb.E+1; k++ {
				for j := jb.S; j <= jb.E; j++ {
					for i := ib.S; i <= ib.E; i++ {
						gz := (temp(w, k, j, i) - temp(w, k-1, j, i)) / b.Dx3
						gx := limitedTransverse(w, b.Dx1, k, j, i, 0, 0, 1, 1, 0, 0)
						gy := limitedTransverse(w, b.Dx2, k, j, i, 0, 1, 0, 1, 0, 0)
						addCondFlux(b, td, w, aniso, 2, k, j, i, gx, gy, gz,
							k-1, j, i)
					}
				}
			}
		}
	}
}

func temp(w *mesh.Field, k, j, i int) float64 {
	return w.At(IPR, k, j, i) / w.At(IDN, k, j, i)
}

// limitedTransverse builds the gradient component along the offset direction
// (dk,dj,di) at a face normal to (fk,fj,fi), limiting the four one-sided
// differences that straddle the face. The face-adjacent cell on the low side
// sits at (k-fk, j-fj, i-fi).
func limitedTransverse(w *mesh.Field, dx float64, k, j, i, dk, dj, di,
	fk, fj, fi int) float64 {
	km, jm, im := k-fk, j-fj, i-fi
	fLm := temp(w, km, jm, im) - temp(w, km-dk, jm-dj, im-di)
	fLp := temp(w, km+dk, jm+dj, im+di) - temp(w, km, jm, im)
	fRm := temp(w, k, j, i) - temp(w, k-dk, j-dj, i-di)
	fRp := temp(w, k+dk, j+dj, i+di) - temp(w, k, j, i)
	return Lim4(fLm, fLp, fRm, fRp) / dx
}

// addCondFlux evaluates the diffusivity at the face and subtracts the
// conductive energy flux for direction d. (km,jm,im) is the cell on the low
// side of the face.
func addCondFlux(b *mesh.Block, td ThermalDiffusivity, w *mesh.Field,
	aniso bool, d, k, j, i int, gx, gy, gz float64, km, jm, im int) {
	gradMag := math.Sqrt(gx*gx + gy*gy + gz*gz)
	denf := 0.5 * (w.At(IDN, km, jm, im) + w.At(IDN, k, j, i))
	presf := 0.5 * (w.At(IPR, km, jm, im) + w.At(IPR, k, j, i))
	chi := td.Get(presf, denf, gradMag)

	var gradAlong float64
	if aniso {
		bx := 0.5 * (w.At(IB1, km, jm, im) + w.At(IB1, k, j, i))
		by := 0.5 * (w.At(IB2, km, jm, im) + w.At(IB2, k, j, i))
		bz := 0.5 * (w.At(IB3, km, jm, im) + w.At(IB3, k, j, i))
		bsq := bx*bx + by*by + bz*bz + tinyNumber
		bdotg := bx*gx + by*gy + bz*gz
		switch d {
		case 0:
			gradAlong = bx * bdotg / bsq
		case 1:
			gradAlong = by * bdotg / bsq
		default:
			gradAlong = bz * bdotg / bsq
		}
	} else {
		switch d {
		case 0:
			gradAlong = gx
		case 1:
			gradAlong = gy
		default:
			gradAlong = gz
		}
	}
	b.Flux[d].Add(IEN, k, j, i, -chi*denf*gradAlong)
}

// CalcDiffFluxes accumulates all diffusive fluxes for the partition.
func CalcDiffFluxes(pkg *Package, p *mesh.Partition, reg mesh.RegisterID) {
	if pkg.Conduction.Cond == CondNone {
		return
	}
	if pkg.Conduction.Cond == CondIsotropic && pkg.Conduction.Coeff == CoeffFixed {
		ThermalFluxIsoFixed(pkg, p, reg)
		return
	}
	ThermalFluxGeneral(pkg, p, reg)
}

// EstimateConductionTimestep returns the explicit parabolic timestep limit
// for the partition.
func EstimateConductionTimestep(pkg *Package, p *mesh.Partition) float64 {
	td := pkg.Conduction
	if td.Cond == CondNone {
		return math.MaxFloat64
	}
	dtMin := math.MaxFloat64
	for _, b := range p.Blocks {
		ndim := b.NDim()
		fac := 0.5 / float64(ndim)
		w := b.Prim
		ib, jb, kb := b.Ib, b.Jb, b.Kb
		for k := kb.S; k <= kb.E; k++ {
			for j := jb.S; j <= jb.E; j++ {
				for i := ib.S; i <= ib.E; i++ {
					gradMag := cellGradTMag(b, w, ndim, k, j, i)
					chi := td.Get(w.At(IPR, k, j, i), w.At(IDN, k, j, i), gradMag)
					if chi <= 0 {
						continue
					}
					for d := 0; d < ndim; d++ {
						dx := b.Dx(d)
						if dt := fac * dx * dx / chi; dt < dtMin {
							dtMin = dt
						}
					}
				}
			}
		}
	}
	return dtMin
}

func cellGradTMag(b *mesh.Block, w *mesh.Field, ndim, k, j, i int) float64 {
	gx := (temp(w, k, j, i+1) - temp(w, k, j, i-1)) / (2 * b.Dx1)
	g := gx * gx
	if ndim >= 2 {
		gy := (temp(w, k, j+1, i) - temp(w, k, j-1, i)) / (2 * b.Dx2)
		g += gy * gy
	}
	if ndim >= 3 {
		gz := (temp(w, k+1, j, i) - temp(w, k-1, j, i)) / (2 * b.Dx3)
		g += gz * gz
	}
	return math.Sqrt(g)
}
