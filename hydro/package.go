package hydro

import (
	"fmt"

	"github.com/notargets/gomhd/mesh"
)

type DiffIntegrator uint8

const (
	DiffIntUnsplit DiffIntegrator = iota
	DiffIntRKL2
)

var diffIntNames = map[string]DiffIntegrator{
	"unsplit": DiffIntUnsplit,
	"rkl2":    DiffIntRKL2,
}

func NewDiffIntegrator(label string) (DiffIntegrator, error) {
	d, ok := diffIntNames[label]
	if !ok {
		return DiffIntUnsplit, fmt.Errorf("unknown diffusion integrator [%s]", label)
	}
	return d, nil
}

// TimestepHook lets a problem generator impose its own timestep limit.
type TimestepHook func(pkg *Package, p *mesh.Partition) (float64, error)

// Package bundles the solver configuration chosen at startup. All fields
// are set once by NewPackage and treated as read-only afterwards, with the
// per-cycle mutable state isolated in State.
type Package struct {
	Fluid      Fluid
	EOS        EOS
	Riemann    RiemannSolver
	Conduction ThermalDiffusivity
	DiffInt    DiffIntegrator
	CFL        float64

	UnsplitSources         []SourceFunc
	SplitSourcesStrang     []SourceFunc
	SplitSourcesFirstOrder []SourceFunc
	EstimateTimestepHook   TimestepHook

	State *StepState
}

// PackageOptions collects the user facing solver knobs.
type PackageOptions struct {
	Fluid         string
	Riemann       string
	Gamma         float64
	DensityFloor  float64
	PressureFloor float64
	CFL           float64
	Conduction    string
	CondCoeff     string
	CondKappa     float64
	DiffInt       string
}

func NewPackage(opts PackageOptions) (*Package, error) {
	fluid, err := NewFluid(opts.Fluid)
	if err != nil {
		return nil, err
	}
	if opts.Gamma <= 1 {
		return nil, fmt.Errorf("adiabatic index must exceed 1, got %g", opts.Gamma)
	}
	if opts.CFL <= 0 || opts.CFL > 1 {
		return nil, fmt.Errorf("cfl number must be in (0,1], got %g", opts.CFL)
	}
	var eos EOS
	switch fluid {
	case FluidEuler:
		eos = NewAdiabaticHydroEOS(opts.Gamma, opts.DensityFloor, opts.PressureFloor)
	case FluidGLMMHD:
		eos = NewAdiabaticGLMMHDEOS(opts.Gamma, opts.DensityFloor, opts.PressureFloor)
	}
	riemann, err := NewRiemannSolver(opts.Riemann, fluid)
	if err != nil {
		return nil, err
	}
	condLabel := opts.Conduction
	if condLabel == "" {
		condLabel = "none"
	}
	cond, err := NewConductionType(condLabel)
	if err != nil {
		return nil, err
	}
	coeffLabel := opts.CondCoeff
	if coeffLabel == "" {
		coeffLabel = "fixed"
	}
	coeff, err := NewConductionCoeffType(coeffLabel)
	if err != nil {
		return nil, err
	}
	td, err := NewThermalDiffusivity(cond, coeff, opts.CondKappa)
	if err != nil {
		return nil, err
	}
	diffLabel := opts.DiffInt
	if diffLabel == "" {
		diffLabel = "unsplit"
	}
	diffInt, err := NewDiffIntegrator(diffLabel)
	if err != nil {
		return nil, err
	}
	if diffInt == DiffIntRKL2 && cond == CondNone {
		return nil, fmt.Errorf("rkl2 integrator configured without any diffusive process")
	}

	pkg := &Package{
		Fluid:      fluid,
		EOS:        eos,
		Riemann:    riemann,
		Conduction: td,
		DiffInt:    diffInt,
		CFL:        opts.CFL,
		State:      &StepState{},
	}
	pkg.State.ResetDt()
	return pkg, nil
}

// HasDiffusion reports whether any diffusive process is active.
func (pkg *Package) HasDiffusion() bool {
	return pkg.Conduction.Cond != CondNone
}
