package hydro

import (
	"fmt"
	"strings"
)

// Conserved variable indices. The primitive array shares the layout with
// velocity in place of momentum and pressure in place of total energy.
const (
	IDN = 0
	IM1 = 1
	IM2 = 2
	IM3 = 3
	IEN = 4
	IB1 = 5
	IB2 = 6
	IB3 = 7
	IPS = 8 // divergence cleaning scalar
)

// Primitive aliases.
const (
	IV1 = 1
	IV2 = 2
	IV3 = 3
	IPR = 4
)

const (
	NHydro  = 5
	NGLMMHD = 9
)

// Small positive guard against division by zero in degenerate states
// (zero field magnitude, zero gradient magnitude).
const tinyNumber = 1.0e-20

type Fluid uint8

const (
	FluidEuler Fluid = iota
	FluidGLMMHD
)

var fluidNames = map[string]Fluid{
	"euler":  FluidEuler,
	"glmmhd": FluidGLMMHD,
}

func NewFluid(label string) (Fluid, error) {
	f, ok := fluidNames[strings.ToLower(label)]
	if !ok {
		return 0, fmt.Errorf("unknown fluid %q (want euler or glmmhd)", label)
	}
	return f, nil
}

func (f Fluid) NVars() int {
	if f == FluidGLMMHD {
		return NGLMMHD
	}
	return NHydro
}

func (f Fluid) String() string {
	if f == FluidGLMMHD {
		return "glmmhd"
	}
	return "euler"
}
