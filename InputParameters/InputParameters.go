package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/gomhd/pgen"
)

// Parameters obtained from the YAML input file
type SimParameters struct {
	Title       string  `json:"Title"`
	CFL         float64 `json:"CFL"`
	Gamma       float64 `json:"Gamma"`
	Fluid       string  `json:"Fluid"`
	RiemannFlux string  `json:"RiemannFlux"`
	FinalTime   float64 `json:"FinalTime"`
	MaxCycles   int     `json:"MaxCycles"`

	DensityFloor  float64 `json:"DensityFloor"`
	PressureFloor float64 `json:"PressureFloor"`

	Conduction      string  `json:"Conduction"`
	ConductionCoeff string  `json:"ConductionCoeff"`
	Kappa           float64 `json:"Kappa"`
	DiffInt         string  `json:"DiffInt"`

	Mesh    MeshParameters `json:"Mesh"`
	Problem pgen.Params    `json:"Problem"`
}

type MeshParameters struct {
	Nx       [3]int     `json:"Nx"`
	NBlocks  [3]int     `json:"NBlocks"`
	NGhost   int        `json:"NGhost"`
	XMin     [3]float64 `json:"XMin"`
	XMax     [3]float64 `json:"XMax"`
	Boundary string     `json:"Boundary"`
	NPart    int        `json:"NPart"`
	Adaptive bool       `json:"Adaptive"`
}

func (sp *SimParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, sp); err != nil {
		return err
	}
	if sp.Fluid == "" {
		sp.Fluid = "euler"
	}
	if sp.RiemannFlux == "" {
		sp.RiemannFlux = "hlle"
	}
	if sp.MaxCycles == 0 {
		sp.MaxCycles = -1
	}
	if sp.Mesh.NGhost == 0 {
		sp.Mesh.NGhost = 2
	}
	if sp.Mesh.Boundary == "" {
		sp.Mesh.Boundary = "periodic"
	}
	return nil
}

func (sp *SimParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", sp.Title)
	fmt.Printf("%8.5f\t\t= CFL\n", sp.CFL)
	fmt.Printf("%8.5f\t\t= Gamma\n", sp.Gamma)
	fmt.Printf("%8.5f\t\t= FinalTime\n", sp.FinalTime)
	fmt.Printf("[%s]\t\t\t= Fluid\n", sp.Fluid)
	fmt.Printf("[%s]\t\t\t= Riemann Flux\n", sp.RiemannFlux)
	fmt.Printf("[%s]\t\t= Problem\n", sp.Problem.Name)
	fmt.Printf("%v\t= Blocks\n", sp.Mesh.NBlocks)
	fmt.Printf("%v\t= Cells per block\n", sp.Mesh.Nx)
	if sp.Conduction != "" && sp.Conduction != "none" {
		fmt.Printf("[%s/%s] kappa = %v\t= Conduction\n",
			sp.Conduction, sp.ConductionCoeff, sp.Kappa)
	}
}
