package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputParameters(t *testing.T) {
	var (
		ip SimParameters
	)
	data := []byte(`
Title: MHD blast waves
CFL: 0.3
Gamma: 1.6666666666667
Fluid: glmmhd
RiemannFlux: hlle
FinalTime: 2.5
Conduction: anisotropic
ConductionCoeff: spitzer
Kappa: 0.01
DiffInt: rkl2
Mesh:
  Nx: [16, 16, 16]
  NBlocks: [2, 2, 2]
  XMin: [-0.5, -0.5, -0.5]
  XMax: [0.5, 0.5, 0.5]
Problem:
  name: rand_blast
  blast:
    background:
      rho: 1
      pres: 0.3
      b1: 0.1
    radius: 0.1
    e_blast: 1
    interval: 0.5
    seed: 11
    xmin: [-0.5, -0.5, -0.5]
    xmax: [0.5, 0.5, 0.5]
`)
	// [Full deck]: every section lands in the right field
	err := ip.Parse(data)
	assert.NoError(t, err)
	ip.Print()
	assert.Equal(t, "MHD blast waves", ip.Title)
	assert.Equal(t, 0.3, ip.CFL)
	assert.Equal(t, "glmmhd", ip.Fluid)
	assert.Equal(t, "rkl2", ip.DiffInt)
	assert.Equal(t, "spitzer", ip.ConductionCoeff)
	assert.Equal(t, [3]int{16, 16, 16}, ip.Mesh.Nx)
	assert.Equal(t, [3]int{2, 2, 2}, ip.Mesh.NBlocks)
	assert.Equal(t, "rand_blast", ip.Problem.Name)
	assert.Equal(t, 0.3, ip.Problem.Blast.Background.Pres)
	assert.Equal(t, int64(11), ip.Problem.Blast.Seed)

	// [Defaults]: omitted keys fall back
	assert.Equal(t, "periodic", ip.Mesh.Boundary)
	assert.Equal(t, 2, ip.Mesh.NGhost)
	assert.Equal(t, -1, ip.MaxCycles)

	// [Minimal deck]: fluid and flux get defaults too
	var ip2 SimParameters
	err = ip2.Parse([]byte("Title: tiny\nCFL: 0.4\nGamma: 1.4\n"))
	assert.NoError(t, err)
	assert.Equal(t, "euler", ip2.Fluid)
	assert.Equal(t, "hlle", ip2.RiemannFlux)

	// [Bad deck]: malformed yaml is reported
	var ip3 SimParameters
	err = ip3.Parse([]byte("Title: [unclosed"))
	assert.Error(t, err)
}
