/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/hydro"
	"github.com/notargets/gomhd/mesh"
	"github.com/notargets/gomhd/pgen"
)

type RunConfig struct {
	InputFile string
	Verbose   bool
	Profile   bool
	MaxCycles int
	FinalTime float64
}

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from a YAML input deck",
	Long: `
Reads the input deck, builds the mesh and solver, applies the problem
generator and integrates to the final time,

gomhd run -i input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		rc := &RunConfig{}
		rc.InputFile, _ = cmd.Flags().GetString("input")
		rc.Verbose, _ = cmd.Flags().GetBool("verbose")
		rc.Profile, _ = cmd.Flags().GetBool("profile")
		rc.MaxCycles, _ = cmd.Flags().GetInt("maxCycles")
		rc.FinalTime, _ = cmd.Flags().GetFloat64("finalTime")
		if err := Run(rc); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("input", "i", "input.yaml", "YAML input deck")
	RunCmd.Flags().BoolP("verbose", "v", false, "log every cycle")
	RunCmd.Flags().Bool("profile", false, "write a CPU profile")
	RunCmd.Flags().Int("maxCycles", 0, "override the deck's cycle limit")
	RunCmd.Flags().Float64("finalTime", 0, "override the deck's final time")
}

func Run(rc *RunConfig) error {
	if rc.Profile {
		defer profile.Start(profile.CPUProfile).Stop()
	}
	data, err := ioutil.ReadFile(rc.InputFile)
	if err != nil {
		return err
	}
	var sp InputParameters.SimParameters
	if err = sp.Parse(data); err != nil {
		return fmt.Errorf("unable to parse input deck [%s]: %w", rc.InputFile, err)
	}
	sp.Print()
	if rc.MaxCycles != 0 {
		sp.MaxCycles = rc.MaxCycles
	}
	if rc.FinalTime != 0 {
		sp.FinalTime = rc.FinalTime
	}

	level := zerolog.InfoLevel
	if rc.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	d, err := Setup(&sp, log)
	if err != nil {
		return err
	}
	if err = d.Initialize(); err != nil {
		return err
	}
	return d.Execute()
}

// Setup builds the mesh, solver package and driver from parsed parameters.
// Split out from Run so tests can drive complete simulations without a file.
func Setup(sp *InputParameters.SimParameters, log zerolog.Logger) (*hydro.Driver, error) {
	bt, err := mesh.NewBoundaryType(sp.Mesh.Boundary)
	if err != nil {
		return nil, err
	}
	pkg, err := hydro.NewPackage(hydro.PackageOptions{
		Fluid:         sp.Fluid,
		Riemann:       sp.RiemannFlux,
		Gamma:         sp.Gamma,
		DensityFloor:  sp.DensityFloor,
		PressureFloor: sp.PressureFloor,
		CFL:           sp.CFL,
		Conduction:    sp.Conduction,
		CondCoeff:     sp.ConductionCoeff,
		CondKappa:     sp.Kappa,
		DiffInt:       sp.DiffInt,
	})
	if err != nil {
		return nil, err
	}
	m, err := mesh.NewMesh(mesh.Options{
		Nvar:     pkg.EOS.NVars(),
		Nx:       sp.Mesh.Nx,
		NBlocks:  sp.Mesh.NBlocks,
		NGhost:   sp.Mesh.NGhost,
		XMin:     sp.Mesh.XMin,
		XMax:     sp.Mesh.XMax,
		Boundary: bt,
		NPart:    sp.Mesh.NPart,
		Adaptive: sp.Mesh.Adaptive,
	})
	if err != nil {
		return nil, err
	}
	if err = pgen.Setup(m, pkg, &sp.Problem); err != nil {
		return nil, err
	}
	return hydro.NewDriver(m, pkg, sp.FinalTime, sp.MaxCycles, log), nil
}
