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
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/youwol/arch/InputParameters"
	"github.com/youwol/arch/geometry"
	"github.com/youwol/arch/model"
	"github.com/youwol/arch/readfiles"
	"github.com/youwol/arch/solution"
	"github.com/youwol/arch/solver"
)

type consoleObserver struct {
	solver.NullObserver
	verbose bool
}

func (o consoleObserver) OnProgress(iteration int, residual float64, phase int) {
	if !o.verbose {
		return
	}
	if phase == solver.PhaseBuild {
		fmt.Printf("assembling influence operator\n")
		return
	}
	fmt.Printf("iteration %4d  residual %12.5e\n", iteration, residual)
}

func (o consoleObserver) OnWarning(msg string) { fmt.Printf("warning: %s\n", msg) }
func (o consoleObserver) OnError(err error)    { fmt.Printf("error: %s\n", err) }

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a model: mesh plus a YAML parameter deck, Burgers vectors out",
	Long: `Solve reads a triangulated surface in .tri format and a YAML parameter
deck, resolves the Burgers vector on every element and writes the result as
one "bn bs bd" line per element.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		meshFile, _ := cmd.Flags().GetString("meshFile")
		paramFile, _ := cmd.Flags().GetString("paramFile")
		verbose, _ := cmd.Flags().GetBool("verbose")
		prof, _ := cmd.Flags().GetBool("profile")
		if prof {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		ip := processSolveInput(meshFile, paramFile)
		if verbose {
			ip.Print()
		}

		var vertices []float64
		var indices []int
		if vertices, indices, err = readfiles.ReadTriMesh(meshFile); err != nil {
			fmt.Printf("error: %s\n", err)
			os.Exit(1)
		}
		if err = runSolve(ip, vertices, indices, verbose); err != nil {
			fmt.Printf("error: %s\n", err)
			os.Exit(1)
		}
	},
}

func processSolveInput(meshFile, paramFile string) (ip *InputParameters.InputParameters) {
	var (
		willExit bool
	)
	if len(meshFile) == 0 {
		fmt.Printf("error: must supply a mesh file (-F, --meshFile) in .tri format\n")
		willExit = true
	}
	if len(paramFile) == 0 {
		fmt.Printf("error: must supply a parameter file (-I, --paramFile) in YAML format\n")
		exampleFile := `
########################################
Title: "Penny crack"
Nu: 0.25
Young: 1.
HalfSpace: false
Remote: [0, 0, 0, 0, 0, -1]
BCs:
  normal: {free: 0}
  strike: {free: 0}
  dip: {free: 0}
Solver: seidel
Eps: 1.e-9
MaxIterations: 200
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		willExit = true
	}
	if willExit {
		os.Exit(1)
	}
	data, err := os.ReadFile(paramFile)
	if err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	return
}

func runSolve(ip *InputParameters.InputParameters, vertices []float64, indices []int, verbose bool) (err error) {
	var (
		sf *model.Surface
	)
	if sf, err = model.NewSurface(vertices, indices); err != nil {
		return
	}
	for axis, bc := range ip.BCs {
		for bcType, value := range bc {
			if err = sf.SetBC(axis, bcType, model.BCValue{Value: value}); err != nil {
				return
			}
		}
	}
	mdl := model.New(model.Material{Nu: ip.Nu, E: ip.Young, Rho: ip.Rho})
	mdl.HalfSpace = ip.HalfSpace
	mdl.AddSurface(sf)
	if ip.Remote != [6]float64{} {
		mdl.AddRemote(model.UniformRemote{S: geometry.Sym(ip.Remote)})
	}
	if ip.Andersonian {
		mdl.AddRemote(model.AndersonianRemote{
			RH: ip.RH, Rh: ip.Rh, Theta: ip.Theta, Rho: ip.Rho, G: ip.Gravity,
		})
	}

	opts := solver.NewOptions()
	if ip.Solver != "" {
		opts.Name = ip.Solver
	}
	if ip.Eps != 0 {
		opts.Eps = ip.Eps
	}
	if ip.MaxIterations != 0 {
		opts.MaxIter = ip.MaxIterations
	}
	if ip.Cores != 0 {
		opts.Cores = ip.Cores
	}
	if ip.AutoReleaseMemory != nil {
		opts.AutoReleaseMemory = *ip.AutoReleaseMemory
	}

	s := solver.New(mdl, opts, consoleObserver{verbose: verbose})
	var status solver.Status
	if status, err = s.Run(); err != nil {
		return
	}
	if verbose {
		fmt.Printf("solver finished: %s\n", status)
	}

	var sol *solution.Solution
	if sol, err = solution.New(mdl, s.Burgers(), opts.Cores, opts.DeltaFraction); err != nil {
		return
	}
	for _, surfVals := range sol.Burgers(true, true) {
		for i := 0; i+2 < len(surfVals); i += 3 {
			fmt.Printf("%15.8e %15.8e %15.8e\n", surfVals[i], surfVals[i+1], surfVals[i+2])
		}
	}
	if verbose {
		fmt.Printf("seismic moment: %12.5e\n", sol.SeismicMoment())
	}
	return
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringP("meshFile", "F", "", "Mesh file to read in .tri format")
	solveCmd.Flags().StringP("paramFile", "I", "", "YAML file for input parameters")
	solveCmd.Flags().BoolP("verbose", "v", false, "print progress and diagnostics")
	solveCmd.Flags().Bool("profile", false, "write a CPU profile in the current directory")
}
