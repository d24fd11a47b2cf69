//go:build linux
// +build linux

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
	"time"

	perf "github.com/hodgesds/perf-utils"
	"github.com/spf13/cobra"

	"github.com/youwol/arch/geometry"
	"github.com/youwol/arch/model"
	"github.com/youwol/arch/solver"
)

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Assemble and solve a generated disk model, report timings and hardware counters",
	Run: func(cmd *cobra.Command, args []string) {
		n, _ := cmd.Flags().GetInt("elements")
		cores, _ := cmd.Flags().GetInt("cores")
		runBench(n, cores)
	},
}

func runBench(nTarget, cores int) {
	vertices, indices := geometry.NewDiskMesh(geometry.Vec3{}, 1, nTarget)
	sf, err := model.NewSurface(vertices, indices)
	if err != nil {
		panic(err)
	}
	if err = sf.SetBC("normal", "free", model.BCValue{}); err != nil {
		panic(err)
	}
	mdl := model.New(model.Material{Nu: 0.25, E: 1})
	mdl.AddSurface(sf)
	mdl.AddRemote(model.UniformRemote{S: geometry.Sym{0, 0, 0, 0, 0, -1}})

	opts := solver.NewOptions()
	opts.Cores = cores

	run := func() error {
		s := solver.New(mdl, opts, nil)
		mdl.SetDirty()
		_, runErr := s.Run()
		return runErr
	}

	start := time.Now()
	pv, err := perf.CPUInstructions(run)
	elapsed := time.Since(start)
	fmt.Printf("%d elements, %d cores: %v\n", len(sf.Tris), cores, elapsed)
	if err != nil {
		fmt.Printf("hardware counters unavailable: %s\n", err)
		return
	}
	fmt.Printf("cpu instructions: %d\n", pv.Value)
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().IntP("elements", "n", 500, "approximate element count of the generated disk")
	benchCmd.Flags().IntP("cores", "c", 1, "worker pool size")
}
