package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title     string  `yaml:"Title"`
	Nu        float64 `yaml:"Nu"`
	Young     float64 `yaml:"Young"`
	Rho       float64 `yaml:"Rho"`
	HalfSpace bool    `yaml:"HalfSpace"`

	// Remote stress [xx, xy, xz, yy, yz, zz], summed with any Andersonian
	// regime when Andersonian is set
	Remote      [6]float64 `yaml:"Remote"`
	Andersonian bool       `yaml:"Andersonian"`
	RH          float64    `yaml:"RH"`
	Rh          float64    `yaml:"Rh"`
	Theta       float64    `yaml:"Theta"`
	Gravity     float64    `yaml:"Gravity"`

	// Boundary conditions per axis name (normal, strike, dip): type and value
	BCs map[string]map[string]float64 `yaml:"BCs"`

	Solver            string  `yaml:"Solver"`
	Eps               float64 `yaml:"Eps"`
	MaxIterations     int     `yaml:"MaxIterations"`
	Cores             int     `yaml:"Cores"`
	AutoReleaseMemory *bool   `yaml:"AutoReleaseMemory"`
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= Nu\n", ip.Nu)
	fmt.Printf("%8.5g\t\t= Young\n", ip.Young)
	fmt.Printf("[%v]\t\t= HalfSpace\n", ip.HalfSpace)
	fmt.Printf("[%s]\t\t\t= Solver\n", ip.Solver)
	fmt.Printf("%8.2e\t\t= Eps\n", ip.Eps)
	fmt.Printf("[%d]\t\t\t\t= MaxIterations\n", ip.MaxIterations)
	fmt.Printf("Remote = %v\n", ip.Remote)
	keys := make([]string, 0, len(ip.BCs))
	for k := range ip.BCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
