package model

import (
	"math"

	"github.com/youwol/arch/geometry"
)

// Remote is a far-field stress source. Several remotes on a model sum
// linearly. Remote strain is not supported.
type Remote interface {
	StressAt(x, y, z float64) geometry.Sym
}

// UniformRemote is a spatially constant stress state.
type UniformRemote struct {
	S geometry.Sym
}

func (r UniformRemote) StressAt(x, y, z float64) geometry.Sym { return r.S }

// FunctionRemote evaluates a user callback returning the symmetric tensor
// [xx, xy, xz, yy, yz, zz].
type FunctionRemote struct {
	Fn func(x, y, z float64) [6]float64
}

func (r FunctionRemote) StressAt(x, y, z float64) geometry.Sym {
	return geometry.Sym(r.Fn(x, y, z))
}

// AndersonianRemote is a principal-stress regime with a vertical principal
// axis: Sv = rho*g*z (z negative downward, so Sv is compressive below the
// free surface in the engineer convention), SH = RH*Sv and Sh = Rh*Sv
// horizontal, with SH at Theta radians counterclockwise from the x axis.
type AndersonianRemote struct {
	RH, Rh float64 // SH/Sv and Sh/Sv ratios
	Theta  float64 // azimuth of SH from the x axis
	Rho    float64 // overburden density
	G      float64 // gravity magnitude
}

func (r AndersonianRemote) StressAt(x, y, z float64) geometry.Sym {
	var (
		sv       = r.Rho * r.G * z
		sH       = r.RH * sv
		sh       = r.Rh * sv
		cs, sn   = math.Cos(r.Theta), math.Sin(r.Theta)
		sxx      = sH*cs*cs + sh*sn*sn
		syy      = sH*sn*sn + sh*cs*cs
		sxy      = (sH - sh) * sn * cs
	)
	return geometry.Sym{sxx, sxy, 0, syy, 0, sv}
}
