package model

import (
	"math"

	"github.com/youwol/arch/geometry"
)

// Projection is the per-element state handed to constraint hooks after each
// local block solve. B is the candidate Burgers vector from the
// unconstrained solve; T is the trial total traction (remote plus induced)
// the element would carry if it kept its previous Burgers vector BPrev. All
// vectors are in the element local frame (normal, strike, dip), tractions
// tension-positive on the outward normal.
//
// RHS, Off, TRem, Diag and BCTypes describe the element's current block
// equation Diag*b = RHS - Off; the traction setters re-solve it with
// modified traction targets so mixed boundary conditions stay satisfied.
type Projection struct {
	Index   int
	Tri     *geometry.Triangle
	B       geometry.Vec3
	T       geometry.Vec3
	BPrev   geometry.Vec3
	DiagInv geometry.Mat3

	RHS     geometry.Vec3
	Off     geometry.Vec3
	TRem    geometry.Vec3
	BCTypes [3]BCType
}

// resolve re-solves the block with per-axis traction targets; axes with a
// false mask keep their original right-hand side.
func (p *Projection) resolve(tNew geometry.Vec3, mask [3]bool) {
	rhs := p.RHS
	for a := 0; a < 3; a++ {
		if mask[a] && p.BCTypes[a] == BCTraction {
			rhs[a] = tNew[a] - p.TRem[a]
		}
	}
	p.B = p.DiagInv.MulVec(rhs.Sub(p.Off))
	p.T = tNew
}

// SetTraction imposes a full traction target on every traction-type axis.
func (p *Projection) SetTraction(tNew geometry.Vec3) {
	p.resolve(tNew, [3]bool{true, true, true})
}

// SetTangentialTraction imposes strike and dip traction targets, leaving
// the normal axis condition untouched.
func (p *Projection) SetTangentialTraction(ts, td float64) {
	p.resolve(geometry.Vec3{p.T[0], ts, td}, [3]bool{false, true, true})
}

// Constraint projects the candidate state of one element onto an admissible
// set. Hooks on a surface compose in registration order.
type Constraint interface {
	Project(p *Projection)
}

// Coulomb enforces the friction inequality |tau| <= max(0, -sigma_n*Mu + C)
// with tension-positive normal stress. Sticking elements keep their
// previous tangential Burgers components; sliding elements have the
// tangential traction pulled back onto the cone and the Burgers vector
// re-solved through the diagonal block. Linear replaces the cone by a
// 4-facet pyramid.
type Coulomb struct {
	Mu       float64 // friction coefficient
	Cohesion float64
	Linear   bool
}

func (c Coulomb) Project(p *Projection) {
	var (
		sn     = p.T[0]
		ts, td = p.T[1], p.T[2]
		tauMax = math.Max(0, -sn*c.Mu+c.Cohesion)
	)
	if c.Linear {
		out := ts
		if math.Abs(out) > tauMax {
			out = math.Copysign(tauMax, ts)
		}
		outD := td
		if math.Abs(outD) > tauMax {
			outD = math.Copysign(tauMax, td)
		}
		if out != ts || outD != td {
			p.SetTangentialTraction(out, outD)
		} else {
			p.B[1], p.B[2] = p.BPrev[1], p.BPrev[2]
		}
		return
	}
	tau := math.Hypot(ts, td)
	if tau <= tauMax {
		// Stick
		p.B[1], p.B[2] = p.BPrev[1], p.BPrev[2]
		return
	}
	// Slide: pull the tangential traction back onto the cone
	scale := tauMax / tau
	p.SetTangentialTraction(ts*scale, td*scale)
}

// MinDispl clamps one local Burgers component from below.
type MinDispl struct {
	Axis  int
	Value float64
}

func (c MinDispl) Project(p *Projection) {
	if p.B[c.Axis] < c.Value {
		p.B[c.Axis] = c.Value
	}
}

// UserTic hands the trial traction to a user callback and re-solves the
// element so its traction-type axes match the returned value.
type UserTic struct {
	Fn func(t geometry.Vec3, elem int, pos geometry.Vec3) geometry.Vec3
}

func (c UserTic) Project(p *Projection) {
	tNew := c.Fn(p.T, p.Index, p.Tri.Center)
	if tNew != p.T {
		p.SetTraction(tNew)
	}
}

// UserDic hands the candidate Burgers vector to a user callback.
type UserDic struct {
	Fn func(b geometry.Vec3, elem int, pos geometry.Vec3) geometry.Vec3
}

func (c UserDic) Project(p *Projection) {
	p.B = c.Fn(p.B, p.Index, p.Tri.Center)
}
