package model

import "fmt"

// BurgerFilter remaps Burgers vector components between local-frame
// conventions: a permutation of the (normal, strike, dip) axes composed with
// per-axis sign flips. The default is the Okada convention (identity).
type BurgerFilter struct {
	order  [3]int
	revert [3]bool
}

func NewBurgerFilter() *BurgerFilter {
	f := &BurgerFilter{}
	f.SetupOkada()
	return f
}

// SetAxisOrder sets the output axis permutation by name; out component k is
// taken from the input axis named names[k].
func (f *BurgerFilter) SetAxisOrder(names [3]string) (err error) {
	var order [3]int
	seen := [3]bool{}
	for k, name := range names {
		if order[k], err = ParseAxis(name); err != nil {
			return
		}
		if seen[order[k]] {
			return fmt.Errorf("burger filter: axis %q repeated", name)
		}
		seen[order[k]] = true
	}
	f.order = order
	return
}

// SetAxisRevert sets the per-output-component sign flips.
func (f *BurgerFilter) SetAxisRevert(revert [3]bool) {
	f.revert = revert
}

// SetupOkada restores the identity mapping (normal, strike, dip), no flips.
func (f *BurgerFilter) SetupOkada() {
	f.order = [3]int{0, 1, 2}
	f.revert = [3]bool{}
}

// SetupPoly3D maps to the Poly3D convention: (dip, strike, normal) with the
// dip component negated.
func (f *BurgerFilter) SetupPoly3D() {
	f.order = [3]int{2, 1, 0}
	f.revert = [3]bool{true, false, false}
}

// Apply permutes and negates every consecutive 3-tuple in place. The array
// length must be divisible by 3.
func (f *BurgerFilter) Apply(v []float64) error {
	if len(v)%3 != 0 {
		return fmt.Errorf("burger filter: array length %d not divisible by 3", len(v))
	}
	for i := 0; i < len(v); i += 3 {
		var out [3]float64
		for k := 0; k < 3; k++ {
			out[k] = v[i+f.order[k]]
			if f.revert[k] {
				out[k] = -out[k]
			}
		}
		v[i], v[i+1], v[i+2] = out[0], out[1], out[2]
	}
	return nil
}
