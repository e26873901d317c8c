package accurate

import "math/big"

// exactSum computes the correctly-rounded (round-to-nearest-even) sum
// of x using exact rational arithmetic as the reference oracle.
// math/big.Rat addition never rounds, so the only rounding in this
// computation is the single, final Float64 conversion: exactly the
// "compute in infinite precision, round once" definition the
// correctness tests check against. Grounded on other_examples'
// accsum/sum packages' use of math/big as an arbitrary-precision
// reference; those bin by exponent first, but big.Rat's exact
// arithmetic makes that unnecessary here.
func exactSum(x []float64) float64 {
	acc := new(big.Rat)
	term := new(big.Rat)
	for _, v := range x {
		term.SetFloat64(v)
		acc.Add(acc, term)
	}
	f, _ := acc.Float64()
	return f
}

// exactDot computes the correctly-rounded inner product of x and y
// using exact rational arithmetic, for the same reason as exactSum.
func exactDot(x, y []float64) float64 {
	acc := new(big.Rat)
	xr, yr, term := new(big.Rat), new(big.Rat), new(big.Rat)
	for i := range x {
		xr.SetFloat64(x[i])
		yr.SetFloat64(y[i])
		term.Mul(xr, yr)
		acc.Add(acc, term)
	}
	f, _ := acc.Float64()
	return f
}
