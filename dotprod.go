// ═══════════════════════════════════════════════════════════════════════════
// DOTPROD - Correctly-Rounded Inner Product Accumulator
// ───────────────────────────────────────────────────────────────────────────
//
// DEPOSIT STRATEGY:
// ────────────────
// Each product xᵢ·yᵢ is split into head and tail via FMA:
//   hi = xᵢ·yᵢ
//   lo = fma(xᵢ, yᵢ, -hi)     # exact error of the rounded product
//
// hi is deposited at bin pos+U with its FastTwoSum error routed 2 bins
// down (Δ=2, not Δ=U). lo is deposited 3 bins below hi (pos+U-3), its
// own error routed a further 2 bins down (pos+U-5). The larger
// underflow region (U=5, vs. U=2 for Sum) exists to give lo's lower
// landing zone room.
// ═══════════════════════════════════════════════════════════════════════════

package accurate

import (
	"math"

	"github.com/siko1056/accurate-algorithms/internal/bucket"
)

// underflowDotProd is U for the DotProd variant.
const underflowDotProd = 5

// DotProd deposits the head and tail of each FMA-split product into
// its column, i.e. twice the per-column deposit rate of Sum for the
// same element count, so its tidy-up budgets use the bucket engine's
// base units unscaled.
const (
	reserveOverflowDP = bucket.ReserveOverflowUnit
	reserveDP         = bucket.ReserveUnit
)

// DotProd is a fixed-memory, correctly-rounded accumulator for the
// inner product of two float64 slices of equal length. The zero value
// is not usable; construct with NewDotProd. Not safe for concurrent
// use by multiple goroutines (each caller needs its own instance).
type DotProd struct {
	e *bucket.Engine
}

// NewDotProd constructs a DotProd accumulator. Bin memory is allocated
// once here and reused for the instance's lifetime.
func NewDotProd() *DotProd {
	return &DotProd{e: bucket.New(underflowDotProd)}
}

// Close releases the accumulator's bin memory. The instance must not
// be used afterwards.
func (d *DotProd) Close() {
	d.e = nil
}

// split returns the FMA head/tail decomposition of x*y: hi is the
// rounded product, lo is its exact rounding error (hi+lo == x*y
// exactly, to full 106-bit precision).
func split(x, y float64) (hi, lo float64) {
	hi = x * y
	lo = math.FMA(x, y, -hi)
	return
}

// DotProd returns the correctly-rounded (round-to-nearest-even) inner
// product Σ x[i]*y[i], identical to the last ULP to computing in
// infinite precision and rounding once, for any condition number,
// provided no partial sum leaves the representable range of a
// float64. x and y must have equal length. Leaves the accumulator
// reset, so the same instance may be reused immediately.
func (d *DotProd) DotProd(x, y []float64) float64 {
	n := len(x)
	switch {
	case n < 1:
		return 0.0
	case n == 1:
		return x[0] * y[0]
	}

	e := d.e
	a1, a2 := e.A1(), e.A2()
	const u = underflowDotProd

	off := 0
	if n&1 == 1 {
		hi, lo := split(x[0], y[0])
		pos := bucket.BinOf(bucket.Exponent(hi))

		k := pos + u
		t := a1[k] + hi
		a1[k-2] += (a1[k] - t) + hi
		a1[k] = t

		k2 := pos + u - 3
		t2 := a1[k2] + lo
		a1[k2-2] += (a1[k2] - t2) + lo
		a1[k2] = t2

		off = 1
		n--
	}

	side := 0.0
	ovCounter := 1

	hi1, lo1 := split(x[off], y[off])
	hi2, lo2 := split(x[off+1], y[off+1])
	pos1 := bucket.BinOf(bucket.Exponent(hi1))
	pos2 := bucket.BinOf(bucket.Exponent(hi2))

	for {
		limit := n - 2
		if limit > reserveOverflowDP {
			limit = reserveOverflowDP
		}

		for i := 0; i < limit; i += 2 {
			k1, k2 := pos1+u, pos2+u
			t1hi := a1[k1] + hi1
			t1lo := a1[k1-3] + lo1
			t2hi := a2[k2] + hi2
			t2lo := a2[k2-3] + lo2

			hi1New, lo1New := split(x[off+i+2], y[off+i+2])
			hi2New, lo2New := split(x[off+i+3], y[off+i+3])
			pos1New := bucket.BinOf(bucket.Exponent(hi1New))
			pos2New := bucket.BinOf(bucket.Exponent(hi2New))

			a1[k1-2] += (a1[k1] - t1hi) + hi1
			a1[k1-5] += (a1[k1-3] - t1lo) + lo1
			a2[k2-2] += (a2[k2] - t2hi) + hi2
			a2[k2-5] += (a2[k2-3] - t2lo) + lo2

			a1[k1] = t1hi
			a1[k1-3] = t1lo
			a2[k2] = t2hi
			a2[k2-3] = t2lo

			hi1, lo1, hi2, lo2 = hi1New, lo1New, hi2New, lo2New
			pos1, pos2 = pos1New, pos2New
		}

		if limit == n-2 {
			break
		}

		off += limit
		n -= limit
		ovCounter++

		if ovCounter*reserveOverflowDP > reserveDP {
			e.TidyUp()
			ovCounter = 1
		}
		side = e.Spill(side)
	}

	// Last pair, handled post-loop to avoid reading past the input.
	k1, k2 := pos1+u, pos2+u
	t1hi := a1[k1] + hi1
	t1lo := a1[k1-3] + lo1
	t2hi := a2[k2] + hi2
	t2lo := a2[k2-3] + lo2
	a1[k1-2] += (a1[k1] - t1hi) + hi1
	a1[k1-5] += (a1[k1-3] - t1lo) + lo1
	a2[k2-2] += (a2[k2] - t2hi) + hi2
	a2[k2-5] += (a2[k2-3] - t2lo) + lo2
	a1[k1] = t1hi
	a1[k1-3] = t1lo
	a2[k2] = t2hi
	a2[k2-3] = t2lo

	e.AssertInvariant()

	top := e.TopBin()
	seed := a1[top] + a2[top]
	result := e.FinalReduce(side, seed, top-1)
	e.Reset()
	return result
}
