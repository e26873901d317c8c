// ═══════════════════════════════════════════════════════════════════════════
// BUCKET ENGINE - Shared Fixed-Memory Exponent Accumulator
// ───────────────────────────────────────────────────────────────────────────
//
// DESIGN PHILOSOPHY:
// ─────────────────
// 1. Exponent-as-index: the biased exponent of an addend IS its bin,
//    via a division-by-18 substitution (no branches, no search).
// 2. Dual-column FastTwoSum: two independent accumulation chains
//    (a1, a2) both pipeline and self-cancel their init bias on read.
// 3. Mask-pinned bins: every bin's exponent is fixed by construction,
//    so FastTwoSum's |a|>=|b| precondition holds by position, not by
//    a runtime compare.
// 4. Bounded tidy-up: periodic renormalization keeps any one bin from
//    ever absorbing more than its 18-exponent-wide budget.
//
// Package bucket is the ~80% shared surface between the Sum and
// DotProd accumulators: mask construction, dual-column reset, the
// tidy-up renormalization walk, the overflow-bin spill, and the
// backward Sum2s final reduction. It is parameterized by the
// underflow region size U (2 for Sum, 5 for DotProd); callers supply
// their own deposit loop built from Exponent/BinOf below.
// ═══════════════════════════════════════════════════════════════════════════

package bucket

import (
	"fmt"
	"math"
)

// Layout constants shared by every instance, regardless of U.
const (
	// Shift is the width, in exponent bits, of one normal bin.
	Shift = 18

	// NormalBins covers the normal exponent range: floor(2^11/Shift)-1.
	NormalBins = 112

	// OverflowBins absorb bin values that exceed their nominal
	// exponent during intense accumulation. The last one is a
	// permanent quiet-NaN sentinel.
	OverflowBins = 2

	// div18Multiplier/div18Shift reproduce floor(e/18) for any
	// e in [0, 2047] via (e*div18Multiplier)>>div18Shift. This
	// identity is part of the wire-level contract of the algorithm,
	// not an incidental optimization. bucket_test.go checks it
	// exhaustively.
	div18Multiplier = 1821
	div18Shift      = 15

	// minExponent-1 and maxExponent-1 are std::numeric_limits<double>
	// min_exponent/max_exponent minus one, i.e. the unbiased exponent
	// of the smallest/largest normalized double's boundary. These are
	// fixed properties of binary64 and are not configurable.
	minExponentFloor = -1022 // (min_exponent - 1)
	maxExponentFloor = 1023  // (max_exponent - 1)

	// ReserveOverflowUnit and ReserveUnit bound, per column, how many
	// deposits a bin may absorb before its low-bit pile threatens to
	// corrupt the bin above it (PART1_OVERFLOW=11, PART1=15 in the
	// original). Sum deposits once per column per addend and so scales
	// these by the column count (P=2); DotProd deposits twice per
	// column per addend (head and tail) and uses the unit value
	// unscaled. See sum.go/dotprod.go for the applied constants.
	ReserveOverflowUnit = 1<<11 - 2 // per inner chunk
	ReserveUnit         = 1<<15 - 2 // per full tidy-up period
)

// Exponent returns the biased IEEE-754 exponent field (bits 52..62) of
// v: a bitcast to uint64 followed by a shift and mask. This is the
// only field the accumulator ever reads from an addend.
func Exponent(v float64) uint64 {
	return (math.Float64bits(v) >> 52) & 0x7FF
}

// BinOf maps a biased exponent e (0..2047) to its normal-region bin
// offset p = floor(e/18), computed as (e*1821)>>15. Exact on the full
// range; must be reproduced bit-for-bit by any conforming
// implementation.
func BinOf(e uint64) int {
	return int((e * div18Multiplier) >> div18Shift)
}

// Engine is the dual-column bucket accumulator. a1 is initialized to
// +mask, a2 to -mask; a1[i]+a2[i] always extracts the deposited
// signal at bin i, cancelling the mask bias exactly.
type Engine struct {
	Underflow int // U: size of the underflow region
	Total     int // B = U + NormalBins + OverflowBins

	a1, a2, mask []float64
}

// New allocates a bucket engine with underflow region size u (2 for
// Sum, 5 for DotProd) and resets it to its initial state. Bin memory
// is allocated once here and reused for the engine's lifetime.
func New(u int) *Engine {
	total := u + NormalBins + OverflowBins
	e := &Engine{
		Underflow: u,
		Total:     total,
		a1:        make([]float64, total),
		a2:        make([]float64, total),
		mask:      buildMask(u, total),
	}
	e.Reset()
	return e
}

// buildMask constructs the initialization/reset mask for an engine
// with underflow region size u and total bin count total.
func buildMask(u, total int) []float64 {
	mask := make([]float64, total)
	for i := 0; i < u-1; i++ {
		mask[i] = 0
	}
	mask[u-1] = 1.5 * math.Ldexp(1, minExponentFloor+(Shift-1))
	for i := u; i < total-OverflowBins; i++ {
		mask[i] = mask[i-1] * math.Ldexp(1, Shift)
	}
	mask[total-OverflowBins] = 1.5 * math.Ldexp(1, maxExponentFloor)
	mask[total-1] = math.NaN()
	return mask
}

// A1 and A2 expose the dual-column bins for deposit loops that live
// outside this package (Sum/DotProd's interleaved FastTwoSum loops).
func (e *Engine) A1() []float64 { return e.a1 }
func (e *Engine) A2() []float64 { return e.a2 }

// Mask exposes the reset mask, the values Reset and TidyUp pin the
// bins back to.
func (e *Engine) Mask() []float64 { return e.mask }

// TopBin is the pre-overflow bin index: the spill target at the end
// of every inner accumulation chunk, and the seed bin for the final
// reduction.
func (e *Engine) TopBin() int { return e.Total - OverflowBins }

// Reset restores every bin to its mask-pinned initial value, so the
// engine can be reused by the next call. Verified in debug builds.
func (e *Engine) Reset() {
	copy(e.a1, e.mask)
	for i := range e.a2 {
		e.a2[i] = -e.mask[i]
	}
	verifyPositions(e)
}

// TidyUp walks every bin below the overflow region, pushing each
// bin's accumulated signal up one position and resetting the bin to
// its mask, bounding how much any bin can absorb between passes.
func (e *Engine) TidyUp() {
	top := e.TopBin()
	a1, a2, mask := e.a1, e.a2, e.mask
	for i := 0; i < top; i++ {
		t1 := a1[i] + a2[i]
		t2 := a1[i+1] + t1
		a1[i] = mask[i] + ((a1[i+1] - t2) + t1)
		a1[i+1] = t2
		a2[i] = -mask[i]
	}
	verifyPositions(e)
}

// Spill flushes the pre-overflow top bin's signal into the running
// scalar side-sum and resets that bin. Called after every inner
// accumulation chunk, tidy-up or not: the top bin is always safely
// representable since it only accumulates controlled tidy-up
// spillover.
func (e *Engine) Spill(sideSum float64) float64 {
	top := e.TopBin()
	sideSum += e.a1[top] + e.a2[top]
	e.a1[top] = e.mask[top]
	e.a2[top] = -e.mask[top]
	return sideSum
}

// FinalReduce performs the backward Sum2s sweep from bin `from` down
// to bin 0 inclusive, seeded with running value a and combined with
// the scalar side-sum. Bin Total-1 (the NaN sentinel) and the
// overflow bins above `from` are never visited.
func (e *Engine) FinalReduce(sideSum, a float64, from int) float64 {
	err := 0.0
	for i := from; i >= 0; i-- {
		b := e.a1[i] + e.a2[i]
		x := a + b
		err += (a - x) + b
		a = x
	}
	return sideSum + a + err
}

// AssertInvariant runs the bin-exponent invariant check if built
// with `-tags verify`; a no-op otherwise. Called right before the
// final reduction, matching the original's placement of
// verify_bucket_positions.
func (e *Engine) AssertInvariant() {
	verifyPositions(e)
}

// Check verifies that every bin of both columns holds the biased
// exponent its mask-pinned position demands, returning the first
// mismatch found. Exported
// unconditionally (unlike the production verifyPositions hook, which
// is build-tag gated) so tests can exercise the invariant without
// requiring `-tags verify`.
func (e *Engine) Check() error {
	if err := checkColumn(e, e.a1); err != nil {
		return fmt.Errorf("column a1: %w", err)
	}
	if err := checkColumn(e, e.a2); err != nil {
		return fmt.Errorf("column a2: %w", err)
	}
	return nil
}

func checkColumn(e *Engine, col []float64) error {
	u := e.Underflow
	for i := 0; i < u-1; i++ {
		if got := int64(Exponent(col[i])); got > int64(minExponentFloor+1+maxExponentFloor) {
			return fmt.Errorf("underflow bin %d exponent %d exceeds floor", i, got)
		}
	}
	for i := u - 1; i < e.Total-OverflowBins; i++ {
		want := int64(minExponentFloor + (i-(u-2))*Shift - 1 + maxExponentFloor)
		if got := int64(Exponent(col[i])); got != want {
			return fmt.Errorf("bin %d exponent %d, want %d", i, got, want)
		}
	}
	top := e.Total - OverflowBins
	if got, want := int64(Exponent(col[top])), int64(2*maxExponentFloor); got != want {
		return fmt.Errorf("overflow bin %d exponent %d, want %d", top, got, want)
	}
	return nil
}
