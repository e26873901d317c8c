// ═══════════════════════════════════════════════════════════════════════════
// SUM - Correctly-Rounded Accumulator
// ───────────────────────────────────────────────────────────────────────────
//
// DEPOSIT STRATEGY:
// ────────────────
// One FastTwoSum per addend: deposit v into bin pos+U of the active
// column, route the lost low part U bins down (Δ=U) into the same
// column. Two addends are processed per loop iteration, one per
// column, with the next pair's bin indices computed ahead of time to
// break the dependency chain between consecutive deposits.
// ═══════════════════════════════════════════════════════════════════════════

package accurate

import "github.com/siko1056/accurate-algorithms/internal/bucket"

// underflowSum is U for the Sum variant.
const underflowSum = 2

// Sum deposits once per column per addend, so its tidy-up budgets are
// the bucket engine's base units scaled by the column count (P=2),
// per internal/bucket's ReserveOverflowUnit/ReserveUnit doc comment.
const (
	reserveOverflow = bucket.ReserveOverflowUnit * 2
	reserve         = bucket.ReserveUnit * 2
)

// Sum is a fixed-memory, correctly-rounded accumulator for a slice of
// float64 values. The zero value is not usable; construct with
// NewSum. Not safe for concurrent use by multiple goroutines (each
// caller needs its own instance).
type Sum struct {
	e *bucket.Engine
}

// NewSum constructs a Sum accumulator. Bin memory is allocated once
// here and reused for the instance's lifetime.
func NewSum() *Sum {
	return &Sum{e: bucket.New(underflowSum)}
}

// Close releases the accumulator's bin memory. The instance must not
// be used afterwards.
func (s *Sum) Close() {
	s.e = nil
}

// Sum returns the correctly-rounded (round-to-nearest-even) sum of x,
// identical to the last ULP to summing in infinite precision and
// rounding once, for any condition number, provided no partial sum
// leaves the representable range of a float64. Leaves the accumulator
// reset, so the same instance may be reused immediately.
func (s *Sum) Sum(x []float64) float64 {
	n := len(x)
	switch {
	case n < 1:
		return 0.0
	case n == 1:
		return x[0]
	}

	e := s.e
	a1, a2 := e.A1(), e.A2()
	const u = underflowSum

	off := 0
	if n&1 == 1 {
		pos := bucket.BinOf(bucket.Exponent(x[0]))
		k := pos + u
		t := a1[k] + x[0]
		a1[pos] += (a1[k] - t) + x[0]
		a1[k] = t
		off = 1
		n--
	}

	side := 0.0
	ovCounter := 1
	pos1 := bucket.BinOf(bucket.Exponent(x[off]))
	pos2 := bucket.BinOf(bucket.Exponent(x[off+1]))

	for {
		limit := n - 2
		if limit > reserveOverflow {
			limit = reserveOverflow
		}

		for i := 0; i < limit; i += 2 {
			// Two parallel FastTwoSum deposits, with the next pair's
			// bin indices extracted ahead of the dependent update.
			t1 := a1[pos1+u] + x[off+i]
			t2 := a2[pos2+u] + x[off+i+1]

			pos1New := bucket.BinOf(bucket.Exponent(x[off+i+2]))
			pos2New := bucket.BinOf(bucket.Exponent(x[off+i+3]))

			a1[pos1] += (a1[pos1+u] - t1) + x[off+i]
			a2[pos2] += (a2[pos2+u] - t2) + x[off+i+1]
			a1[pos1+u] = t1
			a2[pos2+u] = t2

			pos1, pos2 = pos1New, pos2New
		}

		if limit == n-2 {
			break
		}

		off += limit
		n -= limit
		ovCounter++

		if ovCounter*reserveOverflow > reserve {
			e.TidyUp()
			ovCounter = 1
		}
		side = e.Spill(side)
	}

	// Last pair, handled post-loop to avoid reading past the input.
	t1 := a1[pos1+u] + x[off+n-2]
	t2 := a2[pos2+u] + x[off+n-1]
	a1[pos1] += (a1[pos1+u] - t1) + x[off+n-2]
	a2[pos2] += (a2[pos2+u] - t2) + x[off+n-1]
	a1[pos1+u] = t1
	a2[pos2+u] = t2

	e.AssertInvariant()

	result := e.FinalReduce(0, side, e.TopBin())
	e.Reset()
	return result
}
