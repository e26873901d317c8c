// ═══════════════════════════════════════════════════════════════════════════
// ACCURATE-ALGORITHMS: Correctly-Rounded Sum and Dot Product
// ═══════════════════════════════════════════════════════════════════════════
//
// Two fixed-memory accumulators over IEEE-754 binary64 arrays:
//
//   - Sum:     round-to-nearest-even sum of n doubles.
//   - DotProd: round-to-nearest-even inner product of two vectors,
//              built from fused-multiply-add addends.
//
// Both are bit-identical to computing the result in infinite precision
// and rounding exactly once, for any condition number, as long as no
// partial sum leaves the representable range of a double.
//
// THE CORE:
// ────────
// Both accumulators are backed by a "bucket engine" (internal/bucket):
// a fixed array of binary64 bins, one per 18-bit slice of the double
// exponent range, indexed directly from the addend's biased exponent
// via a division-by-18 substitution. Two parallel bin columns (a1, a2)
// each run an independent FastTwoSum pipeline; periodic tidy-up passes
// propagate low bits up the bin ladder before any bin can overflow its
// budget, and a final backward sweep (Sum2s) collapses the bins into
// one correctly-rounded double.
//
// This Go package serves as:
//  1. A correctly-rounded sum/dot-product library.
//  2. A faithful, from-scratch re-derivation of the bucket accumulator
//     described in Zhu & Hayes, "Algorithm 908: Online Exact Summation
//     of Floating-Point Streams" and implemented in
//     siko1056/accurate_algorithms.
//
// Non-goals: no cross-goroutine parallelism, no SIMD contract (though
// the loop structure permits it), no rounding mode other than
// round-to-nearest-even, no NaN/Inf propagation contract.
// ═══════════════════════════════════════════════════════════════════════════

// Package accurate implements correctly-rounded summation and dot
// product over binary64 arrays using a fixed-memory exponent-bucketed
// accumulator.
package accurate
