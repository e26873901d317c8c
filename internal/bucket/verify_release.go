//go:build !verify

package bucket

// verifyPositions is a no-op outside of `-tags verify` builds: the
// bin-exponent invariant check is debug-only, matching the original's
// NDEBUG-gated assertions.
func verifyPositions(_ *Engine) {}
