//go:build verify

package bucket

// verifyPositions panics if the bin-exponent invariant doesn't hold.
// Only compiled with `-tags verify`; the original C++ gated the
// equivalent check behind NDEBUG, i.e. off by default too.
func verifyPositions(e *Engine) {
	if err := e.Check(); err != nil {
		panic("bucket: " + err.Error())
	}
}
