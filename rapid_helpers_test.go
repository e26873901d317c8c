package accurate

import "pgregory.net/rapid"

// shuffle performs a rapid-driven Fisher-Yates shuffle in place, so
// permutation tests draw their permutation from the same property
// generator the rest of the check uses (reproducible, shrinkable).
func shuffle(t *rapid.T, x []float64) {
	for i := len(x) - 1; i > 0; i-- {
		j := rapid.IntRange(0, i).Draw(t, "swap")
		x[i], x[j] = x[j], x[i]
	}
}
