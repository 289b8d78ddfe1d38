package engine

import "math/rand"

// Pick returns up to k elements of items in uniform random order. The input
// slice is never modified. When k >= len(items) the whole set is returned,
// shuffled. Randomness comes only from r, so callers can seed deterministic
// runs in tests.
func Pick[T any](r *rand.Rand, items []T, k int) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)

	// Fisher-Yates from the last index down.
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if k < len(shuffled) {
		return shuffled[:k]
	}
	return shuffled
}
