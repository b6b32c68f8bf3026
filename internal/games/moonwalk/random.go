package moonwalk

import "math/rand"

// RandomSource draws uniform integers in [0, n).
// *rand.Rand satisfies it; tests substitute scripted sequences.
type RandomSource interface {
	Intn(n int) int
}

// NewRandomSource returns a seeded math/rand source.
func NewRandomSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}
