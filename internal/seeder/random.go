package seeder

import (
	"math/rand"
	"time"
)

// Random is the seeded source behind every fan-out decision of a run.
// It is not safe for concurrent use; the Seeder serialises runs.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random seeded with seed, or with the current time when
// seed is 0. Two Randoms built from the same non-zero seed draw the same
// sequence.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform int in [0, n). n <= 0 yields 0.
func (r *Random) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.rng.Intn(n)
}

// Between returns a uniform int in [lo, hi). An empty range yields lo.
func (r *Random) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.rng.Intn(hi-lo)
}

// SampleIndices draws count independent indices in [0, exclusiveMax).
// Repeats are allowed.
func (r *Random) SampleIndices(count, exclusiveMax int) []int {
	if count <= 0 || exclusiveMax <= 0 {
		return []int{}
	}
	indices := make([]int, count)
	for i := range indices {
		indices[i] = r.rng.Intn(exclusiveMax)
	}
	return indices
}

// Shuffle permutes items in place with Fisher-Yates and returns the same slice.
func Shuffle[T any](r *Random, items []T) []T {
	for i := len(items) - 1; i > 0; i-- {
		j := r.rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	return items
}
