package seeder

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleIndices(t *testing.T) {
	r := NewRandom(7)

	indices := r.SampleIndices(5, 3)
	require.Len(t, indices, 5)
	for _, idx := range indices {
		assert.Contains(t, []int{0, 1, 2}, idx)
	}

	assert.Empty(t, r.SampleIndices(0, 3))
	assert.Empty(t, r.SampleIndices(-1, 3))
	assert.Empty(t, r.SampleIndices(4, 0))
}

func TestSampleIndicesAllowsRepeats(t *testing.T) {
	r := NewRandom(11)

	indices := r.SampleIndices(50, 2)
	seen := map[int]int{}
	for _, idx := range indices {
		seen[idx]++
	}
	assert.Len(t, seen, 2)
}

func TestShuffleVisitsEveryPermutation(t *testing.T) {
	r := NewRandom(42)
	const trials = 6000

	counts := map[string]int{}
	for range trials {
		items := Shuffle(r, []int{1, 2, 3})
		counts[fmt.Sprint(items)]++
	}

	require.Len(t, counts, 6)
	for perm, n := range counts {
		assert.InDelta(t, trials/6, n, 150, "permutation %s", perm)
	}
}

func TestShuffleInPlace(t *testing.T) {
	r := NewRandom(3)
	items := []string{"a", "b", "c", "d", "e"}

	out := Shuffle(r, items)
	assert.Same(t, &items[0], &out[0])
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, out)

	assert.Empty(t, Shuffle(r, []int{}))
	assert.Equal(t, []int{9}, Shuffle(r, []int{9}))
}

func TestFixedSeedIsReproducible(t *testing.T) {
	a, b := NewRandom(99), NewRandom(99)
	for range 20 {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
	assert.Equal(t, a.SampleIndices(10, 7), b.SampleIndices(10, 7))
}

func TestBetween(t *testing.T) {
	r := NewRandom(5)
	for range 500 {
		n := r.Between(1, 4)
		assert.GreaterOrEqual(t, n, 1)
		assert.Less(t, n, 4)
	}
	assert.Equal(t, 400, r.Between(400, 400))
	assert.Equal(t, 0, r.Intn(0))
}
