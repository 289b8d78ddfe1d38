package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPick_RespectsCount(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	pool := []int{10, 20, 30, 40, 50}

	for k := 1; k <= len(pool); k++ {
		picked := Pick(r, pool, k)
		require.Len(t, picked, k)

		seen := make(map[int]bool)
		for _, v := range picked {
			assert.False(t, seen[v], "picked element %d twice", v)
			seen[v] = true
			assert.Contains(t, pool, v)
		}
	}
}

func TestPick_CountLargerThanPool(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	pool := []string{"a", "b", "c"}

	picked := Pick(r, pool, 10)
	assert.Len(t, picked, 3)
	assert.ElementsMatch(t, pool, picked)
}

func TestPick_DoesNotModifyInput(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	pool := []int{1, 2, 3, 4, 5}

	Pick(r, pool, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, pool)
}

func TestPick_RandomizesOrder(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	pool := make([]int, 20)
	for i := range pool {
		pool[i] = i
	}

	// With 20 elements, repeated shuffles producing the same order every
	// time would be astronomically unlikely.
	first := Pick(r, pool, len(pool))
	different := false
	for i := 0; i < 10 && !different; i++ {
		next := Pick(r, pool, len(pool))
		for j := range next {
			if next[j] != first[j] {
				different = true
				break
			}
		}
	}
	assert.True(t, different, "expected order to vary across shuffles")
}

func TestPick_EmptyInput(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	assert.Empty(t, Pick(r, []int{}, 0))
}
