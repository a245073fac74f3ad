package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	t.Run("finding the first occurrence", func(t *testing.T) {
		require.Equal(t, 1, FindIndex([]int{4, 2, 2}, 2), "Should return the first matching index")
	})

	t.Run("missing item", func(t *testing.T) {
		require.Equal(t, -1, FindIndex([]int{4, 2}, 7), "Should return -1 for a missing item")
		require.False(t, Contains([]int{}, 7), "Empty slice should contain nothing")
	})
}

func TestArgMax(t *testing.T) {
	identity := func(v float64) float64 { return v }

	t.Run("breaking ties by first maximal", func(t *testing.T) {
		require.Equal(t, 1, ArgMax([]float64{1, 3, 3, 2}, identity), "Should pick the first maximal item")
	})

	t.Run("infinite values", func(t *testing.T) {
		require.Equal(t, 2, ArgMax([]float64{1, 3, math.Inf(1), math.Inf(1)}, identity),
			"Should pick the first +Inf item")
		require.Equal(t, 0, ArgMax([]float64{math.Inf(-1), math.Inf(-1)}, identity),
			"Should still pick an item when everything is -Inf")
	})

	t.Run("empty slice", func(t *testing.T) {
		require.Equal(t, -1, ArgMax([]float64{}, identity), "Should return -1 for an empty slice")
	})

	t.Run("skipping NaN", func(t *testing.T) {
		require.Equal(t, 1, ArgMax([]float64{math.NaN(), 0.5}, identity), "NaN should never be the maximum")
	})
}
