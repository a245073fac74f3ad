package utils

import "math"

// FindIndex returns the index of the first occurrence of item, or -1
func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

func Contains[T comparable](slice []T, item T) bool {
	return FindIndex(slice, item) >= 0
}

// ArgMax returns the index of the first item with the maximal value, or -1
// for an empty slice. NaN values never win.
func ArgMax[T any](slice []T, value func(T) float64) int {
	best := -1
	bestValue := math.Inf(-1)
	for i, item := range slice {
		v := value(item)
		if best == -1 && !math.IsNaN(v) || v > bestValue {
			best = i
			bestValue = v
		}
	}
	return best
}
