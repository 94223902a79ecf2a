// Package utils holds small generic helpers shared by the search code.
package utils

// FindIndex returns the index of the first occurrence of item, or -1.
func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Sum adds up values.
func Sum[T int | float64](values []T) T {
	var total T
	for _, v := range values {
		total += v
	}
	return total
}
