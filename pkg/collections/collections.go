// Package collections holds small generic slice helpers.
package collections

// Apply applies the applicator function to each item in the input slice.
func Apply[T, V any](items []T, applicator func(T) V) []V {
	result := make([]V, len(items))
	for i, item := range items {
		result[i] = applicator(item)
	}
	return result
}

// Intersperse returns items with sep placed between each pair.
func Intersperse[T any](items []T, sep T) []T {
	if len(items) == 0 {
		return nil
	}

	result := make([]T, 0, 2*len(items)-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}
