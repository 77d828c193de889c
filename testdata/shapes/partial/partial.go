// Package partial does not type-check.
package partial

// Use takes a type that does not exist.
func Use(m Missing) int { return 0 }
