// Package geometry has vectors.
package geometry

// Vec is a 2D vector.
type Vec struct{ X, Y float64 }

// Len is the Manhattan length.
func (v Vec) Len() float64 { return v.X + v.Y }

// Add adds two vectors.
func Add(a, b Vec) Vec {
	return Vec{a.X + b.X, a.Y + b.Y}
}
