// Package plain has types and no functions.
package plain

// Point is a point.
type Point struct{ X, Y int }

const Origin = 0
