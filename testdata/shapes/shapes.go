// Package shapes builds flat figures.
package shapes

import (
	"io"

	"example.com/shapes/geometry"
)

// Version of the shapes package.
const Version = "2.1.0"

//typeschema:export Vec

// Vec is re-exported from geometry.
type Vec = geometry.Vec

// Writer is only used here.
type Writer = io.Writer

// Shape is anything with an area.
type Shape interface {
	Area() float64
}

// Square is a square.
type Square struct {
	// Side length.
	Side float64
	name string
}

// NewSquare makes a square.
func NewSquare(side float64) *Square { return &Square{Side: side} }

func (s *Square) Area() float64 { return s.Side * s.Side }

// Name of the square.
func (s *Square) Name() string { return s.name }

// Describe renders any value.
func Describe(v any) string { return "" }

// Render writes shapes.
func Render(w Writer, shapes ...Shape) error { return nil }
