// Package geom holds the float32 point and size types shared by the document,
// the canvas transform and the gesture classifier.
package geom

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
)

// Point is a position or offset. Depending on context it is measured in
// document space or in screen pixels.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point { return Point{X: x, Y: y} }

// FromImage converts an integer pixel position.
func FromImage(p image.Point) Point { return Point{X: float32(p.X), Y: float32(p.Y)} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Mul(s float32) Point { return Point{p.X * s, p.Y * s} }

// Div divides both coordinates by s. Dividing by zero returns p unchanged.
func (p Point) Div(s float32) Point {
	if s == 0 {
		return p
	}
	return Point{p.X / s, p.Y / s}
}

// Len returns the distance of p from the origin.
func (p Point) Len() float32 { return math32.Hypot(p.X, p.Y) }

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float32 { return q.Sub(p).Len() }

// Image rounds p to the nearest pixel.
func (p Point) Image() image.Point {
	return image.Pt(int(math32.Floor(p.X+0.5)), int(math32.Floor(p.Y+0.5)))
}

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Size is a width and height pair.
type Size struct {
	W, H float32
}

// Sz is shorthand for Size{W: w, H: h}.
func Sz(w, h float32) Size { return Size{W: w, H: h} }

// SizeOf returns the size of an integer rectangle.
func SizeOf(r image.Rectangle) Size { return Size{W: float32(r.Dx()), H: float32(r.Dy())} }

// Center returns the point halfway across both axes.
func (s Size) Center() Point { return Point{s.W / 2, s.H / 2} }

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

func (s Size) String() string { return fmt.Sprintf("%gx%g", s.W, s.H) }
