package glyphatlas

import (
	"fmt"
	"image"
)

// Rect is an axis-aligned rectangle in canvas pixel coordinates.
// It identifies where one glyph's bitmap was written.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the number of pixels covered by r.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Contains returns true if the point (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Overlaps reports whether r and s share at least one pixel.
// Empty rectangles overlap nothing.
func (r Rect) Overlaps(s Rect) bool {
	if r.Empty() || s.Empty() {
		return false
	}
	return r.X < s.X+s.Width && s.X < r.X+r.Width &&
		r.Y < s.Y+s.Height && s.Y < r.Y+r.Height
}

// Union returns the smallest rectangle containing both r and s.
// An empty operand is ignored.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	return RectFromImage(r.Image().Union(s.Image()))
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// RectFromImage converts an image.Rectangle to a Rect.
func RectFromImage(ir image.Rectangle) Rect {
	ir = ir.Canon()
	return Rect{X: ir.Min.X, Y: ir.Min.Y, Width: ir.Dx(), Height: ir.Dy()}
}

// UV returns normalized texture coordinates [0, 1] of r inside a canvas of
// the given size.
func (r Rect) UV(canvasWidth, canvasHeight int) (u0, v0, u1, v1 float32) {
	if canvasWidth <= 0 || canvasHeight <= 0 {
		return 0, 0, 0, 0
	}
	w := float32(canvasWidth)
	h := float32(canvasHeight)
	return float32(r.X) / w, float32(r.Y) / h,
		float32(r.X+r.Width) / w, float32(r.Y+r.Height) / h
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
