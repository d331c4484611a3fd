package glyphatlas

import (
	"errors"
	"fmt"
)

// Sentinel errors for glyphatlas package.
var (
	// ErrOutOfSpace is matched by every allocation failure caused by the
	// canvas being too small or already exhausted.
	ErrOutOfSpace = errors.New("glyphatlas: canvas out of space")

	// ErrRasterizationFailed is matched by every error that originates in
	// the rasterizer passed to GetOrInsert.
	ErrRasterizationFailed = errors.New("glyphatlas: rasterization failed")

	// ErrInvalidSize is returned when a negative glyph size is requested.
	ErrInvalidSize = errors.New("glyphatlas: invalid glyph size")

	// ErrInvalidBitmap is returned when a rasterizer produces a bitmap whose
	// sample count does not match its dimensions.
	ErrInvalidBitmap = errors.New("glyphatlas: invalid bitmap")

	// ErrNilRasterizer is returned when GetOrInsert misses and no
	// rasterizer was supplied.
	ErrNilRasterizer = errors.New("glyphatlas: nil rasterizer")
)

// OutOfSpaceError reports a glyph that could not be placed in the canvas.
type OutOfSpaceError struct {
	Width, Height             int
	CanvasWidth, CanvasHeight int
}

func (e *OutOfSpaceError) Error() string {
	return fmt.Sprintf("glyphatlas: no room for %dx%d glyph in %dx%d canvas",
		e.Width, e.Height, e.CanvasWidth, e.CanvasHeight)
}

// Is reports whether target is ErrOutOfSpace.
func (e *OutOfSpaceError) Is(target error) bool {
	return target == ErrOutOfSpace
}

// RasterizeError wraps an error returned by a RasterizeFunc.
// It unwraps to the rasterizer's own error, so callers can match both
// ErrRasterizationFailed and the underlying cause.
type RasterizeError struct {
	Key GlyphKey
	Err error
}

func (e *RasterizeError) Error() string {
	return fmt.Sprintf("glyphatlas: rasterize %v: %v", e.Key, e.Err)
}

func (e *RasterizeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrRasterizationFailed.
func (e *RasterizeError) Is(target error) bool {
	return target == ErrRasterizationFailed
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "glyphatlas: invalid config." + e.Field + ": " + e.Reason
}

// TextureSizeError is returned by Flush when the destination texture does not
// match the canvas dimensions.
type TextureSizeError struct {
	Width, Height             int
	CanvasWidth, CanvasHeight int
}

func (e *TextureSizeError) Error() string {
	return fmt.Sprintf("glyphatlas: texture is %dx%d, canvas is %dx%d",
		e.Width, e.Height, e.CanvasWidth, e.CanvasHeight)
}
