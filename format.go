package glyphatlas

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// PixelFormat is the layout of one canvas pixel.
type PixelFormat uint8

const (
	// PixelFormatRGBA8 stores 4 bytes per pixel, non-premultiplied, in
	// R, G, B, A order. Color comes from the glyph key, alpha from coverage.
	PixelFormatRGBA8 PixelFormat = iota

	// PixelFormatAlpha8 stores 1 coverage byte per pixel.
	PixelFormatAlpha8
)

// BytesPerPixel returns the size of one pixel in bytes, or 0 for an unknown
// format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatRGBA8:
		return 4
	case PixelFormatAlpha8:
		return 1
	default:
		return 0
	}
}

// Valid reports whether f is a known format.
func (f PixelFormat) Valid() bool {
	return f.BytesPerPixel() != 0
}

// TextureFormat returns the matching GPU texture format.
func (f PixelFormat) TextureFormat() gputypes.TextureFormat {
	switch f {
	case PixelFormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm
	case PixelFormatAlpha8:
		return gputypes.TextureFormatR8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGBA8:
		return "rgba8"
	case PixelFormatAlpha8:
		return "alpha8"
	default:
		return fmt.Sprintf("PixelFormat(%d)", uint8(f))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f PixelFormat) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("glyphatlas: unknown pixel format %d", uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// It accepts "rgba8" and "alpha8" (also "rgba" and "a8").
func (f *PixelFormat) UnmarshalText(text []byte) error {
	switch string(text) {
	case "rgba8", "rgba":
		*f = PixelFormatRGBA8
	case "alpha8", "a8":
		*f = PixelFormatAlpha8
	default:
		return fmt.Errorf("glyphatlas: unknown pixel format %q", text)
	}
	return nil
}
