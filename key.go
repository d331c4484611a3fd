package glyphatlas

import (
	"fmt"
	"image/color"

	"golang.org/x/image/math/fixed"
)

// GlyphKey uniquely identifies a rasterized glyph in the cache.
//
// GlyphKey is comparable and is used directly as a map key, so two keys are
// the same glyph exactly when all of their fields are equal.
type GlyphKey struct {
	// FontID identifies the font (hash of font data or path).
	FontID uint64

	// GlyphID is the glyph index within the font.
	GlyphID uint16

	// Size is the pixel size (ppem) in 26.6 fixed point.
	Size fixed.Int26_6

	// Color is the glyph color. The zero value means uncolored: the glyph
	// is stored as plain coverage (white in RGBA canvases).
	Color color.NRGBA
}

// NewGlyphKey builds an uncolored key for a glyph at size pixels.
func NewGlyphKey(fontID uint64, glyphID uint16, size float64) GlyphKey {
	return GlyphKey{
		FontID:  fontID,
		GlyphID: glyphID,
		Size:    SizeFromFloat(size),
	}
}

// WithColor returns a copy of k with the given color.
func (k GlyphKey) WithColor(c color.NRGBA) GlyphKey {
	k.Color = c
	return k
}

// HasColor reports whether the key carries a color.
func (k GlyphKey) HasColor() bool {
	return k.Color != (color.NRGBA{})
}

// Px returns the size in pixels as a float.
func (k GlyphKey) Px() float64 {
	return float64(k.Size) / 64
}

func (k GlyphKey) String() string {
	if !k.HasColor() {
		return fmt.Sprintf("glyph(font=%016x gid=%d px=%g)", k.FontID, k.GlyphID, k.Px())
	}
	c := k.Color
	return fmt.Sprintf("glyph(font=%016x gid=%d px=%g color=#%02x%02x%02x%02x)",
		k.FontID, k.GlyphID, k.Px(), c.R, c.G, c.B, c.A)
}

// SizeFromFloat converts a pixel size to 26.6 fixed point, rounding to the
// nearest 1/64 pixel.
func SizeFromFloat(px float64) fixed.Int26_6 {
	if px < 0 {
		return -fixed.Int26_6(-px*64 + 0.5)
	}
	return fixed.Int26_6(px*64 + 0.5)
}
