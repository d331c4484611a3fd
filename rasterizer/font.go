// Package rasterizer turns TrueType/OpenType glyph outlines into coverage
// bitmaps for a glyphatlas.Cache.
//
// It is built on golang.org/x/image/font/sfnt for outline and metric
// lookups and golang.org/x/image/vector for anti-aliased scan conversion.
//
//	f, err := rasterizer.Parse(goregular.TTF)
//	key, err := f.Key('A', 16, color.NRGBA{})
//	r, err := cache.GetOrInsert(key, f.Rasterize)
//
// A Font is not safe for concurrent use.
package rasterizer

import (
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"

	"github.com/gogpu/glyphatlas"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var (
	// ErrMissingGlyph is returned when the font has no glyph for a rune or
	// a glyph index is out of range.
	ErrMissingGlyph = errors.New("rasterizer: missing glyph")

	// ErrFontMismatch is returned when a key was made for a different font.
	ErrFontMismatch = errors.New("rasterizer: key belongs to another font")

	// ErrInvalidSize is returned for non-positive sizes, sizes above
	// MaxSize, and glyph boxes larger than glyphatlas.MaxCanvasSize.
	ErrInvalidSize = errors.New("rasterizer: invalid size")
)

// MaxSize is the largest accepted glyph size in pixels. Above it the 26.6
// outline scaling in sfnt can overflow for ordinary fonts, and no glyph of
// that size fits a canvas anyway.
const MaxSize = glyphatlas.MaxCanvasSize / 4

// Metrics holds vertical font metrics in pixels.
// Descent is positive below the baseline.
type Metrics struct {
	Ascent     float64
	Descent    float64
	LineHeight float64
}

// Font is a parsed font able to rasterize its glyphs.
type Font struct {
	data []byte
	id   uint64
	sf   *sfnt.Font

	buf  sfnt.Buffer
	rast vector.Rasterizer
}

// Parse parses font data. The font ID is the FNV-1a hash of data, so the same
// bytes always produce the same glyph keys.
func Parse(data []byte) (*Font, error) {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rasterizer: failed to parse font: %w", err)
	}
	h := fnv.New64a()
	_, _ = h.Write(data)

	f := &Font{data: data, id: h.Sum64(), sf: sf}
	glyphatlas.Logger().Debug("rasterizer: font parsed",
		"name", f.Name(), "id", fmt.Sprintf("%016x", f.id), "glyphs", sf.NumGlyphs())
	return f, nil
}

// ID returns the font identifier used in glyph keys.
func (f *Font) ID() uint64 { return f.id }

// Data returns the raw font bytes.
func (f *Font) Data() []byte { return f.data }

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int { return f.sf.NumGlyphs() }

// Name returns the font family name, or "" if the font has none.
func (f *Font) Name() string {
	name, err := f.sf.Name(&f.buf, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return name
}

// GlyphIndex returns the glyph index for r.
func (f *Font) GlyphIndex(r rune) (uint16, error) {
	gi, err := f.sf.GlyphIndex(&f.buf, r)
	if err != nil {
		return 0, fmt.Errorf("rasterizer: glyph index %U: %w", r, err)
	}
	if gi == 0 {
		return 0, fmt.Errorf("%w: %U", ErrMissingGlyph, r)
	}
	return uint16(gi), nil
}

// Key returns the cache key for rune r at size pixels.
func (f *Font) Key(r rune, size float64, c color.NRGBA) (glyphatlas.GlyphKey, error) {
	gid, err := f.GlyphIndex(r)
	if err != nil {
		return glyphatlas.GlyphKey{}, err
	}
	return glyphatlas.NewGlyphKey(f.id, gid, size).WithColor(c), nil
}

// GlyphKey returns the cache key for glyph index gid at size pixels.
func (f *Font) GlyphKey(gid uint16, size float64, c color.NRGBA) glyphatlas.GlyphKey {
	return glyphatlas.NewGlyphKey(f.id, gid, size).WithColor(c)
}

// Rasterize renders the glyph named by key to a coverage bitmap. It has the
// glyphatlas.RasterizeFunc signature. Glyphs without an outline, such as
// spaces, yield an empty bitmap.
func (f *Font) Rasterize(key glyphatlas.GlyphKey) (glyphatlas.Bitmap, error) {
	if key.FontID != f.id {
		return glyphatlas.Bitmap{}, ErrFontMismatch
	}
	if key.Size <= 0 || key.Px() > MaxSize {
		return glyphatlas.Bitmap{}, fmt.Errorf("%w: %gpx", ErrInvalidSize, key.Px())
	}
	if int(key.GlyphID) >= f.sf.NumGlyphs() {
		return glyphatlas.Bitmap{}, fmt.Errorf("%w: index %d", ErrMissingGlyph, key.GlyphID)
	}

	segments, err := f.sf.LoadGlyph(&f.buf, sfnt.GlyphIndex(key.GlyphID), key.Size, nil)
	if err != nil {
		return glyphatlas.Bitmap{}, fmt.Errorf("rasterizer: load glyph %d: %w", key.GlyphID, err)
	}

	dr := quantize(segments.Bounds())
	w, h := dr.Dx(), dr.Dy()
	if w <= 0 || h <= 0 {
		return glyphatlas.Bitmap{Left: dr.Min.X, Top: dr.Min.Y}, nil
	}
	if w > glyphatlas.MaxCanvasSize || h > glyphatlas.MaxCanvasSize {
		return glyphatlas.Bitmap{}, fmt.Errorf("%w: glyph box %dx%d", ErrInvalidSize, w, h)
	}

	// Shift glyph space so the quantized box starts at the rasterizer origin.
	biasX := -fixed.Int26_6(dr.Min.X << 6)
	biasY := -fixed.Int26_6(dr.Min.Y << 6)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X+biasX) / 64, float32(p.Y+biasY) / 64
	}

	f.rast.Reset(w, h)
	f.rast.DrawOp = draw.Src
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			f.rast.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			f.rast.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			x0, y0 := pt(seg.Args[0])
			x1, y1 := pt(seg.Args[1])
			f.rast.QuadTo(x0, y0, x1, y1)
		case sfnt.SegmentOpCubeTo:
			x0, y0 := pt(seg.Args[0])
			x1, y1 := pt(seg.Args[1])
			x2, y2 := pt(seg.Args[2])
			f.rast.CubeTo(x0, y0, x1, y1, x2, y2)
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	f.rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	return glyphatlas.Bitmap{
		Width:    w,
		Height:   h,
		Coverage: mask.Pix,
		Left:     dr.Min.X,
		Top:      dr.Min.Y,
	}, nil
}

// Bounds returns the pixel box Rasterize produces for glyph gid, relative to
// the glyph origin on the baseline (Y down).
// Sizes outside (0, MaxSize] yield an empty rectangle.
func (f *Font) Bounds(gid uint16, size float64) image.Rectangle {
	if size <= 0 || size > MaxSize {
		return image.Rectangle{}
	}
	segments, err := f.sf.LoadGlyph(&f.buf, sfnt.GlyphIndex(gid), glyphatlas.SizeFromFloat(size), nil)
	if err != nil {
		return image.Rectangle{}
	}
	return quantize(segments.Bounds())
}

// Advance returns the horizontal advance of glyph gid in pixels.
func (f *Font) Advance(gid uint16, size float64) float64 {
	adv, err := f.sf.GlyphAdvance(&f.buf, sfnt.GlyphIndex(gid), glyphatlas.SizeFromFloat(size), font.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat(adv)
}

// Kern returns the kerning adjustment between glyphs a and b in pixels, or 0
// when the font has no kerning for the pair.
func (f *Font) Kern(a, b uint16, size float64) float64 {
	k, err := f.sf.Kern(&f.buf, sfnt.GlyphIndex(a), sfnt.GlyphIndex(b), glyphatlas.SizeFromFloat(size), font.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat(k)
}

// Metrics returns the font's vertical metrics at size pixels.
func (f *Font) Metrics(size float64) Metrics {
	m, err := f.sf.Metrics(&f.buf, glyphatlas.SizeFromFloat(size), font.HintingNone)
	if err != nil {
		return Metrics{}
	}
	return Metrics{
		Ascent:     fixedToFloat(m.Ascent),
		Descent:    fixedToFloat(m.Descent),
		LineHeight: fixedToFloat(m.Height),
	}
}

// quantize rounds sub-pixel bounds outward to whole pixels.
func quantize(b fixed.Rectangle26_6) image.Rectangle {
	return image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
}

func fixedToFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
