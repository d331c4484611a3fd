package glyphatlas

import (
	"image"
	"image/color"
)

// RasterizeFunc produces the bitmap for a glyph key. It is called by
// GetOrInsert at most once per distinct key that ends up cached.
type RasterizeFunc func(key GlyphKey) (Bitmap, error)

// Cache packs rasterized glyphs into one fixed-size canvas and memoizes the
// rectangle of every glyph it has stored.
//
// The canvas is allocated once in New and never resized. Entries are never
// evicted, moved or overwritten.
//
// Cache is not safe for concurrent use.
type Cache struct {
	config Config

	// canvas holds the pixel data, stride bytes per row.
	canvas []byte
	stride int
	bpp    int

	allocator *ShelfAllocator
	lookup    map[GlyphKey]Rect

	// dirty is the union of regions written since the last MarkClean.
	dirty Rect

	hits   uint64
	misses uint64
}

// Stats holds cache statistics.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Glyphs      int
	Shelves     int
	UsedArea    int
	Utilization float64
}

// New creates a cache with the given configuration.
func New(config Config) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	bpp := config.PixelFormat.BytesPerPixel()
	return &Cache{
		config:    config,
		canvas:    make([]byte, config.CanvasWidth*config.CanvasHeight*bpp),
		stride:    config.CanvasWidth * bpp,
		bpp:       bpp,
		allocator: NewShelfAllocator(config.CanvasWidth, config.CanvasHeight),
		lookup:    make(map[GlyphKey]Rect),
	}, nil
}

// NewDefault creates a cache with default configuration.
func NewDefault() *Cache {
	c, _ := New(DefaultConfig())
	return c
}

// GetOrInsert returns the canvas rectangle holding key's glyph.
//
// On a hit the stored rectangle is returned without calling rasterize or
// touching the canvas. On a miss rasterize is called, space is allocated,
// the bitmap is copied in and the rectangle is recorded.
//
// Errors leave the cache unchanged and are not memoized:
//   - ErrNilRasterizer if rasterize is nil on a miss
//   - *RasterizeError if rasterize fails or returns a malformed bitmap
//   - *OutOfSpaceError (matches ErrOutOfSpace) if the bitmap does not fit
func (c *Cache) GetOrInsert(key GlyphKey, rasterize RasterizeFunc) (Rect, error) {
	if r, ok := c.lookup[key]; ok {
		c.hits++
		return r, nil
	}
	c.misses++

	if rasterize == nil {
		return Rect{}, ErrNilRasterizer
	}

	bm, err := rasterize(key)
	if err != nil {
		return Rect{}, &RasterizeError{Key: key, Err: err}
	}
	if err := bm.Validate(); err != nil {
		return Rect{}, &RasterizeError{Key: key, Err: err}
	}

	r, err := c.allocator.Allocate(bm.Width, bm.Height)
	if err != nil {
		Logger().Warn("glyphatlas: glyph does not fit",
			"key", key, "width", bm.Width, "height", bm.Height,
			"glyphs", len(c.lookup), "utilization", c.allocator.Utilization())
		return Rect{}, err
	}

	c.blit(r, &bm, key)
	c.dirty = c.dirty.Union(r)
	c.lookup[key] = r

	Logger().Debug("glyphatlas: glyph cached", "key", key, "rect", r)

	return r, nil
}

// blit copies bm into the canvas at r.
func (c *Cache) blit(r Rect, bm *Bitmap, key GlyphKey) {
	if r.Empty() {
		return
	}

	switch c.config.PixelFormat {
	case PixelFormatAlpha8:
		for y := 0; y < r.Height; y++ {
			dst := c.canvas[(r.Y+y)*c.stride+r.X:]
			copy(dst[:r.Width], bm.Coverage[y*bm.Width:(y+1)*bm.Width])
		}

	case PixelFormatRGBA8:
		col, alpha := glyphColor(key)
		for y := 0; y < r.Height; y++ {
			dst := c.canvas[(r.Y+y)*c.stride+r.X*4:]
			src := bm.Coverage[y*bm.Width : (y+1)*bm.Width]
			for x, cov := range src {
				o := x * 4
				dst[o] = col.R
				dst[o+1] = col.G
				dst[o+2] = col.B
				dst[o+3] = uint8(uint32(cov) * alpha / 255)
			}
		}
	}
}

// glyphColor returns the RGB to write for key and the alpha multiplier.
// Uncolored glyphs are white with full coverage alpha.
func glyphColor(key GlyphKey) (color.NRGBA, uint32) {
	if !key.HasColor() {
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, 255
	}
	return key.Color, uint32(key.Color.A)
}

// Lookup returns the rectangle stored for key, if any.
// Lookup does not affect hit/miss statistics.
func (c *Cache) Lookup(key GlyphKey) (Rect, bool) {
	r, ok := c.lookup[key]
	return r, ok
}

// Contains returns true if the glyph is already cached.
func (c *Cache) Contains(key GlyphKey) bool {
	_, ok := c.lookup[key]
	return ok
}

// Len returns the number of cached glyphs.
func (c *Cache) Len() int {
	return len(c.lookup)
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Width returns the canvas width in pixels.
func (c *Cache) Width() int { return c.config.CanvasWidth }

// Height returns the canvas height in pixels.
func (c *Cache) Height() int { return c.config.CanvasHeight }

// Format returns the canvas pixel format.
func (c *Cache) Format() PixelFormat { return c.config.PixelFormat }

// Stride returns the number of bytes per canvas row.
func (c *Cache) Stride() int { return c.stride }

// Pixels returns the live canvas contents. The slice is owned by the cache
// and must not be modified.
func (c *Cache) Pixels() []byte {
	return c.canvas
}

// Image returns the canvas as an image sharing the cache's pixel buffer:
// *image.NRGBA for PixelFormatRGBA8 and *image.Alpha for PixelFormatAlpha8.
// The image must not be modified.
func (c *Cache) Image() image.Image {
	rect := image.Rect(0, 0, c.config.CanvasWidth, c.config.CanvasHeight)
	if c.config.PixelFormat == PixelFormatAlpha8 {
		return &image.Alpha{Pix: c.canvas, Stride: c.stride, Rect: rect}
	}
	return &image.NRGBA{Pix: c.canvas, Stride: c.stride, Rect: rect}
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Glyphs:      len(c.lookup),
		Shelves:     c.allocator.ShelfCount(),
		UsedArea:    c.allocator.UsedArea(),
		Utilization: c.allocator.Utilization(),
	}
}
