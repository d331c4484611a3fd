package glyphatlas

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// IsDirty returns true if glyphs were written since the last upload.
func (c *Cache) IsDirty() bool {
	return !c.dirty.Empty()
}

// DirtyRect returns the bounding box of all canvas regions written since the
// last MarkClean or Flush.
func (c *Cache) DirtyRect() (Rect, bool) {
	return c.dirty, !c.dirty.Empty()
}

// MarkClean marks the canvas as uploaded.
func (c *Cache) MarkClean() {
	c.dirty = Rect{}
}

// DirtyPixels returns the dirty region packed densely (no row padding),
// ready to be passed to a region upload. It returns nil when clean.
func (c *Cache) DirtyPixels() (Rect, []byte) {
	if c.dirty.Empty() {
		return Rect{}, nil
	}
	r := c.dirty
	rowBytes := r.Width * c.bpp
	data := make([]byte, rowBytes*r.Height)
	for y := 0; y < r.Height; y++ {
		src := c.canvas[(r.Y+y)*c.stride+r.X*c.bpp:]
		copy(data[y*rowBytes:(y+1)*rowBytes], src[:rowBytes])
	}
	return r, data
}

// Flush uploads the dirty region to dst and marks the canvas clean.
//
// If dst also implements gpucontext.Texture, its size is checked against the
// canvas first and a *TextureSizeError is returned on mismatch. On upload
// failure the canvas stays dirty so the next Flush retries the same region.
func (c *Cache) Flush(dst gpucontext.TextureRegionUpdater) error {
	if tex, ok := dst.(gpucontext.Texture); ok {
		if tex.Width() != c.config.CanvasWidth || tex.Height() != c.config.CanvasHeight {
			return &TextureSizeError{
				Width:        tex.Width(),
				Height:       tex.Height(),
				CanvasWidth:  c.config.CanvasWidth,
				CanvasHeight: c.config.CanvasHeight,
			}
		}
	}

	r, data := c.DirtyPixels()
	if data == nil {
		return nil
	}

	if err := dst.UpdateRegion(r.X, r.Y, r.Width, r.Height, data); err != nil {
		return fmt.Errorf("glyphatlas: upload %v: %w", r, err)
	}

	Logger().Debug("glyphatlas: uploaded dirty region", "rect", r, "bytes", len(data))
	c.MarkClean()
	return nil
}

// TextureDescriptor describes a GPU texture that can hold the canvas.
// The texture is sampled by shaders and written by region copies.
func (c *Cache) TextureDescriptor(label string) gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label: label,
		Size: gputypes.NewExtent2D(
			uint32(c.config.CanvasWidth),  //nolint:gosec // validated to [1, MaxCanvasSize]
			uint32(c.config.CanvasHeight), //nolint:gosec // validated to [1, MaxCanvasSize]
		),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        c.config.PixelFormat.TextureFormat(),
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
}
