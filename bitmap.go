package glyphatlas

import "image"

// Bitmap is a rasterized glyph as produced by a rasterizer.
type Bitmap struct {
	// Width and Height are the bitmap dimensions in pixels.
	Width, Height int

	// Coverage holds one byte per pixel, row-major, Width bytes per row.
	Coverage []byte

	// Left and Top are the offset of the bitmap's top-left corner from the
	// glyph origin on the baseline (Y down). The cache ignores them.
	Left, Top int
}

// Validate checks that the sample count matches the dimensions.
func (b *Bitmap) Validate() error {
	if b.Width < 0 || b.Height < 0 {
		return ErrInvalidBitmap
	}
	if len(b.Coverage) != b.Width*b.Height {
		return ErrInvalidBitmap
	}
	return nil
}

// BitmapFromAlpha copies an alpha mask into a Bitmap. The mask's bounds
// minimum becomes the bitmap offset.
func BitmapFromAlpha(m *image.Alpha) Bitmap {
	b := m.Bounds()
	bm := Bitmap{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Coverage: make([]byte, b.Dx()*b.Dy()),
		Left:     b.Min.X,
		Top:      b.Min.Y,
	}
	if bm.Width == 0 {
		return bm
	}
	for y := 0; y < bm.Height; y++ {
		row := m.Pix[m.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(bm.Coverage[y*bm.Width:(y+1)*bm.Width], row[:bm.Width])
	}
	return bm
}

// Alpha returns the bitmap as an *image.Alpha sharing the coverage buffer.
func (b *Bitmap) Alpha() *image.Alpha {
	return &image.Alpha{
		Pix:    b.Coverage,
		Stride: b.Width,
		Rect:   image.Rect(b.Left, b.Top, b.Left+b.Width, b.Top+b.Height),
	}
}
