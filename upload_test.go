package glyphatlas

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

var (
	_ gpucontext.Texture              = (*fakeTexture)(nil)
	_ gpucontext.TextureRegionUpdater = (*fakeTexture)(nil)
	_ gpucontext.TextureRegionUpdater = (*regionOnly)(nil)
)

type regionCall struct {
	x, y, w, h int
	data       []byte
}

// fakeTexture implements gpucontext.Texture and gpucontext.TextureRegionUpdater.
type fakeTexture struct {
	width, height int
	calls         []regionCall
	err           error
}

func (f *fakeTexture) Width() int  { return f.width }
func (f *fakeTexture) Height() int { return f.height }

func (f *fakeTexture) UpdateRegion(x, y, w, h int, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, regionCall{x, y, w, h, append([]byte(nil), data...)})
	return nil
}

// regionOnly implements only gpucontext.TextureRegionUpdater.
type regionOnly struct{ calls int }

func (r *regionOnly) UpdateRegion(int, int, int, int, []byte) error {
	r.calls++
	return nil
}

func fill(v byte) RasterizeFunc {
	return func(GlyphKey) (Bitmap, error) {
		return Bitmap{Width: 2, Height: 2, Coverage: []byte{v, v, v, v}}, nil
	}
}

func TestCache_DirtyRect(t *testing.T) {
	c := newTestCache(t, 8, 8, PixelFormatAlpha8)
	if c.IsDirty() {
		t.Fatal("new cache should be clean")
	}

	c.GetOrInsert(testKey(1), fill(1))
	c.GetOrInsert(testKey(2), fill(2))
	r, ok := c.DirtyRect()
	if !ok {
		t.Fatal("expected dirty canvas")
	}
	if r != (Rect{X: 0, Y: 0, Width: 4, Height: 2}) {
		t.Errorf("DirtyRect() = %v", r)
	}

	c.MarkClean()
	if c.IsDirty() {
		t.Error("MarkClean did not clear dirty state")
	}

	// Hits do not dirty the canvas.
	c.GetOrInsert(testKey(1), fill(1))
	if c.IsDirty() {
		t.Error("cache hit dirtied the canvas")
	}
}

func TestCache_Flush(t *testing.T) {
	c := newTestCache(t, 8, 8, PixelFormatAlpha8)
	c.GetOrInsert(testKey(1), fill(7))
	c.GetOrInsert(testKey(2), fill(9))

	tex := &fakeTexture{width: 8, height: 8}
	if err := c.Flush(tex); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	if len(tex.calls) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(tex.calls))
	}
	call := tex.calls[0]
	if call.x != 0 || call.y != 0 || call.w != 4 || call.h != 2 {
		t.Errorf("uploaded region (%d,%d %dx%d)", call.x, call.y, call.w, call.h)
	}
	want := []byte{7, 7, 9, 9, 7, 7, 9, 9}
	if string(call.data) != string(want) {
		t.Errorf("uploaded data %v, want %v", call.data, want)
	}
	if c.IsDirty() {
		t.Error("Flush did not mark canvas clean")
	}

	// Nothing new to upload.
	if err := c.Flush(tex); err != nil {
		t.Fatal(err)
	}
	if len(tex.calls) != 1 {
		t.Error("clean Flush uploaded data")
	}
}

func TestCache_FlushRGBAPacking(t *testing.T) {
	c := newTestCache(t, 8, 8, PixelFormatRGBA8)
	c.GetOrInsert(testKey(1), fill(0x40))

	tex := &regionOnly{}
	if err := c.Flush(tex); err != nil {
		t.Fatal(err)
	}
	if tex.calls != 1 {
		t.Fatalf("expected 1 upload, got %d", tex.calls)
	}

	c.GetOrInsert(testKey(2), fill(0x40))
	r, data := c.DirtyPixels()
	if r != (Rect{X: 2, Y: 0, Width: 2, Height: 2}) {
		t.Fatalf("DirtyPixels() rect = %v", r)
	}
	if len(data) != 2*2*4 {
		t.Errorf("expected %d bytes, got %d", 16, len(data))
	}
	for i := 0; i < len(data); i += 4 {
		if data[i] != 0xff || data[i+3] != 0x40 {
			t.Fatalf("pixel %d = %v", i/4, data[i:i+4])
		}
	}
}

func TestCache_FlushSizeMismatch(t *testing.T) {
	c := newTestCache(t, 8, 8, PixelFormatAlpha8)
	c.GetOrInsert(testKey(1), fill(1))

	tex := &fakeTexture{width: 16, height: 8}
	err := c.Flush(tex)
	var se *TextureSizeError
	if !errors.As(err, &se) {
		t.Fatalf("expected *TextureSizeError, got %v", err)
	}
	if len(tex.calls) != 0 {
		t.Error("mismatched texture received data")
	}
	if !c.IsDirty() {
		t.Error("failed Flush cleared dirty state")
	}
}

func TestCache_FlushUploadError(t *testing.T) {
	c := newTestCache(t, 8, 8, PixelFormatAlpha8)
	c.GetOrInsert(testKey(1), fill(1))

	boom := errors.New("device lost")
	tex := &fakeTexture{width: 8, height: 8, err: boom}
	if err := c.Flush(tex); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped upload error, got %v", err)
	}
	if !c.IsDirty() {
		t.Error("failed upload cleared dirty state")
	}

	tex.err = nil
	if err := c.Flush(tex); err != nil {
		t.Fatal(err)
	}
	if len(tex.calls) != 1 {
		t.Errorf("retry uploaded %d times", len(tex.calls))
	}
}

func TestCache_TextureDescriptor(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   gputypes.TextureFormat
	}{
		{PixelFormatRGBA8, gputypes.TextureFormatRGBA8Unorm},
		{PixelFormatAlpha8, gputypes.TextureFormatR8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			c := newTestCache(t, 256, 128, tt.format)
			d := c.TextureDescriptor("glyphs")

			if d.Label != "glyphs" {
				t.Errorf("Label = %q", d.Label)
			}
			if d.Size.Width != 256 || d.Size.Height != 128 || d.Size.DepthOrArrayLayers != 1 {
				t.Errorf("Size = %+v", d.Size)
			}
			if d.Format != tt.want {
				t.Errorf("Format = %v, want %v", d.Format, tt.want)
			}
			if d.Dimension != gputypes.TextureDimension2D {
				t.Errorf("Dimension = %v", d.Dimension)
			}
			if d.Usage&gputypes.TextureUsageCopyDst == 0 || d.Usage&gputypes.TextureUsageTextureBinding == 0 {
				t.Errorf("Usage = %v", d.Usage)
			}
		})
	}
}
