package glyphatlas

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/fixed"
)

func TestRect_Overlaps(t *testing.T) {
	base := Rect{X: 10, Y: 10, Width: 10, Height: 10}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"same", base, true},
		{"inside", Rect{12, 12, 2, 2}, true},
		{"touching right edge", Rect{20, 10, 5, 5}, false},
		{"touching bottom edge", Rect{10, 20, 5, 5}, false},
		{"corner overlap", Rect{19, 19, 5, 5}, true},
		{"far away", Rect{100, 100, 1, 1}, false},
		{"empty inside", Rect{15, 15, 0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps(%v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %v", tt.other)
			}
		})
	}
}

func TestRect_Union(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 4, Height: 4}
	b := Rect{X: 6, Y: 2, Width: 2, Height: 6}

	if got := a.Union(b); got != (Rect{X: 0, Y: 0, Width: 8, Height: 8}) {
		t.Errorf("Union() = %v", got)
	}
	if got := a.Union(Rect{}); got != a {
		t.Errorf("Union(empty) = %v, want %v", got, a)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("empty.Union() = %v, want %v", got, b)
	}
}

func TestRect_Conversions(t *testing.T) {
	r := Rect{X: 4, Y: 8, Width: 16, Height: 32}

	if got := r.Image(); got != image.Rect(4, 8, 20, 40) {
		t.Errorf("Image() = %v", got)
	}
	if got := RectFromImage(image.Rect(20, 40, 4, 8)); got != r {
		t.Errorf("RectFromImage() = %v, want %v", got, r)
	}
	if r.Area() != 512 || (Rect{Width: -1, Height: 3}).Area() != 0 {
		t.Error("Area() mismatch")
	}
	if !r.Contains(4, 8) || r.Contains(20, 8) {
		t.Error("Contains() mismatch at edges")
	}
	if r.String() != "Rect(4,8 16x32)" {
		t.Errorf("String() = %q", r.String())
	}

	u0, v0, u1, v1 := r.UV(64, 64)
	if u0 != 0.0625 || v0 != 0.125 || u1 != 0.3125 || v1 != 0.625 {
		t.Errorf("UV() = %v %v %v %v", u0, v0, u1, v1)
	}
	if u0, _, _, _ := r.UV(0, 64); u0 != 0 {
		t.Error("UV() with zero canvas should return zeros")
	}
}

func TestGlyphKey(t *testing.T) {
	k := NewGlyphKey(0xabc, 36, 16.5)
	if k.Size != fixed.Int26_6(16*64+32) {
		t.Errorf("Size = %v", k.Size)
	}
	if k.Px() != 16.5 {
		t.Errorf("Px() = %v", k.Px())
	}
	if k.HasColor() {
		t.Error("NewGlyphKey should be uncolored")
	}

	red := k.WithColor(color.NRGBA{R: 0xff, A: 0xff})
	if !red.HasColor() || red == k {
		t.Error("WithColor should produce a distinct colored key")
	}
	if k.HasColor() {
		t.Error("WithColor modified the receiver")
	}
	if !strings.Contains(red.String(), "color=#ff0000ff") {
		t.Errorf("String() = %q", red.String())
	}

	m := map[GlyphKey]int{k: 1, red: 2}
	if m[NewGlyphKey(0xabc, 36, 16.5)] != 1 {
		t.Error("structurally equal keys must hash equally")
	}
}

func TestSizeFromFloat(t *testing.T) {
	tests := []struct {
		px   float64
		want fixed.Int26_6
	}{
		{0, 0},
		{1, 64},
		{12.25, 784},
		{-2, -128},
		{0.01, 1},
	}
	for _, tt := range tests {
		if got := SizeFromFloat(tt.px); got != tt.want {
			t.Errorf("SizeFromFloat(%v) = %v, want %v", tt.px, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"default", DefaultConfig(), ""},
		{"tiny", Config{CanvasWidth: 1, CanvasHeight: 1}, ""},
		{"zero width", Config{CanvasWidth: 0, CanvasHeight: 8}, "CanvasWidth"},
		{"huge width", Config{CanvasWidth: MaxCanvasSize + 1, CanvasHeight: 8}, "CanvasWidth"},
		{"zero height", Config{CanvasWidth: 8, CanvasHeight: 0}, "CanvasHeight"},
		{"huge height", Config{CanvasWidth: 8, CanvasHeight: MaxCanvasSize + 1}, "CanvasHeight"},
		{"bad format", Config{CanvasWidth: 8, CanvasHeight: 8, PixelFormat: 9}, "PixelFormat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %s, want %s", ce.Field, tt.field)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.CanvasWidth != 1024 || c.CanvasHeight != 1024 || c.PixelFormat != PixelFormatRGBA8 {
		t.Errorf("DefaultConfig() = %+v", c)
	}
}

func TestPixelFormat(t *testing.T) {
	tests := []struct {
		f    PixelFormat
		bpp  int
		name string
		tex  gputypes.TextureFormat
	}{
		{PixelFormatRGBA8, 4, "rgba8", gputypes.TextureFormatRGBA8Unorm},
		{PixelFormatAlpha8, 1, "alpha8", gputypes.TextureFormatR8Unorm},
		{PixelFormat(7), 0, "PixelFormat(7)", gputypes.TextureFormatUndefined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.BytesPerPixel(); got != tt.bpp {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.bpp)
			}
			if got := tt.f.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.f.TextureFormat(); got != tt.tex {
				t.Errorf("TextureFormat() = %v, want %v", got, tt.tex)
			}
		})
	}
}

func TestPixelFormat_Text(t *testing.T) {
	for _, f := range []PixelFormat{PixelFormatRGBA8, PixelFormatAlpha8} {
		text, err := f.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got PixelFormat
		if err := got.UnmarshalText(text); err != nil || got != f {
			t.Errorf("UnmarshalText(%q) = %v, %v", text, got, err)
		}
	}

	var f PixelFormat
	if err := f.UnmarshalText([]byte("a8")); err != nil || f != PixelFormatAlpha8 {
		t.Errorf("alias a8 = %v, %v", f, err)
	}
	if err := f.UnmarshalText([]byte("bgra")); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := PixelFormat(5).MarshalText(); err == nil {
		t.Error("expected error marshaling unknown format")
	}
}

func TestBitmap(t *testing.T) {
	m := image.NewAlpha(image.Rect(-1, -3, 2, 0))
	m.SetAlpha(-1, -3, color.Alpha{A: 10})
	m.SetAlpha(1, -1, color.Alpha{A: 20})

	bm := BitmapFromAlpha(m)
	if bm.Width != 3 || bm.Height != 3 || bm.Left != -1 || bm.Top != -3 {
		t.Fatalf("unexpected bitmap geometry %+v", bm)
	}
	if err := bm.Validate(); err != nil {
		t.Fatal(err)
	}
	if bm.Coverage[0] != 10 || bm.Coverage[2*3+2] != 20 {
		t.Errorf("coverage = %v", bm.Coverage)
	}

	back := bm.Alpha()
	if back.Bounds() != m.Bounds() || back.AlphaAt(1, -1).A != 20 {
		t.Error("Alpha() round trip mismatch")
	}

	bad := Bitmap{Width: 2, Height: 2, Coverage: []byte{1}}
	if !errors.Is(bad.Validate(), ErrInvalidBitmap) {
		t.Error("expected ErrInvalidBitmap")
	}
	neg := Bitmap{Width: -1}
	if !errors.Is(neg.Validate(), ErrInvalidBitmap) {
		t.Error("expected ErrInvalidBitmap for negative size")
	}
}
