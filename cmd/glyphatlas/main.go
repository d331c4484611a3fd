// Command glyphatlas lays out a string, packs its glyphs into a glyph cache
// and writes the cache canvas as a PNG.
//
// Usage:
//
//	glyphatlas -text "Hello" -size 48 -out atlas.png -preview text.png
//
// Settings may also come from a TOML file given with -config; flags that are
// set explicitly override the file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/layout"
	"github.com/gogpu/glyphatlas/rasterizer"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "glyphatlas:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("glyphatlas", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "TOML configuration file")
		fontPath   = fs.String("font", "", "TrueType/OpenType font file (default Go Regular)")
		size       = fs.Float64("size", 0, "font size in pixels")
		text       = fs.String("text", "", "text to lay out")
		col        = fs.String("color", "", "glyph color as #rrggbb[aa]; empty stores plain coverage")
		out        = fs.String("out", "", "output PNG for the cache canvas")
		preview    = fs.String("preview", "", "optional PNG of the text composited from the canvas")
		format     = fs.String("format", "", "canvas pixel format: rgba8 or alpha8")
		width      = fs.Int("width", 0, "canvas width in pixels")
		height     = fs.Int("height", 0, "canvas height in pixels")
		verbose    = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	glyphatlas.SetLogger(log)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	// Explicit flags win over the file.
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "font":
			cfg.Font = *fontPath
		case "size":
			cfg.Size = *size
		case "text":
			cfg.Text = *text
		case "color":
			cfg.Color = *col
		case "out":
			cfg.Out = *out
		case "preview":
			cfg.Preview = *preview
		case "width":
			cfg.Cache.CanvasWidth = *width
		case "height":
			cfg.Cache.CanvasHeight = *height
		case "format":
			if err := cfg.Cache.PixelFormat.UnmarshalText([]byte(*format)); err != nil {
				flagErr = err
			}
		}
	})
	if flagErr != nil {
		return flagErr
	}

	if cfg.Size <= 0 {
		return fmt.Errorf("invalid size %v", cfg.Size)
	}
	glyphColor, err := parseColor(cfg.Color)
	if err != nil {
		return err
	}

	fontData := goregular.TTF
	if cfg.Font != "" {
		if fontData, err = os.ReadFile(cfg.Font); err != nil {
			return fmt.Errorf("read font: %w", err)
		}
	}
	font, err := rasterizer.Parse(fontData)
	if err != nil {
		return err
	}
	shaper, err := layout.NewShaper(font)
	if err != nil {
		return err
	}

	cache, err := glyphatlas.New(cfg.Cache)
	if err != nil {
		return err
	}

	ascent := font.Metrics(cfg.Size).Ascent
	glyphs := shaper.Layout(cfg.Text, layout.Options{
		X:     0,
		Y:     ascent,
		Size:  cfg.Size,
		Color: glyphColor,
	})

	placed, dropped := fill(cache, font, glyphs)
	log.Info("glyphs packed", "glyphs", len(glyphs), "placed", len(placed)-dropped, "dropped", dropped)

	if err := writePNG(cfg.Out, cache.Image()); err != nil {
		return err
	}
	log.Info("canvas written", "path", cfg.Out, "width", cache.Width(), "height", cache.Height(), "format", cache.Format())

	if cfg.Preview != "" {
		img := compose(cache, font, placed, int(font.Metrics(cfg.Size).Descent+1))
		if err := writePNG(cfg.Preview, img); err != nil {
			return err
		}
		log.Info("preview written", "path", cfg.Preview)
	}

	st := cache.Stats()
	log.Info("cache stats",
		"hits", st.Hits, "misses", st.Misses, "cached", st.Glyphs,
		"shelves", st.Shelves, "utilization", fmt.Sprintf("%.1f%%", st.Utilization*100))
	return nil
}

// placedGlyph is a laid out glyph together with its canvas rectangle.
// Dropped glyphs have no rectangle and are outlined in the preview.
type placedGlyph struct {
	layout.Glyph
	Rect    glyphatlas.Rect
	Dropped bool
}

// fill inserts every glyph into the cache and returns all of them, marking
// the ones that could not be cached. Out-of-space glyphs are already logged
// by the cache; any other error is logged here.
func fill(c *glyphatlas.Cache, f *rasterizer.Font, glyphs []layout.Glyph) ([]placedGlyph, int) {
	placed := make([]placedGlyph, 0, len(glyphs))
	dropped := 0
	for _, g := range glyphs {
		r, err := c.GetOrInsert(g.Key, f.Rasterize)
		if err != nil {
			if !errors.Is(err, glyphatlas.ErrOutOfSpace) {
				glyphatlas.Logger().Warn("glyph skipped", "key", g.Key, "err", err)
			}
			dropped++
			placed = append(placed, placedGlyph{Glyph: g, Dropped: true})
			continue
		}
		placed = append(placed, placedGlyph{Glyph: g, Rect: r})
	}
	return placed, dropped
}

// compose draws each placed glyph from the canvas at its pen position, the way
// a renderer would sample the texture. Alpha8 canvases are drawn as black ink
// on white; RGBA8 canvases are copied onto a dark background so uncolored
// (white) glyphs stay visible. Glyphs that did not fit in the canvas are drawn
// as a one pixel outline of their box in the ink color.
func compose(c *glyphatlas.Cache, f *rasterizer.Font, glyphs []placedGlyph, pad int) image.Image {
	bounds := image.Rectangle{}
	for _, g := range glyphs {
		b := f.Bounds(g.Key.GlyphID, g.Key.Px()).Add(g.Origin)
		bounds = bounds.Union(b)
	}
	bounds = bounds.Inset(-pad)
	if bounds.Empty() {
		bounds = image.Rect(0, 0, 1, 1)
	}

	bg := color.Color(color.White)
	if c.Format() == glyphatlas.PixelFormatRGBA8 {
		bg = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	}
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(bg), image.Point{}, draw.Src)

	canvas := c.Image()
	for _, g := range glyphs {
		if g.Dropped {
			b := f.Bounds(g.Key.GlyphID, g.Key.Px()).Add(g.Origin)
			outline(dst, b, inkColor(c.Format(), g.Key))
			continue
		}
		if g.Rect.Empty() {
			continue
		}
		b := f.Bounds(g.Key.GlyphID, g.Key.Px())
		dr := image.Rectangle{Min: g.Origin.Add(b.Min), Max: g.Origin.Add(b.Min).Add(image.Pt(g.Rect.Width, g.Rect.Height))}
		sr := g.Rect.Image()

		if c.Format() == glyphatlas.PixelFormatAlpha8 {
			draw.DrawMask(dst, dr, image.NewUniform(color.Black), image.Point{}, canvas, sr.Min, draw.Over)
			continue
		}
		draw.Copy(dst, dr.Min, canvas, sr, draw.Over, nil)
	}
	return dst
}

// inkColor is the color a glyph is drawn with in the preview.
func inkColor(format glyphatlas.PixelFormat, key glyphatlas.GlyphKey) color.Color {
	switch {
	case key.HasColor():
		return key.Color
	case format == glyphatlas.PixelFormatAlpha8:
		return color.Black
	default:
		return color.White
	}
}

// outline draws the one pixel border of r.
func outline(dst draw.Image, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	src := image.NewUniform(c)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, edge, src, image.Point{}, draw.Src)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
