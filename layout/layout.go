// Package layout shapes strings into positioned glyph keys ready to be
// looked up in a glyphatlas.Cache.
//
// Shaping uses the HarfBuzz port from github.com/go-text/typesetting, so
// kerning and ligatures are applied. Glyph keys are built from the
// rasterizer.Font the Shaper was created with, which makes every key
// directly usable with that font's Rasterize method.
package layout

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/rasterizer"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Options controls text placement.
type Options struct {
	// X, Y is the pen position of the first baseline.
	X, Y float64

	// Size is the font size in pixels.
	Size float64

	// Color is stored in every glyph key. The zero value means uncolored.
	Color color.NRGBA

	// LineSpacing multiplies the line height. Zero means 1.
	LineSpacing float64
}

// Glyph is one shaped glyph.
type Glyph struct {
	// Key identifies the glyph in the cache.
	Key glyphatlas.GlyphKey

	// Origin is the pen position on the baseline, rounded to whole pixels.
	Origin image.Point

	// Cluster is the rune index in the normalized input line the glyph was
	// shaped from.
	Cluster int
}

// Shaper lays out text with a single font.
//
// Shaper is not safe for concurrent use.
type Shaper struct {
	font *rasterizer.Font
	face *font.Face
	hb   shaping.HarfbuzzShaper
}

// NewShaper creates a shaper for f.
func NewShaper(f *rasterizer.Font) (*Shaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(f.Data()))
	if err != nil {
		return nil, fmt.Errorf("layout: failed to parse font: %w", err)
	}
	return &Shaper{font: f, face: face}, nil
}

// Font returns the font glyph keys are built for.
func (s *Shaper) Font() *rasterizer.Font { return s.font }

// Layout shapes text line by line. Lines are separated by '\n' and placed
// LineSpacing line heights apart, top to bottom.
func (s *Shaper) Layout(text string, opts Options) []Glyph {
	if text == "" || opts.Size <= 0 {
		return nil
	}
	spacing := opts.LineSpacing
	if spacing == 0 {
		spacing = 1
	}

	text = norm.NFC.String(text)
	size := glyphatlas.SizeFromFloat(opts.Size)

	var glyphs []Glyph
	y := opts.Y
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		runes := []rune(line)
		if len(runes) == 0 {
			y += s.font.Metrics(opts.Size).LineHeight * spacing
			continue
		}
		out := s.shape(runes, size)

		x := opts.X
		for _, g := range out.Glyphs {
			gid := uint16(g.GlyphID) //nolint:gosec // glyph IDs come from the font's own glyph count
			origin := image.Point{
				X: int(math.Round(x + fixedToFloat(g.XOffset))),
				Y: int(math.Round(y - fixedToFloat(g.YOffset))),
			}
			glyphs = append(glyphs, Glyph{
				Key:     s.font.GlyphKey(gid, opts.Size, opts.Color),
				Origin:  origin,
				Cluster: g.TextIndex(),
			})
			x += fixedToFloat(g.Advance)
		}

		lh := fixedToFloat(out.LineBounds.LineThickness())
		if lh <= 0 {
			lh = s.font.Metrics(opts.Size).LineHeight
		}
		y += lh * spacing
	}
	return glyphs
}

// shape runs HarfBuzz over one line.
func (s *Shaper) shape(runes []rune, size fixed.Int26_6) shaping.Output {
	return s.hb.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      s.face,
		Size:      size,
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	})
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
