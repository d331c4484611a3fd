package main

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/glyphatlas"
	"github.com/pelletier/go-toml/v2"
)

// fileConfig is the layout of the optional TOML configuration file.
//
//	font = "fonts/Inter.ttf"
//	size = 24.0
//	text = "Hello, atlas"
//	color = "#ffcc00"
//	out = "atlas.png"
//
//	[cache]
//	canvas_width = 512
//	canvas_height = 512
//	pixel_format = "alpha8"
type fileConfig struct {
	Font    string  `toml:"font"`
	Size    float64 `toml:"size"`
	Text    string  `toml:"text"`
	Color   string  `toml:"color"`
	Out     string  `toml:"out"`
	Preview string  `toml:"preview"`

	Cache glyphatlas.Config `toml:"cache"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Size:  32,
		Text:  "The quick brown fox jumps over the lazy dog",
		Out:   "atlas.png",
		Cache: glyphatlas.DefaultConfig(),
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// parseColor parses "#rgb", "#rrggbb" or "#rrggbbaa". An empty string is the
// zero color, which leaves glyphs uncolored. A zero alpha is rejected: the
// glyph would be invisible, and transparent black is indistinguishable from
// the uncolored key.
func parseColor(s string) (color.NRGBA, error) {
	if s == "" {
		return color.NRGBA{}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	c := color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
	if c.A == 0 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: alpha must be non-zero", s)
	}
	return c, nil
}
