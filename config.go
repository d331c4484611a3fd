package glyphatlas

// Canvas size limits.
const (
	// DefaultCanvasSize is the default canvas dimension (1024x1024).
	DefaultCanvasSize = 1024

	// MaxCanvasSize is the largest accepted canvas dimension.
	MaxCanvasSize = 16384
)

// Config holds cache configuration.
type Config struct {
	// CanvasWidth is the canvas width in pixels.
	// Default: 1024
	CanvasWidth int `toml:"canvas_width"`

	// CanvasHeight is the canvas height in pixels.
	// Default: 1024
	CanvasHeight int `toml:"canvas_height"`

	// PixelFormat is the canvas pixel layout.
	// Default: PixelFormatRGBA8
	PixelFormat PixelFormat `toml:"pixel_format"`
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		CanvasWidth:  DefaultCanvasSize,
		CanvasHeight: DefaultCanvasSize,
		PixelFormat:  PixelFormatRGBA8,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.CanvasWidth < 1 {
		return &ConfigError{Field: "CanvasWidth", Reason: "must be at least 1"}
	}
	if c.CanvasWidth > MaxCanvasSize {
		return &ConfigError{Field: "CanvasWidth", Reason: "must be at most 16384"}
	}
	if c.CanvasHeight < 1 {
		return &ConfigError{Field: "CanvasHeight", Reason: "must be at least 1"}
	}
	if c.CanvasHeight > MaxCanvasSize {
		return &ConfigError{Field: "CanvasHeight", Reason: "must be at most 16384"}
	}
	if !c.PixelFormat.Valid() {
		return &ConfigError{Field: "PixelFormat", Reason: "unknown format"}
	}
	return nil
}
