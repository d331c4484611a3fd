// Package glyphatlas packs rasterized glyph bitmaps into a single fixed-size
// texture canvas and hands back the rectangle where each glyph lives.
//
// # Overview
//
// glyphatlas sits between a glyph rasterizer and a 2D rendering API. The
// rasterizer produces coverage bitmaps, the [Cache] stores each bitmap once in
// its canvas, and the renderer uses the returned [Rect] as texture
// coordinates when it emits its own quads. Nothing in this package issues
// draw calls.
//
// # Quick Start
//
//	cache, err := glyphatlas.New(glyphatlas.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	face, _ := rasterizer.Parse(goregular.TTF)
//	key, _ := face.Key('g', 16, color.NRGBA{})
//
//	r, err := cache.GetOrInsert(key, face.Rasterize)
//	if errors.Is(err, glyphatlas.ErrOutOfSpace) {
//	    // the canvas is full; construct a larger cache up front
//	}
//
//	// Upload cache.Pixels() (or just the dirty region via Flush) and
//	// sample r.UV(cache.Width(), cache.Height()) in the shader.
//
// # Packing
//
// Glyphs are placed by a first-fit shelf packer ([ShelfAllocator]). Each
// shelf is a horizontal strip whose height is fixed by the glyph that opened
// it; glyphs are placed left to right on the first shelf that is tall and
// wide enough, and a new shelf is stacked below the last one when none fits.
// Allocation cost grows linearly with the number of shelves.
//
// # Limitations
//
// The canvas never grows and nothing is ever evicted: once a Rect has been
// returned it keeps pointing at the same pixels for the lifetime of the
// cache. When the canvas is exhausted, [Cache.GetOrInsert] fails with
// [ErrOutOfSpace] and leaves the cache exactly as it was.
//
// # Concurrency
//
// A Cache is not safe for concurrent use. Callers that share one between
// goroutines must serialize access themselves, typically by confining it to
// the render thread.
//
// # Coordinate System
//
//   - Origin (0,0) at the top-left of the canvas
//   - X increases right
//   - Y increases down
package glyphatlas
