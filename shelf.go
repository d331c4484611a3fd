package glyphatlas

// ShelfAllocator implements first-fit shelf packing inside a fixed area.
//
// The area is organized in horizontal "shelves" stacked from the top. A shelf
// takes the height of the rectangle that opened it and never grows. New
// rectangles go on the first shelf, in creation order, that is tall enough
// and has enough width left; otherwise a new shelf is opened below the last
// one. Nothing is ever freed.
type ShelfAllocator struct {
	width   int     // Total width of the area
	height  int     // Total height of the area
	shelves []shelf // Shelves in creation order (top to bottom)

	usedArea int
}

// shelf represents a horizontal strip in the canvas.
type shelf struct {
	y      int // Y position of shelf top
	height int // Height fixed by the first glyph placed on it
	nextX  int // Next free X position
}

// NewShelfAllocator creates a new allocator for the given dimensions.
func NewShelfAllocator(width, height int) *ShelfAllocator {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &ShelfAllocator{
		width:   width,
		height:  height,
		shelves: make([]shelf, 0, 16),
	}
}

// Allocate reserves a width x height region and returns it.
//
// Requests wider or taller than the whole area always fail, even when the
// other dimension is zero. Otherwise zero-area requests succeed with an
// empty Rect and reserve nothing. Requests that fit neither on an existing
// shelf nor on a new shelf below the last one, fail with an
// *OutOfSpaceError.
func (a *ShelfAllocator) Allocate(width, height int) (Rect, error) {
	if width < 0 || height < 0 {
		return Rect{}, ErrInvalidSize
	}
	if width > a.width || height > a.height {
		return Rect{}, a.outOfSpace(width, height)
	}
	if width == 0 || height == 0 {
		return Rect{}, nil
	}

	if i := a.findShelf(width, height); i >= 0 {
		s := &a.shelves[i]
		r := Rect{X: s.nextX, Y: s.y, Width: width, Height: height}
		s.nextX += width
		a.usedArea += width * height
		return r, nil
	}

	y := a.bottom()
	if y+height > a.height {
		return Rect{}, a.outOfSpace(width, height)
	}

	a.shelves = append(a.shelves, shelf{y: y, height: height, nextX: width})
	a.usedArea += width * height

	Logger().Debug("glyphatlas: new shelf",
		"index", len(a.shelves)-1, "y", y, "height", height)

	return Rect{X: 0, Y: y, Width: width, Height: height}, nil
}

// findShelf returns the index of the first shelf that can hold a
// width x height rectangle, or -1.
func (a *ShelfAllocator) findShelf(width, height int) int {
	for i := range a.shelves {
		s := &a.shelves[i]
		if s.height >= height && a.width-s.nextX >= width {
			return i
		}
	}
	return -1
}

// bottom returns the Y coordinate where the next shelf would start.
func (a *ShelfAllocator) bottom() int {
	if len(a.shelves) == 0 {
		return 0
	}
	last := a.shelves[len(a.shelves)-1]
	return last.y + last.height
}

func (a *ShelfAllocator) outOfSpace(width, height int) error {
	return &OutOfSpaceError{
		Width:        width,
		Height:       height,
		CanvasWidth:  a.width,
		CanvasHeight: a.height,
	}
}

// CanFit reports whether Allocate(width, height) would succeed right now.
// It does not modify the allocator.
func (a *ShelfAllocator) CanFit(width, height int) bool {
	if width < 0 || height < 0 {
		return false
	}
	if width > a.width || height > a.height {
		return false
	}
	if width == 0 || height == 0 {
		return true
	}
	if a.findShelf(width, height) >= 0 {
		return true
	}
	return a.bottom()+height <= a.height
}

// Width returns the width of the packed area.
func (a *ShelfAllocator) Width() int { return a.width }

// Height returns the height of the packed area.
func (a *ShelfAllocator) Height() int { return a.height }

// ShelfCount returns the number of shelves opened so far.
func (a *ShelfAllocator) ShelfCount() int {
	return len(a.shelves)
}

// UsedArea returns the total area of allocated rectangles.
func (a *ShelfAllocator) UsedArea() int {
	return a.usedArea
}

// TotalArea returns the area of the whole canvas.
func (a *ShelfAllocator) TotalArea() int {
	return a.width * a.height
}

// Utilization returns the fraction of area used (0.0 to 1.0).
func (a *ShelfAllocator) Utilization() float64 {
	total := a.TotalArea()
	if total == 0 {
		return 0
	}
	return float64(a.usedArea) / float64(total)
}

// RemainingHeight returns the vertical space left for new shelves.
func (a *ShelfAllocator) RemainingHeight() int {
	return a.height - a.bottom()
}
