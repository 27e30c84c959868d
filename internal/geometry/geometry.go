// Package geometry holds the virtual desktop coordinate model shared by the
// selection, monitor and crop steps.
package geometry

import (
	"errors"
	"fmt"
	"image"
)

// ErrNegativeSize is returned when a box is built from a negative width or height.
var ErrNegativeSize = errors.New("negative box size")

// Coord is a point in virtual desktop pixel space. Y grows downwards.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BoundingBox is an axis aligned rectangle described by its four corners.
type BoundingBox struct {
	TopLeft     Coord `json:"top_left"`
	TopRight    Coord `json:"top_right"`
	BottomLeft  Coord `json:"bottom_left"`
	BottomRight Coord `json:"bottom_right"`
}

// New builds a box from an origin and a size.
func New(x, y, width, height int) (BoundingBox, error) {
	if width < 0 || height < 0 {
		return BoundingBox{}, fmt.Errorf("%w: %dx%d", ErrNegativeSize, width, height)
	}

	return corners(x, y, x+width, y+height), nil
}

// NewFromCoords builds a box from two opposite corners given in any order.
func NewFromCoords(x1, y1, x2, y2 int) BoundingBox {
	return corners(min(x1, x2), min(y1, y2), max(x1, x2), max(y1, y2))
}

// FromPoints is NewFromCoords for a pair of Coords, typically press and release.
func FromPoints(a, b Coord) BoundingBox {
	return NewFromCoords(a.X, a.Y, b.X, b.Y)
}

func corners(left, top, right, bottom int) BoundingBox {
	return BoundingBox{
		TopLeft:     Coord{X: left, Y: top},
		TopRight:    Coord{X: right, Y: top},
		BottomLeft:  Coord{X: left, Y: bottom},
		BottomRight: Coord{X: right, Y: bottom},
	}
}

// Width is the x extent of the box.
func (b BoundingBox) Width() int {
	return b.TopRight.X - b.TopLeft.X
}

// Height is the y extent of the box.
func (b BoundingBox) Height() int {
	return b.BottomLeft.Y - b.TopLeft.Y
}

// Empty reports whether the box has zero area.
func (b BoundingBox) Empty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Intersects reports whether the two boxes overlap with a strictly positive
// area. Boxes that only share an edge do not intersect, and a box with zero
// area intersects nothing.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	if b.Empty() || other.Empty() {
		return false
	}
	return !(b.TopRight.X <= other.BottomLeft.X ||
		b.BottomLeft.X >= other.TopRight.X ||
		b.TopRight.Y >= other.BottomLeft.Y ||
		b.BottomLeft.Y <= other.TopRight.Y)
}

// Translate returns the box moved by (dx, dy).
func (b BoundingBox) Translate(dx, dy int) BoundingBox {
	return corners(b.TopLeft.X+dx, b.TopLeft.Y+dy, b.BottomRight.X+dx, b.BottomRight.Y+dy)
}

// Within reports whether every corner lies inside [0,width] x [0,height].
func (b BoundingBox) Within(width, height int) bool {
	return b.TopLeft.X >= 0 && b.TopLeft.Y >= 0 &&
		b.BottomRight.X <= width && b.BottomRight.Y <= height
}

// Rectangle converts the box to an image.Rectangle.
func (b BoundingBox) Rectangle() image.Rectangle {
	return image.Rect(b.TopLeft.X, b.TopLeft.Y, b.BottomRight.X, b.BottomRight.Y)
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", b.TopLeft.X, b.TopLeft.Y, b.BottomRight.X, b.BottomRight.Y)
}
