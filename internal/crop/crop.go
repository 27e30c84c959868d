// Package crop maps a virtual desktop selection onto a monitor frame and cuts
// it out.
package crop

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/kartoza/kartoza-qrgrab/internal/geometry"
	"github.com/kartoza/kartoza-qrgrab/internal/models"
)

// ErrCropOutOfBounds is returned when the selection does not fit on the
// monitor frame. Selections are never clamped.
var ErrCropOutOfBounds = errors.New("crop out of bounds")

// LocalBox translates sel into the monitor's own pixel space. The result
// must lie within [0,width] x [0,height] and have a non-zero area.
func LocalBox(m models.Monitor, sel geometry.BoundingBox) (geometry.BoundingBox, error) {
	o := m.Origin()
	local := sel.Translate(-o.X, -o.Y)

	if !local.Within(m.Width, m.Height) {
		return geometry.BoundingBox{}, fmt.Errorf("%w: %s not within %dx%d monitor %s",
			ErrCropOutOfBounds, local, m.Width, m.Height, m.Name)
	}
	if local.Empty() {
		return geometry.BoundingBox{}, fmt.Errorf("%w: empty selection %s", ErrCropOutOfBounds, local)
	}

	return local, nil
}

// Crop cuts the selection out of a frame captured from m. The returned image
// is a copy whose bounds start at (0,0).
func Crop(frame *image.RGBA, m models.Monitor, sel geometry.BoundingBox) (*image.RGBA, error) {
	local, err := LocalBox(m, sel)
	if err != nil {
		return nil, err
	}

	return Extract(frame, local)
}

// Extract copies local, given relative to the frame's top left corner, into a
// new image.
func Extract(frame *image.RGBA, local geometry.BoundingBox) (*image.RGBA, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: no frame", ErrCropOutOfBounds)
	}

	fb := frame.Bounds()
	r := local.Rectangle().Add(fb.Min)
	if r.Empty() || !r.In(fb) {
		return nil, fmt.Errorf("%w: %v outside frame %v", ErrCropOutOfBounds, r, fb)
	}

	out := image.NewRGBA(image.Rect(0, 0, local.Width(), local.Height()))
	draw.Draw(out, out.Bounds(), frame, r.Min, draw.Src)

	return out, nil
}
