package crop

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/kartoza/kartoza-qrgrab/internal/geometry"
	"github.com/kartoza/kartoza-qrgrab/internal/models"
)

func TestLocalBox(t *testing.T) {
	m := models.Monitor{Name: "DP-2", X: 100, Y: 50, Width: 200, Height: 100}
	sel := geometry.NewFromCoords(120, 60, 140, 90)

	local, err := LocalBox(m, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := geometry.NewFromCoords(20, 10, 40, 40)
	if local != expected {
		t.Errorf("expected %v, got %v", expected, local)
	}
	if local.Width() != 20 {
		t.Errorf("expected width 20, got %d", local.Width())
	}
	if local.Height() != 30 {
		t.Errorf("expected height 30, got %d", local.Height())
	}
}

func TestLocalBox_OutOfBounds(t *testing.T) {
	m := models.Monitor{Name: "DP-1", X: 100, Y: 50, Width: 200, Height: 100}

	tests := []struct {
		name string
		sel  geometry.BoundingBox
	}{
		{"past right edge", geometry.NewFromCoords(250, 60, 301, 90)},
		{"past bottom edge", geometry.NewFromCoords(120, 60, 140, 151)},
		{"left of origin", geometry.NewFromCoords(99, 60, 140, 90)},
		{"above origin", geometry.NewFromCoords(120, 49, 140, 90)},
		{"zero width", geometry.NewFromCoords(120, 60, 120, 90)},
		{"zero height", geometry.NewFromCoords(120, 60, 140, 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LocalBox(m, tt.sel)
			if !errors.Is(err, ErrCropOutOfBounds) {
				t.Errorf("expected ErrCropOutOfBounds, got %v", err)
			}
		})
	}
}

func TestLocalBox_FullMonitor(t *testing.T) {
	m := models.Monitor{X: -1920, Y: 0, Width: 1920, Height: 1080}

	local, err := LocalBox(m, m.Bounds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local != geometry.NewFromCoords(0, 0, 1920, 1080) {
		t.Errorf("unexpected local box %v", local)
	}
}

func testFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	return img
}

func TestCrop_Pixels(t *testing.T) {
	m := models.Monitor{X: 100, Y: 50, Width: 200, Height: 100}
	frame := testFrame(200, 100)

	out, err := Crop(frame, m, geometry.NewFromCoords(120, 60, 140, 90))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Bounds() != image.Rect(0, 0, 20, 30) {
		t.Fatalf("expected 20x30 at origin, got %v", out.Bounds())
	}

	// top left of the crop is local (20,10)
	if got := out.RGBAAt(0, 0); got.R != 20 || got.G != 10 {
		t.Errorf("unexpected top left pixel %+v", got)
	}
	if got := out.RGBAAt(19, 29); got.R != 39 || got.G != 39 {
		t.Errorf("unexpected bottom right pixel %+v", got)
	}
}

func TestCrop_FrameSmallerThanMonitor(t *testing.T) {
	// monitor reports more pixels than were captured
	m := models.Monitor{X: 0, Y: 0, Width: 200, Height: 100}
	frame := testFrame(100, 50)

	_, err := Crop(frame, m, geometry.NewFromCoords(80, 10, 150, 40))
	if !errors.Is(err, ErrCropOutOfBounds) {
		t.Errorf("expected ErrCropOutOfBounds, got %v", err)
	}
}

func TestExtract_OffsetFrame(t *testing.T) {
	// frames are not required to start at the origin
	frame := image.NewRGBA(image.Rect(-10, -10, 10, 10))
	frame.SetRGBA(-10, -10, color.RGBA{B: 200, A: 255})

	out, err := Extract(frame, geometry.NewFromCoords(0, 0, 2, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.RGBAAt(0, 0); got.B != 200 {
		t.Errorf("expected frame top left pixel, got %+v", got)
	}
}

func TestExtract_NilFrame(t *testing.T) {
	if _, err := Extract(nil, geometry.NewFromCoords(0, 0, 1, 1)); !errors.Is(err, ErrCropOutOfBounds) {
		t.Errorf("expected ErrCropOutOfBounds, got %v", err)
	}
}
