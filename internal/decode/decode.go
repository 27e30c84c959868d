// Package decode finds and decodes QR codes in captured frames.
package decode

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"log/slog"

	"github.com/nfnt/resize"

	"github.com/kartoza/kartoza-qrgrab/internal/logging"
)

// ErrDecodeSkipped marks a grid that was found but could not be decoded. It
// is logged and never returned from Pipeline.Decode.
var ErrDecodeSkipped = errors.New("decode skipped")

// DefaultMinSize is the shorter side below which images are upscaled.
const DefaultMinSize = 200

// Payloads holds decoded strings in detection order.
type Payloads []string

// Grid is a located code that has not been decoded yet.
type Grid interface {
	Decode() (string, error)
}

// Detector locates grids in an intensity image.
type Detector interface {
	DetectGrids(img *image.Gray) ([]Grid, error)
}

// Pipeline converts frames to grayscale, detects grids and decodes them.
type Pipeline struct {
	Detector Detector
	// MinSize upscales images whose shorter side is smaller; 0 disables.
	MinSize int
}

// NewPipeline returns a pipeline using the gozxing QR detector.
func NewPipeline(minSize int) *Pipeline {
	return &Pipeline{Detector: NewQRDetector(), MinSize: minSize}
}

// Decode returns the payloads of every decodable grid across images, images
// in input order and grids in detection order. Failures are absorbed.
func (p *Pipeline) Decode(ctx context.Context, images []image.Image) Payloads {
	logCtx := logging.WithPackage(ctx, "decode")
	payloads := Payloads{}

	for i, img := range images {
		if img == nil {
			continue
		}

		gray := ToGray(p.upscale(img))

		grids, err := p.Detector.DetectGrids(gray)
		if err != nil {
			slog.DebugContext(logCtx, "grid detection failed", "image", i, "error", err)
			continue
		}
		slog.DebugContext(logCtx, "grids detected", "image", i, "count", len(grids))

		for j, g := range grids {
			text, err := g.Decode()
			if err != nil {
				slog.DebugContext(logCtx, ErrDecodeSkipped.Error(), "image", i, "grid", j, "error", err)
				continue
			}
			payloads = append(payloads, text)
		}
	}

	return payloads
}

func (p *Pipeline) upscale(img image.Image) image.Image {
	b := img.Bounds()
	short := min(b.Dx(), b.Dy())
	if p.MinSize <= 0 || short <= 0 || short >= p.MinSize {
		return img
	}

	factor := float64(p.MinSize) / float64(short)
	w := uint(float64(b.Dx())*factor + 0.5)
	h := uint(float64(b.Dy())*factor + 0.5)

	// nearest neighbour keeps module edges sharp
	return resize.Resize(w, h, img, resize.NearestNeighbor)
}

// ToGray converts img to a single channel intensity image with origin (0,0).
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)

	return gray
}
