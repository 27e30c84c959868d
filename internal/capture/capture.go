// Package capture grabs monitor frames as RGBA images.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"os/exec"

	"github.com/kbinani/screenshot"
	"golang.org/x/sync/errgroup"

	"github.com/kartoza/kartoza-qrgrab/internal/deps"
	"github.com/kartoza/kartoza-qrgrab/internal/logging"
	"github.com/kartoza/kartoza-qrgrab/internal/models"
)

// ErrCapture wraps every failure to grab a frame
var ErrCapture = errors.New("capture failed")

// Capturer grabs the full frame of one monitor
type Capturer interface {
	Capture(ctx context.Context, m models.Monitor) (*image.RGBA, error)
}

// Screenshot captures through kbinani/screenshot using the monitor's
// virtual desktop rectangle
type Screenshot struct{}

var captureRect = screenshot.CaptureRect

// Capture implements Capturer
func (Screenshot) Capture(ctx context.Context, m models.Monitor) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := captureRect(m.Bounds().Rectangle())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCapture, m.Name, err)
	}

	return img, nil
}

// Grim captures a named wlroots output with grim
type Grim struct{}

var runGrim = func(ctx context.Context, output string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "grim", "-o", output, "-t", "png", "-")
	return cmd.Output()
}

// Capture implements Capturer
func (Grim) Capture(ctx context.Context, m models.Monitor) (*image.RGBA, error) {
	data, err := runGrim(ctx, m.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to run grim for %s: %w", ErrCapture, m.Name, err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode grim output: %w", ErrCapture, err)
	}

	return toRGBA(img), nil
}

// Detect picks the capturer matching a monitor backend name
func Detect(backend string) (Capturer, error) {
	switch backend {
	case "hyprland":
		return Grim{}, nil
	case "screenshot":
		return Screenshot{}, nil
	case "", "auto":
		if deps.DetectDisplayServer() == deps.DisplayServerWayland &&
			deps.Check(deps.Dependency{Name: "grim"}).Available {
			return Grim{}, nil
		}
		return Screenshot{}, nil
	default:
		return nil, fmt.Errorf("unknown capture backend: %s", backend)
	}
}

// CaptureAll captures every monitor and returns the frames in the same
// order as monitors. With parallel set, monitors are captured concurrently.
// The first failure aborts the batch.
func CaptureAll(ctx context.Context, c Capturer, monitors []models.Monitor, parallel bool) ([]*image.RGBA, error) {
	logCtx := logging.WithPackage(ctx, "capture")
	frames := make([]*image.RGBA, len(monitors))

	if !parallel {
		for i, m := range monitors {
			img, err := c.Capture(ctx, m)
			if err != nil {
				return nil, err
			}
			logFrame(logCtx, m, img)
			frames[i] = img
		}
		return frames, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range monitors {
		g.Go(func() error {
			img, err := c.Capture(gctx, m)
			if err != nil {
				return err
			}
			logFrame(logCtx, m, img)
			frames[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return frames, nil
}

func logFrame(ctx context.Context, m models.Monitor, img *image.RGBA) {
	if img == nil {
		slog.DebugContext(ctx, "captured monitor without a frame", "monitor", m.Name)
		return
	}
	slog.DebugContext(ctx, "captured monitor", "monitor", m.Name, "bounds", img.Bounds().String())
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	return rgba
}
