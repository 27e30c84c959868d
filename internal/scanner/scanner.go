// Package scanner wires selection, monitor resolution, capture, crop and
// decode into the two scan modes.
package scanner

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	"github.com/kartoza/kartoza-qrgrab/internal/capture"
	"github.com/kartoza/kartoza-qrgrab/internal/crop"
	"github.com/kartoza/kartoza-qrgrab/internal/decode"
	"github.com/kartoza/kartoza-qrgrab/internal/gesture"
	"github.com/kartoza/kartoza-qrgrab/internal/logging"
	"github.com/kartoza/kartoza-qrgrab/internal/monitor"
)

// Scanner runs scans against a set of collaborators.
type Scanner struct {
	Pointer  gesture.PointerSource
	Monitors monitor.Enumerator
	Capturer capture.Capturer
	Decoder  *decode.Pipeline

	PollInterval time.Duration
	Parallel     bool

	// OnCrop, when set, receives the cropped selection before decoding.
	OnCrop func(img *image.RGBA)
}

// ScanSelection waits for the user to drag a rectangle and decodes the
// codes inside it. Resolution, capture and crop failures are logged and give
// an empty result. Only a cancelled or failed gesture returns an error.
func (s *Scanner) ScanSelection(ctx context.Context) (decode.Payloads, error) {
	logCtx := logging.WithPackage(ctx, "scanner")

	sel, err := gesture.Capture(ctx, s.Pointer, gesture.Options{PollInterval: s.PollInterval})
	if err != nil {
		return decode.Payloads{}, err
	}

	box := sel.Box()
	logCtx = logging.AppendCtx(logCtx, slog.String("selection", box.String()))
	slog.DebugContext(logCtx, "selection complete")

	mon, err := monitor.ResolveFrom(ctx, s.Monitors, box)
	if err != nil {
		slog.WarnContext(logCtx, "no monitor for selection", "error", err)
		return decode.Payloads{}, nil
	}

	// check the selection before paying for a capture
	if _, err := crop.LocalBox(mon, box); err != nil {
		slog.WarnContext(logCtx, "selection does not fit monitor", "monitor", mon.Name, "error", err)
		return decode.Payloads{}, nil
	}

	frame, err := s.Capturer.Capture(ctx, mon)
	if err != nil {
		slog.WarnContext(logCtx, "capture failed", "monitor", mon.Name, "error", err)
		return decode.Payloads{}, nil
	}

	cropped, err := crop.Crop(frame, mon, box)
	if err != nil {
		slog.WarnContext(logCtx, "crop failed", "monitor", mon.Name, "error", err)
		return decode.Payloads{}, nil
	}

	if s.OnCrop != nil {
		s.OnCrop(cropped)
	}

	return s.Decoder.Decode(ctx, []image.Image{cropped}), nil
}

// ScanAll decodes every monitor. Enumeration and capture failures are
// logged and give an empty result.
func (s *Scanner) ScanAll(ctx context.Context) decode.Payloads {
	logCtx := logging.WithPackage(ctx, "scanner")

	monitors, err := s.Monitors.ListMonitors(ctx)
	if err != nil {
		slog.WarnContext(logCtx, "failed to list monitors", "error", err)
		return decode.Payloads{}
	}

	frames, err := capture.CaptureAll(ctx, s.Capturer, monitors, s.Parallel)
	if err != nil {
		slog.WarnContext(logCtx, "failed to capture monitors", "error", err)
		return decode.Payloads{}
	}

	images := make([]image.Image, 0, len(frames))
	for i, f := range frames {
		// a nil *image.RGBA inside an image.Image is not a nil interface
		if f == nil {
			slog.WarnContext(logCtx, "capture returned no frame", "monitor", monitors[i].Name)
			continue
		}
		images = append(images, f)
	}

	return s.Decoder.Decode(ctx, images)
}

// IsCancelled reports whether err came from an aborted selection.
func IsCancelled(err error) bool {
	return errors.Is(err, gesture.ErrCancelled)
}
