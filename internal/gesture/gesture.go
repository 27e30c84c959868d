// Package gesture turns a stream of pointer samples into a two corner
// click-and-drag selection.
package gesture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kartoza/kartoza-qrgrab/internal/geometry"
	"github.com/kartoza/kartoza-qrgrab/internal/logging"
)

// ErrCancelled is returned when the context ends before the drag completes.
var ErrCancelled = errors.New("selection cancelled")

// DefaultPollInterval is how often the pointer is sampled.
const DefaultPollInterval = 10 * time.Millisecond

// State of a selection gesture
type State int

const (
	Idle State = iota
	Selecting
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Sample is one reading of the pointer.
type Sample struct {
	Position geometry.Coord
	Pressed  bool
}

// Selection holds the press and release points of a drag.
type Selection struct {
	Start geometry.Coord
	End   geometry.Coord
}

// Box returns the normalised box spanned by the selection.
func (s Selection) Box() geometry.BoundingBox {
	return geometry.FromPoints(s.Start, s.End)
}

// PointerSource reports the current pointer position and primary button state.
type PointerSource interface {
	Poll() (Sample, error)
}

// Step advances the state machine by one sample. The start point is latched
// on the first press seen while Idle and the end point on the first release
// seen while Selecting. Complete is absorbing.
func Step(state State, sel Selection, sample Sample) (State, Selection) {
	switch state {
	case Idle:
		if sample.Pressed {
			sel.Start = sample.Position
			return Selecting, sel
		}
	case Selecting:
		if !sample.Pressed {
			sel.End = sample.Position
			return Complete, sel
		}
	}

	return state, sel
}

// Options configures Capture.
type Options struct {
	PollInterval time.Duration
}

// Capture samples src until a full press/release drag has been observed or
// ctx is done.
func Capture(ctx context.Context, src PointerSource, opts Options) (Selection, error) {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	logCtx := logging.WithPackage(ctx, "gesture")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	state := Idle
	var sel Selection

	for {
		sample, err := src.Poll()
		if err != nil {
			return Selection{}, fmt.Errorf("failed to poll pointer: %w", err)
		}

		next, updated := Step(state, sel, sample)
		if next != state {
			slog.DebugContext(logCtx, "gesture transition",
				"from", state.String(), "to", next.String(),
				"x", sample.Position.X, "y", sample.Position.Y)
		}
		state, sel = next, updated

		if state == Complete {
			return sel, nil
		}

		select {
		case <-ctx.Done():
			return Selection{}, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		case <-ticker.C:
		}
	}
}
