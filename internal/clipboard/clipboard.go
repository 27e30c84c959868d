// Package clipboard copies decoded payloads to the system clipboard.
package clipboard

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
)

// DefaultHold keeps the process alive after writing so X11 clipboard
// managers can take ownership of the selection.
const DefaultHold = 5 * time.Second

// Sink writes text to a clipboard.
type Sink interface {
	WriteAll(text string) error
}

// System is the desktop clipboard (xclip/xsel/wl-copy on Linux).
type System struct{}

// WriteAll implements Sink.
func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// Copy writes text to sink and then waits hold, or until ctx is done.
func Copy(ctx context.Context, sink Sink, text string, hold time.Duration) error {
	if err := sink.WriteAll(text); err != nil {
		return fmt.Errorf("failed to set clipboard: %w", err)
	}

	if hold <= 0 {
		return nil
	}

	t := time.NewTimer(hold)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}

	return nil
}
