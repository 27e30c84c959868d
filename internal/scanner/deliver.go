package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kartoza/kartoza-qrgrab/internal/clipboard"
	"github.com/kartoza/kartoza-qrgrab/internal/decode"
	"github.com/kartoza/kartoza-qrgrab/internal/logging"
)

// Delivery sends decoded payloads to the user.
type Delivery struct {
	Out io.Writer

	// Clipboard receives the joined payloads when set; otherwise they are printed.
	Clipboard     clipboard.Sink
	ClipboardHold time.Duration

	// Notify receives the joined payloads when set.
	Notify func(joined string) error

	// Chime is called with whether anything was decoded.
	Chime func(found bool)

	JSON bool
}

// Join returns the payloads separated by single spaces.
func Join(p decode.Payloads) string {
	return strings.Join(p, " ")
}

// FormatList renders payloads as a bracketed list of quoted strings.
func FormatList(p decode.Payloads) string {
	quoted := make([]string, len(p))
	for i, s := range p {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// Deliver notifies, then copies or prints. Sink failures are logged; a failed
// clipboard falls back to printing.
func (d Delivery) Deliver(ctx context.Context, p decode.Payloads) error {
	logCtx := logging.WithPackage(ctx, "scanner")
	joined := Join(p)

	if d.Chime != nil {
		d.Chime(len(p) > 0)
	}

	if d.Notify != nil {
		if err := d.Notify(joined); err != nil {
			slog.WarnContext(logCtx, "failed to send notification", "error", err)
		}
	}

	if d.Clipboard != nil {
		err := clipboard.Copy(ctx, d.Clipboard, joined, d.ClipboardHold)
		if err == nil {
			slog.DebugContext(logCtx, "copied to clipboard", "count", len(p))
			return nil
		}
		slog.WarnContext(logCtx, "clipboard unavailable, printing instead", "error", err)
	}

	return d.print(p)
}

func (d Delivery) print(p decode.Payloads) error {
	if d.JSON {
		enc := json.NewEncoder(d.Out)
		return enc.Encode(p)
	}

	_, err := fmt.Fprintln(d.Out, FormatList(p))
	return err
}
