package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-qrgrab/internal/beep"
	"github.com/kartoza/kartoza-qrgrab/internal/capture"
	"github.com/kartoza/kartoza-qrgrab/internal/clipboard"
	"github.com/kartoza/kartoza-qrgrab/internal/decode"
	"github.com/kartoza/kartoza-qrgrab/internal/monitor"
	"github.com/kartoza/kartoza-qrgrab/internal/notify"
	"github.com/kartoza/kartoza-qrgrab/internal/scanner"
)

// newScanner builds a scanner for the configured backend; the pointer is
// attached by the select command
func newScanner() (*scanner.Scanner, error) {
	enum, err := monitor.Detect(cfg.Backend)
	if err != nil {
		return nil, err
	}

	capt, err := capture.Detect(cfg.Backend)
	if err != nil {
		return nil, err
	}

	return &scanner.Scanner{
		Monitors:     enum,
		Capturer:     capt,
		Decoder:      decode.NewPipeline(cfg.MinSize),
		PollInterval: cfg.PollInterval,
		Parallel:     cfg.Parallel,
	}, nil
}

// replaced in tests
var notifyFailed = notify.Failed

// reportFailure shows err as a desktop notification when notifications are
// enabled and returns it unchanged
func reportFailure(ctx context.Context, err error) error {
	if cfg.Notify {
		if nerr := notifyFailed(err); nerr != nil {
			slog.WarnContext(ctx, "failed to send notification", "error", nerr)
		}
	}
	return err
}

// newDelivery builds the output chain from the command's flags
func newDelivery(clip, jsonOut bool) scanner.Delivery {
	d := scanner.Delivery{
		Out:           os.Stdout,
		ClipboardHold: cfg.ClipboardHold,
		JSON:          jsonOut,
	}

	if clip {
		d.Clipboard = clipboard.System{}
	}

	if cfg.Notify {
		d.Notify = notify.Decoded
	}

	if cfg.Beep {
		d.Chime = func(found bool) {
			if found {
				beep.Success()
			} else {
				beep.Failure()
			}
		}
	}

	return d
}

func runScanAll(cmd *cobra.Command) error {
	ctx := cmd.Context()

	s, err := newScanner()
	if err != nil {
		return err
	}

	if name, _ := cmd.Flags().GetString("monitor"); name != "" {
		s.Monitors = monitor.Named{Enumerator: s.Monitors, Name: name}
	}

	clip, _ := cmd.Flags().GetBool("clip")
	jsonOut, _ := cmd.Flags().GetBool("json")

	payloads := s.ScanAll(ctx)

	if err := newDelivery(clip, jsonOut).Deliver(ctx, payloads); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	return nil
}
