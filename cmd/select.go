package cmd

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-qrgrab/internal/config"
	"github.com/kartoza/kartoza-qrgrab/internal/logging"
	"github.com/kartoza/kartoza-qrgrab/internal/pointer"
	"github.com/kartoza/kartoza-qrgrab/internal/preview"
	"github.com/kartoza/kartoza-qrgrab/internal/scanner"
)

var (
	selectPreview bool
	selectDisplay string
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Decode QR codes inside a dragged rectangle",
	Long: `Press the left mouse button, drag a rectangle around a QR code and release.

The rectangle must lie on a single monitor; a rectangle crossing onto a
second monitor is rejected rather than clipped. Press Ctrl+C, or use
--timeout, to give up on a selection.

The pointer is read over X11. On Wayland compositors this goes through
XWayland, which only reports the button while the pointer is over an X11
window, so native Wayland windows do not register the drag. Use the default
full screen scan (optionally with --monitor) there.

Example:
  kartoza-qrgrab select --clip
  kartoza-qrgrab select --timeout 30s --preview`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}

		return runSelect(ctx, cmd)
	},
}

func init() {
	d := config.DefaultConfig()

	addOutputFlags(selectCmd.Flags())
	selectCmd.Flags().Duration("timeout", d.Timeout, "Give up if no selection is made in time (0 waits forever)")
	selectCmd.Flags().Duration("poll-interval", d.PollInterval, "How often the pointer is sampled")
	selectCmd.Flags().BoolVar(&selectPreview, "preview", false, "Show the selected area in the terminal (kitty graphics)")
	selectCmd.Flags().StringVar(&selectDisplay, "display", "", "X display to read the pointer from (default: $DISPLAY)")
}

func runSelect(ctx context.Context, cmd *cobra.Command) error {
	logCtx := logging.WithPackage(ctx, "cmd")

	s, err := newScanner()
	if err != nil {
		return err
	}

	src, err := pointer.OpenX11(selectDisplay)
	if err != nil {
		return err
	}
	defer src.Close()
	s.Pointer = src

	if selectPreview {
		s.OnCrop = func(img *image.RGBA) {
			if err := preview.Render(os.Stderr, img, 40); err != nil {
				slog.WarnContext(logCtx, "preview unavailable", "error", err)
			}
		}
	}

	clip, _ := cmd.Flags().GetBool("clip")
	jsonOut, _ := cmd.Flags().GetBool("json")

	fmt.Fprintln(os.Stderr, "Drag a rectangle around the QR code...")

	payloads, err := s.ScanSelection(ctx)
	if err != nil {
		if scanner.IsCancelled(err) {
			err = fmt.Errorf("no selection made: %w", err)
		}
		return reportFailure(logCtx, err)
	}

	if err := newDelivery(clip, jsonOut).Deliver(ctx, payloads); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	return nil
}
