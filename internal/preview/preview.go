// Package preview renders the cropped selection inline in Kitty compatible
// terminals.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/blacktop/go-termimg"
	"github.com/nfnt/resize"
)

// ErrUnsupported is returned when the terminal cannot display images
var ErrUnsupported = errors.New("terminal does not support the kitty graphics protocol")

// MaxPixels caps the longer side of the rendered image
const MaxPixels = 640

var kittyDetected = func() bool { return termimg.DetectProtocol() == termimg.Kitty }

// Supported reports whether the terminal can show an inline image
func Supported() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}

	if strings.Contains(os.Getenv("TERM"), "kitty") || os.Getenv("TERM_PROGRAM") == "kitty" {
		return true
	}

	return kittyDetected()
}

// Fit returns the width and height of img scaled so its longer side is at
// most maxPixels. Images already small enough keep their size.
func Fit(img image.Image, maxPixels int) (uint, uint) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longer := max(w, h)
	if longer <= maxPixels || longer == 0 {
		return uint(w), uint(h)
	}

	scale := float64(maxPixels) / float64(longer)
	return uint(max(1, int(float64(w)*scale))), uint(max(1, int(float64(h)*scale)))
}

// Render writes img to w using the kitty protocol, cols cells wide
func Render(w io.Writer, img image.Image, cols int) error {
	if !Supported() {
		return ErrUnsupported
	}

	pw, ph := Fit(img, MaxPixels)
	scaled := resize.Resize(pw, ph, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}

	ti, err := termimg.From(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("failed to load preview: %w", err)
	}

	// terminal cells are roughly twice as tall as wide
	rows := max(1, int(float64(cols)*float64(ph)/float64(pw)/2.0))

	ti.Protocol(termimg.Kitty).
		Width(cols).
		Height(rows).
		Scale(termimg.ScaleFit)

	rendered, err := ti.Render()
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}

	_, err = fmt.Fprintln(w, rendered)
	return err
}
