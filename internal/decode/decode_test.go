package decode_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartoza/kartoza-qrgrab/internal/decode"
)

type fakeGrid struct {
	text string
	err  error
}

func (g fakeGrid) Decode() (string, error) { return g.text, g.err }

// fakeDetector returns grids keyed by the image width
type fakeDetector struct {
	byWidth map[int][]decode.Grid
	failOn  int
	seen    []image.Rectangle
	last    *image.Gray
}

func (d *fakeDetector) DetectGrids(img *image.Gray) ([]decode.Grid, error) {
	d.seen = append(d.seen, img.Bounds())
	d.last = img
	if img.Bounds().Dx() == d.failOn {
		return nil, errors.New("detector exploded")
	}
	return d.byWidth[img.Bounds().Dx()], nil
}

func blank(w int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, 10))
}

func TestPipeline_Decode_OrderAndSkips(t *testing.T) {
	bad := fakeGrid{err: decode.ErrDecodeSkipped}
	det := &fakeDetector{byWidth: map[int][]decode.Grid{
		1: nil,
		2: {fakeGrid{text: "first"}},
		3: {bad, fakeGrid{text: "second"}, fakeGrid{text: "third"}},
		4: {bad, bad},
		5: {fakeGrid{text: "fourth"}},
	}}
	p := &decode.Pipeline{Detector: det}

	got := p.Decode(context.Background(), []image.Image{blank(1), blank(2), blank(3), blank(4), blank(5)})

	assert.Equal(t, decode.Payloads{"first", "second", "third", "fourth"}, got)
	assert.Len(t, det.seen, 5)
}

func TestPipeline_Decode_AllFail(t *testing.T) {
	det := &fakeDetector{byWidth: map[int][]decode.Grid{
		1: {fakeGrid{err: errors.New("bad ecc")}},
	}, failOn: 2}
	p := &decode.Pipeline{Detector: det}

	got := p.Decode(context.Background(), []image.Image{blank(1), blank(2)})

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPipeline_Decode_EmptyInput(t *testing.T) {
	p := &decode.Pipeline{Detector: &fakeDetector{}}

	assert.Empty(t, p.Decode(context.Background(), nil))
	assert.Empty(t, p.Decode(context.Background(), []image.Image{nil}))
}

func TestPipeline_Upscale(t *testing.T) {
	det := &fakeDetector{}
	p := &decode.Pipeline{Detector: det, MinSize: 100}

	p.Decode(context.Background(), []image.Image{image.NewRGBA(image.Rect(0, 0, 50, 20))})

	require.Len(t, det.seen, 1)
	assert.Equal(t, 250, det.seen[0].Dx())
	assert.Equal(t, 100, det.seen[0].Dy())
}

func TestPipeline_UpscaleKeepsEdgesSharp(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 3))
	for i := range src.Pix {
		if i%2 == 0 {
			src.Pix[i] = 255
		}
	}
	det := &fakeDetector{}
	p := &decode.Pipeline{Detector: det, MinSize: 31}

	p.Decode(context.Background(), []image.Image{src})

	require.NotNil(t, det.last)
	assert.Equal(t, 31, det.last.Bounds().Dx())
	for _, v := range det.last.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("expected only black and white pixels after upscaling, got %d", v)
		}
	}
}

func TestPipeline_NoUpscaleWhenLargeEnough(t *testing.T) {
	det := &fakeDetector{}
	p := &decode.Pipeline{Detector: det, MinSize: 10}

	p.Decode(context.Background(), []image.Image{image.NewRGBA(image.Rect(0, 0, 50, 20))})

	require.Len(t, det.seen, 1)
	assert.Equal(t, image.Rect(0, 0, 50, 20), det.seen[0])
}

func TestToGray(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 7))
	img.SetRGBA(5, 5, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	gray := decode.ToGray(img)

	assert.Equal(t, image.Rect(0, 0, 2, 2), gray.Bounds())
	assert.Equal(t, uint8(255), gray.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), gray.GrayAt(1, 1).Y)
}

func qrImage(t *testing.T, text string, size int) image.Image {
	t.Helper()

	matrix, err := qrcode.NewQRCodeWriter().Encode(text, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), matrix, image.Point{}, draw.Src)

	return img
}

func TestQRDetector_EndToEnd(t *testing.T) {
	p := decode.NewPipeline(decode.DefaultMinSize)

	got := p.Decode(context.Background(), []image.Image{
		qrImage(t, "https://kartoza.com", 300),
		image.NewRGBA(image.Rect(0, 0, 300, 300)),
		qrImage(t, "WIFI:S:office;T:WPA;P:secret;;", 300),
	})

	assert.Equal(t, decode.Payloads{"https://kartoza.com", "WIFI:S:office;T:WPA;P:secret;;"}, got)
}

func TestQRDetector_SeveralCodesInOneImage(t *testing.T) {
	canvas := image.NewRGBA(image.Rect(0, 0, 640, 320))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(10, 10, 310, 310), qrImage(t, "alpha-payload", 300), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(330, 10, 630, 310), qrImage(t, "bravo-payload", 300), image.Point{}, draw.Src)

	got := decode.NewPipeline(decode.DefaultMinSize).Decode(context.Background(), []image.Image{canvas})

	assert.ElementsMatch(t, decode.Payloads{"alpha-payload", "bravo-payload"}, got)
}

func TestQRDetector_SmallCodeIsUpscaled(t *testing.T) {
	got := decode.NewPipeline(decode.DefaultMinSize).Decode(context.Background(), []image.Image{
		qrImage(t, "small", 60),
	})

	assert.Equal(t, decode.Payloads{"small"}, got)
}
