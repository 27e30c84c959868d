package decode

import (
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/common"
	multidetector "github.com/makiuchi-d/gozxing/multi/qrcode/detector"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"
)

// QRDetector finds QR codes with gozxing's multi finder pattern detector.
type QRDetector struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewQRDetector returns a detector that tries harder on each frame.
func NewQRDetector() *QRDetector {
	return &QRDetector{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// DetectGrids implements Detector. When the multi detector finds nothing the
// whole image is offered as a single grid to the plain QR reader.
func (d *QRDetector) DetectGrids(img *image.Gray) ([]Grid, error) {
	bmp, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(gozxing.NewLuminanceSourceFromImage(img)))
	if err != nil {
		return nil, fmt.Errorf("failed to binarize image: %w", err)
	}

	matrix, err := bmp.GetBlackMatrix()
	if err != nil {
		return nil, fmt.Errorf("failed to get black matrix: %w", err)
	}

	results, err := multidetector.NewMultiDetector(matrix).DetectMulti(d.hints)
	if err != nil || len(results) == 0 {
		return []Grid{&readerGrid{bmp: bmp, hints: d.hints}}, nil
	}

	grids := make([]Grid, 0, len(results))
	for _, r := range results {
		grids = append(grids, &detectedGrid{result: r, hints: d.hints})
	}

	return grids, nil
}

// detectedGrid is one finder pattern triple located by the multi detector.
type detectedGrid struct {
	result *common.DetectorResult
	hints  map[gozxing.DecodeHintType]interface{}
}

func (g *detectedGrid) Decode() (string, error) {
	res, err := decoder.NewDecoder().Decode(g.result.GetBits(), g.hints)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecodeSkipped, err)
	}
	return res.GetText(), nil
}

// readerGrid runs the full single code reader over the bitmap.
type readerGrid struct {
	bmp   *gozxing.BinaryBitmap
	hints map[gozxing.DecodeHintType]interface{}
}

func (g *readerGrid) Decode() (string, error) {
	res, err := qrcode.NewQRCodeReader().Decode(g.bmp, g.hints)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecodeSkipped, err)
	}
	return res.GetText(), nil
}
