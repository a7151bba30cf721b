package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/dicekey-reader/internal/geometry"
)

// CropResult contains the cropped image data
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropCell extracts the axis-aligned square of half-size half around
// center, clipped to the image, and scales it by scale.
func CropCell(img image.Image, center geometry.Point, half, scale float64) (*CropResult, error) {
	bounds := img.Bounds()
	r := image.Rect(
		int(math.Floor(center.X-half)), int(math.Floor(center.Y-half)),
		int(math.Ceil(center.X+half))+1, int(math.Ceil(center.Y+half))+1,
	).Intersect(bounds)
	if r.Empty() {
		return nil, fmt.Errorf("cell at (%.1f,%.1f): %w", center.X, center.Y, ErrRegionOutsideImage)
	}

	cropped := imaging.Crop(img, r)
	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	encoded, err := encodePNG(cropped)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}
	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
