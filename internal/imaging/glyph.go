package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/dicekey-reader/internal/geometry"
)

// ErrRegionOutsideImage is returned when a requested region is not fully
// inside the frame.
var ErrRegionOutsideImage = errors.New("region extends outside image")

// ExtractGlyph cuts the width×height region centered on center whose
// reading direction is angle (radians, clockwise on screen), turns it
// upright and binarizes it at threshold: pixels at or above threshold become
// white, the rest black.
func ExtractGlyph(img image.Image, center geometry.Point, angle float64, width, height int, threshold float64) (*image.Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid glyph size %dx%d", width, height)
	}

	// A square large enough to hold the region in any rotation.
	side := int(math.Ceil(math.Hypot(float64(width), float64(height)))) + 2
	x0 := int(math.Round(center.X)) - side/2
	y0 := int(math.Round(center.Y)) - side/2
	region := image.Rect(x0, y0, x0+side, y0+side)
	if !region.In(img.Bounds()) {
		return nil, fmt.Errorf("%w: %v not in %v", ErrRegionOutsideImage, region, img.Bounds())
	}

	cropped := imaging.Crop(img, region)
	// imaging.Rotate turns counter-clockwise, undoing a clockwise reading angle.
	upright := imaging.Rotate(cropped, angle*180/math.Pi, color.White)
	text := imaging.CropCenter(upright, width, height)

	level := uint8(math.Max(0, math.Min(255, math.Round(threshold))))
	return segment.Threshold(text, level), nil
}

// SplitGlyphs divides an upright text region into its left part (the
// letter) and right part (the digit).
func SplitGlyphs(text image.Image) (letter, digit image.Image) {
	b := text.Bounds()
	mid := b.Min.X + b.Dx()/2
	letter = imaging.Crop(text, image.Rect(b.Min.X, b.Min.Y, mid, b.Max.Y))
	digit = imaging.Crop(text, image.Rect(mid, b.Min.Y, b.Max.X, b.Max.Y))
	return letter, digit
}
