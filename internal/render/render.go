// Package render draws a DiceKey as a grayscale image: every defined face's
// letter and digit in the basic bitmap font, framed by its underline and
// overline. The result also reports where each bar was drawn, which makes
// it a ground truth for detector and decoder tests.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/ironsheep/dicekey-reader/internal/config"
	"github.com/ironsheep/dicekey-reader/internal/dicekey"
	"github.com/ironsheep/dicekey-reader/internal/geometry"
	"github.com/ironsheep/dicekey-reader/internal/ocr"
	"github.com/ironsheep/dicekey-reader/internal/undoverline"
)

// ErrUninitialized is returned for a credential with no faces.
var ErrUninitialized = errors.New("render: credential is not initialized")

const (
	// barHeightMM is the thickness of an undoverline.
	barHeightMM = 1.0
	// dotHeight is the fraction of the bar thickness a white dot covers.
	dotHeight = 0.5
	barUnits  = undoverline.NumBits + 2
)

// Options controls the rendering.
type Options struct {
	// PixelsPerMM is the image scale. Zero means 8.
	PixelsPerMM float64
	// Angle turns the whole key clockwise, in radians.
	Angle float64
	// MarginMM is the white border around the key. Zero means 6.
	MarginMM float64
}

// Key is a rendered DiceKey.
type Key struct {
	Image *image.Gray
	// Bars holds the underline then the overline of every drawn face, in
	// cell order.
	Bars []geometry.RotatedRect
	// Centers holds every die's center, drawn or not.
	Centers [dicekey.NumFaces]geometry.Point
	// ColumnStep moves one die to the right on the upright key.
	ColumnStep geometry.Point
}

// Render draws cred with calibration cal.
func Render(cred dicekey.Credential, cal config.Calibration, opts Options) (*Key, error) {
	if !cred.Initialized {
		return nil, ErrUninitialized
	}
	if opts.PixelsPerMM == 0 {
		opts.PixelsPerMM = 8
	}
	if opts.MarginMM == 0 {
		opts.MarginMM = 6
	}
	ppm := opts.PixelsPerMM

	span := float64(dicekey.GridSize-1)*cal.DieSpacingMM + cal.DieSizeMM
	side := int(math.Ceil((span*math.Sqrt2 + 2*opts.MarginMM) * ppm))
	img := image.NewGray(image.Rect(0, 0, side, side))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	mid := float64(side-1) / 2
	center := geometry.Point{X: mid, Y: mid}
	spacing := cal.DieSpacingMM * ppm
	colStep := geometry.Unit(opts.Angle).Scale(spacing)
	rowStep := geometry.Unit(opts.Angle + math.Pi/2).Scale(spacing)

	key := &Key{Image: img, ColumnStep: colStep}
	for i, f := range cred.Faces {
		row, col := i/dicekey.GridSize, i%dicekey.GridSize
		c := center.Add(colStep.Scale(float64(col - 2))).Add(rowStep.Scale(float64(row - 2)))
		key.Centers[i] = c
		if f.Letter == 0 || f.Digit == 0 {
			continue
		}
		spec, ok := dicekey.SpecFor(f.Letter, f.Digit)
		if !ok {
			return nil, fmt.Errorf("render: face %d has no specification for %c%c", i, f.Letter, f.Digit)
		}
		bars := drawFace(img, c, opts.Angle+float64(f.Orientation)*math.Pi/2, spec, cal, ppm)
		key.Bars = append(key.Bars, bars[:]...)
	}
	return key, nil
}

// drawFace paints one die whose reading direction is angle and returns
// its underline and overline rectangles.
func drawFace(img *image.Gray, c geometry.Point, angle float64, spec dicekey.FaceSpecification, cal config.Calibration, ppm float64) [2]geometry.RotatedRect {
	u := geometry.Unit(angle)
	d := geometry.Unit(angle + math.Pi/2)

	barLen := cal.UndoverlineLengthMM * ppm
	barH := barHeightMM * ppm
	offset := cal.UndoverlineOffsetMM * ppm
	textW := cal.TextWidthMM * ppm
	textH := cal.TextHeightMM * ppm

	underBits := undoverline.EncodeBits(spec, false)
	overBits := undoverline.EncodeBits(spec, true)
	letter, _ := ocr.Template(spec.Letter)
	digit, _ := ocr.Template(spec.Digit)

	radius := int(math.Ceil(cal.DieSizeMM * ppm))
	b := img.Bounds()
	for y := int(c.Y) - radius; y <= int(c.Y)+radius; y++ {
		for x := int(c.X) - radius; x <= int(c.X)+radius; x++ {
			if !(image.Point{X: x, Y: y}).In(b) {
				continue
			}
			v := geometry.Point{X: float64(x), Y: float64(y)}.Sub(c)
			a, n := v.Dot(u), v.Dot(d)

			if ink, ok := barPixel(a, n-offset, barLen, barH, underBits); ok {
				setInk(img, x, y, ink)
				continue
			}
			if ink, ok := barPixel(a, n+offset, barLen, barH, overBits); ok {
				setInk(img, x, y, ink)
				continue
			}
			if math.Abs(n) > textH/2 || math.Abs(a) > textW/2 {
				continue
			}
			glyph, left := letter, -textW/2
			if a >= 0 {
				glyph, left = digit, 0
			}
			if glyph == nil {
				continue
			}
			gb := glyph.Bounds()
			gx := int((a - left) / (textW / 2) * float64(gb.Dx()))
			gy := int((n + textH/2) / textH * float64(gb.Dy()))
			gx = min(max(gx, 0), gb.Dx()-1)
			gy = min(max(gy, 0), gb.Dy()-1)
			if glyph.GrayAt(gb.Min.X+gx, gb.Min.Y+gy).Y < 128 {
				setInk(img, x, y, true)
			}
		}
	}

	deg := angle * 180 / math.Pi
	return [2]geometry.RotatedRect{
		withThreshold(geometry.NewRotatedRect(c.Add(d.Scale(offset)), barLen, barH, deg)),
		withThreshold(geometry.NewRotatedRect(c.Sub(d.Scale(offset)), barLen, barH, deg)),
	}
}

// barPixel reports whether a point at (a, n) from a bar's center lies on the
// bar and, if so, whether it is black.
func barPixel(a, n, length, height float64, bits uint16) (ink, ok bool) {
	if math.Abs(a) > length/2 || math.Abs(n) > height/2 {
		return false, false
	}
	unit := int((a + length/2) / (length / barUnits))
	if unit < 1 || unit > undoverline.NumBits || math.Abs(n) > height*dotHeight/2 {
		return true, true
	}
	white := bits>>(undoverline.NumBits-unit)&1 == 1
	return !white, true
}

func setInk(img *image.Gray, x, y int, ink bool) {
	if ink {
		img.SetGray(x, y, color.Gray{Y: 0})
	} else {
		img.SetGray(x, y, color.Gray{Y: 255})
	}
}

func withThreshold(r geometry.RotatedRect) geometry.RotatedRect {
	r.Threshold = 128
	return r
}
