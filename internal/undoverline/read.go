package undoverline

import (
	"fmt"
	"math"

	"github.com/ironsheep/dicekey-reader/internal/config"
	"github.com/ironsheep/dicekey-reader/internal/dicekey"
	"github.com/ironsheep/dicekey-reader/internal/geometry"
	"github.com/ironsheep/dicekey-reader/internal/imaging"
	"github.com/ironsheep/dicekey-reader/internal/threshold"
)

const (
	// barUnits is the bar length in bit cells, margins included.
	barUnits = NumBits + 2

	// probeSamples is the number of samples used for the provisional
	// threshold along the untrimmed axis.
	probeSamples = 30

	// samplesPerUnit sets the density of the second threshold pass.
	samplesPerUnit = 4

	// minModeSamples is the minimum count on each side of the second pass.
	minModeSamples = 4

	// trimStep is the resolution, in pixels, of the margin search.
	trimStep = 0.25
)

// Undoverline is one decoded bar.
type Undoverline struct {
	// Rect is the detector's rectangle.
	Rect geometry.RotatedRect
	// Line runs through the bar from its left end to its right end as seen
	// on the upright face.
	Line geometry.Line
	// Bits is the pattern as sampled, before any reversal.
	Bits uint16
	// Threshold separated the black bar from its white dots.
	Threshold float64
	Reading   Reading
	// DieCenter is the center of the face implied by this bar alone.
	DieCenter geometry.Point
}

// Angle returns the reading direction of the face in radians, clockwise on
// screen from the +x axis.
func (u Undoverline) Angle() float64 { return u.Line.Angle() }

// PixelsPerMM is the frame scale implied by the bar's length.
func (u Undoverline) PixelsPerMM(cal config.Calibration) float64 {
	return cal.PixelsPerMM(u.Line.Length())
}

// Read samples the bar inside rect and decodes it.
//
// The long axis is extended by one unit at each end, a provisional
// threshold is taken from probeSamples points along it, and the axis is
// trimmed inward to the first dark sample on each side. The 11 bit cells
// are then sampled at their centers against a second threshold drawn from
// the trimmed bar. Every failure wraps dicekey.ErrDecodeInvalid.
func Read(s *imaging.Sampler, rect geometry.RotatedRect, cal config.Calibration) (Undoverline, error) {
	axis := rect.LongAxis()
	length := axis.Length()
	if length < barUnits {
		return Undoverline{}, fmt.Errorf("%w: bar of %.1fpx is too short", dicekey.ErrDecodeInvalid, length)
	}
	ext := axis.End.Sub(axis.Start).Scale(1 / float64(barUnits))
	axis = geometry.Line{Start: axis.Start.Sub(ext), End: axis.End.Add(ext)}

	probe, ok := s.SampleLine(axis, probeSamples)
	if !ok {
		return Undoverline{}, fmt.Errorf("%w: bar leaves the frame", dicekey.ErrDecodeInvalid)
	}
	provisional, err := threshold.Bimodal(probe, 1, 1)
	if err != nil {
		return Undoverline{}, fmt.Errorf("%w: %v", dicekey.ErrDecodeInvalid, err)
	}

	trimmed, ok := trim(s, axis, provisional)
	if !ok {
		return Undoverline{}, fmt.Errorf("%w: no dark pixels along bar", dicekey.ErrDecodeInvalid)
	}

	dense, ok := s.SampleLine(trimmed, barUnits*samplesPerUnit)
	if !ok {
		return Undoverline{}, fmt.Errorf("%w: bar leaves the frame", dicekey.ErrDecodeInvalid)
	}
	level, err := threshold.Bimodal(dense, minModeSamples, minModeSamples)
	if err != nil {
		return Undoverline{}, fmt.Errorf("%w: %v", dicekey.ErrDecodeInvalid, err)
	}

	var bits uint16
	for i := 0; i < NumBits; i++ {
		v, _ := s.At(trimmed.PointAt((1.5 + float64(i)) / barUnits))
		bits <<= 1
		if v > level {
			bits |= 1
		}
	}

	reading, err := DecodeBits(bits)
	if err != nil {
		return Undoverline{}, err
	}
	if reading.Reversed {
		trimmed = trimmed.Reversed()
	}

	u := Undoverline{
		Rect:      rect,
		Line:      trimmed,
		Bits:      bits,
		Threshold: level,
		Reading:   reading,
	}
	u.DieCenter = dieCenter(u, cal)
	return u, nil
}

// trim moves both ends of axis inward to the first sample at or below
// level.
func trim(s *imaging.Sampler, axis geometry.Line, level float64) (geometry.Line, bool) {
	length := axis.Length()
	steps := int(math.Ceil(length / trimStep))
	first := func(from func(int) geometry.Point) (geometry.Point, bool) {
		for i := 0; i <= steps; i++ {
			p := from(i)
			if v, ok := s.At(p); ok && v <= level {
				return p, true
			}
		}
		return geometry.Point{}, false
	}

	start, ok := first(func(i int) geometry.Point { return axis.PointAt(float64(i) / float64(steps)) })
	if !ok {
		return geometry.Line{}, false
	}
	end, _ := first(func(i int) geometry.Point { return axis.PointAt(1 - float64(i)/float64(steps)) })
	if end.Distance(start) < barUnits {
		return geometry.Line{}, false
	}
	return geometry.Line{Start: start, End: end}, true
}

// dieCenter offsets the bar's center toward the text it frames. On an
// upright face screen-down is a quarter turn clockwise from the reading
// direction; underlines sit below the text and overlines above it.
func dieCenter(u Undoverline, cal config.Calibration) geometry.Point {
	offset := cal.UndoverlineOffsetMM * u.PixelsPerMM(cal)
	down := geometry.Unit(u.Angle() + math.Pi/2).Scale(offset)
	if u.Reading.Overline {
		return u.Line.Center().Add(down)
	}
	return u.Line.Center().Sub(down)
}
