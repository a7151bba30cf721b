package detection

import (
	"errors"
	"image"
	"sort"

	"github.com/ironsheep/dicekey-reader/internal/geometry"
	"github.com/ironsheep/dicekey-reader/internal/threshold"
)

// ErrEmptyImage is returned for a frame with no pixels.
var ErrEmptyImage = errors.New("detection: image is empty")

// Finder reports rectangle candidates in a frame. Candidates carry no
// ordering guarantee.
type Finder interface {
	FindCandidates(img image.Image) ([]geometry.RotatedRect, error)
}

// Options tunes candidate selection.
type Options struct {
	// BlurRadius applies a Gaussian blur before binarizing. Zero disables it.
	BlurRadius float64

	// MinPixels drops components smaller than this many pixels.
	MinPixels int

	// MinAspect and MaxAspect bound the long side divided by the short side.
	MinAspect float64
	MaxAspect float64

	// MinContrast is the smallest spread between the dark and light
	// intensity modes for the frame to be searched at all.
	MinContrast float64

	// AreaRatio is how far apart the two area clusters must be before the
	// smaller cluster is dropped.
	AreaRatio float64
}

// DefaultOptions returns settings suited to undoverline bars, which are
// roughly six and a half times longer than they are thick.
func DefaultOptions() Options {
	return Options{
		MinPixels:   12,
		MinAspect:   3.5,
		MaxAspect:   14,
		MinContrast: 32,
		AreaRatio:   2.5,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinPixels < 2 {
		o.MinPixels = d.MinPixels
	}
	if o.MinAspect <= 0 {
		o.MinAspect = d.MinAspect
	}
	if o.MaxAspect <= 0 {
		o.MaxAspect = d.MaxAspect
	}
	if o.MinContrast <= 0 {
		o.MinContrast = d.MinContrast
	}
	if o.AreaRatio <= 1 {
		o.AreaRatio = d.AreaRatio
	}
	return o
}

func (o Options) elongated(r geometry.RotatedRect) bool {
	short := r.ShortSide()
	if short <= 0 {
		return false
	}
	aspect := r.LongSide() / short
	return aspect >= o.MinAspect && aspect <= o.MaxAspect
}

// dominantCluster splits candidates into two groups by area and keeps the
// larger group, unless the groups are too close in area to be told apart.
func dominantCluster(rects []geometry.RotatedRect, ratio float64) []geometry.RotatedRect {
	if len(rects) < 4 {
		return rects
	}
	areas := make([]float64, len(rects))
	for i, r := range rects {
		areas[i] = r.Area()
	}
	split, err := threshold.Bimodal(areas, 1, 1)
	if err != nil {
		return rects
	}

	var low, high []geometry.RotatedRect
	var lowSum, highSum float64
	for _, r := range rects {
		if r.Area() <= split {
			low = append(low, r)
			lowSum += r.Area()
		} else {
			high = append(high, r)
			highSum += r.Area()
		}
	}
	if len(low) == 0 || len(high) == 0 {
		return rects
	}
	lowMean := lowSum / float64(len(low))
	highMean := highSum / float64(len(high))
	if lowMean > 0 && highMean/lowMean < ratio {
		return rects
	}
	if len(low) > len(high) {
		return low
	}
	return high
}

// sortCandidates orders rectangles top to bottom then left to right, which
// keeps results stable for callers that log or compare them.
func sortCandidates(rects []geometry.RotatedRect) {
	sort.Slice(rects, func(i, j int) bool {
		a, b := rects[i].Center, rects[j].Center
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}

// regionLevel returns the bimodal level of the pixels in r grown by pad on
// every side and clipped to the frame. ok is false when the region has
// fewer than two pixels or less spread than minContrast.
func regionLevel(gray *image.Gray, r image.Rectangle, pad int, minContrast float64) (level float64, ok bool) {
	r = r.Inset(-pad).Intersect(gray.Bounds())
	if r.Dx()*r.Dy() < 2 {
		return 0, false
	}
	samples := make([]float64, 0, r.Dx()*r.Dy())
	lo, hi := 255.0, 0.0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v := float64(gray.GrayAt(x, y).Y)
			lo, hi = min(lo, v), max(hi, v)
			samples = append(samples, v)
		}
	}
	if hi-lo < minContrast {
		return 0, false
	}
	level, err := threshold.Bimodal(samples, 1, 1)
	if err != nil {
		return 0, false
	}
	return level, true
}
