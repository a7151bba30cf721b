//go:build opencv

package detection

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/dicekey-reader/internal/geometry"
	"github.com/ironsheep/dicekey-reader/internal/imaging"
)

// levelPadding is the margin of paper around a contour sampled for its level.
const levelPadding = 2

// OpenCVFinder finds candidates with OpenCV's contour tracing and minimum
// area rectangles.
type OpenCVFinder struct {
	opts Options
	// BlockSize is the adaptive threshold neighborhood in pixels. It must
	// be odd.
	BlockSize int
}

// NewOpenCVFinder returns a finder using opts.
func NewOpenCVFinder(opts Options) (*OpenCVFinder, error) {
	return &OpenCVFinder{opts: opts.withDefaults(), BlockSize: 51}, nil
}

// FindCandidates implements Finder.
func (f *OpenCVFinder) FindCandidates(img image.Image) ([]geometry.RotatedRect, error) {
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	gray := imaging.Grayscale(img)
	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil, fmt.Errorf("converting frame to mat: %w", err)
	}
	defer mat.Close()

	if f.opts.BlurRadius > 0 {
		k := int(f.opts.BlurRadius)*2 + 1
		gocv.GaussianBlur(mat, &mat, image.Point{X: k, Y: k}, f.opts.BlurRadius, f.opts.BlurRadius, gocv.BorderDefault)
	}

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.AdaptiveThreshold(mat, &binary, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, f.BlockSize, 10)

	contours := gocv.FindContours(binary, gocv.RetrievalList, gocv.ChainApproxNone)
	defer contours.Close()

	origin := gray.Bounds().Min
	rects := make([]geometry.RotatedRect, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		if gocv.ContourArea(contour) < float64(f.opts.MinPixels) {
			continue
		}
		rr := gocv.MinAreaRect(contour)
		center := geometry.Point{
			X: float64(rr.Center.X + origin.X),
			Y: float64(rr.Center.Y + origin.Y),
		}
		r := geometry.NewRotatedRect(center, float64(rr.Width), float64(rr.Height), rr.Angle)
		if !f.opts.elongated(r) {
			continue
		}
		// The adaptive threshold has no single level, so each bar gets the
		// split of the pixels around it.
		level, ok := regionLevel(gray, gocv.BoundingRect(contour).Add(origin), levelPadding, f.opts.MinContrast)
		if !ok {
			continue
		}
		r.Threshold = level
		rects = append(rects, r)
	}

	rects = dominantCluster(rects, f.opts.AreaRatio)
	sortCandidates(rects)
	return rects, nil
}
