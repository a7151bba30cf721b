package detection

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/dicekey-reader/internal/geometry"
	"github.com/ironsheep/dicekey-reader/internal/imaging"
	"github.com/ironsheep/dicekey-reader/internal/threshold"
)

// histogramSamples is the approximate number of pixels sampled to choose
// the binarization level.
const histogramSamples = 10000

// ContourFinder finds dark elongated components without native libraries.
type ContourFinder struct {
	opts Options
}

// NewContourFinder returns a finder using opts. Zero fields take their
// DefaultOptions value.
func NewContourFinder(opts Options) *ContourFinder {
	return &ContourFinder{opts: opts.withDefaults()}
}

// FindCandidates implements Finder.
//
// # Algorithm
//
//  1. Grayscale, optionally blurred by Options.BlurRadius
//  2. Binarize at the bimodal split of a subsampled intensity histogram
//  3. Group 8-connected dark pixels with an iterative flood fill
//  4. Fit a rotated rectangle to each component from its covariance
//  5. Keep elongated rectangles in the dominant area cluster
func (f *ContourFinder) FindCandidates(img image.Image) ([]geometry.RotatedRect, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	var src image.Image = img
	if f.opts.BlurRadius > 0 {
		src = blur.Gaussian(img, f.opts.BlurRadius)
	}
	gray := imaging.Grayscale(src)

	level, ok, err := binarizationLevel(gray, f.opts.MinContrast)
	if err != nil {
		return nil, fmt.Errorf("choosing binarization level: %w", err)
	}
	if !ok {
		return nil, nil
	}

	width, height := gray.Bounds().Dx(), gray.Bounds().Dy()
	dark := darkMask(gray, level)
	components := findComponents(dark, width, height, f.opts.MinPixels)

	origin := gray.Bounds().Min
	rects := make([]geometry.RotatedRect, 0, len(components))
	for _, c := range components {
		r := fitRect(c, origin)
		if !f.opts.elongated(r) {
			continue
		}
		r.Threshold = level
		rects = append(rects, r)
	}

	rects = dominantCluster(rects, f.opts.AreaRatio)
	sortCandidates(rects)
	return rects, nil
}

// binarizationLevel returns the intensity separating ink from paper. ok is
// false when the frame has too little contrast to contain ink.
func binarizationLevel(gray *image.Gray, minContrast float64) (level float64, ok bool, err error) {
	b := gray.Bounds()
	step := int(math.Sqrt(float64(b.Dx()*b.Dy()) / histogramSamples))
	if step < 1 {
		step = 1
	}

	samples := make([]float64, 0, (b.Dx()/step+1)*(b.Dy()/step+1))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			samples = append(samples, float64(gray.GrayAt(x, y).Y))
		}
	}
	if len(samples) < 2 {
		return 0, false, nil
	}
	if floats.Max(samples)-floats.Min(samples) < minContrast {
		return 0, false, nil
	}

	level, err = threshold.Bimodal(samples, 1, 1)
	if err != nil {
		return 0, false, err
	}
	return level, true, nil
}

// darkMask marks every pixel strictly below level.
func darkMask(gray *image.Gray, level float64) [][]bool {
	b := gray.Bounds()
	mask := make([][]bool, b.Dy())
	for y := 0; y < b.Dy(); y++ {
		mask[y] = make([]bool, b.Dx())
		for x := 0; x < b.Dx(); x++ {
			mask[y][x] = float64(gray.GrayAt(x+b.Min.X, y+b.Min.Y).Y) < level
		}
	}
	return mask
}

// findComponents groups 8-connected set pixels of mask. Components with
// fewer than minPixels pixels are discarded as noise.
func findComponents(mask [][]bool, width, height, minPixels int) [][]image.Point {
	visited := make([][]bool, height)
	for y := 0; y < height; y++ {
		visited[y] = make([]bool, width)
	}

	components := make([][]image.Point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask[y][x] && !visited[y][x] {
				component := make([]image.Point, 0)
				floodFill(mask, visited, x, y, width, height, &component)
				if len(component) >= minPixels {
					components = append(components, component)
				}
			}
		}
	}
	return components
}

// floodFill collects the component containing (startX, startY). It keeps
// an explicit stack so large components cannot overflow the call stack.
func floodFill(mask, visited [][]bool, startX, startY, width, height int, component *[]image.Point) {
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || !mask[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		*component = append(*component, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
}

// fitRect returns the rectangle aligned with the principal axis of the
// component's pixels that covers all of them. Width runs along the
// principal axis. Each pixel counts as a unit square, so a single row of n
// pixels yields an n by 1 rectangle.
func fitRect(component []image.Point, origin image.Point) geometry.RotatedRect {
	xs := make([]float64, len(component))
	ys := make([]float64, len(component))
	for i, p := range component {
		xs[i] = float64(p.X + origin.X)
		ys[i] = float64(p.Y + origin.Y)
	}
	mean := geometry.Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}

	cxx := stat.Variance(xs, nil)
	cyy := stat.Variance(ys, nil)
	cxy := stat.Covariance(xs, ys, nil)
	theta := 0.5 * math.Atan2(2*cxy, cxx-cyy)

	u := geometry.Unit(theta)
	v := geometry.Unit(theta + math.Pi/2)
	along := make([]float64, len(component))
	across := make([]float64, len(component))
	for i := range component {
		d := geometry.Point{X: xs[i], Y: ys[i]}.Sub(mean)
		along[i] = d.Dot(u)
		across[i] = d.Dot(v)
	}
	aMin, aMax := floats.Min(along), floats.Max(along)
	bMin, bMax := floats.Min(across), floats.Max(across)

	center := mean.Add(u.Scale((aMin + aMax) / 2)).Add(v.Scale((bMin + bMax) / 2))
	return geometry.NewRotatedRect(center, aMax-aMin+1, bMax-bMin+1, theta*180/math.Pi)
}
