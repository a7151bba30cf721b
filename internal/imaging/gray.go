package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/dicekey-reader/internal/geometry"
)

// Grayscale converts img to 8-bit luminance with bild, keeping one channel
// of its gray RGBA output. Images that are already *image.Gray are returned
// unchanged.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	rgba := effect.Grayscale(img)
	g := image.NewGray(rgba.Bounds())
	for i := range g.Pix {
		g.Pix[i] = rgba.Pix[4*i]
	}
	return g
}

// Sampler reads interpolated intensities (0..255) from a grayscale frame.
type Sampler struct {
	img *image.Gray
}

// NewSampler wraps a grayscale frame.
func NewSampler(img *image.Gray) *Sampler {
	return &Sampler{img: img}
}

// Bounds returns the bounds of the underlying frame.
func (s *Sampler) Bounds() image.Rectangle { return s.img.Bounds() }

// At returns the bilinearly interpolated intensity at p. ok is false when p
// lies outside the frame.
func (s *Sampler) At(p geometry.Point) (v float64, ok bool) {
	b := s.img.Bounds()
	if p.X < float64(b.Min.X) || p.Y < float64(b.Min.Y) ||
		p.X > float64(b.Max.X-1) || p.Y > float64(b.Max.Y-1) {
		return 0, false
	}
	x0, y0 := math.Floor(p.X), math.Floor(p.Y)
	fx, fy := p.X-x0, p.Y-y0
	ix, iy := int(x0), int(y0)
	ix1, iy1 := min(ix+1, b.Max.X-1), min(iy+1, b.Max.Y-1)

	v00 := float64(s.img.GrayAt(ix, iy).Y)
	v10 := float64(s.img.GrayAt(ix1, iy).Y)
	v01 := float64(s.img.GrayAt(ix, iy1).Y)
	v11 := float64(s.img.GrayAt(ix1, iy1).Y)

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy, true
}

// SampleLine returns n intensities evenly spaced along line, endpoints
// included. ok is false if any sample falls outside the frame.
func (s *Sampler) SampleLine(line geometry.Line, n int) ([]float64, bool) {
	if n < 2 {
		n = 2
	}
	out := make([]float64, n)
	for i := range out {
		v, ok := s.At(line.PointAt(float64(i) / float64(n-1)))
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
