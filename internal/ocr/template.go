package ocr

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// inkLevel is the luminance below which a pixel counts as ink.
const inkLevel = 128

// aspectWeight scales the penalty for a glyph whose ink box has a different
// shape from the template's.
const aspectWeight = 0.1

var (
	templateOnce  sync.Once
	templateCache map[byte]*image.Gray
)

// Template returns the black-on-white bitmap of ch in the 7x13 basic font.
func Template(ch byte) (*image.Gray, bool) {
	templateOnce.Do(buildTemplates)
	t, ok := templateCache[ch]
	return t, ok
}

func buildTemplates() {
	face := basicfont.Face7x13
	templateCache = make(map[byte]*image.Gray)
	for ch := byte('0'); ch <= 'Z'; ch++ {
		if ch > '9' && ch < 'A' {
			continue
		}
		img := image.NewGray(image.Rect(0, 0, face.Advance, face.Height))
		draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
		d := &font.Drawer{
			Dst:  img,
			Src:  image.Black,
			Face: face,
			Dot:  fixed.P(0, face.Ascent),
		}
		d.DrawString(string(rune(ch)))
		templateCache[ch] = img
	}
}

// TemplateMatcher ranks characters by the fraction of pixels that differ
// between the glyph and each template, after both are cropped to their ink
// and the template is stretched to the glyph's size.
type TemplateMatcher struct{}

// NewTemplateMatcher returns a matcher over the basic font templates.
func NewTemplateMatcher() *TemplateMatcher {
	return &TemplateMatcher{}
}

// Recognize implements Recognizer.
func (m *TemplateMatcher) Recognize(glyph image.Image, alphabet string) ([]Candidate, error) {
	box, ok := inkBounds(glyph)
	if !ok {
		return nil, nil
	}
	w, h := box.Dx(), box.Dy()

	candidates := make([]Candidate, 0, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		ch := alphabet[i]
		tmpl, ok := Template(ch)
		if !ok {
			continue
		}
		tbox, ok := inkBounds(tmpl)
		if !ok {
			continue
		}
		scaled := imaging.Resize(imaging.Crop(tmpl, tbox), w, h, imaging.NearestNeighbor)

		mismatched := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if isInk(glyph.At(box.Min.X+x, box.Min.Y+y)) != (scaled.NRGBAAt(x, y).R < inkLevel) {
					mismatched++
				}
			}
		}
		aspect := math.Abs(math.Log((float64(w) / float64(h)) / (float64(tbox.Dx()) / float64(tbox.Dy()))))
		candidates = append(candidates, Candidate{
			Character: ch,
			Error:     float64(mismatched)/float64(w*h) + aspectWeight*aspect,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Error < candidates[j].Error
	})
	return candidates, nil
}

// inkBounds returns the smallest rectangle holding every ink pixel.
func inkBounds(img image.Image) (image.Rectangle, bool) {
	b := img.Bounds()
	box := image.Rectangle{Min: b.Max, Max: b.Min}
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !isInk(img.At(x, y)) {
				continue
			}
			found = true
			box.Min.X = min(box.Min.X, x)
			box.Min.Y = min(box.Min.Y, y)
			box.Max.X = max(box.Max.X, x+1)
			box.Max.Y = max(box.Max.Y, y+1)
		}
	}
	return box, found
}

func isInk(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y < inkLevel
}
