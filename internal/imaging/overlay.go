package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/dicekey-reader/internal/geometry"
)

// OverlayCell is one grid cell to mark on the overlay.
type OverlayCell struct {
	Index     int
	Center    geometry.Point
	HalfSize  float64
	Read      bool
	Magnitude int
}

// OverlayResult is the rendered overlay as a base64 PNG.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Cells       int    `json:"cells"`
}

var (
	overlayGood   = colorful.Color{R: 0.18, G: 0.80, B: 0.44}
	overlayBad    = colorful.Color{R: 0.91, G: 0.30, B: 0.24}
	overlayUnread = color.RGBA{128, 128, 128, 255}
)

// overlayRampMax is the error magnitude drawn fully red.
const overlayRampMax = 8

// CellColor returns the marker colour for a cell: gray when nothing was
// read, otherwise a hue blend from green (no error) to red.
func CellColor(read bool, magnitude int) color.Color {
	if !read {
		return overlayUnread
	}
	t := math.Min(float64(magnitude), overlayRampMax) / overlayRampMax
	return overlayGood.BlendHcl(overlayBad, t).Clamped()
}

// RenderOverlay draws a square outline and the cell index at each cell.
func RenderOverlay(img image.Image, cells []OverlayCell) (*OverlayResult, error) {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 180}

	for _, cell := range cells {
		c := CellColor(cell.Read, cell.Magnitude)
		drawSquare(result, cell.Center, cell.HalfSize, c)
		drawLabel(result, int(cell.Center.X)-3, int(cell.Center.Y)-3, strconv.Itoa(cell.Index), labelColor, bgColor)
	}

	encoded, err := encodePNG(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}

	return &OverlayResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
		Cells:       len(cells),
	}, nil
}

// drawSquare outlines an axis-aligned square two pixels thick.
func drawSquare(img *image.RGBA, center geometry.Point, half float64, c color.Color) {
	bounds := img.Bounds()
	x1, y1 := int(center.X-half), int(center.Y-half)
	x2, y2 := int(center.X+half), int(center.Y+half)
	set := func(x, y int) {
		if (image.Point{X: x, Y: y}).In(bounds) {
			img.Set(x, y, c)
		}
	}
	for t := 0; t < 2; t++ {
		for x := x1; x <= x2; x++ {
			set(x, y1+t)
			set(x, y2-t)
		}
		for y := y1; y <= y2; y++ {
			set(x1+t, y)
			set(x2-t, y)
		}
	}
}

// drawLabel draws text in a 3x5 pixel digit font on a filled background.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
