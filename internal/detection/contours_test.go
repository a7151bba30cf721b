package detection

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/ironsheep/dicekey-reader/internal/config"
	"github.com/ironsheep/dicekey-reader/internal/dicekey"
	"github.com/ironsheep/dicekey-reader/internal/geometry"
	"github.com/ironsheep/dicekey-reader/internal/render"
)

func sampleKey() dicekey.Credential {
	var faces [dicekey.NumFaces]dicekey.Face
	for i := range faces {
		faces[i] = dicekey.Face{
			Letter:      dicekey.Letters[i],
			Digit:       dicekey.Digits[i%len(dicekey.Digits)],
			Orientation: (i * 3) % 4,
		}
	}
	return dicekey.NewCredential(faces)
}

func whiteImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func fillRect(img *image.Gray, r image.Rectangle) {
	draw.Draw(img, r, &image.Uniform{C: color.Gray{Y: 0}}, image.Point{}, draw.Src)
}

// sameAxis reports whether two angles in degrees describe the same line
// direction.
func sameAxis(a, b, tolerance float64) bool {
	d := math.Mod(math.Abs(a-b), 180)
	return d <= tolerance || 180-d <= tolerance
}

func TestFindCandidatesRenderedKey(t *testing.T) {
	for _, angle := range []float64{0, 0.3, -0.7} {
		key, err := render.Render(sampleKey(), config.Default(), render.Options{Angle: angle})
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}

		got, err := NewContourFinder(DefaultOptions()).FindCandidates(key.Image)
		if err != nil {
			t.Fatalf("angle %v: FindCandidates() error = %v", angle, err)
		}
		// Stray text strokes may survive; the decoder rejects them.
		if len(got) < len(key.Bars) || len(got) > len(key.Bars)+5 {
			t.Errorf("angle %v: found %d candidates, want about %d", angle, len(got), len(key.Bars))
		}

		for i, want := range key.Bars {
			best := -1
			for j, r := range got {
				if best < 0 || r.Center.Distance(want.Center) < got[best].Center.Distance(want.Center) {
					best = j
				}
			}
			if best < 0 {
				t.Fatalf("angle %v: no candidates", angle)
			}
			r := got[best]
			if d := r.Center.Distance(want.Center); d > 1.5 {
				t.Errorf("angle %v bar %d: center off by %.2f px", angle, i, d)
			}
			if math.Abs(r.LongSide()-want.LongSide()) > 3 {
				t.Errorf("angle %v bar %d: long side = %.1f, want about %.1f", angle, i, r.LongSide(), want.LongSide())
			}
			if !sameAxis(r.AngleDegrees, want.AngleDegrees, 3) {
				t.Errorf("angle %v bar %d: angle = %.1f, want %.1f (mod 180)", angle, i, r.AngleDegrees, want.AngleDegrees)
			}
			if r.Threshold <= 0 || r.Threshold >= 255 {
				t.Errorf("angle %v bar %d: threshold = %v", angle, i, r.Threshold)
			}
		}
	}
}

func TestFindCandidatesBlankFrame(t *testing.T) {
	got, err := NewContourFinder(Options{}).FindCandidates(whiteImage(80, 60))
	if err != nil {
		t.Fatalf("FindCandidates() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("found %d candidates on a blank frame", len(got))
	}
}

func TestFindCandidatesEmptyImage(t *testing.T) {
	_, err := NewContourFinder(Options{}).FindCandidates(image.NewGray(image.Rect(0, 0, 0, 0)))
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("error = %v, want ErrEmptyImage", err)
	}
}

func TestFindCandidatesShapeFilters(t *testing.T) {
	img := whiteImage(200, 120)
	fillRect(img, image.Rect(10, 10, 50, 16))   // 40x6 bar
	fillRect(img, image.Rect(10, 40, 30, 60))   // square
	fillRect(img, image.Rect(100, 10, 102, 12)) // speck
	fillRect(img, image.Rect(60, 80, 66, 120))  // vertical bar touching the border

	got, err := NewContourFinder(Options{}).FindCandidates(img)
	if err != nil {
		t.Fatalf("FindCandidates() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("found %d candidates, want 2: %+v", len(got), got)
	}

	// Sorted top to bottom.
	horizontal, vertical := got[0], got[1]
	if horizontal.Center.Distance(geometry.Point{X: 29.5, Y: 12.5}) > 0.01 {
		t.Errorf("horizontal center = %+v", horizontal.Center)
	}
	if math.Abs(horizontal.Width-40) > 0.01 || math.Abs(horizontal.Height-6) > 0.01 {
		t.Errorf("horizontal size = %vx%v, want 40x6", horizontal.Width, horizontal.Height)
	}
	if vertical.Center.Distance(geometry.Point{X: 62.5, Y: 99.5}) > 0.01 {
		t.Errorf("vertical center = %+v", vertical.Center)
	}
	if math.Abs(vertical.LongSide()-40) > 0.01 || !sameAxis(vertical.AngleDegrees, 90, 0.01) {
		t.Errorf("vertical = %vx%v at %v degrees", vertical.Width, vertical.Height, vertical.AngleDegrees)
	}
}

func TestDominantCluster(t *testing.T) {
	bar := func(w float64) geometry.RotatedRect {
		return geometry.NewRotatedRect(geometry.Point{}, w, 8, 0)
	}

	tests := []struct {
		name  string
		rects []geometry.RotatedRect
		want  int
	}{
		{"too few to split", []geometry.RotatedRect{bar(50), bar(400)}, 2},
		{"uniform areas keep everything", []geometry.RotatedRect{bar(50), bar(51), bar(52), bar(53), bar(54)}, 5},
		{"small outliers dropped", []geometry.RotatedRect{bar(50), bar(51), bar(52), bar(53), bar(10), bar(12)}, 4},
		{"large outlier dropped", []geometry.RotatedRect{bar(50), bar(51), bar(52), bar(53), bar(300)}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dominantCluster(tt.rects, DefaultOptions().AreaRatio)
			if len(got) != tt.want {
				t.Errorf("kept %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestRegionLevel(t *testing.T) {
	img := whiteImage(40, 40)
	bar := image.Rect(10, 18, 30, 22)
	fillRect(img, bar)

	level, ok := regionLevel(img, bar, 2, 32)
	if !ok {
		t.Fatal("regionLevel() should find a level around a dark bar")
	}
	if level != 127.5 {
		t.Errorf("regionLevel() = %v, want 127.5", level)
	}

	if _, ok := regionLevel(img, bar, 0, 32); ok {
		t.Error("regionLevel() inside a solid bar should report no contrast")
	}
	if _, ok := regionLevel(img, image.Rect(100, 100, 120, 120), 2, 32); ok {
		t.Error("regionLevel() outside the frame should fail")
	}
}
