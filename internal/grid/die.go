package grid

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/dicekey-reader/internal/config"
	"github.com/ironsheep/dicekey-reader/internal/geometry"
	"github.com/ironsheep/dicekey-reader/internal/undoverline"
)

// Die is one face located in the frame, seen through its underline, its
// overline or both.
type Die struct {
	Underline *undoverline.Undoverline `json:"underline,omitempty"`
	Overline  *undoverline.Undoverline `json:"overline,omitempty"`
	Center    geometry.Point           `json:"center"`
	// Angle is the reading direction of the face in radians.
	Angle float64 `json:"angle"`
}

// Paired reports whether both bars were found.
func (d Die) Paired() bool { return d.Underline != nil && d.Overline != nil }

// PixelsPerMM estimates the frame scale from the median bar length.
func PixelsPerMM(lines []undoverline.Undoverline, cal config.Calibration) float64 {
	if len(lines) == 0 {
		return 0
	}
	lengths := make([]float64, len(lines))
	for i, u := range lines {
		lengths[i] = u.Line.Length()
	}
	sort.Float64s(lengths)
	return cal.PixelsPerMM(stat.Quantile(0.5, stat.Empirical, lengths, nil))
}

// PairDice matches every underline with the nearest unused overline whose
// implied die center lies within tolerance pixels. Bars left without a
// partner become single-bar dice. Dice are returned in input order of their
// first bar.
func PairDice(lines []undoverline.Undoverline, tolerance float64) []Die {
	used := make([]bool, len(lines))
	dice := make([]Die, 0, len(lines))

	for i := range lines {
		if used[i] || lines[i].Reading.Overline {
			continue
		}
		best, bestDist := -1, tolerance
		for j := range lines {
			if used[j] || !lines[j].Reading.Overline {
				continue
			}
			if d := lines[i].DieCenter.Distance(lines[j].DieCenter); d <= bestDist {
				best, bestDist = j, d
			}
		}
		used[i] = true
		if best < 0 {
			dice = append(dice, single(&lines[i]))
			continue
		}
		used[best] = true
		dice = append(dice, pair(&lines[i], &lines[best]))
	}

	for j := range lines {
		if !used[j] {
			dice = append(dice, single(&lines[j]))
		}
	}
	return dice
}

func single(u *undoverline.Undoverline) Die {
	d := Die{Center: u.DieCenter, Angle: u.Angle()}
	if u.Reading.Overline {
		d.Overline = u
	} else {
		d.Underline = u
	}
	return d
}

func pair(under, over *undoverline.Undoverline) Die {
	return Die{
		Underline: under,
		Overline:  over,
		Center:    geometry.Midpoint(under.DieCenter, over.DieCenter),
		Angle:     meanAngle(under.Angle(), over.Angle()),
	}
}

func meanAngle(a, b float64) float64 {
	return math.Atan2(math.Sin(a)+math.Sin(b), math.Cos(a)+math.Cos(b))
}
