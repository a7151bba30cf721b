package grid

import (
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/dicekey-reader/internal/config"
	"github.com/ironsheep/dicekey-reader/internal/dicekey"
	"github.com/ironsheep/dicekey-reader/internal/geometry"
	"github.com/ironsheep/dicekey-reader/internal/undoverline"
)

// Model is a reconstructed grid. ColumnStep moves one cell along a row and
// RowStep one cell down a column; RowStep is a quarter turn clockwise from
// ColumnStep.
type Model struct {
	Center     geometry.Point `json:"center"`
	ColumnStep geometry.Point `json:"column_step"`
	RowStep    geometry.Point `json:"row_step"`
	// Epsilon is how far, in cells, a point may sit from a lattice position.
	Epsilon float64 `json:"epsilon"`
}

// Angle returns the direction of ColumnStep in radians.
func (m *Model) Angle() float64 { return m.ColumnStep.Angle() }

// ColumnSpacing returns the distance between adjacent columns in pixels.
func (m *Model) ColumnSpacing() float64 { return m.ColumnStep.Norm() }

// RowSpacing returns the distance between adjacent rows in pixels.
func (m *Model) RowSpacing() float64 { return m.RowStep.Norm() }

// CellCenter returns the expected center of cell i (row-major).
func (m *Model) CellCenter(i int) geometry.Point {
	row, col := i/dicekey.GridSize, i%dicekey.GridSize
	return m.Center.
		Add(m.ColumnStep.Scale(float64(col - 2))).
		Add(m.RowStep.Scale(float64(row - 2)))
}

// TopLeft returns the expected center of cell 0.
func (m *Model) TopLeft() geometry.Point { return m.CellCenter(0) }

// IndexOf returns the cell p belongs to. ok is false when p lies outside
// the grid by more than Epsilon or more than Epsilon from the nearest cell
// position.
func (m *Model) IndexOf(p geometry.Point) (index int, ok bool) {
	v := p.Sub(m.Center)
	col := v.Dot(m.ColumnStep)/m.ColumnStep.Dot(m.ColumnStep) + 2
	row := v.Dot(m.RowStep)/m.RowStep.Dot(m.RowStep) + 2

	last := float64(dicekey.GridSize - 1)
	for _, f := range []float64{col, row} {
		if f < -m.Epsilon || f > last+m.Epsilon {
			return 0, false
		}
		if math.Abs(f-math.Round(f)) > m.Epsilon {
			return 0, false
		}
	}
	return int(math.Round(row))*dicekey.GridSize + int(math.Round(col)), true
}

// Cell gathers the bars assigned to one grid position.
type Cell struct {
	Index     int                      `json:"index"`
	Center    geometry.Point           `json:"center"`
	Underline *undoverline.Undoverline `json:"underline,omitempty"`
	Overline  *undoverline.Undoverline `json:"overline,omitempty"`
}

// Read reports whether any bar was assigned to the cell.
func (c Cell) Read() bool { return c.Underline != nil || c.Overline != nil }

// Cells assigns every bar to the cell of its implied die center. When two
// bars of the same kind land in one cell, the one closer to the cell's
// expected center is kept.
func (m *Model) Cells(lines []undoverline.Undoverline) [dicekey.NumFaces]Cell {
	var cells [dicekey.NumFaces]Cell
	for i := range cells {
		cells[i] = Cell{Index: i, Center: m.CellCenter(i)}
	}
	for i := range lines {
		u := &lines[i]
		idx, ok := m.IndexOf(u.DieCenter)
		if !ok {
			continue
		}
		slot := &cells[idx].Underline
		if u.Reading.Overline {
			slot = &cells[idx].Overline
		}
		if *slot == nil || u.DieCenter.Distance(cells[idx].Center) < (*slot).DieCenter.Distance(cells[idx].Center) {
			*slot = u
		}
	}
	return cells
}

// Reconstruct finds the grid implied by dice at a frame scale of
// pixelsPerMM. It returns an error wrapping dicekey.ErrGridNotFound when no
// die sees five evenly spaced dice along both its row and its column.
//
// The model is turned by quarter turns so that its angle lies within 45°
// of the frame's horizontal.
func Reconstruct(dice []Die, pixelsPerMM float64, cal config.Calibration) (*Model, error) {
	if pixelsPerMM <= 0 {
		return nil, fmt.Errorf("%w: no frame scale", dicekey.ErrGridNotFound)
	}
	tolerance := cal.AlignmentToleranceMM * pixelsPerMM

	for h := range dice {
		m, ok := hypothesis(dice, h, tolerance, cal)
		if ok {
			m.Epsilon = cal.CellEpsilon
			return m.upright(), nil
		}
	}
	return nil, fmt.Errorf("%w: %d dice, none aligned with a full row and column", dicekey.ErrGridNotFound, len(dice))
}

// member is a die projected onto a hypothesis' axes.
type member struct {
	center geometry.Point
	along  float64
	across float64
}

// hypothesis tries dice[h] as a lattice point.
func hypothesis(dice []Die, h int, tolerance float64, cal config.Calibration) (*Model, bool) {
	origin := dice[h].Center
	u := geometry.Unit(dice[h].Angle)
	n := geometry.Unit(dice[h].Angle + math.Pi/2)

	self := member{center: origin}
	row := []member{self}
	col := []member{self}
	for i, d := range dice {
		if i == h {
			continue
		}
		v := d.Center.Sub(origin)
		m := member{center: d.Center, along: v.Dot(u), across: v.Dot(n)}
		if math.Abs(m.across) <= tolerance {
			row = append(row, m)
		}
		if math.Abs(m.along) <= tolerance {
			col = append(col, m)
		}
	}
	// A die plus its four row neighbours, and the same along the column.
	// A sixth member means a stray line fell inside the tolerance band, and
	// the spacing check below would reject it anyway.
	if len(row) != dicekey.GridSize || len(col) != dicekey.GridSize {
		return nil, false
	}

	sort.Slice(row, func(i, j int) bool { return row[i].along < row[j].along })
	sort.Slice(col, func(i, j int) bool { return col[i].across < col[j].across })

	rowValues := make([]float64, len(row))
	for i, m := range row {
		rowValues[i] = m.along
	}
	colValues := make([]float64, len(col))
	for i, m := range col {
		colValues[i] = m.across
	}
	if !evenlySpaced(rowValues, cal) || !evenlySpaced(colValues, cal) {
		return nil, false
	}

	steps := float64(dicekey.GridSize - 1)
	columnStep := row[len(row)-1].center.Sub(row[0].center).Scale(1 / steps)
	rowStep := col[len(col)-1].center.Sub(col[0].center).Scale(1 / steps)

	// The hypothesis die's own cell is the count of members before it.
	colIndex := countBelow(rowValues, 0)
	rowIndex := countBelow(colValues, 0)

	center := origin.
		Add(columnStep.Scale(float64(2 - colIndex))).
		Add(rowStep.Scale(float64(2 - rowIndex)))
	return &Model{Center: center, ColumnStep: columnStep, RowStep: rowStep}, true
}

// evenlySpaced reports whether every adjacent difference of sorted values
// is within tolerance of their mean.
func evenlySpaced(sorted []float64, cal config.Calibration) bool {
	mean := (sorted[len(sorted)-1] - sorted[0]) / float64(len(sorted)-1)
	if mean <= 0 {
		return false
	}
	allowed := math.Max(cal.StepTolerance*mean, cal.StepTolerancePixels)
	for i := 1; i < len(sorted); i++ {
		if math.Abs(sorted[i]-sorted[i-1]-mean) > allowed {
			return false
		}
	}
	return true
}

func countBelow(sorted []float64, v float64) int {
	n := 0
	for _, s := range sorted {
		if s < v {
			n++
		}
	}
	return n
}

// upright turns the model by quarter turns until its angle is in
// [-45°, 45°).
func (m *Model) upright() *Model {
	for i := 0; i < 4; i++ {
		a := geometry.NormalizeAngle(m.Angle())
		switch {
		case a >= math.Pi/4:
			// A quarter turn counter-clockwise.
			m.ColumnStep, m.RowStep = m.RowStep.Scale(-1), m.ColumnStep
		case a < -math.Pi/4:
			m.ColumnStep, m.RowStep = m.RowStep, m.ColumnStep.Scale(-1)
		default:
			return m
		}
	}
	return m
}
