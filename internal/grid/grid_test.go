package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/dicekey-reader/internal/config"
	"github.com/ironsheep/dicekey-reader/internal/dicekey"
	"github.com/ironsheep/dicekey-reader/internal/geometry"
	"github.com/ironsheep/dicekey-reader/internal/undoverline"
)

// lattice returns the 25 cell centers of a grid centered on center with the
// given angle and spacing.
func lattice(center geometry.Point, angle, spacing float64) [dicekey.NumFaces]geometry.Point {
	col := geometry.Unit(angle).Scale(spacing)
	row := geometry.Unit(angle + math.Pi/2).Scale(spacing)
	var out [dicekey.NumFaces]geometry.Point
	for i := range out {
		r, c := i/dicekey.GridSize, i%dicekey.GridSize
		out[i] = center.Add(col.Scale(float64(c - 2))).Add(row.Scale(float64(r - 2)))
	}
	return out
}

func diceAt(centers []geometry.Point, faceAngle float64) []Die {
	dice := make([]Die, len(centers))
	for i, c := range centers {
		dice[i] = Die{Center: c, Angle: faceAngle}
	}
	return dice
}

func TestReconstruct(t *testing.T) {
	cal := config.Default()
	center := geometry.Point{X: 400, Y: 300}
	cells := lattice(center, 0.2, 80)

	m, err := Reconstruct(diceAt(cells[:], 0.2), 8, cal)
	require.NoError(t, err)

	assert.InDelta(t, 0.2, m.Angle(), 1e-9)
	assert.InDelta(t, 80, m.ColumnSpacing(), 1e-9)
	assert.InDelta(t, 80, m.RowSpacing(), 1e-9)
	assert.InDelta(t, 0, m.Center.Distance(center), 1e-9)
	assert.InDelta(t, 0, m.TopLeft().Distance(cells[0]), 1e-9)

	for i, c := range cells {
		idx, ok := m.IndexOf(c)
		require.True(t, ok, "cell %d", i)
		assert.Equal(t, i, idx)
		assert.InDelta(t, 0, m.CellCenter(i).Distance(c), 1e-9)
	}
}

func TestReconstruct_HypothesisDieNotAtCenter(t *testing.T) {
	cal := config.Default()
	cells := lattice(geometry.Point{X: 300, Y: 300}, 0, 80)

	// Start the search from the bottom-right die.
	order := append([]geometry.Point{cells[24]}, cells[:24]...)
	m, err := Reconstruct(diceAt(order, 0), 8, cal)
	require.NoError(t, err)
	assert.InDelta(t, 0, m.Center.Distance(geometry.Point{X: 300, Y: 300}), 1e-9)
}

func TestReconstruct_StrayDieInRow(t *testing.T) {
	cal := config.Default()
	center := geometry.Point{X: 400, Y: 400}
	cells := lattice(center, 0, 80)

	// Halfway between cells 10 and 11, so the middle row holds six dice.
	stray := geometry.Midpoint(cells[10], cells[11])
	order := append([]geometry.Point{stray}, cells[10:15]...)
	order = append(order, cells[:10]...)
	order = append(order, cells[15:]...)

	m, err := Reconstruct(diceAt(order, 0), 8, cal)
	require.NoError(t, err)
	assert.InDelta(t, 0, m.Center.Distance(center), 1e-6)
	assert.InDelta(t, 80, m.ColumnSpacing(), 1e-6)

	_, ok := m.IndexOf(stray)
	assert.False(t, ok, "a point between two cells belongs to neither")
}

func TestReconstruct_TurnsModelUpright(t *testing.T) {
	cal := config.Default()
	cells := lattice(geometry.Point{X: 400, Y: 400}, 0.1, 80)

	// Every face is turned a quarter, so each die's own axes are rotated.
	m, err := Reconstruct(diceAt(cells[:], 0.1+math.Pi/2), 8, cal)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, m.Angle(), 1e-9)

	for i, c := range cells {
		idx, ok := m.IndexOf(c)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
}

func TestReconstruct_MissingDie(t *testing.T) {
	cal := config.Default()
	cells := lattice(geometry.Point{X: 400, Y: 300}, -0.3, 64)

	centers := append(append([]geometry.Point{}, cells[:12]...), cells[13:]...)
	noisy := diceAt(centers, -0.3)
	noisy[3].Center = noisy[3].Center.Add(geometry.Point{X: 1.2, Y: -0.8})

	m, err := Reconstruct(noisy, 6.4, cal)
	require.NoError(t, err)
	assert.InDelta(t, 0, m.CellCenter(12).Distance(cells[12]), 2)

	idx, ok := m.IndexOf(cells[12])
	require.True(t, ok)
	assert.Equal(t, 12, idx)
}

func TestReconstruct_NotFound(t *testing.T) {
	cal := config.Default()
	cells := lattice(geometry.Point{X: 400, Y: 400}, 0, 80)

	irregular := cells
	for i := range irregular {
		if i%dicekey.GridSize >= 3 {
			irregular[i].X += 20
		}
	}

	tests := []struct {
		name string
		dice []Die
		ppm  float64
	}{
		{"no dice", nil, 8},
		{"missing first row", diceAt(cells[dicekey.GridSize:], 0), 8},
		{"uneven columns", diceAt(irregular[:], 0), 8},
		{"no scale", diceAt(cells[:], 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reconstruct(tt.dice, tt.ppm, cal)
			assert.ErrorIs(t, err, dicekey.ErrGridNotFound)
		})
	}
}

func TestIndexOf_Rejects(t *testing.T) {
	m := &Model{
		Center:     geometry.Point{X: 200, Y: 200},
		ColumnStep: geometry.Point{X: 40},
		RowStep:    geometry.Point{Y: 40},
		Epsilon:    0.3,
	}

	tests := []struct {
		name string
		p    geometry.Point
		want int
		ok   bool
	}{
		{"center", geometry.Point{X: 200, Y: 200}, 12, true},
		{"near top-left", geometry.Point{X: 130, Y: 125}, 0, true},
		{"between cells", geometry.Point{X: 220, Y: 200}, 0, false},
		{"outside grid", geometry.Point{X: 40, Y: 200}, 0, false},
		{"just outside edge", geometry.Point{X: 295, Y: 200}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := m.IndexOf(tt.p)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, idx)
			}
		})
	}
}

func bar(center geometry.Point, overline bool, length float64) undoverline.Undoverline {
	half := geometry.Point{X: length / 2}
	return undoverline.Undoverline{
		Line:      geometry.Line{Start: center.Sub(half), End: center.Add(half)},
		Reading:   undoverline.Reading{Overline: overline},
		DieCenter: center,
	}
}

func TestPairDice(t *testing.T) {
	lines := []undoverline.Undoverline{
		bar(geometry.Point{X: 100, Y: 100}, false, 52),
		bar(geometry.Point{X: 300, Y: 100}, true, 52),
		bar(geometry.Point{X: 102, Y: 99}, true, 52),
		bar(geometry.Point{X: 200, Y: 100}, false, 52),
	}

	dice := PairDice(lines, 8)
	require.Len(t, dice, 3)

	assert.True(t, dice[0].Paired())
	assert.Same(t, &lines[0], dice[0].Underline)
	assert.Same(t, &lines[2], dice[0].Overline)
	assert.InDelta(t, 0, dice[0].Center.Distance(geometry.Point{X: 101, Y: 99.5}), 1e-9)

	assert.False(t, dice[1].Paired())
	assert.Same(t, &lines[3], dice[1].Underline)

	assert.False(t, dice[2].Paired())
	assert.Same(t, &lines[1], dice[2].Overline)
}

func TestCells(t *testing.T) {
	m := &Model{
		Center:     geometry.Point{X: 200, Y: 200},
		ColumnStep: geometry.Point{X: 40},
		RowStep:    geometry.Point{Y: 40},
		Epsilon:    0.3,
	}
	lines := []undoverline.Undoverline{
		bar(geometry.Point{X: 206, Y: 200}, false, 52),
		bar(geometry.Point{X: 201, Y: 200}, false, 52),
		bar(geometry.Point{X: 199, Y: 199}, true, 52),
		bar(geometry.Point{X: 120, Y: 120}, true, 52),
		bar(geometry.Point{X: 500, Y: 500}, true, 52),
	}

	cells := m.Cells(lines)
	assert.Same(t, &lines[1], cells[12].Underline)
	assert.Same(t, &lines[2], cells[12].Overline)
	assert.Same(t, &lines[3], cells[0].Overline)
	assert.Nil(t, cells[0].Underline)
	assert.True(t, cells[0].Read())
	assert.False(t, cells[24].Read())
	assert.Equal(t, geometry.Point{X: 280, Y: 280}, cells[24].Center)
}

func TestPixelsPerMM(t *testing.T) {
	cal := config.Default()
	lines := []undoverline.Undoverline{
		bar(geometry.Point{}, false, 60),
		bar(geometry.Point{}, false, 52),
		bar(geometry.Point{}, true, 52),
	}
	assert.InDelta(t, 8, PixelsPerMM(lines, cal), 1e-9)
	assert.Zero(t, PixelsPerMM(nil, cal))
}
