package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointArithmetic(t *testing.T) {
	p := Point{X: 3, Y: 4}
	q := Point{X: 1, Y: 1}

	assert.Equal(t, Point{X: 4, Y: 5}, p.Add(q))
	assert.Equal(t, Point{X: 2, Y: 3}, p.Sub(q))
	assert.Equal(t, Point{X: 6, Y: 8}, p.Scale(2))
	assert.InDelta(t, 7.0, p.Dot(q), 1e-9)
	assert.InDelta(t, 5.0, p.Norm(), 1e-9)
	assert.InDelta(t, 5.0, p.Distance(Point{}), 1e-9)
}

func TestPointRotate(t *testing.T) {
	r := Point{X: 1, Y: 0}.Rotate(math.Pi / 2)
	assert.InDelta(t, 0, r.X, 1e-9)
	assert.InDelta(t, 1, r.Y, 1e-9)
}

func TestLine(t *testing.T) {
	l := Line{Start: Point{X: 0, Y: 0}, End: Point{X: 10, Y: 0}}

	assert.InDelta(t, 10, l.Length(), 1e-9)
	assert.InDelta(t, 0, l.Angle(), 1e-9)
	assert.Equal(t, Point{X: 5, Y: 0}, l.Center())
	assert.Equal(t, Point{X: 2.5, Y: 0}, l.PointAt(0.25))
	assert.InDelta(t, math.Pi, math.Abs(l.Reversed().Angle()), 1e-9)
}

func TestRotatedRectLongAxis(t *testing.T) {
	tests := []struct {
		name       string
		w, h, deg  float64
		wantLength float64
		wantAngle  float64
	}{
		{"wide", 20, 4, 0, 20, 0},
		{"tall", 4, 20, 0, 20, math.Pi / 2},
		{"tilted", 20, 4, 30, 20, math.Pi / 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRotatedRect(Point{X: 50, Y: 50}, tt.w, tt.h, tt.deg)
			axis := r.LongAxis()
			assert.InDelta(t, tt.wantLength, axis.Length(), 1e-9)
			assert.InDelta(t, tt.wantAngle, axis.Angle(), 1e-9)
			assert.InDelta(t, 50, axis.Center().X, 1e-9)
			assert.InDelta(t, 50, axis.Center().Y, 1e-9)
		})
	}
}

func TestRotatedRectCorners(t *testing.T) {
	r := NewRotatedRect(Point{X: 10, Y: 10}, 4, 2, 0)
	assert.Equal(t, Point{X: 8, Y: 9}, r.Corners[0])
	assert.Equal(t, Point{X: 12, Y: 9}, r.Corners[1])
	assert.Equal(t, Point{X: 12, Y: 11}, r.Corners[2])
	assert.Equal(t, Point{X: 8, Y: 11}, r.Corners[3])
	assert.InDelta(t, 8, r.Area(), 1e-9)
}

func TestQuarterTurns(t *testing.T) {
	tests := []struct {
		angle float64
		want  int
	}{
		{0, 0},
		{0.3, 0},
		{math.Pi / 2, 1},
		{math.Pi, 2},
		{-math.Pi, 2},
		{-math.Pi / 2, 3},
		{3 * math.Pi / 2, 3},
		{2*math.Pi - 0.1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuarterTurns(tt.angle), "angle %.3f", tt.angle)
	}
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 0, NormalizeAngle(2*math.Pi), 1e-9)
	assert.InDelta(t, -math.Pi/2, NormalizeAngle(3*math.Pi/2), 1e-9)
	assert.InDelta(t, math.Pi/4, NormalizeAngle(math.Pi/4), 1e-9)
}
