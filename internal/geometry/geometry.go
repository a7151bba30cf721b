// Package geometry provides the small set of planar types shared by the
// detection, decoding and grid stages.
//
// All coordinates are image pixels with the origin at the top-left, X
// increasing rightward and Y increasing downward. Angles are in radians
// unless a name says otherwise; a positive angle turns clockwise on screen.
package geometry

import "math"

// Point is a 2D point with floating-point coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point { return Point{X: p.X * f, Y: p.Y * f} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Norm returns the Euclidean length of p.
func (p Point) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return p.Sub(q).Norm() }

// Angle returns the direction of p as a vector.
func (p Point) Angle() float64 { return math.Atan2(p.Y, p.X) }

// Rotate rotates p about the origin by angle.
func (p Point) Rotate(angle float64) Point {
	c, s := math.Cos(angle), math.Sin(angle)
	return Point{X: p.X*c - p.Y*s, Y: p.X*s + p.Y*c}
}

// Unit returns the unit vector pointing in direction angle.
func Unit(angle float64) Point {
	return Point{X: math.Cos(angle), Y: math.Sin(angle)}
}

// Midpoint returns the point halfway between p and q.
func Midpoint(p, q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Line is a directed segment from Start to End.
type Line struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Length returns the segment length.
func (l Line) Length() float64 { return l.Start.Distance(l.End) }

// Angle returns the direction from Start to End.
func (l Line) Angle() float64 { return l.End.Sub(l.Start).Angle() }

// Center returns the midpoint of the segment.
func (l Line) Center() Point { return Midpoint(l.Start, l.End) }

// PointAt interpolates along the segment; t=0 is Start and t=1 is End.
func (l Line) PointAt(t float64) Point {
	return l.Start.Add(l.End.Sub(l.Start).Scale(t))
}

// Reversed returns the same segment traversed End to Start.
func (l Line) Reversed() Line { return Line{Start: l.End, End: l.Start} }

// RotatedRect is a rectangle candidate as reported by a contour detector.
//
// Width runs along AngleDegrees and Height across it. Corners are in
// clockwise order starting nearest the rectangle's own top-left. Threshold
// is the intensity level the detector used to separate the shape from its
// background, or zero when unknown.
type RotatedRect struct {
	Center       Point    `json:"center"`
	Width        float64  `json:"width"`
	Height       float64  `json:"height"`
	AngleDegrees float64  `json:"angle_degrees"`
	Corners      [4]Point `json:"corners"`
	Threshold    float64  `json:"threshold"`
}

// NewRotatedRect builds a rectangle and fills in its corners.
func NewRotatedRect(center Point, width, height, angleDegrees float64) RotatedRect {
	r := RotatedRect{Center: center, Width: width, Height: height, AngleDegrees: angleDegrees}
	u := Unit(r.Angle()).Scale(width / 2)
	v := Unit(r.Angle() + math.Pi/2).Scale(height / 2)
	r.Corners = [4]Point{
		center.Sub(u).Sub(v),
		center.Add(u).Sub(v),
		center.Add(u).Add(v),
		center.Sub(u).Add(v),
	}
	return r
}

// Angle returns AngleDegrees in radians.
func (r RotatedRect) Angle() float64 { return r.AngleDegrees * math.Pi / 180 }

// Area returns Width*Height.
func (r RotatedRect) Area() float64 { return r.Width * r.Height }

// LongSide returns the length of the longer side.
func (r RotatedRect) LongSide() float64 { return math.Max(r.Width, r.Height) }

// ShortSide returns the length of the shorter side.
func (r RotatedRect) ShortSide() float64 { return math.Min(r.Width, r.Height) }

// LongAxis returns the center line of the rectangle along its longer side.
// The direction of the returned line is arbitrary; decoders establish the
// reading direction from the content.
func (r RotatedRect) LongAxis() Line {
	angle := r.Angle()
	half := r.Width / 2
	if r.Height > r.Width {
		angle += math.Pi / 2
		half = r.Height / 2
	}
	d := Unit(angle).Scale(half)
	return Line{Start: r.Center.Sub(d), End: r.Center.Add(d)}
}

// NormalizeAngle maps an angle into [-π, π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// QuarterTurns quantizes an angle to the nearest multiple of 90° and returns
// it as a clockwise quarter-turn count in 0..3.
func QuarterTurns(a float64) int {
	q := int(math.Round(a/(math.Pi/2))) % 4
	if q < 0 {
		q += 4
	}
	return q
}
